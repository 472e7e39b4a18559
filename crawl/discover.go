// Package crawl discovers the ordered set of documents that make up a book.
// Starting at the root document it follows internal references breadth
// first, unless an explicit document list is configured.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gaurav-prasanna/docpress/core"
	"github.com/gaurav-prasanna/docpress/core/doctree"
	"github.com/gaurav-prasanna/docpress/core/fetch"
)

// MaxDocuments bounds a link crawl.
const MaxDocuments = 1000

// DiscoverAll fetches and parses every document of the book. The root
// document always comes first. With an explicit list the documents follow in
// list order and a missing one is an error; otherwise documents are found by
// following internal links and unreadable link targets are skipped.
func DiscoverAll(ctx context.Context, rootDoc string, explicit []string, fetcher core.Fetcher, parser core.Parser) ([]*core.Document, error) {
	root, err := fetch.CleanName(rootDoc)
	if err != nil {
		return nil, fmt.Errorf("root document: %w", err)
	}

	if len(explicit) > 0 {
		return discoverFromList(ctx, root, explicit, fetcher, parser)
	}
	return discoverFromLinks(ctx, root, fetcher, parser)
}

func discoverFromList(ctx context.Context, root string, names []string, fetcher core.Fetcher, parser core.Parser) ([]*core.Document, error) {
	queue := NewQueue()
	queue.Add(root, "")
	for _, name := range names {
		clean, err := fetch.CleanName(name)
		if err != nil {
			return nil, err
		}
		queue.Add(clean, "")
	}

	var docs []*core.Document
	for queue.HasNext() {
		doc, err := load(ctx, queue.Next(), fetcher, parser)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// discoverFromLinks performs a BFS over internal references.
func discoverFromLinks(ctx context.Context, root string, fetcher core.Fetcher, parser core.Parser) ([]*core.Document, error) {
	queue := NewQueue()
	queue.Add(root, "")

	var docs []*core.Document
	for queue.HasNext() && len(docs) < MaxDocuments {
		name := queue.Next()

		doc, err := load(ctx, name, fetcher, parser)
		switch {
		case err == nil:
		case name == root, ctx.Err() != nil:
			return nil, err
		case errors.Is(err, fetch.ErrDocumentNotFound):
			slog.Warn("Skipping missing document", "document", name, "linked_from", queue.Referrer(name))
			continue
		default:
			return nil, err
		}
		docs = append(docs, doc)

		for _, ref := range doctree.FindAll(doc.Tree, doctree.KindReference) {
			if target, ok := LinkTarget(name, ref.Attr(doctree.AttrURI)); ok {
				queue.Add(target, name)
			}
		}
	}

	if queue.HasNext() {
		slog.Warn("Document limit reached, remaining links ignored", "limit", MaxDocuments)
	}
	return docs, nil
}

func load(ctx context.Context, name string, fetcher core.Fetcher, parser core.Parser) (*core.Document, error) {
	src, err := fetcher.Fetch(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", name, err)
	}
	doc, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	slog.Debug("Loaded document", "document", doc.Name, "title", doc.Title)
	return doc, nil
}
