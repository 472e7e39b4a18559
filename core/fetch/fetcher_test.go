package fetch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/docpress/core"
)

func TestFetch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "guide"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.md"), []byte("# Home\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guide", "legacy.html"), []byte("<p>old</p>"), 0644))

	f := New(dir)

	src, err := f.Fetch(context.Background(), "index")
	require.NoError(t, err)
	assert.Equal(t, "index", src.Name)
	assert.Equal(t, core.FormatMarkdown, src.Format)
	assert.Equal(t, "# Home\n", string(src.Content))

	src, err = f.Fetch(context.Background(), "guide/legacy.html")
	require.NoError(t, err)
	assert.Equal(t, "guide/legacy", src.Name)
	assert.Equal(t, core.FormatHTML, src.Format)

	_, err = f.Fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestFetch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(t.TempDir()).Fetch(ctx, "index")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "index", want: "index"},
		{in: "./guide/setup.md", want: "guide/setup"},
		{in: "guide//intro.html", want: "guide/intro"},
		{in: "../secret", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := CleanName(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
