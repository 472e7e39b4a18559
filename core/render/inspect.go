package render

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// Artifact summarizes a produced PDF.
type Artifact struct {
	Path  string
	Size  int64
	Pages int
}

// Inspect opens the PDF at path and counts its pages.
func Inspect(path string) (Artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Artifact{}, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	return Artifact{Path: path, Size: info.Size(), Pages: r.NumPage()}, nil
}
