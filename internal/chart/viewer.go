package chart

import (
	"fmt"

	"github.com/pkg/browser"
)

// Viewer opens a rendered chart.
type Viewer interface {
	Open(path string) error
}

// BrowserViewer opens files in the system's default browser.
type BrowserViewer struct{}

func (BrowserViewer) Open(path string) error {
	if err := browser.OpenFile(path); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return nil
}

// NoopViewer leaves the file where it is.
type NoopViewer struct{}

func (NoopViewer) Open(string) error { return nil }
