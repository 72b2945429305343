package main

import (
	"errors"

	"github.com/sqweek/dialog"

	"github.com/Faultbox/mappingtool/internal/assets"
	"github.com/Faultbox/mappingtool/internal/editor"
)

// pickModel shows a native file dialog for the importable formats. It
// blocks the frame loop while open, which keeps every window call on the
// main thread.
func pickModel() (string, error) {
	b := dialog.File().Title("Open Model")
	for _, ext := range assets.Default.Extensions() {
		b = b.Filter(ext+" model", ext)
	}
	path, err := b.Filter("All Files", "*").Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", editor.ErrNoModelSelected
	}
	return path, err
}
