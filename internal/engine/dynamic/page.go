package dynamic

import (
	"context"

	"github.com/law-makers/pagesift/internal/rules"
)

// Page is the browser tab the driver operates on. Every method blocks until
// the browser answers or ctx is done.
type Page interface {
	// Navigate loads url and waits until the document body is ready
	Navigate(ctx context.Context, url string) error

	// WaitReady waits until the current document body is ready
	WaitReady(ctx context.Context) error

	// URL returns the current location
	URL(ctx context.Context) (string, error)

	// RemoveNoise deletes elements matching any selector and returns how
	// many were removed. Invalid selectors are ignored.
	RemoveNoise(ctx context.Context, selectors []string) (int, error)

	// Count returns how many elements match sel
	Count(ctx context.Context, sel rules.Selector) (int, error)

	// Visible reports whether the first element matching sel is rendered
	Visible(ctx context.Context, sel rules.Selector) (bool, error)

	// Click clicks the index-th element matching sel
	Click(ctx context.Context, sel rules.Selector, index int) error

	// ScrollHeight returns document.body.scrollHeight
	ScrollHeight(ctx context.Context) (int64, error)

	// ScrollToBottom scrolls the window to the end of the document
	ScrollToBottom(ctx context.Context) error

	// HTML returns the serialized document
	HTML(ctx context.Context) (string, error)
}

// Launcher opens one browser session. The returned func closes it and must
// be called on every path.
type Launcher interface {
	Launch(ctx context.Context, proxy string) (Page, func(), error)
}
