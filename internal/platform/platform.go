package platform

import (
	"context"
	"time"
)

// Element is a handle to one DOM node matched by a test ID.
type Element interface {
	// TagName returns the lowercase tag name.
	TagName(ctx context.Context) (string, error)

	// Attribute returns the attribute value and whether it is present.
	Attribute(ctx context.Context, name string) (string, bool, error)

	// Visible reports whether the node is rendered: its computed display is
	// not "none" and its computed visibility is not "hidden".
	Visible(ctx context.Context) (bool, error)

	// Text returns the node's text content.
	Text(ctx context.Context) (string, error)
}

// DOM queries a rendered document.
type DOM interface {
	// FindByTestID returns every node carrying the test ID, in document order.
	FindByTestID(ctx context.Context, testID string) ([]Element, error)

	// HasLabelFor reports whether a <label for="id"> exists.
	HasLabelFor(ctx context.Context, id string) (bool, error)
}

// Waiter blocks until a page reaches a readiness condition.
type Waiter interface {
	WaitForNetworkIdle(ctx context.Context, timeout time.Duration) error
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error
	WaitForDOMContentLoaded(ctx context.Context, timeout time.Duration) error
}

// Screenshotter captures screenshots.
type Screenshotter interface {
	// Capture returns a PNG screenshot of the current page.
	Capture(ctx context.Context, opts ScreenshotOptions) ([]byte, error)
}
