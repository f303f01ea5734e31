package browser

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/Stefan/ppm-saas-sub008/internal/platform"
)

// Load states accepted by driver.waitForLoadState.
const (
	loadNetworkIdle      = "networkidle"
	loadDOMContentLoaded = "domcontentloaded"
)

// Expressions evaluated against a located element.
const (
	jsTagName      = `el => el.tagName.toLowerCase()`
	jsGetAttribute = `(el, name) => el.getAttribute(name)`
	jsVisible      = `el => { const s = window.getComputedStyle(el); return s.display !== 'none' && s.visibility !== 'hidden'; }`
)

// driver is the slice of a browser page the adapter needs. Elements are
// addressed by selector plus match index.
type driver interface {
	count(selector string) (int, error)
	evaluate(selector string, index int, expression string, arg any) (any, error)
	textContent(selector string, index int) (string, error)
	waitForLoadState(state string, timeout time.Duration) error
	waitForSelector(selector string, timeout time.Duration) error
	screenshot(opts platform.ScreenshotOptions) ([]byte, error)
}

// pageDriver drives a live playwright page.
type pageDriver struct {
	page playwright.Page
}

func (d *pageDriver) count(selector string) (int, error) {
	return d.page.Locator(selector).Count()
}

func (d *pageDriver) evaluate(selector string, index int, expression string, arg any) (any, error) {
	return d.page.Locator(selector).Nth(index).Evaluate(expression, arg)
}

func (d *pageDriver) textContent(selector string, index int) (string, error) {
	return d.page.Locator(selector).Nth(index).TextContent()
}

func (d *pageDriver) waitForLoadState(state string, timeout time.Duration) error {
	opts := playwright.PageWaitForLoadStateOptions{Timeout: millis(timeout)}
	switch state {
	case loadNetworkIdle:
		opts.State = playwright.LoadStateNetworkidle
	case loadDOMContentLoaded:
		opts.State = playwright.LoadStateDomcontentloaded
	default:
		return fmt.Errorf("unknown load state %q", state)
	}
	return wrapTimeout(d.page.WaitForLoadState(opts))
}

func (d *pageDriver) waitForSelector(selector string, timeout time.Duration) error {
	err := d.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: millis(timeout),
	})
	return wrapTimeout(err)
}

func (d *pageDriver) screenshot(opts platform.ScreenshotOptions) ([]byte, error) {
	masks := make([]playwright.Locator, 0, len(opts.MaskSelectors))
	for _, sel := range opts.MaskSelectors {
		masks = append(masks, d.page.Locator(sel))
	}
	return d.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(opts.FullPage),
		Mask:     masks,
	})
}

func millis(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

// wrapTimeout maps playwright timeouts onto platform.ErrTimeout.
func wrapTimeout(err error) error {
	if err != nil && errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %v", platform.ErrTimeout, err)
	}
	return err
}
