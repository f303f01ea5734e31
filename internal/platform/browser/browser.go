// Package browser implements the platform capabilities on a live Chromium
// page driven by playwright.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"

	"github.com/Stefan/ppm-saas-sub008/internal/platform"
)

func init() {
	platform.Register(platform.KindBrowser, open)
}

// Page adapts one browser page to platform.DOM, platform.Waiter and
// platform.Screenshotter.
type Page struct {
	drv  driver
	attr string
}

func newPage(drv driver, attr string) *Page {
	if attr == "" {
		attr = platform.DefaultTestIDAttribute
	}
	return &Page{drv: drv, attr: attr}
}

// FindByTestID returns one handle per element carrying testID.
func (p *Page) FindByTestID(ctx context.Context, testID string) ([]platform.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sel := platform.TestIDSelector(p.attr, testID)
	n, err := p.drv.count(sel)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", sel, err)
	}
	elements := make([]platform.Element, n)
	for i := range elements {
		elements[i] = &element{drv: p.drv, selector: sel, index: i}
	}
	return elements, nil
}

// HasLabelFor reports whether a <label for="id"> exists.
func (p *Page) HasLabelFor(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	n, err := p.drv.count(`label[for="` + strings.ReplaceAll(id, `"`, `\"`) + `"]`)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// WaitForNetworkIdle blocks until the page has had no network activity for
// 500ms or timeout elapses.
func (p *Page) WaitForNetworkIdle(ctx context.Context, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.drv.waitForLoadState(loadNetworkIdle, timeout)
}

// WaitForSelector blocks until an element matching selector is attached.
func (p *Page) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.drv.waitForSelector(selector, timeout)
}

// WaitForDOMContentLoaded blocks until the DOMContentLoaded event has fired.
func (p *Page) WaitForDOMContentLoaded(ctx context.Context, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.drv.waitForLoadState(loadDOMContentLoaded, timeout)
}

// Capture returns a PNG screenshot with the mask selectors painted over.
func (p *Page) Capture(ctx context.Context, opts platform.ScreenshotOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.drv.screenshot(opts)
}

type element struct {
	drv      driver
	selector string
	index    int
}

func (e *element) TagName(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, err := e.drv.evaluate(e.selector, e.index, jsTagName, nil)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

func (e *element) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	v, err := e.drv.evaluate(e.selector, e.index, jsGetAttribute, name)
	if err != nil {
		return "", false, err
	}
	switch val := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return val, true, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true, nil
	default:
		return fmt.Sprint(val), true, nil
	}
}

func (e *element) Visible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	v, err := e.drv.evaluate(e.selector, e.index, jsVisible, nil)
	if err != nil {
		return false, err
	}
	visible, _ := v.(bool)
	return visible, nil
}

func (e *element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.drv.textContent(e.selector, e.index)
}

// Session owns a playwright process, a browser and one page.
type Session struct {
	*Page
	pw      *playwright.Playwright
	browser playwright.Browser
}

// Launch starts Chromium and opens a blank page.
func Launch(opts platform.OpenOptions) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	bctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: 1280, Height: 720},
	})
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return &Session{
		Page:    newPage(&pageDriver{page: page}, opts.TestIDAttribute),
		pw:      pw,
		browser: b,
	}, nil
}

// Navigate loads url and returns once the DOM is parsed.
func (s *Session) Navigate(url string, timeout time.Duration) error {
	pd, ok := s.drv.(*pageDriver)
	if !ok {
		return errors.New("session has no live page")
	}
	_, err := pd.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   millis(timeout),
	})
	return wrapTimeout(err)
}

// Close shuts down the browser and the playwright driver.
func (s *Session) Close() error {
	var errs []error
	if s.browser != nil {
		errs = append(errs, s.browser.Close())
	}
	if s.pw != nil {
		errs = append(errs, s.pw.Stop())
	}
	return errors.Join(errs...)
}

func open(ctx context.Context, target string, opts platform.OpenOptions) (*platform.Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := Launch(opts)
	if err != nil {
		return nil, err
	}
	timeout := opts.NavigateTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if err := s.Navigate(target, timeout); err != nil {
		if cerr := s.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("closing browser after failed navigation")
		}
		return nil, fmt.Errorf("navigate to %s: %w", target, err)
	}
	return platform.NewProvider(s, s, s, s.Close), nil
}
