package platform

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTestIDAttribute is the DOM attribute that carries test IDs.
const DefaultTestIDAttribute = "data-testid"

// Target kinds understood by Open.
const (
	KindHTML    = "html"
	KindBrowser = "browser"
)

// WaitOptions controls how long verification waits for dynamic content.
// Every stage has its own timeout; a zero timeout skips that stage.
type WaitOptions struct {
	NetworkIdle        bool          // Wait for the network to go idle first
	NetworkIdleTimeout time.Duration // Budget for the network-idle stage
	Selector           string        // Optional selector that must be attached
	SelectorTimeout    time.Duration // Budget for the selector stage
	DOMTimeout         time.Duration // Budget for the DOMContentLoaded stage
	GracePeriod        time.Duration // Fixed delay for client-side hydration
}

// DefaultWaitOptions returns the wait budgets used when none are configured.
func DefaultWaitOptions() WaitOptions {
	return WaitOptions{
		NetworkIdle:        true,
		NetworkIdleTimeout: 10 * time.Second,
		SelectorTimeout:    10 * time.Second,
		DOMTimeout:         5 * time.Second,
		GracePeriod:        500 * time.Millisecond,
	}
}

// ScreenshotOptions configures what to capture.
type ScreenshotOptions struct {
	FullPage      bool     // Capture the full scrollable page
	MaskSelectors []string // Regions painted over before capture
}

// OpenOptions configures a provider opened by Open.
type OpenOptions struct {
	TestIDAttribute string        // Attribute used for test IDs (default data-testid)
	Headless        bool          // Browser only: run without a window
	NavigateTimeout time.Duration // Browser only: budget for the initial navigation
}

// TestIDSelector returns a CSS attribute selector matching id.
func TestIDSelector(attr, id string) string {
	if attr == "" {
		attr = DefaultTestIDAttribute
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(id)
	return fmt.Sprintf(`[%s="%s"]`, attr, escaped)
}

// TargetKind classifies a verification target: http(s) URLs need a
// browser, everything else is treated as an HTML file path.
func TargetKind(target string) string {
	lower := strings.ToLower(target)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return KindBrowser
	}
	return KindHTML
}
