package render

import (
	"github.com/lysyi3m/thinkers-table/app/signup"
)

const (
	signupIframeSelector    = "#beehiiv-iframe"
	alternativeFormSelector = "#alternative-form"
	debugInfoSelector       = "#debug-info"
)

// ApplySignup picks between the embedded signup iframe and the alternative
// form. An unknown status leaves the page as authored unless the iframe is
// missing altogether.
func ApplySignup(page Page, status signup.Status) {
	if status == signup.StatusUnknown && page.Exists(signupIframeSelector) {
		return
	}

	if status == signup.StatusAvailable && page.Exists(signupIframeSelector) {
		page.SetAttr(debugInfoSelector, "style", "display: none;")
		return
	}

	page.SetAttr(signupIframeSelector, "style", "display: none;")
	page.SetAttr(alternativeFormSelector, "style", "display: block;")
	page.SetAttr(debugInfoSelector, "style", "display: none;")
}
