package utils

import "github.com/microcosm-cc/bluemonday"

var ugcPolicy = bluemonday.UGCPolicy()

// SanitizeHTML strips scripts, event handlers and other unsafe markup from
// admin-authored rich text while keeping formatting tags and links.
func SanitizeHTML(s string) string {
	return ugcPolicy.Sanitize(s)
}

// SanitizeHTMLPtr sanitises *s in place when s is non-nil.
func SanitizeHTMLPtr(s *string) {
	if s != nil {
		*s = SanitizeHTML(*s)
	}
}
