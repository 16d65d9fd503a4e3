// Package share builds outbound share links for a preformatted bill message.
//
// The core only constructs the link; opening it and any delivery outcome are
// the caller's business.
package share

import (
	"net/url"
	"strings"
)

// WhatsAppLink builds a wa.me link that opens a chat with the given phone
// number and the message text pre-filled. The phone number must include the
// country code; any non-digit characters are stripped.
func WhatsAppLink(phone, text string) string {
	u := url.URL{
		Scheme:   "https",
		Host:     "wa.me",
		Path:     "/" + digitsOnly(phone),
		RawQuery: "text=" + url.QueryEscape(text),
	}
	return u.String()
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
