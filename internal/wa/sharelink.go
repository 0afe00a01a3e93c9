package wa

import "net/url"

// ShareLink builds a wa.me link that opens a chat with the message
// prefilled. phone should already be normalized to digits; when it is empty
// the link opens the share dialog without a target chat.
func ShareLink(phone, text string) string {
	link := "https://wa.me/" + phone
	if text != "" {
		link += "?text=" + url.QueryEscape(text)
	}
	return link
}
