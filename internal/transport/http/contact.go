package http

import (
	"fmt"
	"net/url"
)

// ContactLink builds the one-shot WhatsApp deep link used to reach a host
// about a listing. Fire-and-forget: nothing tracks whether it was opened.
func ContactLink(hostPhone, title string) string {
	message := fmt.Sprintf("Hola, me interesa reservar: %s", title)
	return fmt.Sprintf("https://wa.me/%s?text=%s", hostPhone, url.QueryEscape(message))
}
