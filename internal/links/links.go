// Package links builds the outbound map, phone and email links shown on an
// item page.
package links

import (
	"net/url"
	"strconv"
	"strings"
)

// MapURL links to a map of location. A "lat, lng" pair opens the
// coordinates directly; anything else becomes a place search.
func MapURL(location string) string {
	if lat, lng, ok := coordinates(location); ok {
		return "https://maps.google.com/?q=" + lat + "," + lng
	}
	return "https://maps.google.com/maps?q=" + encodeComponent(location)
}

func coordinates(location string) (lat, lng string, ok bool) {
	a, b, found := strings.Cut(location, ",")
	if !found {
		return "", "", false
	}
	lat, lng = strings.TrimSpace(a), strings.TrimSpace(b)
	if _, err := strconv.ParseFloat(lat, 64); err != nil {
		return "", "", false
	}
	if _, err := strconv.ParseFloat(lng, 64); err != nil {
		return "", "", false
	}
	return lat, lng, true
}

// encodeComponent percent-encodes s with %20 for spaces.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Tel is a tel: link for phone.
func Tel(phone string) string {
	return "tel:" + strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
}

// Mailto is a mailto: link for email.
func Mailto(email string) string {
	return (&url.URL{Scheme: "mailto", Opaque: strings.TrimSpace(email)}).String()
}
