package scraper

import "fmt"

// BaseURL is the root under which canonical listing links live
const BaseURL = "https://www.wg-gesucht.de"

// ListingURL returns the canonical detail-page URL for a listing id
func ListingURL(id string) string {
	return fmt.Sprintf("%s/%s.html", BaseURL, id)
}

// SectionTitles are the recognized detail-page description sections, in
// display order.
var SectionTitles = []string{"Zimmer", "Lage", "WG-Leben", "Sonstiges"}

// ListingRef points at one discovered listing
type ListingRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ListingDetails holds the fields extracted from a listing's detail page.
// Empty strings mean the field was absent on the page; URL is always set.
type ListingDetails struct {
	Title         string            `json:"title,omitempty"`
	Price         string            `json:"price,omitempty"`
	Size          string            `json:"size,omitempty"`
	Address       string            `json:"address,omitempty"`
	AvailableFrom string            `json:"available_from,omitempty"`
	OnlineSince   string            `json:"online_since,omitempty"`
	Sections      map[string]string `json:"sections,omitempty"`
	URL           string            `json:"url"`
}

// Fetcher retrieves the body of a page
type Fetcher interface {
	Fetch(url string) (string, error)
}
