package notify

import (
	"fmt"
	"html"
	"strings"

	"wgwatcher/helpers"
	"wgwatcher/internal/scraper"
)

// maxSectionRunes caps each description section before HTML escaping
const maxSectionRunes = 2000

// BuildMessage renders listing details as a Telegram HTML message. Absent
// fields are skipped entirely; the listing link is always present so a
// listing whose detail page failed to parse still reaches the subscriber.
func BuildMessage(d scraper.ListingDetails) string {
	var lines []string

	if d.Title != "" {
		lines = append(lines, fmt.Sprintf("<b>%s</b>", html.EscapeString(d.Title)))
	}

	var dims []string
	if d.Price != "" {
		dims = append(dims, html.EscapeString(d.Price)+" €")
	}
	if d.Size != "" {
		dims = append(dims, html.EscapeString(d.Size)+" m²")
	}
	if len(dims) > 0 {
		lines = append(lines, strings.Join(dims, " | "))
	}

	if d.Address != "" {
		lines = append(lines, "Adresse: "+html.EscapeString(d.Address))
	}
	if d.AvailableFrom != "" {
		lines = append(lines, "Frei ab: "+html.EscapeString(d.AvailableFrom))
	}
	if d.OnlineSince != "" {
		lines = append(lines, "Online: "+html.EscapeString(d.OnlineSince))
	}

	lines = append(lines, fmt.Sprintf("<a href='%s'>Zur Anzeige</a>", html.EscapeString(d.URL)))

	for _, name := range scraper.SectionTitles {
		text := d.Sections[name]
		if text == "" {
			continue
		}
		lines = append(lines,
			"",
			fmt.Sprintf("<b>%s</b>", name),
			html.EscapeString(helpers.Truncate(text, maxSectionRunes)),
		)
	}

	return strings.Join(lines, "\n")
}
