package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ID patterns, from most to least specific. The raw-text patterns require at
// least six digits to keep incidental numbers out; attribute values are more
// trustworthy, so five digits suffice there.
var (
	absoluteIDRe = regexp.MustCompile(`https?://www\.wg-gesucht\.de/(\d{6,})\.html`)
	relativeIDRe = regexp.MustCompile(`/(\d{6,})\.html`)
	hrefIDRe     = regexp.MustCompile(`/(\d{5,})\.html`)
	pureIDRe     = regexp.MustCompile(`^\d{5,}$`)
	elementIDRe  = regexp.MustCompile(`liste-details-ad-(\d{5,})`)
)

// refList accumulates listing refs, deduplicating by id while preserving
// first-seen order. Later strategies only add ids, never overwrite.
type refList struct {
	refs []ListingRef
	seen map[string]struct{}
}

func newRefList() *refList {
	return &refList{seen: make(map[string]struct{})}
}

func (r *refList) add(id, url string) {
	if _, ok := r.seen[id]; ok {
		return
	}
	r.seen[id] = struct{}{}
	r.refs = append(r.refs, ListingRef{ID: id, URL: url})
}

// ExtractListingRefs finds listing ids and links in a search-results page
// using several independent strategies, so a markup change on the site does
// not silently drop everything. It never fails: when the markup cannot be
// parsed as a DOM, the raw-text results still stand.
func ExtractListingRefs(htmlText string) []ListingRef {
	acc := newRefList()

	for _, m := range absoluteIDRe.FindAllStringSubmatch(htmlText, -1) {
		acc.add(m[1], ListingURL(m[1]))
	}
	for _, m := range relativeIDRe.FindAllStringSubmatch(htmlText, -1) {
		acc.add(m[1], ListingURL(m[1]))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return acc.refs
	}

	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			href = a.AttrOr("data-href", "")
		}
		if href == "" {
			return
		}
		m := hrefIDRe.FindStringSubmatch(href)
		if m == nil {
			return
		}
		link := ListingURL(m[1])
		if strings.HasPrefix(href, "http") {
			link = href
		}
		acc.add(m[1], link)
	})

	doc.Find("[data-id]").Each(func(_ int, el *goquery.Selection) {
		id := strings.TrimSpace(el.AttrOr("data-id", ""))
		if pureIDRe.MatchString(id) {
			acc.add(id, ListingURL(id))
		}
	})
	doc.Find("[data-ad_id]").Each(func(_ int, el *goquery.Selection) {
		id := strings.TrimSpace(el.AttrOr("data-ad_id", ""))
		if pureIDRe.MatchString(id) {
			acc.add(id, ListingURL(id))
		}
	})

	doc.Find("[id]").Each(func(_ int, el *goquery.Selection) {
		if m := elementIDRe.FindStringSubmatch(el.AttrOr("id", "")); m != nil {
			acc.add(m[1], ListingURL(m[1]))
		}
	})

	return acc.refs
}
