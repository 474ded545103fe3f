package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"

	"wgwatcher/helpers"
)

// Label synonyms the site uses for the fields of interest. Term matching is
// case-folded; dt terms match on contains, generic label elements on
// equals/starts-with.
var (
	priceLabels = []string{
		"miete",
		"gesamtmiete",
		"warmmiete",
		"kaltmiete",
		"miete pro monat",
		"miete/monat",
		"miete monatlich",
	}
	sizeLabels          = []string{"größe", "zimmergröße", "fläche", "wohnfläche", "m²"}
	availableFromLabels = []string{"frei ab", "Einzugsdatum", "Bezug ab"}
	onlineSinceLabels   = []string{"Online", "Online seit"}

	priceLabelsCf         = foldAll(priceLabels)
	sizeLabelsCf          = foldAll(sizeLabels)
	availableFromLabelsCf = foldAll(availableFromLabels)
	onlineSinceLabelsCf   = foldAll(onlineSinceLabels)
)

var (
	priceValueRe = regexp.MustCompile(`(\d{1,4})(?:[.,]\d{1,2})?\s*€`)
	sizeValueRe  = regexp.MustCompile(`(\d{1,3})\s*m²`)

	// Meta descriptions carrying section boilerplate instead of an address
	boilerplateRe = regexp.MustCompile(`\b(Zimmer|Lage|WG-Leben|Sonstiges)\b`)
)

const maxAddressRunes = 200

// fold lower-cases with full Unicode case folding so that ß and ss compare
// equal, which plain ToLower misses for words like Größe.
func fold(s string) string {
	return cases.Fold().String(s)
}

func foldAll(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = fold(l)
	}
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// FetchDetails retrieves and parses one listing's detail page. A fetch
// failure degrades to a record with only the URL set.
func FetchDetails(f Fetcher, url string) ListingDetails {
	page, err := f.Fetch(url)
	if err != nil {
		return ListingDetails{URL: url}
	}
	return ParseDetails(page, url)
}

// ParseDetails extracts the structured fields from a detail page. It is
// total over arbitrary input: fields without a match stay empty, and nothing
// here ever returns an error.
func ParseDetails(htmlText, url string) ListingDetails {
	details := ListingDetails{URL: url}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return details
	}

	details.Title = extractTitle(doc)
	details.Price = extractPrice(doc)
	details.Size = extractSize(doc)
	details.Address = extractAddress(doc)
	details.AvailableFrom = extractLabeledValue(doc, availableFromLabelsCf)
	details.OnlineSince = extractLabeledValue(doc, onlineSinceLabelsCf)
	details.Sections = extractSections(doc)

	return details
}

func extractTitle(doc *goquery.Document) string {
	title := helpers.CleanText(doc.Find("h1").First().Text())
	if title == "" {
		title = helpers.CleanText(doc.Find("title").First().Text())
	}
	return title
}

// parsePriceValue pulls the integer part of an amount like "350,50 €" or
// "430€"; the decimal remainder is discarded.
func parsePriceValue(text string) string {
	m := priceValueRe.FindStringSubmatch(helpers.CleanText(text))
	if m == nil {
		return ""
	}
	return m[1]
}

func extractPrice(doc *goquery.Document) string {
	var price string
	doc.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if !containsAny(fold(helpers.CleanText(dt.Text())), priceLabelsCf) {
			return true
		}
		dd := dt.NextAllFiltered("dd").First()
		if dd.Length() == 0 {
			return true
		}
		if val := parsePriceValue(dd.Text()); val != "" {
			price = val
			return false
		}
		return true
	})
	if price != "" {
		return price
	}
	return priceNearLabel(doc)
}

// priceNearLabel scans raw text nodes containing a currency glyph. An amount
// counts only when one of the rent labels appears within the three enclosing
// elements; deposits and unrelated amounts elsewhere on the page have no
// label nearby and are skipped.
func priceNearLabel(doc *goquery.Document) string {
	var price string
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.TextNode && strings.Contains(n.Data, "€") {
			if val := parsePriceValue(n.Data); val != "" {
				var chain []string
				for p, hop := n.Parent, 0; p != nil && hop < 3; p, hop = p.Parent, hop+1 {
					chain = append(chain, nodeText(p))
				}
				if containsAny(fold(helpers.CleanText(strings.Join(chain, " "))), priceLabelsCf) {
					price = val
					return false
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	for _, root := range doc.Nodes {
		if !walk(root) {
			break
		}
	}
	return price
}

func extractSize(doc *goquery.Document) string {
	var size string
	doc.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if !containsAny(fold(helpers.CleanText(dt.Text())), sizeLabelsCf) {
			return true
		}
		dd := dt.NextAllFiltered("dd").First()
		if dd.Length() == 0 {
			return true
		}
		if m := sizeValueRe.FindStringSubmatch(helpers.CleanText(dd.Text())); m != nil {
			size = m[1]
			return false
		}
		return true
	})
	if size != "" {
		return size
	}
	if m := sizeValueRe.FindStringSubmatch(helpers.CleanText(docText(doc))); m != nil {
		return m[1]
	}
	return ""
}

// docText flattens every text node of the document into one space-joined
// string. goquery's Text() concatenates adjacent text nodes with no
// separator, welding digits that live in sibling cells.
func docText(doc *goquery.Document) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}
	return strings.Join(parts, " ")
}

func extractAddress(doc *goquery.Document) string {
	content := doc.Find(`meta[name="description"]`).First().AttrOr("content", "")
	if content == "" {
		return ""
	}
	if boilerplateRe.MatchString(content) {
		return ""
	}
	return helpers.Truncate(content, maxAddressRunes)
}

func extractLabeledValue(doc *goquery.Document, labelsCf []string) string {
	if val := dtValue(doc, labelsCf); val != "" {
		return val
	}
	return labelSiblingValue(doc, labelsCf)
}

// dtValue returns the definition text paired with the first matching term
// that has one. The scan stops at that term even when its definition turns
// out empty.
func dtValue(doc *goquery.Document, labelsCf []string) string {
	var val string
	doc.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if !containsAny(fold(helpers.CleanText(dt.Text())), labelsCf) {
			return true
		}
		dd := dt.NextAllFiltered("dd").First()
		if dd.Length() == 0 {
			return true
		}
		val = helpers.CleanText(dd.Text())
		return false
	})
	return val
}

// labelSiblingValue walks all elements in document order looking for one
// whose text equals or starts with a label, and takes the text of its next
// sibling, else of its parent's next sibling. A match that yields no value
// does not stop the scan.
func labelSiblingValue(doc *goquery.Document, labelsCf []string) string {
	var val string
	doc.Find("*").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		text := fold(helpers.CleanText(el.Text()))
		if !matchesLabel(text, labelsCf) {
			return true
		}
		if sib := el.Next(); sib.Length() > 0 {
			if v := helpers.CleanText(sib.Text()); v != "" {
				val = v
				return false
			}
		}
		if sib := el.Parent().Next(); sib.Length() > 0 {
			if v := helpers.CleanText(sib.Text()); v != "" {
				val = v
				return false
			}
		}
		return true
	})
	return val
}

func matchesLabel(text string, labelsCf []string) bool {
	for _, l := range labelsCf {
		if text == l || strings.HasPrefix(text, l) {
			return true
		}
	}
	return false
}

var headingTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

var contentTags = map[string]bool{
	"p": true, "ul": true, "ol": true, "li": true, "div": true,
}

func canonicalSection(heading string) (string, bool) {
	h := fold(heading)
	for _, t := range SectionTitles {
		if fold(t) == h {
			return t, true
		}
	}
	return "", false
}

// sectionScanner is a two-state machine: idle until a recognized heading
// opens a section, then accumulating content text until the next recognized
// heading flushes it.
type sectionScanner struct {
	sections map[string]string
	current  string
	buf      []string
}

func (sc *sectionScanner) flush() {
	if sc.current != "" && len(sc.buf) > 0 {
		if text := helpers.CleanText(strings.Join(sc.buf, "\n")); text != "" {
			sc.sections[sc.current] = text
		}
	}
	sc.current = ""
	sc.buf = nil
}

func (sc *sectionScanner) visit(el *goquery.Selection) {
	name := goquery.NodeName(el)
	if headingTags[name] {
		if title, ok := canonicalSection(helpers.CleanText(el.Text())); ok {
			sc.flush()
			sc.current = title
			return
		}
	}
	if sc.current == "" || !contentTags[name] {
		return
	}
	if text := helpers.CleanText(el.Text()); text != "" {
		sc.buf = append(sc.buf, text)
	}
}

func extractSections(doc *goquery.Document) map[string]string {
	sc := &sectionScanner{sections: make(map[string]string)}
	doc.Find("*").Each(func(_ int, el *goquery.Selection) {
		sc.visit(el)
	})
	sc.flush()
	return sc.sections
}

// nodeText concatenates every text node under n
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
