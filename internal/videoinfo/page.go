package videoinfo

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
)

// reJSONTitle is the last-ditch title source on both platforms; the
// player configs embed the title as a bare JSON field.
var reJSONTitle = regexp.MustCompile(`"title":\s*"([^"]+)"`)

func parseDoc(page string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil
	}
	return doc
}

func metaContent(doc *goquery.Document, selector string) string {
	if doc == nil {
		return ""
	}
	value, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(value)
}

func selectionText(doc *goquery.Document, selector string) string {
	if doc == nil {
		return ""
	}
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

func regexGroup(re *regexp.Regexp, page string) string {
	m := re.FindStringSubmatch(page)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func openGraphTitle(page string) string {
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(page)); err != nil {
		return ""
	}
	return strings.TrimSpace(og.Title)
}
