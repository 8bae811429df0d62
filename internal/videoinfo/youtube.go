package videoinfo

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	reYouTubeAuthor       = regexp.MustCompile(`"author":\s*"([^"]+)"`)
	reYouTubeOwnerChannel = regexp.MustCompile(`"ownerChannelName":\s*"([^"]+)"`)
	reYouTubeChannelName  = regexp.MustCompile(`"channelName":\s*"([^"]+)"`)
	reYouTubePersonName   = regexp.MustCompile(`"name":\s*"([^"]+)"[^}]*"@type":\s*"Person"`)
	reYouTubeOwnerRuns    = regexp.MustCompile(`"videoOwnerRenderer"[^}]*"title"[^}]*"runs"[^}]*"text":\s*"([^"]+)"`)
	reYouTubeUploadDate   = regexp.MustCompile(`"uploadDate":\s*"([^"]+)"`)
	reYouTubePublishDate  = regexp.MustCompile(`"publishDate":\s*"([^"]+)"`)
	reYouTubeDateText     = regexp.MustCompile(`"dateText"[^}]*"simpleText":\s*"([^"]+)"`)
	reYouTubeTitleSuffix  = regexp.MustCompile(`\s*-\s*YouTube$`)
)

func extractYouTube(page string, info *Info) {
	doc := parseDoc(page)

	if author := youtubeAuthor(doc, page); author != "" {
		info.Author = author
	}
	if date := youtubeDate(doc, page); date != "" {
		info.UploadDate = date
	}
	info.Title = youtubeTitle(doc, page)
}

func youtubeAuthor(doc *goquery.Document, page string) string {
	if v := regexGroup(reYouTubeAuthor, page); v != "" {
		return v
	}
	if v := regexGroup(reYouTubeOwnerChannel, page); v != "" {
		return v
	}
	if v := regexGroup(reYouTubeChannelName, page); v != "" {
		return v
	}
	if doc != nil {
		if v, ok := doc.Find(`link[itemprop="name"]`).First().Attr("content"); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	if v := regexGroup(reYouTubePersonName, page); v != "" {
		return v
	}
	return regexGroup(reYouTubeOwnerRuns, page)
}

func youtubeDate(doc *goquery.Document, page string) string {
	if v := regexGroup(reYouTubeUploadDate, page); v != "" {
		return formatISODate(v)
	}
	if v := regexGroup(reYouTubePublishDate, page); v != "" {
		return formatISODate(v)
	}
	// Rendered date text, e.g. "Jan 15, 2024"; kept verbatim.
	if v := regexGroup(reYouTubeDateText, page); v != "" {
		return v
	}
	if v := metaContent(doc, `meta[itemprop="uploadDate"]`); v != "" {
		return formatISODate(v)
	}
	if v := metaContent(doc, `meta[itemprop="datePublished"]`); v != "" {
		return formatISODate(v)
	}
	return ""
}

func youtubeTitle(doc *goquery.Document, page string) string {
	title := openGraphTitle(page)
	if title == "" {
		title = selectionText(doc, "title")
	}
	if title == "" {
		title = regexGroup(reJSONTitle, page)
	}
	return strings.TrimSpace(reYouTubeTitleSuffix.ReplaceAllString(title, ""))
}

// formatISODate reduces an ISO 8601 timestamp to its date part. Values
// that are not timestamps pass through unchanged.
func formatISODate(raw string) string {
	if !strings.Contains(raw, "T") {
		return raw
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(dateLayout)
		}
	}
	return raw
}
