package videoinfo

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	reBilibiliUploader = regexp.MustCompile(`"uploader":\s*\{\s*"name":\s*"([^"]+)"`)
	reBilibiliOwner    = regexp.MustCompile(`"owner":\s*\{[^}]*"name":\s*"([^"]+)"`)
	reBilibiliPubdate  = regexp.MustCompile(`"pubdate":\s*(\d+)`)
	reBilibiliCtime    = regexp.MustCompile(`"ctime":\s*(\d+)`)
	reRawTimestamp     = regexp.MustCompile(`\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}`)
	reCJKDate          = regexp.MustCompile(`\d{4}年\d{1,2}月\d{1,2}日`)

	// Stops at the first `};`, which covers the leading videoData
	// fields we read.
	reInitialState = regexp.MustCompile(`(?s)__INITIAL_STATE__\s*=\s*(\{.*?\});`)
)

// bilibiliState is the slice of window.__INITIAL_STATE__ the extractors
// fall back to when the static page carries no usable markup.
type bilibiliState struct {
	VideoData struct {
		Pubdate int64 `json:"pubdate"`
		Owner   struct {
			Name string `json:"name"`
		} `json:"owner"`
	} `json:"videoData"`
}

func extractBilibili(page string, info *Info) {
	doc := parseDoc(page)
	state := parseBilibiliState(page)

	if author := bilibiliAuthor(doc, page, state); author != "" {
		info.Author = author
	}
	if date := bilibiliDate(doc, page, state); date != "" {
		info.UploadDate = date
	}
	info.Title = bilibiliTitle(doc, page)
}

func parseBilibiliState(page string) *bilibiliState {
	m := reInitialState.FindStringSubmatch(page)
	if len(m) < 2 {
		return nil
	}
	var state bilibiliState
	if err := json.Unmarshal([]byte(m[1]), &state); err != nil {
		return nil
	}
	return &state
}

func bilibiliAuthor(doc *goquery.Document, page string, state *bilibiliState) string {
	if v := metaContent(doc, `meta[name="author"]`); v != "" {
		return v
	}
	if v := regexGroup(reBilibiliUploader, page); v != "" {
		return v
	}
	if v := regexGroup(reBilibiliOwner, page); v != "" {
		return v
	}
	if v := selectionText(doc, ".up-name"); v != "" {
		return v
	}
	if v := selectionText(doc, ".username"); v != "" {
		return v
	}
	if state != nil {
		return strings.TrimSpace(state.VideoData.Owner.Name)
	}
	return ""
}

func bilibiliDate(doc *goquery.Document, page string, state *bilibiliState) string {
	if v := unixTimestamp(reBilibiliPubdate, page); v != "" {
		return v
	}
	if v := unixTimestamp(reBilibiliCtime, page); v != "" {
		return v
	}
	// Both spellings ship in the wild.
	if v := selectionText(doc, ".pubdate-text"); v != "" {
		return v
	}
	if v := selectionText(doc, ".pudate-text"); v != "" {
		return v
	}
	if v := reRawTimestamp.FindString(page); v != "" {
		return v
	}
	if v := reCJKDate.FindString(page); v != "" {
		return v
	}
	if state != nil && state.VideoData.Pubdate > 0 {
		return time.Unix(state.VideoData.Pubdate, 0).Format(timestampLayout)
	}
	return ""
}

func bilibiliTitle(doc *goquery.Document, page string) string {
	title := selectionText(doc, "title")
	if title == "" {
		title = openGraphTitle(page)
	}
	if title == "" {
		title = regexGroup(reJSONTitle, page)
	}
	title = strings.TrimSuffix(title, "_哔哩哔哩_bilibili")
	title = strings.TrimSuffix(title, "-哔哩哔哩")
	return strings.TrimSpace(title)
}

func unixTimestamp(re *regexp.Regexp, page string) string {
	m := re.FindStringSubmatch(page)
	if len(m) < 2 {
		return ""
	}
	ts, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || ts <= 0 {
		return ""
	}
	return time.Unix(ts, 0).Format(timestampLayout)
}
