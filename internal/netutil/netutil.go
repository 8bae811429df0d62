// Package netutil holds small HTTP helpers shared by the scraping and
// listing clients.
package netutil

import (
	"net/http"
	"os"
	"strings"
)

// BrowserUserAgent is sent on requests to video platforms. Some pages
// serve bot-detection stubs to unknown agents.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ParseNetscapeCookies reads a cookies.txt export. Each data line carries
// seven tab-separated fields with name and value in the last two; comments
// and malformed lines are skipped.
func ParseNetscapeCookies(path string) ([]*http.Cookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cookies []*http.Cookie
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 7 {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: parts[5], Value: parts[6]})
	}
	return cookies, nil
}
