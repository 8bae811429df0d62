package videoinfo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"v2t/internal/logging"
	"v2t/internal/netutil"
)

const (
	fetchTimeout = 30 * time.Second
	maxRedirects = 5
	maxPageBytes = 8 << 20
)

func defaultClient() *http.Client {
	return &http.Client{
		Timeout: fetchTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

func (g *Getter) httpClient() *http.Client {
	if g.Client != nil {
		return g.Client
	}
	return defaultClient()
}

func (g *Getter) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", netutil.BrowserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")

	if g.CookieFile != "" {
		cookies, err := netutil.ParseNetscapeCookies(g.CookieFile)
		if err != nil {
			g.logger().Warn("cookie file unreadable, continuing without cookies",
				logging.String("path", g.CookieFile),
				logging.Error(err))
		}
		for _, cookie := range cookies {
			req.AddCookie(cookie)
		}
	}

	resp, err := g.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
