package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"v2t/internal/logging"
	"v2t/internal/netutil"
	"v2t/internal/platform"
)

const (
	defaultAPIBaseURL   = "https://api.bilibili.com"
	defaultSpaceBaseURL = "https://space.bilibili.com"

	spacePageSize    = 30
	maxResponseBytes = 4 << 20

	defaultThrottle         = 300 * time.Millisecond
	defaultRateLimitBackoff = 2 * time.Second
)

// BilibiliClient lists a user's uploads through the space API. Requests
// mimic a browser session: the public space page is visited first so the
// API sees the cookies it hands out there, and pages are fetched with a
// small delay to stay under rate control.
type BilibiliClient struct {
	HTTPClient *http.Client
	// APIBaseURL and SpaceBaseURL override the production endpoints.
	APIBaseURL   string
	SpaceBaseURL string
	// Throttle spaces out successive requests; RateLimitBackoff is the
	// wait before retrying a rate-controlled first page.
	Throttle         time.Duration
	RateLimitBackoff time.Duration
	Logger           *slog.Logger
}

type spaceArcPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		List struct {
			VList []spaceVideo `json:"vlist"`
		} `json:"list"`
		Page struct {
			Count int `json:"count"`
		} `json:"page"`
	} `json:"data"`
}

type spaceVideo struct {
	Created int64  `json:"created"`
	BVID    string `json:"bvid"`
	Title   string `json:"title"`
	Author  string `json:"author"`
}

// UserVideos pages through the user's uploads, newest first. Date filters
// are applied against exact publish timestamps; once an upload predates the
// range start, pagination stops because everything after it is older still.
func (c *BilibiliClient) UserVideos(ctx context.Context, uid string, opts Options) ([]Entry, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, errors.New("bilibili listing: uid required")
	}
	client, err := c.httpClient(opts.CookieFile)
	if err != nil {
		return nil, err
	}
	logger := c.logger()

	c.primeSession(ctx, client, uid)

	var entries []Entry
	page := 1
	retried := false
	for {
		payload, err := c.fetchPage(ctx, client, uid, page)
		if err != nil {
			if len(entries) > 0 {
				logger.Warn("bilibili pagination stopped early",
					logging.Int("page", page),
					logging.Error(err),
				)
				return entries, nil
			}
			return nil, err
		}
		if payload.Code != 0 {
			// Rate control usually clears after a short wait.
			if !retried && page == 1 && strings.Contains(payload.Message, "频繁") {
				retried = true
				logger.Info("bilibili rate control hit; retrying",
					logging.Duration("backoff", c.rateLimitBackoff()),
				)
				if err := sleepCtx(ctx, c.rateLimitBackoff()); err != nil {
					return nil, err
				}
				continue
			}
			err := fmt.Errorf("bilibili api code %d: %s", payload.Code, payload.Message)
			if len(entries) > 0 {
				logger.Warn("bilibili pagination stopped early",
					logging.Int("page", page),
					logging.Error(err),
				)
				return entries, nil
			}
			return nil, err
		}

		vlist := payload.Data.List.VList
		if len(vlist) == 0 {
			break
		}
		for _, v := range vlist {
			uploadDate := unknownField
			var uploadTime time.Time
			known := v.Created > 0
			if known {
				uploadTime = time.Unix(v.Created, 0)
				uploadDate = uploadTime.Format(dateLayout)
			}
			if known {
				if !opts.Range.Start.IsZero() && uploadTime.Before(opts.Range.Start) {
					return entries, nil
				}
				if !opts.Range.End.IsZero() && uploadTime.After(opts.Range.End) {
					continue
				}
			}

			title := strings.TrimSpace(v.Title)
			if title == "" {
				title = unknownField
			}
			author := strings.TrimSpace(v.Author)
			if author == "" {
				author = unknownField
			}
			videoURL := ""
			if v.BVID != "" {
				videoURL = platform.VideoURL(platform.Bilibili, v.BVID)
			}
			entries = append(entries, Entry{
				UploadDate: uploadDate,
				Title:      title,
				Author:     author,
				URL:        videoURL,
			})
			if opts.MaxVideos > 0 && len(entries) >= opts.MaxVideos {
				return entries, nil
			}
		}

		if page*spacePageSize >= payload.Data.Page.Count {
			break
		}
		page++
		if err := sleepCtx(ctx, c.throttle()); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (c *BilibiliClient) fetchPage(ctx context.Context, client *http.Client, uid string, page int) (*spaceArcPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase()+"/x/space/arc/search", nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("mid", uid)
	q.Set("ps", strconv.Itoa(spacePageSize))
	q.Set("pn", strconv.Itoa(page))
	q.Set("order", "pubdate")
	q.Set("tid", "0")
	req.URL.RawQuery = q.Encode()
	c.setBrowserHeaders(req, uid)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bilibili space api: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bilibili space api: unexpected status %s", resp.Status)
	}
	var payload spaceArcPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("bilibili space api: decode response: %w", err)
	}
	return &payload, nil
}

// primeSession visits the public space page so the jar picks up the
// session cookies the API expects. Failures here are ignored; the API call
// itself surfaces real problems.
func (c *BilibiliClient) primeSession(ctx context.Context, client *http.Client, uid string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/%s/video", c.spaceBase(), uid), nil)
	if err != nil {
		return
	}
	req.Header.Set("User-Agent", netutil.BrowserUserAgent)
	resp, err := client.Do(req)
	if err != nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	resp.Body.Close()
	_ = sleepCtx(ctx, c.throttle())
}

func (c *BilibiliClient) setBrowserHeaders(req *http.Request, uid string) {
	req.Header.Set("User-Agent", netutil.BrowserUserAgent)
	req.Header.Set("Referer", fmt.Sprintf("%s/%s/video", c.spaceBase(), uid))
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	req.Header.Set("Origin", c.spaceBase())
}

// httpClient returns the configured client with a cookie jar attached,
// seeding it from a Netscape cookies.txt export when one is given.
func (c *BilibiliClient) httpClient(cookieFile string) (*http.Client, error) {
	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if client.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		client.Jar = jar
	}
	if cookieFile != "" {
		cookies, err := netutil.ParseNetscapeCookies(cookieFile)
		if err != nil {
			c.logger().Warn("could not read cookie file",
				logging.String("path", cookieFile),
				logging.Error(err),
			)
			return client, nil
		}
		for _, origin := range []string{c.apiBase(), c.spaceBase()} {
			if u, err := url.Parse(origin); err == nil {
				client.Jar.SetCookies(u, cookies)
			}
		}
	}
	return client, nil
}

func (c *BilibiliClient) apiBase() string {
	if c.APIBaseURL != "" {
		return strings.TrimRight(c.APIBaseURL, "/")
	}
	return defaultAPIBaseURL
}

func (c *BilibiliClient) spaceBase() string {
	if c.SpaceBaseURL != "" {
		return strings.TrimRight(c.SpaceBaseURL, "/")
	}
	return defaultSpaceBaseURL
}

func (c *BilibiliClient) throttle() time.Duration {
	if c.Throttle > 0 {
		return c.Throttle
	}
	return defaultThrottle
}

func (c *BilibiliClient) rateLimitBackoff() time.Duration {
	if c.RateLimitBackoff > 0 {
		return c.RateLimitBackoff
	}
	return defaultRateLimitBackoff
}

func (c *BilibiliClient) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.NewNop()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
