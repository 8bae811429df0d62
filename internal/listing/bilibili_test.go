package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"v2t/internal/netutil"
	"v2t/internal/services/ytdlp"
)

func newSpaceServer(t *testing.T, api http.HandlerFunc) *BilibiliClient {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/x/space/arc/search", api)
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html></html>")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &BilibiliClient{
		APIBaseURL:       srv.URL,
		SpaceBaseURL:     srv.URL,
		Throttle:         time.Millisecond,
		RateLimitBackoff: time.Millisecond,
	}
}

func arcPayload(count int, videos ...spaceVideo) string {
	payload := map[string]any{
		"code":    0,
		"message": "0",
		"data": map[string]any{
			"list": map[string]any{"vlist": videos},
			"page": map[string]any{"count": count},
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func TestUserVideosPaginates(t *testing.T) {
	day := int64(86400)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local).Unix()
	pages := []string{
		arcPayload(35,
			spaceVideo{Created: base, BVID: "BV1aa", Title: "Newest", Author: "up主"},
			spaceVideo{Created: base - day, BVID: "BV1bb", Title: "Second", Author: "up主"},
		),
		arcPayload(35,
			spaceVideo{Created: base - 2*day, BVID: "BV1cc", Title: "Oldest", Author: "up主"},
		),
	}
	calls := 0
	client := newSpaceServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("pn"); got != fmt.Sprint(calls+1) {
			t.Errorf("call %d requested pn=%s", calls, got)
		}
		if got := r.URL.Query().Get("order"); got != "pubdate" {
			t.Errorf("order = %q, want pubdate", got)
		}
		fmt.Fprint(w, pages[calls])
		calls++
	})

	entries, err := client.UserVideos(context.Background(), "123", Options{})
	if err != nil {
		t.Fatalf("UserVideos: %v", err)
	}
	if calls != 2 {
		t.Errorf("api calls = %d, want 2", calls)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	if entries[0].Title != "Newest" || entries[0].URL != "https://www.bilibili.com/video/BV1aa" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	want := time.Unix(base-2*day, 0).Format("2006-01-02")
	if entries[2].UploadDate != want {
		t.Errorf("entries[2] date = %q, want %q", entries[2].UploadDate, want)
	}
}

func TestUserVideosStopsAtRangeStart(t *testing.T) {
	day := int64(86400)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local).Unix()
	calls := 0
	client := newSpaceServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		fmt.Fprint(w, arcPayload(100,
			spaceVideo{Created: base, BVID: "BV1aa", Title: "Fresh", Author: "a"},
			spaceVideo{Created: base - 10*day, BVID: "BV1bb", Title: "Stale", Author: "a"},
		))
	})

	opts := Options{Range: DateRange{Start: time.Unix(base, 0).Add(-12 * time.Hour)}}
	entries, err := client.UserVideos(context.Background(), "123", opts)
	if err != nil {
		t.Fatalf("UserVideos: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Fresh" {
		t.Fatalf("entries = %+v", entries)
	}
	if calls != 1 {
		t.Errorf("pagination should stop at range start, calls = %d", calls)
	}
}

func TestUserVideosSkipsAfterRangeEnd(t *testing.T) {
	day := int64(86400)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local).Unix()
	client := newSpaceServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, arcPayload(2,
			spaceVideo{Created: base, BVID: "BV1aa", Title: "Too New", Author: "a"},
			spaceVideo{Created: base - day, BVID: "BV1bb", Title: "In Range", Author: "a"},
		))
	})

	opts := Options{Range: DateRange{End: time.Unix(base-day, 0).Add(time.Hour)}}
	entries, err := client.UserVideos(context.Background(), "123", opts)
	if err != nil {
		t.Fatalf("UserVideos: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "In Range" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestUserVideosHonorsMax(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local).Unix()
	calls := 0
	client := newSpaceServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		fmt.Fprint(w, arcPayload(100,
			spaceVideo{Created: base, BVID: "BV1aa", Title: "One", Author: "a"},
			spaceVideo{Created: base - 60, BVID: "BV1bb", Title: "Two", Author: "a"},
		))
	})

	entries, err := client.UserVideos(context.Background(), "123", Options{MaxVideos: 1})
	if err != nil {
		t.Fatalf("UserVideos: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "One" {
		t.Fatalf("entries = %+v", entries)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestUserVideosRetriesRateControl(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local).Unix()
	calls := 0
	client := newSpaceServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, `{"code":-799,"message":"请求过于频繁，请稍后再试"}`)
			return
		}
		fmt.Fprint(w, arcPayload(1, spaceVideo{Created: base, BVID: "BV1aa", Title: "OK", Author: "a"}))
	})

	entries, err := client.UserVideos(context.Background(), "123", Options{})
	if err != nil {
		t.Fatalf("UserVideos: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if len(entries) != 1 || entries[0].Title != "OK" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestUserVideosErrorWhenFirstPageFails(t *testing.T) {
	client := newSpaceServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"code":-404,"message":"啥都木有"}`)
	})

	_, err := client.UserVideos(context.Background(), "123", Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "-404") {
		t.Errorf("err = %v", err)
	}
}

func TestUserVideosKeepsPartialResultsOnLaterPageFailure(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local).Unix()
	calls := 0
	client := newSpaceServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, arcPayload(60,
				spaceVideo{Created: base, BVID: "BV1aa", Title: "One", Author: "a"},
				spaceVideo{Created: base - 60, BVID: "BV1bb", Title: "Two", Author: "a"},
			))
			return
		}
		fmt.Fprint(w, "not json")
	})

	entries, err := client.UserVideos(context.Background(), "123", Options{})
	if err != nil {
		t.Fatalf("partial results should not error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
}

func TestUserVideosSendsBrowserIdentityAndCookies(t *testing.T) {
	cookiePath := filepath.Join(t.TempDir(), "cookies.txt")
	line := ".bilibili.com\tTRUE\t/\tFALSE\t1999999999\tSESSDATA\tsecret\n"
	if err := os.WriteFile(cookiePath, []byte(line), 0o644); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local).Unix()
	var gotUA, gotReferer, gotCookie string
	client := newSpaceServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		if c, err := r.Cookie("SESSDATA"); err == nil {
			gotCookie = c.Value
		}
		fmt.Fprint(w, arcPayload(1, spaceVideo{Created: base, BVID: "BV1aa", Title: "OK", Author: "a"}))
	})

	if _, err := client.UserVideos(context.Background(), "123", Options{CookieFile: cookiePath}); err != nil {
		t.Fatalf("UserVideos: %v", err)
	}
	if gotUA != netutil.BrowserUserAgent {
		t.Errorf("user agent = %q", gotUA)
	}
	if !strings.HasSuffix(gotReferer, "/123/video") {
		t.Errorf("referer = %q", gotReferer)
	}
	if gotCookie != "secret" {
		t.Errorf("SESSDATA cookie = %q, want secret", gotCookie)
	}
}

func TestListPrefersBilibiliAPI(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local).Unix()
	client := newSpaceServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, arcPayload(1, spaceVideo{Created: base, BVID: "BV1aa", Title: "视频", Author: "up主"}))
	})
	uploads := &fakeUploads{playlist: &ytdlp.Playlist{}}
	l := &Lister{Uploads: uploads, Bilibili: client}

	entries, err := l.List(context.Background(), "https://space.bilibili.com/123", Options{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if uploads.calls != 0 {
		t.Errorf("flat fallback should not run, calls = %d", uploads.calls)
	}
	if len(entries) != 1 || entries[0].Author != "up主" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestListBilibiliFallsBackToFlat(t *testing.T) {
	client := newSpaceServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"code":-404,"message":"啥都木有"}`)
	})
	uploads := &fakeUploads{playlist: &ytdlp.Playlist{
		Uploader: "频道",
		Entries:  []ytdlp.PlaylistEntry{{ID: "BV1xx", Title: "Video"}},
	}}
	l := &Lister{Uploads: uploads, Bilibili: client}

	entries, err := l.List(context.Background(), "https://space.bilibili.com/123", Options{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if uploads.calls != 1 {
		t.Fatalf("flat fallback should run once, calls = %d", uploads.calls)
	}
	if uploads.url != "https://space.bilibili.com/123/video" {
		t.Errorf("fallback url = %q", uploads.url)
	}
	if len(entries) != 1 || entries[0].URL != "https://www.bilibili.com/video/BV1xx" {
		t.Fatalf("entries = %+v", entries)
	}
}
