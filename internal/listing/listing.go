// Package listing builds channel upload listings for YouTube and Bilibili
// and exports them as CSV.
//
// Bilibili listings prefer the space API because it carries exact publish
// timestamps; yt-dlp flat enumeration is the fallback there and the primary
// path everywhere else. Flat enumeration often omits upload dates, so date
// filters apply only to entries whose date is actually known.
package listing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"v2t/internal/logging"
	"v2t/internal/platform"
	"v2t/internal/services"
	"v2t/internal/services/ytdlp"
)

const (
	dateLayout   = "2006-01-02"
	unknownField = "unknown"
)

// Entry is one video in a channel listing.
type Entry struct {
	// UploadDate is YYYY-MM-DD, or "unknown" when the platform withheld it.
	UploadDate string
	Title      string
	Author     string
	URL        string
}

// DateRange bounds a listing by upload date. Zero bounds are open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether no bound is set.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Allows reports whether a known upload time passes the filter.
func (r DateRange) Allows(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// ParseDateRange builds a range from YYYY-MM-DD bounds or a trailing-days
// window anchored at now. Days is mutually exclusive with explicit bounds.
// The end bound is inclusive through the end of its day.
func ParseDateRange(start, end string, days int, now time.Time) (DateRange, error) {
	var r DateRange
	if days > 0 {
		if start != "" || end != "" {
			return r, fmt.Errorf("days window cannot be combined with explicit start or end dates")
		}
		r.End = now
		r.Start = now.AddDate(0, 0, -days)
		return r, nil
	}
	if end != "" {
		t, err := time.ParseInLocation(dateLayout, end, time.Local)
		if err != nil {
			return r, fmt.Errorf("invalid end date %q (want YYYY-MM-DD)", end)
		}
		r.End = t.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}
	if start != "" {
		t, err := time.ParseInLocation(dateLayout, start, time.Local)
		if err != nil {
			return r, fmt.Errorf("invalid start date %q (want YYYY-MM-DD)", start)
		}
		r.Start = t
	}
	return r, nil
}

// Options controls a listing request.
type Options struct {
	Range      DateRange
	MaxVideos  int
	CookieFile string
}

// UploadsLister enumerates a channel without downloading anything.
type UploadsLister interface {
	ListUploads(ctx context.Context, url, cookieFile string, limit int) (*ytdlp.Playlist, error)
}

// Lister fetches channel video listings.
type Lister struct {
	Uploads  UploadsLister
	Bilibili *BilibiliClient
	Logger   *slog.Logger
}

// List returns the channel's uploads, newest first.
func (l *Lister) List(ctx context.Context, channelURL string, opts Options) ([]Entry, error) {
	normalized := platform.NormalizeChannelURL(channelURL)

	if platform.Detect(normalized) == platform.Bilibili && l.Bilibili != nil {
		if uid, ok := platform.BilibiliUID(normalized); ok {
			entries, err := l.Bilibili.UserVideos(ctx, uid, opts)
			if err == nil && len(entries) > 0 {
				sortNewestFirst(entries)
				return entries, nil
			}
			if err != nil {
				l.logger().Warn("bilibili api listing failed; falling back to yt-dlp",
					logging.String("uid", uid),
					logging.Error(err),
				)
			}
		}
	}
	return l.listFlat(ctx, normalized, opts)
}

func (l *Lister) listFlat(ctx context.Context, url string, opts Options) ([]Entry, error) {
	limit := 0
	if opts.MaxVideos > 0 {
		// Enumerate extra entries so date filtering can still fill the cap.
		limit = opts.MaxVideos * 2
	}
	playlist, err := l.Uploads.ListUploads(ctx, url, opts.CookieFile, limit)
	if err != nil {
		return nil, services.Wrap(services.ErrResolution, "listing", "enumerate channel",
			fmt.Sprintf("could not list uploads for %s", url), err)
	}

	channel := playlist.ChannelName()
	if channel == "" {
		channel = unknownField
	}
	p := platform.Detect(url)

	var entries []Entry
	for _, up := range playlist.Entries {
		date, uploadTime, known := entryDate(up)
		if known && !opts.Range.Allows(uploadTime) {
			continue
		}
		videoURL := up.URL
		if videoURL == "" && up.ID != "" {
			videoURL = platform.VideoURL(p, up.ID)
		}
		author := strings.TrimSpace(up.Uploader)
		if author == "" {
			author = channel
		}
		title := strings.TrimSpace(up.Title)
		if title == "" {
			title = unknownField
		}
		entries = append(entries, Entry{
			UploadDate: date,
			Title:      title,
			Author:     author,
			URL:        videoURL,
		})
		if opts.MaxVideos > 0 && len(entries) >= opts.MaxVideos {
			break
		}
	}
	sortNewestFirst(entries)
	return entries, nil
}

// entryDate formats an entry's upload date and reports whether it parsed
// into a filterable time.
func entryDate(up ytdlp.PlaylistEntry) (string, time.Time, bool) {
	if t, ok := parseUploadDate(up.UploadDate); ok {
		return t.Format(dateLayout), t, true
	}
	if up.Timestamp > 0 {
		t := time.Unix(up.Timestamp, 0)
		return t.Format(dateLayout), t, true
	}
	if raw := strings.TrimSpace(up.UploadDate); raw != "" {
		return raw, time.Time{}, false
	}
	return unknownField, time.Time{}, false
}

func parseUploadDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"20060102", dateLayout} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sortNewestFirst orders by the formatted date string so entries with
// unknown dates group together instead of interleaving.
func sortNewestFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UploadDate > entries[j].UploadDate
	})
}

func (l *Lister) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return logging.NewNop()
}
