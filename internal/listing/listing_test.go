package listing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"v2t/internal/services"
	"v2t/internal/services/ytdlp"
)

type fakeUploads struct {
	playlist *ytdlp.Playlist
	err      error
	url      string
	limit    int
	calls    int
}

func (f *fakeUploads) ListUploads(_ context.Context, url, _ string, limit int) (*ytdlp.Playlist, error) {
	f.calls++
	f.url = url
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.playlist, nil
}

func TestParseDateRangeDaysWindow(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)
	r, err := ParseDateRange("", "", 30, now)
	if err != nil {
		t.Fatalf("ParseDateRange: %v", err)
	}
	if !r.Start.Equal(now.AddDate(0, 0, -30)) {
		t.Errorf("start = %v", r.Start)
	}
	if !r.End.Equal(now) {
		t.Errorf("end = %v", r.End)
	}
}

func TestParseDateRangeDaysExclusiveWithBounds(t *testing.T) {
	if _, err := ParseDateRange("2024-01-01", "", 7, time.Now()); err == nil {
		t.Error("days with start date should be rejected")
	}
	if _, err := ParseDateRange("", "2024-06-30", 7, time.Now()); err == nil {
		t.Error("days with end date should be rejected")
	}
}

func TestParseDateRangeExplicitBounds(t *testing.T) {
	r, err := ParseDateRange("2024-01-01", "2024-01-31", 0, time.Now())
	if err != nil {
		t.Fatalf("ParseDateRange: %v", err)
	}
	wantStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	wantEnd := time.Date(2024, 1, 31, 23, 59, 59, 0, time.Local)
	if !r.Start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", r.Start, wantStart)
	}
	if !r.End.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", r.End, wantEnd)
	}
}

func TestParseDateRangeRejectsBadFormat(t *testing.T) {
	if _, err := ParseDateRange("01/02/2024", "", 0, time.Now()); err == nil {
		t.Error("expected error for slash date")
	}
	if _, err := ParseDateRange("", "jan 5", 0, time.Now()); err == nil {
		t.Error("expected error for prose date")
	}
}

func TestDateRangeAllows(t *testing.T) {
	r := DateRange{
		Start: time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local),
		End:   time.Date(2024, 1, 20, 23, 59, 59, 0, time.Local),
	}
	if r.Allows(time.Date(2024, 1, 9, 12, 0, 0, 0, time.Local)) {
		t.Error("before start should be excluded")
	}
	if !r.Allows(time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local)) {
		t.Error("inside range should be allowed")
	}
	if r.Allows(time.Date(2024, 1, 21, 0, 0, 0, 0, time.Local)) {
		t.Error("after end should be excluded")
	}
	if !(DateRange{}).Allows(time.Date(1990, 1, 1, 0, 0, 0, 0, time.Local)) {
		t.Error("open range should allow everything")
	}
}

func TestListFlatFiltersCapsAndSorts(t *testing.T) {
	uploads := &fakeUploads{playlist: &ytdlp.Playlist{
		Uploader: "Chan",
		Entries: []ytdlp.PlaylistEntry{
			{ID: "old1", Title: "Too Old", UploadDate: "20231201"},
			{ID: "a", Title: "January Talk", UploadDate: "20240110"},
			{ID: "b", Title: "Later Talk", UploadDate: "20240120", Uploader: "Guest"},
			{ID: "c", Title: "Never Reached", UploadDate: "20240115"},
		},
	}}
	l := &Lister{Uploads: uploads}
	r, err := ParseDateRange("2024-01-01", "2024-01-31", 0, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	entries, err := l.List(context.Background(), "https://www.youtube.com/@chan", Options{Range: r, MaxVideos: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if uploads.url != "https://www.youtube.com/@chan/videos" {
		t.Errorf("listed url = %q", uploads.url)
	}
	if uploads.limit != 4 {
		t.Errorf("enumeration limit = %d, want 4", uploads.limit)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Title != "Later Talk" || entries[0].UploadDate != "2024-01-20" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[0].Author != "Guest" {
		t.Errorf("per-entry uploader should win, got %q", entries[0].Author)
	}
	if entries[1].Author != "Chan" {
		t.Errorf("channel fallback author = %q", entries[1].Author)
	}
	if entries[0].URL != "https://www.youtube.com/watch?v=b" {
		t.Errorf("url built from id = %q", entries[0].URL)
	}
}

func TestListKeepsUnknownDatesUnderFilter(t *testing.T) {
	uploads := &fakeUploads{playlist: &ytdlp.Playlist{
		Title: "Uploads",
		Entries: []ytdlp.PlaylistEntry{
			{ID: "x", Title: "No Date", URL: "https://example.com/x"},
		},
	}}
	l := &Lister{Uploads: uploads}
	r, err := ParseDateRange("2024-01-01", "", 0, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	entries, err := l.List(context.Background(), "https://www.youtube.com/@chan/videos", Options{Range: r})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("unknown dates must not be filtered, got %d entries", len(entries))
	}
	if entries[0].UploadDate != "unknown" {
		t.Errorf("upload date = %q", entries[0].UploadDate)
	}
	if entries[0].Author != "Uploads" {
		t.Errorf("author = %q, want playlist title fallback", entries[0].Author)
	}
}

func TestListUsesTimestampWhenDateMissing(t *testing.T) {
	stamp := time.Date(2024, 3, 5, 8, 0, 0, 0, time.Local)
	uploads := &fakeUploads{playlist: &ytdlp.Playlist{
		Entries: []ytdlp.PlaylistEntry{
			{ID: "t1", Title: "Stamped", Timestamp: stamp.Unix()},
		},
	}}
	l := &Lister{Uploads: uploads}

	entries, err := l.List(context.Background(), "https://www.youtube.com/@chan/videos", Options{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if entries[0].UploadDate != "2024-03-05" {
		t.Errorf("upload date = %q, want 2024-03-05", entries[0].UploadDate)
	}
}

func TestListWrapsEnumerationFailure(t *testing.T) {
	uploads := &fakeUploads{err: errors.New("network is down")}
	l := &Lister{Uploads: uploads}

	_, err := l.List(context.Background(), "https://www.youtube.com/@chan", Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if kind := services.FailureKind(err); kind != "resolution" {
		t.Errorf("failure kind = %q, want resolution", kind)
	}
}

func TestWriteCSVWithBOMAndHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "list.csv")
	entries := []Entry{
		{UploadDate: "2024-01-20", Title: "标题, 带逗号", Author: "Chan", URL: "https://example.com/v"},
	}
	if err := WriteCSV(path, entries); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "\uFEFF") {
		t.Error("missing UTF-8 BOM")
	}
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(text, "\uFEFF")), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0] != "Upload Date,Title,Author,URL" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != `2024-01-20,"标题, 带逗号",Chan,https://example.com/v` {
		t.Errorf("row = %q", lines[1])
	}
}

func TestDefaultCSVPath(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 30, 5, 0, time.Local)
	got := DefaultCSVPath(filepath.Join("tmp", "out"), now)
	want := filepath.Join("tmp", "out", "video_list_20240615_093005.csv")
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

