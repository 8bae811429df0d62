package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeExecutor struct {
	binary string
	args   []string
	lines  []string
	err    error
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args []string, onStdout func(string)) error {
	f.binary = binary
	f.args = args
	if f.err != nil {
		return f.err
	}
	for _, line := range f.lines {
		onStdout(line)
	}
	return nil
}

func hasArgPair(args []string, flag, value string) bool {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

func hasArg(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func TestFetchAudioParsesPrintOutput(t *testing.T) {
	destDir := t.TempDir()
	downloaded := filepath.Join(destDir, "My_Talk_abc123.mp3")
	if err := os.WriteFile(downloaded, []byte("mp3"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	exec := &fakeExecutor{lines: []string{"My Talk", "abc123", downloaded}}
	client, err := New("yt-dlp", WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := client.FetchAudio(context.Background(), "https://youtu.be/abc123", destDir, "")
	if err != nil {
		t.Fatalf("FetchAudio: %v", err)
	}
	if result.Title != "My Talk" || result.ID != "abc123" || result.Path != downloaded {
		t.Fatalf("result = %+v", result)
	}

	if exec.binary != "yt-dlp" {
		t.Fatalf("binary = %q", exec.binary)
	}
	if !hasArgPair(exec.args, "-f", "bestaudio/best") {
		t.Fatalf("missing format selection in %v", exec.args)
	}
	if !hasArgPair(exec.args, "--audio-format", "mp3") {
		t.Fatalf("missing audio format in %v", exec.args)
	}
	if !hasArg(exec.args, "--restrict-filenames") || !hasArg(exec.args, "--no-playlist") {
		t.Fatalf("missing download flags in %v", exec.args)
	}
	if hasArg(exec.args, "--cookies") {
		t.Fatalf("unexpected cookies flag in %v", exec.args)
	}
	if exec.args[len(exec.args)-1] != "https://youtu.be/abc123" {
		t.Fatalf("url should be the final argument: %v", exec.args)
	}
}

func TestFetchAudioPassesCookies(t *testing.T) {
	destDir := t.TempDir()
	downloaded := filepath.Join(destDir, "t_x.mp3")
	if err := os.WriteFile(downloaded, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	exec := &fakeExecutor{lines: []string{"t", "x", downloaded}}
	client, _ := New("yt-dlp", WithExecutor(exec))

	if _, err := client.FetchAudio(context.Background(), "https://youtu.be/x", destDir, "/tmp/cookies.txt"); err != nil {
		t.Fatalf("FetchAudio: %v", err)
	}
	if !hasArgPair(exec.args, "--cookies", "/tmp/cookies.txt") {
		t.Fatalf("missing cookies flag in %v", exec.args)
	}
}

func TestFetchAudioRejectsShortOutput(t *testing.T) {
	exec := &fakeExecutor{lines: []string{"only title"}}
	client, _ := New("yt-dlp", WithExecutor(exec))
	if _, err := client.FetchAudio(context.Background(), "https://youtu.be/x", t.TempDir(), ""); err == nil {
		t.Fatal("expected error for truncated output")
	}
}

func TestFetchAudioPropagatesExecutorError(t *testing.T) {
	wantErr := errors.New("network down")
	exec := &fakeExecutor{err: wantErr}
	client, _ := New("yt-dlp", WithExecutor(exec))
	if _, err := client.FetchAudio(context.Background(), "https://youtu.be/x", t.TempDir(), ""); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := New("  "); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestListUploadsParsesFlatPlaylist(t *testing.T) {
	payload := `{"title":"Uploads","uploader":"Chan","entries":[` +
		`{"id":"a1","title":"First","url":"https://www.youtube.com/watch?v=a1","timestamp":1700000000,"duration":61.5},` +
		`{"id":"b2","title":"Second","url":"https://www.youtube.com/watch?v=b2","upload_date":"20240105","uploader":"Guest"}]}`
	exec := &fakeExecutor{lines: strings.Split(payload, "\n")}
	client, _ := New("yt-dlp", WithExecutor(exec))

	playlist, err := client.ListUploads(context.Background(), "https://www.youtube.com/@chan/videos", "", 30)
	if err != nil {
		t.Fatalf("ListUploads: %v", err)
	}
	if playlist.ChannelName() != "Chan" {
		t.Fatalf("channel name = %q, want Chan", playlist.ChannelName())
	}
	if len(playlist.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(playlist.Entries))
	}
	if playlist.Entries[0].ID != "a1" || playlist.Entries[0].Timestamp != 1700000000 {
		t.Fatalf("entries[0] = %+v", playlist.Entries[0])
	}
	if playlist.Entries[1].UploadDate != "20240105" || playlist.Entries[1].Uploader != "Guest" {
		t.Fatalf("entries[1] = %+v", playlist.Entries[1])
	}
	if !hasArg(exec.args, "--flat-playlist") || !hasArg(exec.args, "-J") {
		t.Fatalf("missing flat playlist flags in %v", exec.args)
	}
	if !hasArgPair(exec.args, "--playlist-end", "30") {
		t.Fatalf("missing playlist cap in %v", exec.args)
	}
}

func TestPlaylistChannelNameFallsBackToTitle(t *testing.T) {
	p := &Playlist{Title: "Uploads from Chan"}
	if got := p.ChannelName(); got != "Uploads from Chan" {
		t.Fatalf("channel name = %q", got)
	}
}

func TestListUploadsRejectsMalformedJSON(t *testing.T) {
	exec := &fakeExecutor{lines: []string{"not json"}}
	client, _ := New("yt-dlp", WithExecutor(exec))
	if _, err := client.ListUploads(context.Background(), "https://www.youtube.com/@chan", "", 0); err == nil {
		t.Fatal("expected parse error")
	}
}
