package netutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseNetscapeCookies(t *testing.T) {
	content := strings.Join([]string{
		"# Netscape HTTP Cookie File",
		"",
		".bilibili.com\tTRUE\t/\tFALSE\t1999999999\tSESSDATA\tsecret",
		"malformed line",
		".bilibili.com\tTRUE\t/\tFALSE\t1999999999\tbuvid3\tabc",
	}, "\n")
	path := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cookies, err := ParseNetscapeCookies(path)
	if err != nil {
		t.Fatalf("ParseNetscapeCookies: %v", err)
	}
	if len(cookies) != 2 {
		t.Fatalf("cookies = %d, want 2", len(cookies))
	}
	if cookies[0].Name != "SESSDATA" || cookies[0].Value != "secret" {
		t.Errorf("cookies[0] = %+v", cookies[0])
	}
	if cookies[1].Name != "buvid3" || cookies[1].Value != "abc" {
		t.Errorf("cookies[1] = %+v", cookies[1])
	}
}

func TestParseNetscapeCookiesMissingFile(t *testing.T) {
	if _, err := ParseNetscapeCookies(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
