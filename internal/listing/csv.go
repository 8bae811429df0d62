package listing

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteCSV exports entries to path, creating parent directories as needed.
// The leading UTF-8 BOM keeps Excel from garbling CJK titles.
func WriteCSV(path string, entries []Entry) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err = f.WriteString("\uFEFF"); err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err = w.Write([]string{"Upload Date", "Title", "Author", "URL"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err = w.Write([]string{e.UploadDate, e.Title, e.Author, e.URL}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// DefaultCSVPath names a timestamped listing file under dir.
func DefaultCSVPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("video_list_%s.csv", now.Format("20060102_150405")))
}
