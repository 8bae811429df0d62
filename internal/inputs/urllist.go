package inputs

import (
	"fmt"
	"os"
	"strings"
)

// ReadURLList loads a .txt URL-list file, one URL per line. Blank lines and
// lines starting with # are ignored.
func ReadURLList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		urls = append(urls, trimmed)
	}
	return urls, nil
}
