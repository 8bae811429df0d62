package main

import (
	"encoding/json"
	"fmt"
	"io"
)

func writeJSON(out io.Writer, payload any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("encode json output: %w", err)
	}
	return nil
}
