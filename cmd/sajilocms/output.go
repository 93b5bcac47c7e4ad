package main

import (
	"encoding/json"
	"fmt"
	"os"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// printJSON renders v as indented JSON on stdout, optionally filtered
// through a JMESPath expression first.
func printJSON(v any, query string) error {
	if query != "" {
		// JMESPath operates on decoded JSON values, so round-trip first.
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return fmt.Errorf("decode output: %w", err)
		}
		v, err = jmespath.Search(query, decoded)
		if err != nil {
			return fmt.Errorf("apply query %q: %w", query, err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
