package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/bibnet/pkg/build"
)

// ReadRecords decodes a JSON array of records from r. It does not close r.
func ReadRecords(r io.Reader) ([]build.Record, error) {
	var records []build.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// LoadRecords reads the record file at path.
func LoadRecords(path string) ([]build.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadRecords(f)
}
