package build

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestRecordUnmarshal(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantID        string
		wantAlt       []string
		wantSource    string
		wantYear      int // 0 means absent
		wantCore      bool
		wantMalformed []string
	}{
		{
			name:     "Canonical",
			input:    `{"id":"A","alt_ids":["x"],"source":"s","year":2010,"core":true}`,
			wantID:   "A",
			wantAlt:  []string{"x"},
			wantYear: 2010, wantSource: "s", wantCore: true,
		},
		{
			name:    "ScraperShape",
			input:   `{"sid":"123","doi":"10.1/x","pmid":"","source":["v1","v2"],"year":null}`,
			wantID:  "123",
			wantAlt: []string{"10.1/x"}, wantSource: "v1",
		},
		{
			name:          "MalformedYear",
			input:         `{"id":"A","year":"unknown","authors":["a"]}`,
			wantID:        "A",
			wantMalformed: []string{"year"},
		},
		{
			name:          "MalformedSourceAndCore",
			input:         `{"id":"A","source":42,"core":"yes"}`,
			wantID:        "A",
			wantMalformed: []string{"source", "core"},
		},
		{
			name:   "EmptySourceList",
			input:  `{"id":"A","source":[]}`,
			wantID: "A",
		},
		{
			name:  "MissingID",
			input: `{"references":["B"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			if err := json.Unmarshal([]byte(tt.input), &r); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if r.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", r.ID, tt.wantID)
			}
			if !slices.Equal(r.AltIDs, tt.wantAlt) {
				t.Errorf("AltIDs = %v, want %v", r.AltIDs, tt.wantAlt)
			}
			if r.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", r.Source, tt.wantSource)
			}
			switch {
			case tt.wantYear == 0 && r.HasYear():
				t.Errorf("Year = %d, want absent", *r.Year)
			case tt.wantYear != 0 && (!r.HasYear() || *r.Year != tt.wantYear):
				t.Errorf("Year = %v, want %d", r.Year, tt.wantYear)
			}
			if r.Core != tt.wantCore {
				t.Errorf("Core = %v, want %v", r.Core, tt.wantCore)
			}
			if !slices.Equal(r.Malformed, tt.wantMalformed) {
				t.Errorf("Malformed = %v, want %v", r.Malformed, tt.wantMalformed)
			}
		})
	}
}

func TestRecordUnmarshalNotObject(t *testing.T) {
	var r Record
	if err := json.Unmarshal([]byte(`[1,2]`), &r); err == nil {
		t.Error("expected error for non-object record")
	}
}
