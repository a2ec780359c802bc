package build

import (
	"encoding/json"
	"math"
	"strings"
)

// Record is one bibliographic entry as produced by the metadata scraper.
//
// Decoding is tolerant: a field with the wrong JSON type is left at its zero
// value and its name is appended to Malformed, the rest of the record is
// still used. Two input shapes are accepted:
//
//	{"id": "...", "alt_ids": [...], ...}          // canonical
//	{"sid": "...", "doi": "...", "pmid": "...", ...} // scraper output
//
// In the scraper shape "sid" is the primary identifier and "doi"/"pmid"
// become alternate identifiers. "source" may be a string or a list, in which
// case its first element is used.
type Record struct {
	ID         string   `json:"id"`
	AltIDs     []string `json:"alt_ids,omitempty"`
	Authors    []string `json:"authors,omitempty"`
	Source     string   `json:"source,omitempty"`
	Year       *int     `json:"year,omitempty"`
	References []string `json:"references,omitempty"`
	Core       bool     `json:"core"`

	// Malformed lists the fields that could not be decoded.
	Malformed []string `json:"-"`
}

// UnmarshalJSON implements tolerant decoding. It only fails when data is not
// a JSON object.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record{}

	if !r.decodeString(raw, "id", &r.ID) || r.ID == "" {
		var sid string
		if r.decodeString(raw, "sid", &sid) && sid != "" {
			r.ID = sid
		}
	}

	r.decodeStrings(raw, "alt_ids", &r.AltIDs)
	for _, key := range []string{"doi", "pmid"} {
		var alt string
		if r.decodeString(raw, key, &alt) && alt != "" {
			r.AltIDs = append(r.AltIDs, alt)
		}
	}

	r.decodeStrings(raw, "authors", &r.Authors)
	r.decodeSource(raw)
	r.decodeYear(raw)
	r.decodeStrings(raw, "references", &r.References)

	if v, ok := raw["core"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &r.Core); err != nil {
			r.Malformed = append(r.Malformed, "core")
		}
	}
	return nil
}

// HasYear reports whether the record carries a publication year.
func (r Record) HasYear() bool { return r.Year != nil }

func (r *Record) decodeString(raw map[string]json.RawMessage, key string, dst *string) bool {
	v, ok := raw[key]
	if !ok || isNull(v) {
		return false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		r.Malformed = append(r.Malformed, key)
		return false
	}
	*dst = strings.TrimSpace(s)
	return true
}

func (r *Record) decodeStrings(raw map[string]json.RawMessage, key string, dst *[]string) {
	v, ok := raw[key]
	if !ok || isNull(v) {
		return
	}
	var list []string
	if err := json.Unmarshal(v, &list); err != nil {
		r.Malformed = append(r.Malformed, key)
		return
	}
	*dst = append(*dst, list...)
}

func (r *Record) decodeSource(raw map[string]json.RawMessage) {
	v, ok := raw["source"]
	if !ok || isNull(v) {
		return
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		r.Source = s
		return
	}
	var list []string
	if err := json.Unmarshal(v, &list); err == nil {
		if len(list) > 0 {
			r.Source = list[0]
		}
		return
	}
	r.Malformed = append(r.Malformed, "source")
}

func (r *Record) decodeYear(raw map[string]json.RawMessage) {
	v, ok := raw["year"]
	if !ok || isNull(v) {
		return
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil || f != math.Trunc(f) {
		r.Malformed = append(r.Malformed, "year")
		return
	}
	y := int(f)
	r.Year = &y
}

func isNull(v json.RawMessage) bool {
	return strings.TrimSpace(string(v)) == "null"
}
