package renderer

import (
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/fundiff"
)

// comparisonJSON is the JSON document of a Comparison.
type comparisonJSON struct {
	Fund     fundiff.Fund                                `json:"fund"`
	Old      string                                      `json:"old"`
	New      string                                      `json:"new"`
	Flat     []fundiff.DiffEntry                         `json:"flat"`
	Sections map[fundiff.SectionKey][]fundiff.DiffEntry `json:"sections"`
}

// ComparisonJSON encodes the comparison as an indented JSON document.
// Empty lists are encoded as [] and {}, never null.
func ComparisonJSON(c Comparison) ([]byte, error) {
	doc := comparisonJSON{Fund: c.Fund, Old: c.Old, New: c.New, Flat: c.Flat, Sections: c.BySection}
	if doc.Flat == nil {
		doc.Flat = []fundiff.DiffEntry{}
	}
	if doc.Sections == nil {
		doc.Sections = map[fundiff.SectionKey][]fundiff.DiffEntry{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Query selects a part of a JSON document with a JSONPath expression like
// "$.flat[?(@.has_traded)].name" and returns it indented.
func Query(doc []byte, path string) ([]byte, error) {
	var jobj any
	if err := json.Unmarshal(doc, &jobj); err != nil {
		return nil, fmt.Errorf("invalid json document: %w", err)
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	return json.MarshalIndent(jval, "", "  ")
}
