package search

import (
	"bytes"
	"encoding/json"

	"twsearch/pkg/twitter"
)

const (
	SectionData   = "data"
	SectionErrors = "errors"
)

// Accumulated concatenates the sections of every merged page in fetch
// order. It never deduplicates. After the first merge the data and errors
// sections always exist; an include category exists once a page carried it.
type Accumulated struct {
	order    []string
	sections map[string][]json.RawMessage
}

// NewAccumulated returns an empty result
func NewAccumulated() *Accumulated {
	return &Accumulated{sections: make(map[string][]json.RawMessage)}
}

// Merge appends the data, errors and include sections of page
func (a *Accumulated) Merge(page *twitter.PageResponse) {
	if page == nil {
		page = &twitter.PageResponse{}
	}

	a.add(SectionData, page.Data)
	a.add(SectionErrors, page.Errors)
	for _, category := range page.IncludeCategories() {
		a.add(category, page.Includes[category])
	}
}

func (a *Accumulated) add(section string, records []json.RawMessage) {
	existing, ok := a.sections[section]
	if !ok {
		a.order = append(a.order, section)
		existing = []json.RawMessage{}
	}
	a.sections[section] = append(existing, records...)
}

// Sections lists section names in first-seen order
func (a *Accumulated) Sections() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Section returns the records of one section, nil when it was never seen
func (a *Accumulated) Section(name string) []json.RawMessage {
	return a.sections[name]
}

// Has reports whether a section was seen
func (a *Accumulated) Has(name string) bool {
	_, ok := a.sections[name]
	return ok
}

// Len returns the number of records in a section
func (a *Accumulated) Len(name string) int {
	return len(a.sections[name])
}

// Map returns the sections as a plain map
func (a *Accumulated) Map() map[string][]json.RawMessage {
	out := make(map[string][]json.RawMessage, len(a.sections))
	for k, v := range a.sections {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the sections as one object, keys in first-seen order
func (a *Accumulated) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range a.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		records, err := json.Marshal(a.sections[name])
		if err != nil {
			return nil, err
		}
		buf.Write(records)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
