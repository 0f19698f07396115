package twitter

import (
	"bytes"
	"encoding/json"
	"sort"
)

// PageResponse is one decoded API page. Records are kept as raw JSON so
// the tool stays agnostic of the post schema.
type PageResponse struct {
	Data     []json.RawMessage            `json:"data,omitempty"`
	Errors   []json.RawMessage            `json:"errors,omitempty"`
	Includes map[string][]json.RawMessage `json:"includes,omitempty"`
	Meta     *Meta                        `json:"meta,omitempty"`

	// includeOrder keeps the include categories in document order
	includeOrder []string
}

// Meta carries pagination and count metadata
type Meta struct {
	NextToken       *string `json:"next_token,omitempty"`
	ResultCount     int     `json:"result_count,omitempty"`
	NewestID        string  `json:"newest_id,omitempty"`
	OldestID        string  `json:"oldest_id,omitempty"`
	TotalTweetCount int     `json:"total_tweet_count,omitempty"`
}

// UnmarshalJSON tolerates a "data" member that is an object rather than a
// list by wrapping it into a one-element list, and remembers the order of
// the include categories.
func (p *PageResponse) UnmarshalJSON(b []byte) error {
	var raw struct {
		Data     json.RawMessage   `json:"data"`
		Errors   []json.RawMessage `json:"errors"`
		Includes json.RawMessage   `json:"includes"`
		Meta     *Meta             `json:"meta"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*p = PageResponse{Errors: raw.Errors, Meta: raw.Meta}

	if len(raw.Includes) > 0 && string(raw.Includes) != "null" {
		if err := json.Unmarshal(raw.Includes, &p.Includes); err != nil {
			return err
		}
		order, err := objectKeys(raw.Includes)
		if err != nil {
			return err
		}
		p.includeOrder = order
	}

	switch {
	case len(raw.Data) == 0 || string(raw.Data) == "null":
	case raw.Data[0] == '[':
		if err := json.Unmarshal(raw.Data, &p.Data); err != nil {
			return err
		}
	default:
		p.Data = []json.RawMessage{raw.Data}
	}
	return nil
}

// NextToken returns the continuation cursor, or nil when the page is the
// last one. An empty token counts as absent.
func (p *PageResponse) NextToken() *string {
	if p == nil || p.Meta == nil || p.Meta.NextToken == nil || *p.Meta.NextToken == "" {
		return nil
	}
	token := *p.Meta.NextToken
	return &token
}

// ResultCount returns the record count reported by the API for this page
func (p *PageResponse) ResultCount() int {
	if p == nil || p.Meta == nil {
		return 0
	}
	return p.Meta.ResultCount
}

// TotalTweetCount returns the count reported by the counts endpoint
func (p *PageResponse) TotalTweetCount() int {
	if p == nil || p.Meta == nil {
		return 0
	}
	return p.Meta.TotalTweetCount
}

// IncludeCategories lists the include categories of the page in the order
// the API sent them. Categories added after decoding follow, sorted.
func (p *PageResponse) IncludeCategories() []string {
	if p == nil {
		return nil
	}

	categories := make([]string, 0, len(p.Includes))
	seen := make(map[string]bool, len(p.Includes))
	for _, category := range p.includeOrder {
		if _, ok := p.Includes[category]; ok && !seen[category] {
			seen[category] = true
			categories = append(categories, category)
		}
	}

	var rest []string
	for category := range p.Includes {
		if !seen[category] {
			rest = append(rest, category)
		}
	}
	sort.Strings(rest)
	return append(categories, rest...)
}

// objectKeys returns the member names of a JSON object in document order
func objectKeys(b []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
