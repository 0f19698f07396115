package twitter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ysmood/gson"
)

// ParseExtraHeaders decodes a JSON object of additional request headers.
// String values are used verbatim, other scalars in their text form and
// null entries are skipped. An empty input yields no headers.
func ParseExtraHeaders(raw string) (map[string]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]string{}, nil
	}
	if !json.Valid([]byte(raw)) {
		return nil, errors.New("extra headers must be valid JSON")
	}

	doc := gson.NewFrom(raw)
	if _, ok := doc.Val().(map[string]interface{}); !ok {
		return nil, errors.New("extra headers must be a JSON object")
	}

	headers := make(map[string]string)
	for name, value := range doc.Map() {
		if value.Nil() {
			continue
		}
		switch value.Val().(type) {
		case map[string]interface{}, []interface{}:
			return nil, fmt.Errorf("extra header %q must be a scalar", name)
		}
		headers[name] = value.Str()
	}

	return headers, nil
}
