package twitter

import (
	"fmt"
	"net/url"
	"strings"
)

// Operation names the archive endpoint a request targets
type Operation string

const (
	// OperationSearch returns matching posts, paginated by next_token
	OperationSearch Operation = "search"
	// OperationCounts returns post volume per time bucket
	OperationCounts Operation = "counts"
)

const (
	// DefaultMaxResults is the page-size hint sent when none is configured.
	// The API itself defaults to 10.
	DefaultMaxResults = 100

	// DefaultGranularity is the counts bucket used when none is given
	DefaultGranularity = "day"
)

// EndpointURL instantiates template with op and appends the encoded params.
func EndpointURL(template string, op Operation, params map[string]any) (string, error) {
	if !strings.Contains(template, "%s") {
		return "", fmt.Errorf("endpoint template %q has no %%s placeholder", template)
	}

	base, err := url.Parse(fmt.Sprintf(template, op))
	if err != nil {
		return "", fmt.Errorf("invalid endpoint URL: %w", err)
	}

	values := base.Query()
	for key, vals := range EncodeParams(params) {
		for _, v := range vals {
			values.Add(key, v)
		}
	}
	base.RawQuery = values.Encode()

	return base.String(), nil
}
