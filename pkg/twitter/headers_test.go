package twitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtraHeaders(t *testing.T) {
	headers, err := ParseExtraHeaders(`{"X-Trace": "abc", "X-Retry": 3, "X-Debug": true, "X-Skip": null}`)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"X-Trace": "abc",
		"X-Retry": "3",
		"X-Debug": "true",
	}, headers)
}

func TestParseExtraHeadersEmpty(t *testing.T) {
	headers, err := ParseExtraHeaders("  ")
	require.NoError(t, err)
	assert.Empty(t, headers)
}

func TestParseExtraHeadersInvalid(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{name: "array", raw: `["not", "an", "object"]`, wantErr: "JSON object"},
		{name: "scalar", raw: `"X-Trace"`, wantErr: "JSON object"},
		{name: "nested object", raw: `{"X-Nested": {"a": 1}}`, wantErr: "X-Nested"},
		{name: "nested list", raw: `{"X-List": [1, 2]}`, wantErr: "X-List"},
		{name: "broken", raw: `{broken`, wantErr: "valid JSON"},
		{name: "trailing garbage", raw: `{"X-Trace": "1"} extra`, wantErr: "valid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExtraHeaders(tt.raw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseExtraHeadersNumbers(t *testing.T) {
	headers, err := ParseExtraHeaders(`{"X-Ratio": 1.5, "X-Zero": 0, "X-Empty": ""}`)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"X-Ratio": "1.5",
		"X-Zero":  "0",
		"X-Empty": "",
	}, headers)
}
