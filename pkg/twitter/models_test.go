package twitter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageResponseDecode(t *testing.T) {
	body := `{
		"data": [{"id":"1","text":"a"},{"id":"2","text":"b"}],
		"includes": {"users": [{"id":"u1"}], "media": [{"media_key":"m1"}]},
		"errors": [{"title":"Not Found Error"}],
		"meta": {"next_token":"abc","result_count":2,"newest_id":"2","oldest_id":"1"}
	}`

	var page PageResponse
	require.NoError(t, json.Unmarshal([]byte(body), &page))

	assert.Len(t, page.Data, 2)
	assert.Len(t, page.Errors, 1)
	assert.Equal(t, []string{"users", "media"}, page.IncludeCategories())
	assert.Equal(t, 2, page.ResultCount())
	require.NotNil(t, page.NextToken())
	assert.Equal(t, "abc", *page.NextToken())
	assert.JSONEq(t, `{"id":"1","text":"a"}`, string(page.Data[0]))
}

func TestPageResponseSingleObjectData(t *testing.T) {
	var page PageResponse
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"id":"9"}}`), &page))
	require.Len(t, page.Data, 1)
	assert.JSONEq(t, `{"id":"9"}`, string(page.Data[0]))
}

func TestPageResponseCursorAbsent(t *testing.T) {
	tests := map[string]string{
		"no meta":       `{"data":[]}`,
		"no next_token": `{"meta":{"result_count":0}}`,
		"null token":    `{"meta":{"next_token":null}}`,
		"empty token":   `{"meta":{"next_token":""}}`,
		"empty object":  `{}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			var page PageResponse
			require.NoError(t, json.Unmarshal([]byte(body), &page))
			assert.Nil(t, page.NextToken())
			assert.Equal(t, 0, page.ResultCount())
		})
	}
}

func TestPageResponseCounts(t *testing.T) {
	var page PageResponse
	body := `{"data":[{"end":"2021-01-02T00:00:00.000Z","start":"2021-01-01T00:00:00.000Z","tweet_count":7}],"meta":{"total_tweet_count":7}}`
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	assert.Equal(t, 7, page.TotalTweetCount())
}

func TestNilPageAccessors(t *testing.T) {
	var page *PageResponse
	assert.Nil(t, page.NextToken())
	assert.Zero(t, page.ResultCount())
	assert.Zero(t, page.TotalTweetCount())
	assert.Nil(t, page.IncludeCategories())
}

func TestIncludeCategoriesKeepDocumentOrder(t *testing.T) {
	var page PageResponse
	body := `{"includes":{"tweets":[{"id":"t"}],"users":[{"id":"u"}],"places":[{"id":"p"}],"media":[]}}`
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	assert.Equal(t, []string{"tweets", "users", "places", "media"}, page.IncludeCategories())

	page.Includes["polls"] = nil
	page.Includes["alpha"] = nil
	assert.Equal(t, []string{"tweets", "users", "places", "media", "alpha", "polls"}, page.IncludeCategories())
}

func TestIncludeCategoriesWithoutDecode(t *testing.T) {
	page := &PageResponse{Includes: map[string][]json.RawMessage{"users": nil, "media": nil}}
	assert.Equal(t, []string{"media", "users"}, page.IncludeCategories())
}

func TestPageResponseNullIncludes(t *testing.T) {
	var page PageResponse
	require.NoError(t, json.Unmarshal([]byte(`{"includes":null}`), &page))
	assert.Empty(t, page.IncludeCategories())
}

func TestPageResponseRejectsMalformedIncludes(t *testing.T) {
	var page PageResponse
	assert.Error(t, json.Unmarshal([]byte(`{"includes":["users"]}`), &page))
}
