package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"twsearch/pkg/twitter"
)

func TestQueryParamsFiltered(t *testing.T) {
	q := Query{
		Query:       "",
		SinceID:     strPtr("100"),
		TweetFields: strPtr("id,text"),
		MaxResults:  intPtr(100),
	}

	assert.Equal(t, map[string]any{
		twitter.ParamQuery:       "",
		twitter.ParamSinceID:     strPtr("100"),
		twitter.ParamTweetFields: strPtr("id,text"),
		twitter.ParamMaxResults:  intPtr(100),
	}, twitter.FilterParams(q.SearchParams()))
}

func TestQueryAlwaysSendsQueryString(t *testing.T) {
	params := twitter.FilterParams(Query{}.SearchParams())
	assert.Contains(t, params, twitter.ParamQuery)
	assert.Equal(t, "", params[twitter.ParamQuery])
}

func TestCountsParams(t *testing.T) {
	q := Query{Query: "x", MaxResults: intPtr(10), NextToken: strPtr("n"), Granularity: strPtr("")}
	params := twitter.FilterParams(q.CountsParams())

	assert.Equal(t, "day", params[twitter.ParamGranularity])
	assert.NotContains(t, params, twitter.ParamMaxResults)
	assert.NotContains(t, params, twitter.ParamNextToken)
}

func TestIsCounts(t *testing.T) {
	assert.False(t, Query{}.IsCounts())
	assert.False(t, Query{Granularity: strPtr("")}.IsCounts())
	assert.True(t, Query{Granularity: strPtr("minute")}.IsCounts())
}
