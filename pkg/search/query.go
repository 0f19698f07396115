package search

import (
	"twsearch/pkg/twitter"
)

// Query holds the request parameters of a search or counts run.
// Pointer fields are optional; nil means the parameter is not sent.
type Query struct {
	Query     string
	StartTime *string
	EndTime   *string
	SinceID   *string
	UntilID   *string

	Expansions  *string
	TweetFields *string
	MediaFields *string
	PollFields  *string
	PlaceFields *string
	UserFields  *string

	// MaxResults is the page-size hint. Search sends it, counts does not.
	MaxResults *int
	// Granularity is the counts bucket (day, hour, minute). Search drops it.
	Granularity *string
	// NextToken is the cursor to start from
	NextToken *string
}

// Params returns every parameter including absent ones. Absent entries are
// typed nil pointers and are removed by twitter.FilterParams on send.
func (q Query) Params() map[string]any {
	return map[string]any{
		twitter.ParamQuery:       q.Query,
		twitter.ParamStartTime:   q.StartTime,
		twitter.ParamEndTime:     q.EndTime,
		twitter.ParamSinceID:     q.SinceID,
		twitter.ParamUntilID:     q.UntilID,
		twitter.ParamExpansions:  q.Expansions,
		twitter.ParamTweetFields: q.TweetFields,
		twitter.ParamMediaFields: q.MediaFields,
		twitter.ParamPollFields:  q.PollFields,
		twitter.ParamPlaceFields: q.PlaceFields,
		twitter.ParamUserFields:  q.UserFields,
		twitter.ParamMaxResults:  q.MaxResults,
		twitter.ParamGranularity: q.Granularity,
		twitter.ParamNextToken:   q.NextToken,
	}
}

// SearchParams returns the parameters of a search request. The cursor is
// managed by the paginator and not included.
func (q Query) SearchParams() map[string]any {
	params := q.Params()
	delete(params, twitter.ParamGranularity)
	delete(params, twitter.ParamNextToken)
	return params
}

// CountsParams returns the parameters of a counts request: granularity
// defaults to day, while max_results and the cursor are ignored.
func (q Query) CountsParams() map[string]any {
	params := q.Params()
	delete(params, twitter.ParamMaxResults)
	delete(params, twitter.ParamNextToken)

	granularity := twitter.DefaultGranularity
	if q.Granularity != nil && *q.Granularity != "" {
		granularity = *q.Granularity
	}
	params[twitter.ParamGranularity] = granularity
	return params
}

// IsCounts reports whether the query selects counts mode
func (q Query) IsCounts() bool {
	return q.Granularity != nil && *q.Granularity != ""
}
