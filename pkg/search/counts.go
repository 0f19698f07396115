package search

import (
	"context"
	"fmt"

	errs "twsearch/pkg/errors"
	"twsearch/pkg/logger"
	"twsearch/pkg/twitter"
)

// Counts performs a single request against the counts endpoint and
// returns the page as received. Granularity defaults to day; max_results
// and the cursor are not sent and nothing is written to disk.
func (p *Paginator) Counts(ctx context.Context, q Query) (*twitter.PageResponse, error) {
	params := q.CountsParams()

	res, err := p.fetcher.Fetch(ctx, twitter.OperationCounts, params)
	if err != nil {
		if ctx.Err() != nil || errs.IsFatal(err) {
			return nil, fmt.Errorf("failed to fetch counts: %w", err)
		}
		res = degradedResult(err)
	}
	p.reportSoftFailure(p.logger, res)

	total := res.Page.TotalTweetCount()
	p.logger.WithFields(map[string]interface{}{
		"total_tweet_count": total,
		"granularity":       params[twitter.ParamGranularity],
		"buckets":           len(res.Page.Data),
	}).Info(fmt.Sprintf("Returned %s records", logger.FormatCount(total)))

	return res.Page, nil
}
