package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"twsearch/pkg/checkpoint"
	errs "twsearch/pkg/errors"
	"twsearch/pkg/logger"
	"twsearch/pkg/ratelimit"
	"twsearch/pkg/storage"
	"twsearch/pkg/twitter"
)

// DefaultProgressInterval is the minimum spacing of progress log lines
const DefaultProgressInterval = 10 * time.Second

// Fetcher performs one API request. *twitter.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, op twitter.Operation, params map[string]any) (*twitter.Result, error)
}

// PageWriter persists a page. *storage.Manager implements it.
type PageWriter interface {
	WritePage(page *twitter.PageResponse, mode storage.WriteMode) error
}

// CheckpointStore persists the cursor between pages. *checkpoint.Manager
// implements it.
type CheckpointStore interface {
	New(runID, query, outputFile string) *checkpoint.Checkpoint
	Load() (*checkpoint.Checkpoint, error)
	Update(cp *checkpoint.Checkpoint, nextToken *string, total, pages int) error
	Delete() error
}

// RunOptions controls one search run
type RunOptions struct {
	// Interval is the pause between pages in seconds, truncated to whole
	// seconds. Anything below one disables the pause.
	Interval float64
	// Limit stops the run once the reported total reaches it. Nil or zero
	// means no limit.
	Limit *int
	// Writer receives every page once the total is positive. Nil disables output.
	Writer PageWriter
	// OutputFile is recorded in checkpoints
	OutputFile string
	// Checkpoint persists progress after every page. Nil disables it.
	Checkpoint CheckpointStore
	// Resume starts from the stored checkpoint when one exists
	Resume bool
	// RunID tags log lines and checkpoints; generated when empty
	RunID string
}

// Outcome is the result of a search run
type Outcome struct {
	RunID     string
	Result    *Accumulated
	Total     int
	Pages     int
	Reason    StopReason
	NextToken *string
}

// Paginator drives search and counts requests
type Paginator struct {
	fetcher          Fetcher
	logger           logger.Logger
	now              func() time.Time
	sleep            ratelimit.SleepFunc
	progressInterval time.Duration
}

// NewPaginator creates a paginator over fetcher
func NewPaginator(fetcher Fetcher, log logger.Logger) *Paginator {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Paginator{
		fetcher:          fetcher,
		logger:           log,
		now:              time.Now,
		sleep:            ratelimit.Sleep,
		progressInterval: DefaultProgressInterval,
	}
}

// WithClock replaces the clock used for progress reporting
func (p *Paginator) WithClock(now func() time.Time) *Paginator {
	p.now = now
	return p
}

// WithSleep replaces the inter-page sleep
func (p *Paginator) WithSleep(sleep ratelimit.SleepFunc) *Paginator {
	p.sleep = sleep
	return p
}

// WithProgressInterval sets the minimum time between progress lines
func (p *Paginator) WithProgressInterval(d time.Duration) *Paginator {
	if d > 0 {
		p.progressInterval = d
	}
	return p
}

// Search fetches pages until the cursor runs out or the limit is reached,
// merging every page into the returned result. Soft API failures, whether
// reported in the result or as a non-fatal error, are logged and the run
// goes on. Fatal fetch errors and write failures stop the run; the partial
// outcome is returned together with the error.
func (p *Paginator) Search(ctx context.Context, q Query, opts RunOptions) (*Outcome, error) {
	runID := opts.RunID
	if runID == "" {
		runID = ulid.Make().String()
	}
	log := p.logger.WithField("run_id", runID)

	st := &runState{
		interval: ratelimit.NewInterval(opts.Interval).WithSleep(p.sleep),
		progress: ratelimit.NewThrottleWithClock(p.progressInterval, p.now),
		limit:    opts.Limit,
		cursor:   normalizeCursor(q.NextToken),
	}
	acc := NewAccumulated()
	params := q.SearchParams()

	var cp *checkpoint.Checkpoint
	if opts.Checkpoint != nil {
		var err error
		cp, err = p.prepareCheckpoint(log, q, opts, runID, st)
		if err != nil {
			return nil, err
		}
	}

	log.InfoWithFields("Search started", map[string]interface{}{
		"query":    q.Query,
		"interval": st.interval.Delay(),
		"resumed":  st.pages > 0,
	})

	outcome := func(reason StopReason) *Outcome {
		return &Outcome{
			RunID:     runID,
			Result:    acc,
			Total:     st.total,
			Pages:     st.pages,
			Reason:    reason,
			NextToken: st.cursor,
		}
	}

	state, reason := stateContinue, StopCursorExhausted
	for state == stateContinue {
		if st.cursor != nil {
			params[twitter.ParamNextToken] = *st.cursor
		} else {
			delete(params, twitter.ParamNextToken)
		}

		res, err := p.fetcher.Fetch(ctx, twitter.OperationSearch, params)
		if err != nil {
			if ctx.Err() != nil {
				log.Warn("Search cancelled")
				return outcome(StopCancelled), ctx.Err()
			}
			if errs.IsFatal(err) {
				return outcome(StopFailed), fmt.Errorf("failed to fetch page %d: %w", st.pages+1, err)
			}
			res = degradedResult(err)
		}
		page := res.Page
		p.reportSoftFailure(log, res)

		acc.Merge(page)
		st.record(page.ResultCount(), page.NextToken())

		if opts.Writer != nil {
			if mode, ok := st.writeMode(); ok {
				if err := opts.Writer.WritePage(page, mode); err != nil {
					return outcome(StopFailed), fmt.Errorf("failed to write page %d: %w", st.pages, err)
				}
			}
		}

		if cp != nil {
			if err := opts.Checkpoint.Update(cp, st.cursor, st.total, st.pages); err != nil {
				log.WithError(err).Warn("Failed to save checkpoint")
			}
		}

		state, reason = st.advance()
		if state == stateDone {
			break
		}

		if st.progress.Ready() {
			logger.LogProgress(log, st.total, st.pages)
		}

		if err := st.interval.Wait(ctx); err != nil {
			log.Warn("Search cancelled")
			return outcome(StopCancelled), err
		}
	}

	log.WithFields(map[string]interface{}{
		"total":  st.total,
		"pages":  st.pages,
		"reason": reason.String(),
	}).Info(fmt.Sprintf("Captured %s total records", logger.FormatCount(st.total)))

	if cp != nil {
		if err := opts.Checkpoint.Delete(); err != nil {
			log.WithError(err).Warn("Failed to delete checkpoint")
		}
	}

	return outcome(reason), nil
}

// prepareCheckpoint creates the run checkpoint and, when resuming, seeds
// the run state from the stored one.
func (p *Paginator) prepareCheckpoint(log logger.Logger, q Query, opts RunOptions, runID string, st *runState) (*checkpoint.Checkpoint, error) {
	cp := opts.Checkpoint.New(runID, q.Query, opts.OutputFile)
	if !opts.Resume {
		return cp, nil
	}

	stored, err := opts.Checkpoint.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if stored == nil || stored.Cursor() == nil {
		log.Info("No checkpoint to resume from, starting a new search")
		return cp, nil
	}

	st.cursor = stored.Cursor()
	st.total = stored.Total
	st.pages = stored.Pages
	// the output files already hold the earlier pages
	st.replaced = stored.Total > 0
	cp.CreatedAt = stored.CreatedAt

	log.InfoWithFields("Resuming search", map[string]interface{}{
		"previous_run_id": stored.RunID,
		"total":           stored.Total,
		"pages":           stored.Pages,
	})
	return cp, nil
}

// reportSoftFailure logs API-reported problems; they never stop the run
func (p *Paginator) reportSoftFailure(log logger.Logger, res *twitter.Result) {
	if res.Err != nil {
		log.WithError(res.Err).WarnWithFields("API returned an error response", map[string]interface{}{
			"status_code": res.StatusCode,
		})
	}
	if n := len(res.Page.Errors); n > 0 {
		log.WarnWithFields("Page carries API errors", map[string]interface{}{
			"errors": n,
		})
	}
}

// degradedResult turns a recoverable fetch error into an empty page that
// carries the error, so the loop handles it like an API error response
func degradedResult(err error) *twitter.Result {
	res := &twitter.Result{Page: &twitter.PageResponse{}}
	var typed *errs.Error
	if errors.As(err, &typed) {
		res.Err = typed
		res.StatusCode = typed.Code
	}
	return res
}

func normalizeCursor(token *string) *string {
	if token == nil || *token == "" {
		return nil
	}
	t := *token
	return &t
}

// IsCancelled reports whether err ended a run through context cancellation
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
