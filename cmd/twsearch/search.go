package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"twsearch/pkg/auth"
	"twsearch/pkg/checkpoint"
	"twsearch/pkg/config"
	"twsearch/pkg/logger"
	"twsearch/pkg/search"
	"twsearch/pkg/storage"
	"twsearch/pkg/twitter"
	"twsearch/pkg/ui"
)

// searchFlags holds the flags of the root command
type searchFlags struct {
	outputFile string

	days    bool
	hours   bool
	minutes bool

	startTime string
	endTime   string
	sinceID   string
	untilID   string

	maxResults  int
	expansions  string
	tweetFields string
	mediaFields string
	pollFields  string
	placeFields string
	userFields  string

	extraHeaders string
	interval     float64
	limit        int
	endpoint     string

	resume     bool
	checkpoint bool
}

var rootFlags = &searchFlags{}

func bindSearchFlags(cmd *cobra.Command, f *searchFlags) {
	flags := cmd.Flags()

	flags.StringVarP(&f.outputFile, "output-file", "o", "", "write records as newline-delimited JSON, one file per section")

	flags.BoolVar(&f.days, "days", false, "count posts per day instead of searching")
	flags.BoolVar(&f.hours, "hours", false, "count posts per hour instead of searching")
	flags.BoolVar(&f.minutes, "minutes", false, "count posts per minute instead of searching")
	cmd.MarkFlagsMutuallyExclusive("days", "hours", "minutes")

	flags.StringVar(&f.startTime, "start-time", "", "oldest UTC timestamp (RFC 3339) to include")
	flags.StringVar(&f.endTime, "end-time", "", "newest UTC timestamp (RFC 3339) to include")
	flags.StringVar(&f.sinceID, "since-id", "", "only return posts newer than this ID")
	flags.StringVar(&f.untilID, "until-id", "", "only return posts older than this ID")

	flags.IntVar(&f.maxResults, "max-results", twitter.DefaultMaxResults, "records per page requested from the API")
	flags.StringVar(&f.expansions, "expansions", "", "comma-separated expansions")
	flags.StringVar(&f.tweetFields, "tweet-fields", "", "comma-separated post fields")
	flags.StringVar(&f.mediaFields, "media-fields", "", "comma-separated media fields")
	flags.StringVar(&f.pollFields, "poll-fields", "", "comma-separated poll fields")
	flags.StringVar(&f.placeFields, "place-fields", "", "comma-separated place fields")
	flags.StringVar(&f.userFields, "user-fields", "", "comma-separated user fields")

	flags.StringVar(&f.extraHeaders, "extra-headers", "", `extra request headers as a JSON object, e.g. '{"X-Trace": "1"}'`)
	flags.Float64Var(&f.interval, "interval", 1, "seconds to wait between pages, truncated to whole seconds")
	flags.IntVar(&f.limit, "limit", 0, "stop once this many records were retrieved (0 means no limit)")
	flags.StringVar(&f.endpoint, "endpoint", "", "endpoint template with one %s for search or counts")

	flags.BoolVar(&f.checkpoint, "checkpoint", false, "save the cursor after every page")
	flags.BoolVar(&f.resume, "resume", false, "continue from the saved checkpoint of the same search")
}

// flagOverrides collects the explicitly set flags for config.MergeCommandLineFlags
func flagOverrides(cmd *cobra.Command, f *searchFlags) (map[string]interface{}, error) {
	overrides := globalOverrides()
	changed := cmd.Flags().Changed

	if changed("endpoint") {
		overrides["endpoint"] = f.endpoint
	}
	if changed("extra-headers") {
		headers, err := twitter.ParseExtraHeaders(f.extraHeaders)
		if err != nil {
			return nil, fmt.Errorf("invalid --extra-headers: %w", err)
		}
		overrides["extra-headers"] = headers
	}
	if changed("interval") {
		overrides["interval"] = f.interval
	}
	if changed("max-results") {
		overrides["max-results"] = f.maxResults
	}
	if changed("limit") {
		overrides["limit"] = f.limit
	}
	if changed("output-file") {
		overrides["output-file"] = f.outputFile
	}
	if changed("checkpoint") {
		overrides["checkpoint"] = f.checkpoint
	}

	return overrides, nil
}

// globalOverrides returns the persistent flags shared by every command
func globalOverrides() map[string]interface{} {
	overrides := make(map[string]interface{})
	if logLevel != "" {
		overrides["log-level"] = logLevel
	}
	if logFile != "" {
		overrides["log-file"] = logFile
	}
	return overrides
}

// granularity maps the counts flags to the API bucket name
func (f *searchFlags) granularity() *string {
	var g string
	switch {
	case f.days:
		g = "day"
	case f.hours:
		g = "hour"
	case f.minutes:
		g = "minute"
	default:
		return nil
	}
	return &g
}

// buildQuery assembles the request parameters. A flag that was not given
// stays nil and is not sent; a given one is sent as typed, even when empty.
// The page size comes from the merged configuration so a config file can
// set it too.
func buildQuery(cmd *cobra.Command, text string, f *searchFlags, cfg *config.Config) search.Query {
	given := func(name, value string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		return &value
	}

	maxResults := cfg.Search.MaxResults
	return search.Query{
		Query:       text,
		StartTime:   given("start-time", f.startTime),
		EndTime:     given("end-time", f.endTime),
		SinceID:     given("since-id", f.sinceID),
		UntilID:     given("until-id", f.untilID),
		Expansions:  given("expansions", f.expansions),
		TweetFields: given("tweet-fields", f.tweetFields),
		MediaFields: given("media-fields", f.mediaFields),
		PollFields:  given("poll-fields", f.pollFields),
		PlaceFields: given("place-fields", f.placeFields),
		UserFields:  given("user-fields", f.userFields),
		MaxResults:  &maxResults,
		Granularity: f.granularity(),
	}
}

func runSearch(cmd *cobra.Command, text string, f *searchFlags) error {
	overrides, err := flagOverrides(cmd, f)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configFile, overrides)
	if err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetLogger(log)

	cred, err := auth.NewManager().Resolve(cfg.API.BearerToken)
	if err != nil {
		log.WithError(err).Warn("Failed to read bearer token from keyring")
	}
	if cred.Source == auth.SourceNone {
		log.Warn("No bearer token configured, requests will be rejected")
	} else {
		log.WithField("source", string(cred.Source)).Debug("Bearer token resolved")
	}
	cfg.API.BearerToken = cred.Token

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := twitter.NewClient(&cfg.API, log)
	paginator := search.NewPaginator(client, log).WithProgressInterval(cfg.Search.ProgressInterval)
	q := buildQuery(cmd, text, f, cfg)

	if q.IsCounts() {
		return runCounts(ctx, cmd.OutOrStdout(), paginator, q)
	}

	opts := search.RunOptions{
		Interval:   cfg.Search.Interval,
		Limit:      &cfg.Search.Limit,
		OutputFile: cfg.Output.File,
		Resume:     f.resume,
	}

	var writer *storage.Manager
	if cfg.Output.File != "" {
		writer = storage.NewManager(cfg.Output.File)
		opts.Writer = writer
	}

	if cfg.Checkpoint.Enabled || f.resume {
		key := checkpoint.Fingerprint(twitter.EncodeParams(q.SearchParams()), cfg.Output.File)
		store, err := checkpoint.NewManager(cfg.Checkpoint.Directory, key, log)
		if err != nil {
			return fmt.Errorf("failed to open checkpoint store: %w", err)
		}
		opts.Checkpoint = store
	}

	outcome, err := paginator.Search(ctx, q, opts)
	if err != nil {
		if search.IsCancelled(err) && outcome != nil {
			ui.PrintWarning(fmt.Sprintf("Interrupted after %s records in %d pages", logger.FormatCount(outcome.Total), outcome.Pages))
			if opts.Checkpoint != nil {
				ui.PrintInfo("Resume with", "--resume")
			}
		}
		return err
	}

	if writer == nil {
		return writeJSON(cmd.OutOrStdout(), outcome.Result)
	}

	ui.PrintSuccess(fmt.Sprintf("Captured %s records in %d pages", logger.FormatCount(outcome.Total), outcome.Pages))
	for _, path := range writer.Files() {
		ui.PrintInfo("Wrote", path)
	}
	return nil
}

func runCounts(ctx context.Context, out io.Writer, paginator *search.Paginator, q search.Query) error {
	page, err := paginator.Counts(ctx, q)
	if err != nil {
		return err
	}
	return writeJSON(out, page)
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
