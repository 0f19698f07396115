package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"twsearch/pkg/storage"
	"twsearch/pkg/twitter"
)

// scriptedFetcher replays canned responses and records every call
type scriptedFetcher struct {
	t         *testing.T
	responses []scriptedResponse
	calls     []fetchCall
	mu        sync.Mutex
}

type scriptedResponse struct {
	body   string
	status int
	err    error
}

type fetchCall struct {
	op     twitter.Operation
	params map[string]any
}

func newScriptedFetcher(t *testing.T, bodies ...string) *scriptedFetcher {
	f := &scriptedFetcher{t: t}
	for _, b := range bodies {
		f.responses = append(f.responses, scriptedResponse{body: b, status: 200})
	}
	return f
}

func (f *scriptedFetcher) Fetch(ctx context.Context, op twitter.Operation, params map[string]any) (*twitter.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// params is reused by the caller between pages, keep a filtered copy
	f.calls = append(f.calls, fetchCall{op: op, params: twitter.FilterParams(params)})
	idx := len(f.calls) - 1
	require.Less(f.t, idx, len(f.responses), "unexpected fetch #%d", idx+1)

	r := f.responses[idx]
	if r.err != nil {
		return nil, r.err
	}

	page := &twitter.PageResponse{}
	require.NoError(f.t, json.Unmarshal([]byte(r.body), page))
	return &twitter.Result{Page: page, StatusCode: r.status}, nil
}

func (f *scriptedFetcher) cursors() []any {
	var out []any
	for _, c := range f.calls {
		out = append(out, c.params[twitter.ParamNextToken])
	}
	return out
}

// pageBody builds a search page with n data records
func pageBody(n int, next string, includes string) string {
	data := "["
	for i := 0; i < n; i++ {
		if i > 0 {
			data += ","
		}
		data += fmt.Sprintf(`{"id":"%d"}`, i)
	}
	data += "]"

	meta := fmt.Sprintf(`{"result_count":%d}`, n)
	if next != "" {
		meta = fmt.Sprintf(`{"result_count":%d,"next_token":%q}`, n, next)
	}

	body := fmt.Sprintf(`{"data":%s,"meta":%s`, data, meta)
	if includes != "" {
		body += `,"includes":` + includes
	}
	return body + "}"
}

// recordingWriter captures write calls
type recordingWriter struct {
	modes []storage.WriteMode
	pages []*twitter.PageResponse
	err   error
}

func (w *recordingWriter) WritePage(page *twitter.PageResponse, mode storage.WriteMode) error {
	if w.err != nil {
		return w.err
	}
	w.modes = append(w.modes, mode)
	w.pages = append(w.pages, page)
	return nil
}

// fakeClock advances only when the paginator sleeps
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }
