package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twsearch/pkg/twitter"
)

func decodePage(t *testing.T, body string) *twitter.PageResponse {
	t.Helper()
	var p twitter.PageResponse
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return &p
}

func TestAccumulatedEmpty(t *testing.T) {
	acc := NewAccumulated()
	assert.Empty(t, acc.Sections())

	out, err := json.Marshal(acc)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}

func TestAccumulatedAlwaysHasDataAndErrors(t *testing.T) {
	acc := NewAccumulated()
	acc.Merge(decodePage(t, `{"meta":{"result_count":0}}`))

	assert.Equal(t, []string{SectionData, SectionErrors}, acc.Sections())
	assert.True(t, acc.Has(SectionData))
	assert.Equal(t, 0, acc.Len(SectionData))

	out, err := json.Marshal(acc)
	require.NoError(t, err)
	assert.Equal(t, `{"data":[],"errors":[]}`, string(out))
}

func TestAccumulatedNoDeduplication(t *testing.T) {
	acc := NewAccumulated()
	acc.Merge(decodePage(t, `{"data":[{"id":"1"}]}`))
	acc.Merge(decodePage(t, `{"data":[{"id":"1"}]}`))
	assert.Equal(t, 2, acc.Len(SectionData))
}

func TestAccumulatedIncludeAppearsEvenWhenEmpty(t *testing.T) {
	acc := NewAccumulated()
	acc.Merge(decodePage(t, `{"includes":{"polls":[]}}`))
	assert.True(t, acc.Has("polls"))
	assert.Equal(t, 0, acc.Len("polls"))
}

func TestAccumulatedMarshalOrdered(t *testing.T) {
	acc := NewAccumulated()
	acc.Merge(decodePage(t, `{"data":[{"id":"1"}],"includes":{"users":[{"id":"u"}]}}`))
	acc.Merge(decodePage(t, `{"errors":[{"title":"e"}],"includes":{"media":[{"k":"m"}]}}`))

	out, err := json.Marshal(acc)
	require.NoError(t, err)
	assert.Equal(t, `{"data":[{"id":"1"}],"errors":[{"title":"e"}],"users":[{"id":"u"}],"media":[{"k":"m"}]}`, string(out))

	m := acc.Map()
	assert.Len(t, m, 4)
	assert.Nil(t, acc.Section("places"))
}

func TestAccumulatedMergeNil(t *testing.T) {
	acc := NewAccumulated()
	acc.Merge(nil)
	assert.Equal(t, []string{SectionData, SectionErrors}, acc.Sections())
}

func TestAccumulatedKeepsApiIncludeOrder(t *testing.T) {
	acc := NewAccumulated()
	acc.Merge(decodePage(t, `{"data":[],"includes":{"users":[{"id":"u"}],"media":[{"k":"m"}],"places":[]}}`))
	assert.Equal(t, []string{SectionData, SectionErrors, "users", "media", "places"}, acc.Sections())
}
