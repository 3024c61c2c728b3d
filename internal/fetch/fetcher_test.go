package fetch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/rgajunior/trading/pkg/news"
)

type fakeClient struct {
	mu          sync.Mutex
	queries     []news.Query
	inFlight    int
	maxInFlight int

	delay       time.Duration
	failSymbols map[string]bool
}

func (f *fakeClient) FetchQuery(ctx context.Context, q news.Query) ([]news.Item, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if f.failSymbols[q.Symbols[0]] {
		return nil, errors.New("boom")
	}

	items := make([]news.Item, len(q.Symbols))
	for i, s := range q.Symbols {
		items[i] = news.Item{ID: s, Title: s + " in the news"}
	}
	return items, nil
}

func (f *fakeClient) Name() string { return "fake" }

func testOptions() Options {
	return Options{
		GroupSize: 20,
		Workers:   10,
		Stagger:   0,
		Timeout:   time.Second,
		Topic:     "stock",
		MaxAge:    time.Hour,
	}
}

func symbols(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("SYM%03d", i)
	}
	return out
}

func TestPartition(t *testing.T) {
	cases := []struct {
		total      int
		size       int
		wantGroups int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{19, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 20, 3},
	}

	for _, c := range cases {
		groups := partition(symbols(c.total), c.size)
		assert.Equal(t, c.wantGroups, len(groups))

		seen := make([]string, 0, c.total)
		for _, g := range groups {
			if len(g) > c.size {
				t.Errorf("group of %d exceeds size %d", len(g), c.size)
			}
			seen = append(seen, g...)
		}
		assert.Equal(t, symbols(c.total), seen)
	}
}

func TestFetchEmptySymbolsMakesNoCalls(t *testing.T) {
	client := &fakeClient{}
	f := New(client, testOptions())

	items, stats := f.Fetch(context.Background(), nil)

	assert.Equal(t, 0, len(items))
	assert.Equal(t, 0, stats.Groups)
	assert.Equal(t, 0, len(client.queries))
}

func TestFetchMergesAllGroups(t *testing.T) {
	client := &fakeClient{}
	f := New(client, testOptions())

	input := symbols(45)
	items, stats := f.Fetch(context.Background(), input)

	assert.Equal(t, 3, stats.Groups)
	assert.Equal(t, 0, stats.FailedGroups)
	assert.Equal(t, 45, stats.Items)
	assert.Equal(t, 3, len(client.queries))

	// every symbol was queried exactly once
	var queried []string
	for _, q := range client.queries {
		queried = append(queried, q.Symbols...)
	}
	sort.Strings(queried)
	assert.Equal(t, input, queried)

	// and each produced one item
	got := make(map[string]bool, len(items))
	for _, item := range items {
		got[item.ID] = true
	}
	assert.Equal(t, 45, len(got))
}

func TestFetchGroupFailureDegrades(t *testing.T) {
	client := &fakeClient{failSymbols: map[string]bool{"SYM020": true}}
	f := New(client, testOptions())

	items, stats := f.Fetch(context.Background(), symbols(45))

	assert.Equal(t, 3, stats.Groups)
	assert.Equal(t, 1, stats.FailedGroups)
	assert.Equal(t, 25, stats.Items)
	assert.Equal(t, 25, len(items))
}

func TestFetchBoundsConcurrency(t *testing.T) {
	client := &fakeClient{delay: 20 * time.Millisecond}
	opts := testOptions()
	opts.GroupSize = 5
	opts.Workers = 2
	f := New(client, opts)

	_, stats := f.Fetch(context.Background(), symbols(30))

	assert.Equal(t, 6, stats.Groups)
	if client.maxInFlight > 2 {
		t.Errorf("saw %d requests in flight, want at most 2", client.maxInFlight)
	}
}

func TestFetchStaggersSubmissions(t *testing.T) {
	client := &fakeClient{}
	opts := testOptions()
	opts.GroupSize = 5
	opts.Stagger = 20 * time.Millisecond
	f := New(client, opts)

	start := time.Now()
	_, stats := f.Fetch(context.Background(), symbols(15))
	elapsed := time.Since(start)

	assert.Equal(t, 3, stats.Groups)
	if elapsed < 40*time.Millisecond {
		t.Errorf("three submissions finished in %v, want at least two stagger intervals", elapsed)
	}
}

func TestFetchQueryCarriesTopicAndAge(t *testing.T) {
	client := &fakeClient{}
	f := New(client, testOptions())

	f.Fetch(context.Background(), symbols(3))

	assert.Equal(t, 1, len(client.queries))
	assert.Equal(t, "stock", client.queries[0].Topic)
	assert.Equal(t, time.Hour, client.queries[0].MaxAge)
}
