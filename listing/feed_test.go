package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacetraveling/models"
)

type fakeFetcher struct {
	pages map[string]models.PostPage
	errs  map[string]error
	calls []string

	// when set, FetchPage signals started and waits for release
	started chan struct{}
	release chan struct{}
}

func (f *fakeFetcher) FetchPage(ctx context.Context, cursor string) (models.PostPage, error) {
	f.calls = append(f.calls, cursor)
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	if err := f.errs[cursor]; err != nil {
		return models.PostPage{}, err
	}
	return f.pages[cursor], nil
}

func (f *fakeFetcher) FirstPage(ctx context.Context, documentType string, pageSize int) (models.PostPage, error) {
	return f.pages[""], nil
}

func cursor(s string) *string {
	return &s
}

func summaries(uids ...string) []models.PostSummary {
	out := make([]models.PostSummary, 0, len(uids))
	for _, uid := range uids {
		out = append(out, models.PostSummary{UID: uid})
	}
	return out
}

func uidsOf(posts []models.PostSummary) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.UID)
	}
	return out
}

func TestLoadMoreAppendsInOrder(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]models.PostPage{
		"X": {Results: summaries("c"), NextPage: nil},
	}}
	feed := NewFeed(models.PostPage{Results: summaries("a", "b"), NextPage: cursor("X")}, fetcher)
	require.True(t, feed.CanLoadMore())

	out := feed.LoadMore(context.Background())
	assert.Equal(t, StatusLoaded, out.Status)
	assert.True(t, out.OK())
	assert.Equal(t, 1, out.Appended)
	assert.Equal(t, []string{"a", "b", "c"}, uidsOf(feed.Posts()))
	assert.False(t, feed.CanLoadMore())
	assert.Nil(t, feed.Snapshot().NextPage)

	out = feed.LoadMore(context.Background())
	assert.Equal(t, StatusExhausted, out.Status)
	assert.True(t, errors.Is(out.Err, ErrExhausted))
	assert.Equal(t, []string{"X"}, fetcher.calls)
}

func TestTwoSequentialPages(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]models.PostPage{
		"":   {Results: nil, NextPage: cursor("P1")},
		"P1": {Results: summaries("a", "b"), NextPage: cursor("X")},
		"X":  {Results: summaries("c"), NextPage: nil},
	}}
	feed, err := Load(context.Background(), fetcher, "posts", 1)
	require.NoError(t, err)

	for feed.CanLoadMore() {
		out := feed.LoadMore(context.Background())
		require.True(t, out.OK())
	}
	assert.Equal(t, []string{"a", "b", "c"}, uidsOf(feed.Posts()))
	assert.False(t, feed.Snapshot().CanLoadMore())
}

func TestLoadMoreAppendsExactlyResultCount(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		uids := make([]string, n)
		for i := range uids {
			uids[i] = string(rune('a' + i))
		}
		fetcher := &fakeFetcher{pages: map[string]models.PostPage{
			"next": {Results: summaries(uids...), NextPage: cursor("after")},
		}}
		feed := NewFeed(models.PostPage{Results: summaries("first"), NextPage: cursor("next")}, fetcher)

		out := feed.LoadMore(context.Background())
		assert.Equal(t, n, out.Appended)
		assert.Equal(t, append([]string{"first"}, uids...), uidsOf(feed.Posts()))
		assert.Equal(t, "after", *feed.Snapshot().NextPage)
	}
}

func TestDuplicatesAreKept(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]models.PostPage{
		"X": {Results: summaries("a")},
	}}
	feed := NewFeed(models.PostPage{Results: summaries("a"), NextPage: cursor("X")}, fetcher)
	feed.LoadMore(context.Background())
	assert.Equal(t, []string{"a", "a"}, uidsOf(feed.Posts()))
}

func TestLoadMoreFailureLeavesStateUnchanged(t *testing.T) {
	boom := errors.New("network down")
	fetcher := &fakeFetcher{errs: map[string]error{"X": boom}}
	feed := NewFeed(models.PostPage{Results: summaries("a"), NextPage: cursor("X")}, fetcher)

	out := feed.LoadMore(context.Background())
	assert.Equal(t, StatusFailed, out.Status)
	assert.True(t, errors.Is(out.Err, boom))
	assert.Equal(t, []string{"a"}, uidsOf(feed.Posts()))
	assert.True(t, feed.CanLoadMore())
	assert.Equal(t, boom, feed.LastError())
	assert.Equal(t, boom, feed.Snapshot().Err)

	// retry by the user clears the error
	delete(fetcher.errs, "X")
	fetcher.pages = map[string]models.PostPage{"X": {Results: summaries("b")}}
	out = feed.LoadMore(context.Background())
	assert.True(t, out.OK())
	assert.NoError(t, feed.LastError())
}

func TestLoadMoreRejectsReentrantCall(t *testing.T) {
	fetcher := &fakeFetcher{
		pages:   map[string]models.PostPage{"X": {Results: summaries("b"), NextPage: cursor("Y")}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	feed := NewFeed(models.PostPage{Results: summaries("a"), NextPage: cursor("X")}, fetcher)

	done := make(chan Outcome)
	go func() { done <- feed.LoadMore(context.Background()) }()
	<-fetcher.started

	assert.False(t, feed.CanLoadMore())
	assert.True(t, feed.Snapshot().Loading)
	busy := feed.LoadMore(context.Background())
	assert.Equal(t, StatusBusy, busy.Status)
	assert.True(t, errors.Is(busy.Err, ErrInFlight))

	close(fetcher.release)
	first := <-done
	assert.True(t, first.OK())
	assert.Equal(t, []string{"a", "b"}, uidsOf(feed.Posts()))
	assert.Equal(t, []string{"X"}, fetcher.calls)
	assert.True(t, feed.CanLoadMore())
}

func TestEmptyCursorMeansExhausted(t *testing.T) {
	feed := NewFeed(models.PostPage{Results: summaries("a"), NextPage: cursor("")}, &fakeFetcher{})
	assert.False(t, feed.CanLoadMore())
	assert.Equal(t, StatusExhausted, feed.LoadMore(context.Background()).Status)
}
