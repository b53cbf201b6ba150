// Package listing holds the incremental pagination state of the post list.
package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"spacetraveling/models"
)

var (
	ErrExhausted = errors.New("listing: no further pages")
	ErrInFlight  = errors.New("listing: a page request is already in flight")
)

// PageFetcher follows a next_page cursor.
type PageFetcher interface {
	FetchPage(ctx context.Context, cursor string) (models.PostPage, error)
}

// Source provides the first page and every page after it.
type Source interface {
	PageFetcher
	FirstPage(ctx context.Context, documentType string, pageSize int) (models.PostPage, error)
}

type Status int

const (
	// StatusLoaded means a page was fetched and appended.
	StatusLoaded Status = iota
	// StatusExhausted means there was no cursor; nothing was fetched.
	StatusExhausted
	// StatusBusy means another LoadMore was still running; nothing was fetched.
	StatusBusy
	// StatusFailed means the fetch failed and the state is unchanged.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusExhausted:
		return "exhausted"
	case StatusBusy:
		return "busy"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the tagged result of one LoadMore call.
type Outcome struct {
	Status   Status
	Appended int
	Err      error
}

func (o Outcome) OK() bool {
	return o.Status == StatusLoaded
}

// Snapshot is a copy of the feed state for rendering.
type Snapshot struct {
	Posts    []models.PostSummary
	NextPage *string
	Loading  bool
	Err      error
}

// CanLoadMore reports whether a "load more" control should be shown.
func (s Snapshot) CanLoadMore() bool {
	return s.NextPage != nil && !s.Loading
}

// Feed 는 누적된 포스트 목록과 다음 페이지 커서를 가진다.
// 목록은 가져온 순서 그대로 쌓이고 중복 제거는 하지 않는다.
// 요청이 진행 중일 때 들어온 LoadMore 는 거절된다.
type Feed struct {
	fetcher PageFetcher

	mu       sync.Mutex
	posts    []models.PostSummary
	next     *string
	inFlight bool
	lastErr  error
}

func NewFeed(initial models.PostPage, fetcher PageFetcher) *Feed {
	f := &Feed{
		fetcher: fetcher,
		posts:   append([]models.PostSummary(nil), initial.Results...),
	}
	f.next = cloneCursor(initial)
	return f
}

// Load builds a feed from the first page of documentType.
func Load(ctx context.Context, src Source, documentType string, pageSize int) (*Feed, error) {
	page, err := src.FirstPage(ctx, documentType, pageSize)
	if err != nil {
		return nil, fmt.Errorf("load first page: %w", err)
	}
	return NewFeed(page, src), nil
}

// LoadMore fetches the page at the current cursor and appends its results.
func (f *Feed) LoadMore(ctx context.Context) Outcome {
	f.mu.Lock()
	if f.next == nil {
		f.mu.Unlock()
		return Outcome{Status: StatusExhausted, Err: ErrExhausted}
	}
	if f.inFlight {
		f.mu.Unlock()
		return Outcome{Status: StatusBusy, Err: ErrInFlight}
	}
	f.inFlight = true
	cursor := *f.next
	f.mu.Unlock()

	page, err := f.fetcher.FetchPage(ctx, cursor)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false
	if err != nil {
		f.lastErr = err
		return Outcome{Status: StatusFailed, Err: err}
	}
	f.posts = append(f.posts, page.Results...)
	f.next = cloneCursor(page)
	f.lastErr = nil
	return Outcome{Status: StatusLoaded, Appended: len(page.Results)}
}

// CanLoadMore is true when a cursor remains and nothing is in flight.
func (f *Feed) CanLoadMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.next != nil && !f.inFlight
}

// LastError returns the error of the most recent failed LoadMore, cleared on success.
func (f *Feed) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

func (f *Feed) Posts() []models.PostSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.PostSummary(nil), f.posts...)
}

func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	var next *string
	if f.next != nil {
		v := *f.next
		next = &v
	}
	return Snapshot{
		Posts:    append([]models.PostSummary(nil), f.posts...),
		NextPage: next,
		Loading:  f.inFlight,
		Err:      f.lastErr,
	}
}

func cloneCursor(p models.PostPage) *string {
	if !p.HasNext() {
		return nil
	}
	v := *p.NextPage
	return &v
}
