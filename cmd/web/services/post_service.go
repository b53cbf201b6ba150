package services

import (
	"context"
	"errors"
	"net/url"

	"spacetraveling/cmd/internal/contentclient"
	"spacetraveling/cmd/internal/logger"
	"spacetraveling/cmd/internal/rss"
	"spacetraveling/cmd/web/dto"
	"spacetraveling/config"
	"spacetraveling/datefmt"
	"spacetraveling/detail"
	"spacetraveling/listing"
	"spacetraveling/models"
)

// PostsAPIPath is the route of the JSON listing; next_page links point back at it.
const PostsAPIPath = "/api/v1/posts"

// PostService encapsulates the page-level use cases on top of the content API.
//
// - client: Prismic 호환 content API 를 호출한다.
// - 페이지 요청마다 새 listing.Feed 를 만든다. 서버 측에 목록 상태를 두지 않는다.
type PostService struct {
	client   *contentclient.Client
	resolver *detail.Resolver
	cfg      config.AppConfig
}

func NewPostService(client *contentclient.Client, cfg config.AppConfig) *PostService {
	return &PostService{
		client:   client,
		resolver: detail.NewResolver(client, cfg.Content.DocumentType),
		cfg:      cfg,
	}
}

// ListingResult is the listing state after replaying LoadMore.
type ListingResult struct {
	Snapshot listing.Snapshot
	// Pages is the number of pages actually loaded.
	Pages int
	// AtLimit is set when Pages reached listing.max_pages.
	AtLimit bool
}

// Listing loads the first page and then replays LoadMore until pages pages are
// shown or the cursor runs out. A failed replay stops early and is reported on
// the snapshot, not as an error.
func (s *PostService) Listing(ctx context.Context, pages int) (ListingResult, error) {
	pages = s.clampPages(pages)

	feed, err := listing.Load(ctx, s.client, s.cfg.Content.DocumentType, s.cfg.Listing.PageSize)
	if err != nil {
		return ListingResult{}, err
	}
	loaded := 1
	for loaded < pages {
		out := feed.LoadMore(ctx)
		if out.Status == listing.StatusFailed {
			logger.WarnWithFields("load more failed", logger.Fields{"page": loaded + 1, "error": out.Err.Error()})
		}
		if !out.OK() {
			break
		}
		loaded++
	}
	return ListingResult{
		Snapshot: feed.Snapshot(),
		Pages:    loaded,
		AtLimit:  s.cfg.Listing.MaxPages > 0 && loaded >= s.cfg.Listing.MaxPages,
	}, nil
}

func (s *PostService) clampPages(pages int) int {
	if pages < 1 {
		return 1
	}
	if limit := s.cfg.Listing.MaxPages; limit > 0 && pages > limit {
		return limit
	}
	return pages
}

// Post resolves one post within the configured fallback timeout. When the
// timeout elapses the loading view is returned with detail.ErrNotReady.
func (s *PostService) Post(ctx context.Context, uid string) (detail.View, error) {
	if s.cfg.Site.FallbackTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Site.FallbackTimeout)
		defer cancel()
	}
	view, err := s.resolver.Resolve(ctx, uid, "")
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		logger.ErrorWithFields("resolve post failed", logger.Fields{"uid": uid, "error": err.Error()})
	}
	return view, err
}

// Page returns one listing page for the JSON API. An empty cursor means the first page.
func (s *PostService) Page(ctx context.Context, cursor string) (dto.PostPageDTO, error) {
	var (
		page models.PostPage
		err  error
	)
	if cursor == "" {
		page, err = s.client.FirstPage(ctx, s.cfg.Content.DocumentType, s.cfg.Listing.PageSize)
	} else {
		page, err = s.client.FetchPage(ctx, cursor)
	}
	if err != nil {
		return dto.PostPageDTO{}, err
	}
	return mapPostPage(page), nil
}

// Feed renders the RSS feed of the first listing page.
func (s *PostService) Feed(ctx context.Context) (string, error) {
	page, err := s.client.FirstPage(ctx, s.cfg.Content.DocumentType, s.cfg.Listing.PageSize)
	if err != nil {
		return "", err
	}
	return rss.Build(rss.Options{
		Title:       s.cfg.Site.Title,
		BaseURL:     s.cfg.Site.BaseURL,
		Description: s.cfg.Site.Title + " blog",
	}, page.Results)
}

func (s *PostService) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

func mapPostPage(page models.PostPage) dto.PostPageDTO {
	out := dto.PostPageDTO{Results: make([]dto.PostSummaryDTO, 0, len(page.Results))}
	for _, p := range page.Results {
		out.Results = append(out.Results, dto.PostSummaryDTO{
			UID:                  p.UID,
			FirstPublicationDate: p.FirstPublicationDate,
			PublishedLabel:       datefmt.Format(p.FirstPublicationDate),
			Title:                p.Title,
			Subtitle:             p.Subtitle,
			Author:               p.Author,
		})
	}
	if page.HasNext() {
		next := PostsAPIPath + "?cursor=" + url.QueryEscape(*page.NextPage)
		out.NextPage = &next
	}
	return out
}
