// Package views renders the site's HTML pages.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"spacetraveling/datefmt"
	"spacetraveling/detail"
	"spacetraveling/listing"
)

//go:embed templates/*.html
var templateFS embed.FS

// PostCard is one entry of the listing.
type PostCard struct {
	UID       string
	Href      string
	Title     string
	Subtitle  string
	Author    string
	Published string
}

// ListingPage 는 목록 화면 데이터. LoadMoreHref 가 비어 있으면 "더 보기" 버튼을 그리지 않는다.
type ListingPage struct {
	SiteTitle    string
	Posts        []PostCard
	LoadMoreHref string
	Error        string
}

type PostPage struct {
	SiteTitle string
	View      detail.View
}

type NotFoundPage struct {
	SiteTitle string
}

// Renderer executes the embedded page templates.
type Renderer struct {
	listing  *template.Template
	post     *template.Template
	notFound *template.Template
}

func New() (*Renderer, error) {
	parse := func(page string) (*template.Template, error) {
		t, err := template.New("layout.html").ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		return t, nil
	}

	r := &Renderer{}
	var err error
	if r.listing, err = parse("listing.html"); err != nil {
		return nil, err
	}
	if r.post, err = parse("post.html"); err != nil {
		return nil, err
	}
	if r.notFound, err = parse("not_found.html"); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) Listing(w io.Writer, page ListingPage) error {
	return r.listing.Execute(w, page)
}

// Post renders the loading indicator unless the view is ready; not-found
// views must go through NotFound instead.
func (r *Renderer) Post(w io.Writer, page PostPage) error {
	if page.View.IsNotFound() {
		return r.NotFound(w, NotFoundPage{SiteTitle: page.SiteTitle})
	}
	return r.post.Execute(w, page)
}

func (r *Renderer) NotFound(w io.Writer, page NotFoundPage) error {
	return r.notFound.Execute(w, page)
}

// PostHref is the route of a post page.
func PostHref(uid string) string {
	return "/post/" + url.PathEscape(uid)
}

// NewListingPage builds listing data from a feed snapshot. loadMoreHref is
// dropped when the snapshot has no cursor left.
func NewListingPage(siteTitle string, snap listing.Snapshot, loadMoreHref string) ListingPage {
	cards := make([]PostCard, 0, len(snap.Posts))
	for _, p := range snap.Posts {
		cards = append(cards, PostCard{
			UID:       p.UID,
			Href:      PostHref(p.UID),
			Title:     p.Title,
			Subtitle:  p.Subtitle,
			Author:    p.Author,
			Published: datefmt.Format(p.FirstPublicationDate),
		})
	}
	page := ListingPage{SiteTitle: siteTitle, Posts: cards}
	if snap.CanLoadMore() {
		page.LoadMoreHref = loadMoreHref
	}
	if snap.Err != nil {
		page.Error = "Não foi possível carregar mais posts. Tente novamente."
	}
	return page
}
