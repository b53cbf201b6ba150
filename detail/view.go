// Package detail resolves a single post into the state its page renders.
package detail

import (
	"context"
	"errors"
	"fmt"
	"html/template"

	"spacetraveling/datefmt"
	"spacetraveling/models"
	"spacetraveling/readtime"
	"spacetraveling/richtext"
)

// ErrNotReady signals that the post could not be resolved in time; the page
// shows a loading indicator instead.
var ErrNotReady = errors.New("detail: post not ready")

type State int

const (
	StateLoading State = iota
	StateNotFound
	StateReady
)

// Section is one rendered content section. Body is sanitized markup.
type Section struct {
	Heading    string
	HasHeading bool
	Body       template.HTML
}

// View 는 포스트 페이지가 그리는 상태다. Ready 가 아닐 때 Post 는 nil 이다.
type View struct {
	State          State
	Post           *models.PostDetail
	ReadingMinutes int
	Published      string
	Sections       []Section
}

func (v View) IsLoading() bool  { return v.State == StateLoading }
func (v View) IsNotFound() bool { return v.State == StateNotFound }
func (v View) IsReady() bool    { return v.State == StateReady }

func Loading() View {
	return View{State: StateLoading}
}

func NotFound() View {
	return View{State: StateNotFound}
}

// NewView renders post. A nil post yields the not-found view.
func NewView(post *models.PostDetail) View {
	if post == nil {
		return NotFound()
	}
	sections := make([]Section, 0, len(post.Content))
	for _, s := range post.Content {
		section := Section{
			// sanitized by an allow-list policy before it is marked safe
			Body: template.HTML(richtext.SafeHTML(s.Body)),
		}
		if s.Heading != nil && *s.Heading != "" {
			section.Heading = *s.Heading
			section.HasHeading = true
		}
		sections = append(sections, section)
	}
	return View{
		State:          StateReady,
		Post:           post,
		ReadingMinutes: readtime.Minutes(post),
		Published:      datefmt.Format(post.FirstPublicationDate),
		Sections:       sections,
	}
}

// PostGetter looks a post up by uid. It returns models.ErrNotFound when absent.
type PostGetter interface {
	GetByUID(ctx context.Context, documentType, uid, ref string) (*models.PostDetail, error)
}

type Resolver struct {
	getter       PostGetter
	documentType string
}

func NewResolver(getter PostGetter, documentType string) *Resolver {
	return &Resolver{getter: getter, documentType: documentType}
}

// Resolve always returns a renderable view.
//
//   - found: Ready view, nil error
//   - deadline exceeded: Loading view, ErrNotReady
//   - any other failure: NotFound view and the cause (models.ErrNotFound when simply absent)
func (r *Resolver) Resolve(ctx context.Context, uid, ref string) (View, error) {
	post, err := r.getter.GetByUID(ctx, r.documentType, uid, ref)
	switch {
	case err == nil && post != nil:
		return NewView(post), nil
	case err == nil:
		return NotFound(), models.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return Loading(), fmt.Errorf("%w: %s: %w", ErrNotReady, uid, err)
	default:
		return NotFound(), fmt.Errorf("resolve post %s: %w", uid, err)
	}
}
