package models

import (
	"errors"
	"time"

	"spacetraveling/richtext"
)

// ErrNotFound is returned when the content service has no document for an identifier.
var ErrNotFound = errors.New("post not found")

// PostSummary 는 목록 화면에 필요한 최소 필드만 담는다. uid 가 식별자다.
type PostSummary struct {
	UID                  string     `json:"uid"`
	FirstPublicationDate *time.Time `json:"first_publication_date"`
	Title                string     `json:"title"`
	Subtitle             string     `json:"subtitle"`
	Author               string     `json:"author"`
}

// PostPage is one page of summaries plus the continuation cursor.
// A nil NextPage means there are no further pages.
type PostPage struct {
	Results  []PostSummary `json:"results"`
	NextPage *string       `json:"next_page"`
}

func (p PostPage) HasNext() bool {
	return p.NextPage != nil && *p.NextPage != ""
}

// Section 은 본문의 한 구획이다. Heading 은 없을 수 있다.
type Section struct {
	Heading *string           `json:"heading"`
	Body    richtext.RichText `json:"body"`
}

// PostDetail is the full post as rendered on its own page.
type PostDetail struct {
	UID                  string     `json:"uid"`
	FirstPublicationDate *time.Time `json:"first_publication_date"`
	LastPublicationDate  *time.Time `json:"last_publication_date"`
	Title                string     `json:"title"`
	Subtitle             string     `json:"subtitle"`
	Author               string     `json:"author"`
	BannerURL            string     `json:"banner_url"`
	Content              []Section  `json:"content"`
}

// Summary projects the detail down to its listing fields.
func (p PostDetail) Summary() PostSummary {
	return PostSummary{
		UID:                  p.UID,
		FirstPublicationDate: p.FirstPublicationDate,
		Title:                p.Title,
		Subtitle:             p.Subtitle,
		Author:               p.Author,
	}
}
