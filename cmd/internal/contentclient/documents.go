package contentclient

import (
	"time"

	"spacetraveling/models"
	"spacetraveling/richtext"
)

// searchResponse mirrors /api/v2/documents/search.
type searchResponse struct {
	Page             int        `json:"page"`
	ResultsPerPage   int        `json:"results_per_page"`
	ResultsSize      int        `json:"results_size"`
	TotalResultsSize int        `json:"total_results_size"`
	TotalPages       int        `json:"total_pages"`
	NextPage         *string    `json:"next_page"`
	PrevPage         *string    `json:"prev_page"`
	Results          []document `json:"results"`
}

type document struct {
	ID                   string       `json:"id"`
	UID                  string       `json:"uid"`
	Type                 string       `json:"type"`
	FirstPublicationDate *string      `json:"first_publication_date"`
	LastPublicationDate  *string      `json:"last_publication_date"`
	Data                 documentData `json:"data"`
}

type documentData struct {
	Title    string           `json:"title"`
	Subtitle string           `json:"subtitle"`
	Author   string           `json:"author"`
	Banner   *imageField      `json:"banner"`
	Content  []contentSection `json:"content"`
}

type imageField struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type contentSection struct {
	Heading *string           `json:"heading"`
	Body    richtext.RichText `json:"body"`
}

// API timestamps look like 2021-03-25T19:25:28+0000.
var timestampLayouts = []string{
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
}

func parseTimestamp(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	return nil
}

func (r searchResponse) postPage() models.PostPage {
	results := make([]models.PostSummary, 0, len(r.Results))
	for _, d := range r.Results {
		results = append(results, d.postSummary())
	}
	var next *string
	if r.NextPage != nil && *r.NextPage != "" {
		v := *r.NextPage
		next = &v
	}
	return models.PostPage{Results: results, NextPage: next}
}

func (d document) postSummary() models.PostSummary {
	return models.PostSummary{
		UID:                  d.UID,
		FirstPublicationDate: parseTimestamp(d.FirstPublicationDate),
		Title:                d.Data.Title,
		Subtitle:             d.Data.Subtitle,
		Author:               d.Data.Author,
	}
}

func (d document) postDetail() models.PostDetail {
	banner := ""
	if d.Data.Banner != nil {
		banner = d.Data.Banner.URL
	}
	sections := make([]models.Section, 0, len(d.Data.Content))
	for _, s := range d.Data.Content {
		sections = append(sections, models.Section{Heading: s.Heading, Body: s.Body})
	}
	return models.PostDetail{
		UID:                  d.UID,
		FirstPublicationDate: parseTimestamp(d.FirstPublicationDate),
		LastPublicationDate:  parseTimestamp(d.LastPublicationDate),
		Title:                d.Data.Title,
		Subtitle:             d.Data.Subtitle,
		Author:               d.Data.Author,
		BannerURL:            banner,
		Content:              sections,
	}
}
