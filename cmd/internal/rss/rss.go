// Package rss builds the site's RSS feed from post summaries.
package rss

import (
	"time"

	"github.com/gorilla/feeds"

	"spacetraveling/models"
)

type Options struct {
	Title       string
	BaseURL     string
	Description string
}

// Build renders posts, in the given order, as an RSS 2.0 document.
func Build(opts Options, posts []models.PostSummary) (string, error) {
	feed := &feeds.Feed{
		Title:       opts.Title,
		Link:        &feeds.Link{Href: opts.BaseURL + "/"},
		Description: opts.Description,
	}

	for _, p := range posts {
		item := &feeds.Item{
			Id:          p.UID,
			Title:       p.Title,
			Link:        &feeds.Link{Href: opts.BaseURL + "/post/" + p.UID},
			Description: p.Subtitle,
			Author:      &feeds.Author{Name: p.Author},
		}
		if p.FirstPublicationDate != nil {
			item.Created = *p.FirstPublicationDate
			if feed.Created.Before(item.Created) {
				feed.Created = item.Created
			}
		}
		feed.Items = append(feed.Items, item)
	}
	if feed.Created.IsZero() {
		feed.Created = time.Now()
	}
	return feed.ToRss()
}
