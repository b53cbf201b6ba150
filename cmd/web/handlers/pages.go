package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"spacetraveling/cmd/internal/logger"
	"spacetraveling/cmd/internal/views"
	"spacetraveling/cmd/web/services"
	"spacetraveling/detail"
)

const htmlContentType = "text/html; charset=utf-8"

// ListingPageHandler renders the home page. ?pages=N shows the first N pages
// so the "load more" link works without JavaScript.
func ListingPageHandler(svc *services.PostService, renderer *views.Renderer, siteTitle string) gin.HandlerFunc {
	return func(c *gin.Context) {
		pages, err := strconv.Atoi(c.DefaultQuery("pages", "1"))
		if err != nil || pages < 1 {
			pages = 1
		}

		result, err := svc.Listing(c.Request.Context(), pages)
		if err != nil {
			_ = c.Error(err)
			c.String(http.StatusBadGateway, "content api unavailable")
			return
		}

		var next string
		if !result.AtLimit {
			next = "/?pages=" + strconv.Itoa(result.Pages+1)
		}
		page := views.NewListingPage(siteTitle, result.Snapshot, next)
		renderHTML(c, http.StatusOK, func(buf *bytes.Buffer) error {
			return renderer.Listing(buf, page)
		})
	}
}

// PostPageHandler renders /post/:slug.
//
//   - ready: 200
//   - not ready within the fallback timeout: 202 with the loading page
//   - lookup failure: 404 page
func PostPageHandler(svc *services.PostService, renderer *views.Renderer, siteTitle string) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.Post(c.Request.Context(), c.Param("slug"))
		switch {
		case err == nil:
			renderHTML(c, http.StatusOK, func(buf *bytes.Buffer) error {
				return renderer.Post(buf, views.PostPage{SiteTitle: siteTitle, View: view})
			})
		case errors.Is(err, detail.ErrNotReady):
			renderHTML(c, http.StatusAccepted, func(buf *bytes.Buffer) error {
				return renderer.Post(buf, views.PostPage{SiteTitle: siteTitle, View: view})
			})
		default:
			NotFoundHandler(renderer, siteTitle)(c)
		}
	}
}

func NotFoundHandler(renderer *views.Renderer, siteTitle string) gin.HandlerFunc {
	return func(c *gin.Context) {
		renderHTML(c, http.StatusNotFound, func(buf *bytes.Buffer) error {
			return renderer.NotFound(buf, views.NotFoundPage{SiteTitle: siteTitle})
		})
	}
}

// renderHTML renders into a buffer first so a template error never leaves a
// half-written 200 response.
func renderHTML(c *gin.Context, status int, render func(buf *bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		logger.ErrorWithFields("render page failed", logger.Fields{"path": c.Request.URL.Path, "error": err.Error()})
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Data(status, htmlContentType, buf.Bytes())
}
