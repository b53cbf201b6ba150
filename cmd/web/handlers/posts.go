package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spacetraveling/cmd/internal/contentclient"
	"spacetraveling/cmd/internal/eventbus"
	"spacetraveling/cmd/web/dto"
	"spacetraveling/cmd/web/services"
)

// ListPostsHandler godoc
// @Summary      List posts
// @Description  One page of post summaries. Follow next_page until it is null.
// @Tags         posts
// @Param        cursor  query  string  false  "Opaque cursor taken from a previous next_page"
// @Produce      json
// @Success      200  {object}  dto.PostPageDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      502  {object}  dto.ErrorResponseDTO
// @Router       /posts [get]
func ListPostsHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := svc.Page(c.Request.Context(), c.Query("cursor"))
		if err != nil {
			_ = c.Error(err)
			if errors.Is(err, contentclient.ErrInvalidCursor) {
				c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_cursor"})
				return
			}
			c.JSON(http.StatusBadGateway, dto.ErrorResponseDTO{Error: "content_api_unavailable"})
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// FeedHandler godoc
// @Summary      RSS feed
// @Description  RSS 2.0 feed of the latest posts
// @Tags         feed
// @Produce      xml
// @Success      200  {string}  string
// @Router       /feed.xml [get]
func FeedHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		xml, err := svc.Feed(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			c.String(http.StatusBadGateway, "content api unavailable")
			return
		}
		c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(xml))
	}
}

// HealthHandler godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthDTO
// @Failure      503  {object}  dto.HealthDTO
// @Router       /health [get]
func HealthHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := svc.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, dto.HealthDTO{Status: "degraded", ContentService: "down", Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, dto.HealthDTO{Status: "ok"})
	}
}

// RebuildPublisher is the part of the event bus the webhook needs.
type RebuildPublisher interface {
	PublishRebuild(ctx context.Context, reason, source string) (eventbus.RebuildRequestedEvent, error)
}

// ContentWebhookHandler godoc
// @Summary      Content changed webhook
// @Description  Called by the CMS after a publish; schedules a static site rebuild
// @Tags         webhooks
// @Produce      json
// @Success      202  {object}  dto.RebuildAcceptedDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /webhooks/content [post]
func ContentWebhookHandler(bus RebuildPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := bus.PublishRebuild(c.Request.Context(), "content published", "webhook")
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "publish_failed"})
			return
		}
		c.JSON(http.StatusAccepted, dto.RebuildAcceptedDTO{ID: event.ID, Message: "rebuild requested"})
	}
}
