package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/geolens/models"
	"github.com/use-agent/geolens/scraper"
)

// PageFetcher downloads a page for preview.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (*scraper.Page, error)
}

// Previewer extracts the readable content of a page.
type Previewer interface {
	Preview(rawHTML, sourceURL, selector string) (*models.ContentResponse, error)
}

// Content returns a handler for GET /api/content.
//
// It fetches the page through the same engines as an audit and returns its
// readable text and Markdown, optionally narrowed by a CSS selector.
func Content(f PageFetcher, p Previewer, allowPrivate bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ContentRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: "URL is required",
				Code:  models.ErrCodeInvalidInput,
			})
			return
		}

		url, err := scraper.NormalizeURL(req.URL, allowPrivate)
		if err != nil {
			respondError(c, err)
			return
		}

		page, err := f.FetchPage(c.Request.Context(), url)
		if err != nil {
			respondError(c, err)
			return
		}

		resp, err := p.Preview(page.HTML, page.FinalURL, req.Selector)
		if err != nil {
			respondError(c, err)
			return
		}
		if resp.Title == "" {
			resp.Title = page.Title
		}
		c.JSON(http.StatusOK, resp)
	}
}
