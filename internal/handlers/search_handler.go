package handlers

import (
	"log/slog"
	"net/http"

	"github.com/anonto42/collab/backend/internal/middleware"
	"github.com/anonto42/collab/backend/internal/models"
	"github.com/anonto42/collab/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// SearchHandler serves hashtag search and the caller's mentions
type SearchHandler struct {
	feed      *services.FeedService
	assembler *services.Assembler
	logger    *slog.Logger
}

func NewSearchHandler(feed *services.FeedService, assembler *services.Assembler, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		feed:      feed,
		assembler: assembler,
		logger:    logger,
	}
}

// RegisterSearchRoutes registers search routes
func (h *SearchHandler) RegisterSearchRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
	g.GET("/mentions", h.GetMentions)
}

// Search finds posts by hashtag, with or without the leading '#'
func (h *SearchHandler) Search(c echo.Context) error {
	top, err := topID(c)
	if err != nil {
		return err
	}
	posts, err := h.feed.GetPostsByHashTag(c.Request().Context(), c.QueryParam("q"), top)
	if err != nil {
		return serviceError(h.logger, err)
	}
	return h.render(c, posts)
}

// GetMentions returns the posts mentioning the caller
func (h *SearchHandler) GetMentions(c echo.Context) error {
	top, err := topID(c)
	if err != nil {
		return err
	}
	claims := middleware.Claims(c)
	posts, err := h.feed.GetMentions(c.Request().Context(), claims.Account, top)
	if err != nil {
		return serviceError(h.logger, err)
	}
	return h.render(c, posts)
}

func (h *SearchHandler) render(c echo.Context, posts []models.Post) error {
	views, err := h.assembler.Posts(c.Request().Context(), middleware.AccountID(c), posts)
	if err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, views)
}
