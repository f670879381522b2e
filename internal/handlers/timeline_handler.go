package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/anonto42/collab/backend/internal/middleware"
	"github.com/anonto42/collab/backend/internal/models"
	"github.com/anonto42/collab/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// TimelineHandler serves the caller's news timeline and its update polling
type TimelineHandler struct {
	feed      *services.FeedService
	updates   *services.UpdatePoller
	assembler *services.Assembler
	logger    *slog.Logger
}

func NewTimelineHandler(
	feed *services.FeedService,
	updates *services.UpdatePoller,
	assembler *services.Assembler,
	logger *slog.Logger,
) *TimelineHandler {
	return &TimelineHandler{
		feed:      feed,
		updates:   updates,
		assembler: assembler,
		logger:    logger,
	}
}

// RegisterTimelineRoutes registers news timeline routes
func (h *TimelineHandler) RegisterTimelineRoutes(g *echo.Group) {
	g.GET("/timeline/posts", h.GetNews)
	g.POST("/timeline/posts", h.CreatePost)
	g.GET("/timeline/posts/:id", h.GetPost)
	g.DELETE("/timeline/posts/:id", h.MutePost)
	g.GET("/timeline/updates/count", h.CountUpdates)
	g.GET("/timeline/updates", h.GetUpdates)
}

// GetNews returns one page of the caller's news, newest first
func (h *TimelineHandler) GetNews(c echo.Context) error {
	top, err := topID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	viewerID := middleware.AccountID(c)

	posts, err := h.feed.GetNews(ctx, viewerID, top)
	if err != nil {
		return serviceError(h.logger, err)
	}
	views, err := h.assembler.Posts(ctx, viewerID, posts)
	if err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, views)
}

// CreatePost publishes a post on the caller's wall
func (h *TimelineHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	authorID := middleware.AccountID(c)
	post, err := h.feed.CreatePost(ctx, authorID, req.Content, time.Time{})
	if err != nil {
		return serviceError(h.logger, err)
	}
	views, err := h.assembler.Posts(ctx, authorID, []models.Post{*post})
	if err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusCreated, views[0])
}

func (h *TimelineHandler) GetPost(c echo.Context) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	post, err := h.feed.GetPost(ctx, postID)
	if err != nil {
		return serviceError(h.logger, err)
	}
	views, err := h.assembler.Posts(ctx, middleware.AccountID(c), []models.Post{*post})
	if err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, views[0])
}

// MutePost hides a post from the caller's news without deleting it
func (h *TimelineHandler) MutePost(c echo.Context) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	muted, err := h.feed.DeleteNewsPost(c.Request().Context(), middleware.AccountID(c), postID)
	if err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, echo.Map{"muted": muted})
}

// CountUpdates reports how many news posts are newer than topId
func (h *TimelineHandler) CountUpdates(c echo.Context) error {
	top, err := topID(c)
	if err != nil {
		return err
	}
	count, err := h.updates.CountUpdates(c.Request().Context(), middleware.AccountID(c), top)
	if err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, echo.Map{"posts": count})
}

// GetUpdates returns the news posts newer than topId, oldest first
func (h *TimelineHandler) GetUpdates(c echo.Context) error {
	top, err := topID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	viewerID := middleware.AccountID(c)

	posts, err := h.updates.GetUpdates(ctx, viewerID, top)
	if err != nil {
		return serviceError(h.logger, err)
	}
	views, err := h.assembler.Posts(ctx, viewerID, posts)
	if err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, views)
}
