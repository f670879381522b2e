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

// PostHandler handles owner actions and interactions on single posts
type PostHandler struct {
	feed      *services.FeedService
	assembler *services.Assembler
	logger    *slog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(feed *services.FeedService, assembler *services.Assembler, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		feed:      feed,
		assembler: assembler,
		logger:    logger,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.DELETE("/wall/posts/:id", h.DeletePost)
	g.POST("/posts/:id/lock", h.LockPost)
	g.DELETE("/posts/:id/lock", h.UnlockPost)
	g.GET("/posts/:id/comments", h.GetComments)
	g.POST("/posts/:id/comments", h.CreateComment)
	g.POST("/posts/:id/like", h.LikePost)
	g.DELETE("/posts/:id/like", h.UnlikePost)
}

// DeletePost removes one of the caller's posts for everybody
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.feed.DeleteWallPost(c.Request().Context(), middleware.AccountID(c), postID); err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, echo.Map{"deleted": true})
}

func (h *PostHandler) LockPost(c echo.Context) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.feed.LockPost(c.Request().Context(), middleware.AccountID(c), postID); err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, echo.Map{"readonly": true})
}

func (h *PostHandler) UnlockPost(c echo.Context) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.feed.UnlockPost(c.Request().Context(), middleware.AccountID(c), postID); err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, echo.Map{"readonly": false})
}

// GetComments lists the comments of a post, oldest first
func (h *PostHandler) GetComments(c echo.Context) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	comments, err := h.feed.GetComments(ctx, postID)
	if err != nil {
		return serviceError(h.logger, err)
	}
	views, err := h.assembler.Comments(ctx, comments)
	if err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, views)
}

// CreateComment adds a comment to an unlocked post
func (h *PostHandler) CreateComment(c echo.Context) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	comment, err := h.feed.AddComment(ctx, middleware.AccountID(c), postID, req.Content, time.Time{})
	if err != nil {
		return serviceError(h.logger, err)
	}
	views, err := h.assembler.Comments(ctx, []models.Comment{*comment})
	if err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusCreated, views[0])
}

func (h *PostHandler) LikePost(c echo.Context) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.feed.AddLike(c.Request().Context(), middleware.AccountID(c), postID); err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusCreated, echo.Map{"liked": true})
}

func (h *PostHandler) UnlikePost(c echo.Context) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.feed.RemoveLike(c.Request().Context(), middleware.AccountID(c), postID); err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, echo.Map{"liked": false})
}
