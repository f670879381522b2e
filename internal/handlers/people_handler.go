package handlers

import (
	"log/slog"
	"net/http"

	"github.com/anonto42/collab/backend/internal/middleware"
	"github.com/anonto42/collab/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PeopleHandler serves the social graph and public walls
type PeopleHandler struct {
	graph     *services.GraphService
	feed      *services.FeedService
	assembler *services.Assembler
	logger    *slog.Logger
}

func NewPeopleHandler(graph *services.GraphService, feed *services.FeedService, assembler *services.Assembler, logger *slog.Logger) *PeopleHandler {
	return &PeopleHandler{
		graph:     graph,
		feed:      feed,
		assembler: assembler,
		logger:    logger,
	}
}

// RegisterPeopleRoutes registers people and follow routes
func (h *PeopleHandler) RegisterPeopleRoutes(g *echo.Group) {
	g.GET("/people", h.GetPeople)
	g.GET("/people/:account", h.GetProfile)
	g.POST("/people/:account/follow", h.Follow)
	g.DELETE("/people/:account/follow", h.Unfollow)
	g.GET("/people/:account/followers", h.GetFollowers)
	g.GET("/people/:account/following", h.GetFollowing)
	g.GET("/people/:account/timeline", h.GetWall)
}

func (h *PeopleHandler) GetPeople(c echo.Context) error {
	top, err := topID(c)
	if err != nil {
		return err
	}
	people, err := h.graph.GetPeople(c.Request().Context(), middleware.AccountID(c), top)
	if err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, people)
}

// GetProfile returns a public profile with its counters
func (h *PeopleHandler) GetProfile(c echo.Context) error {
	profile, err := h.graph.GetPublicProfile(c.Request().Context(), middleware.AccountID(c), c.Param("account"))
	if err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, profile)
}

func (h *PeopleHandler) Follow(c echo.Context) error {
	if err := h.graph.Follow(c.Request().Context(), middleware.AccountID(c), c.Param("account")); err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, echo.Map{"following": true})
}

func (h *PeopleHandler) Unfollow(c echo.Context) error {
	if err := h.graph.Unfollow(c.Request().Context(), middleware.AccountID(c), c.Param("account")); err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, echo.Map{"following": false})
}

func (h *PeopleHandler) GetFollowers(c echo.Context) error {
	top, err := topID(c)
	if err != nil {
		return err
	}
	people, err := h.graph.GetFollowers(c.Request().Context(), middleware.AccountID(c), c.Param("account"), top)
	if err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, people)
}

func (h *PeopleHandler) GetFollowing(c echo.Context) error {
	top, err := topID(c)
	if err != nil {
		return err
	}
	people, err := h.graph.GetFollowing(c.Request().Context(), middleware.AccountID(c), c.Param("account"), top)
	if err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, people)
}

// GetWall returns the posts written by one account
func (h *PeopleHandler) GetWall(c echo.Context) error {
	top, err := topID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	posts, err := h.feed.GetWall(ctx, c.Param("account"), top)
	if err != nil {
		return serviceError(h.logger, err)
	}
	views, err := h.assembler.Posts(ctx, middleware.AccountID(c), posts)
	if err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, views)
}
