package services

import (
	"context"

	"github.com/anonto42/collab/backend/internal/models"
	"github.com/anonto42/collab/backend/internal/repositories"
)

// UpdatePoller reports news posts newer than a client's watermark. It
// uses the same filter as FeedService.GetNews.
type UpdatePoller struct {
	posts repositories.PostRepository
	graph *GraphService
}

func NewUpdatePoller(posts repositories.PostRepository, graph *GraphService) *UpdatePoller {
	return &UpdatePoller{posts: posts, graph: graph}
}

// CountUpdates counts news posts with id > topID.
func (p *UpdatePoller) CountUpdates(ctx context.Context, viewerID, topID uint) (int64, error) {
	filter, err := p.graph.NewsFilter(ctx, viewerID)
	if err != nil {
		return 0, err
	}
	n, err := p.posts.CountNewsAfter(ctx, filter, topID)
	if err != nil {
		return 0, storageError("count updates", err)
	}
	return n, nil
}

// GetUpdates returns news posts with id > topID, oldest first, at most
// UpdatesLimit of them. Polling again with the last returned id yields
// the rest.
func (p *UpdatePoller) GetUpdates(ctx context.Context, viewerID, topID uint) ([]models.Post, error) {
	filter, err := p.graph.NewsFilter(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	posts, err := p.posts.GetNewsAfter(ctx, filter, topID, UpdatesLimit)
	if err != nil {
		return nil, storageError("get updates", err)
	}
	return posts, nil
}
