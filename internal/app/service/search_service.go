package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/tubemark-backend/internal/metrics"
	"github.com/ikkim/tubemark-backend/pkg/logger"
	"github.com/ikkim/tubemark-backend/pkg/youtube"
)

var (
	ErrEmptyQuery        = errors.New("search query is required")
	ErrSearchUnavailable = errors.New("video search is unavailable")
)

// VideoSearcher is the external search provider
type VideoSearcher interface {
	Search(ctx context.Context, query string) ([]youtube.Video, error)
}

type SearchService interface {
	Search(ctx context.Context, query string) ([]youtube.Video, error)
}

type searchService struct {
	searcher VideoSearcher
}

// NewSearchService wraps a provider. A nil searcher makes every search
// report ErrSearchUnavailable.
func NewSearchService(searcher VideoSearcher) SearchService {
	return &searchService{searcher: searcher}
}

func (s *searchService) Search(ctx context.Context, query string) ([]youtube.Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if s.searcher == nil {
		logger.Warn("Video search requested but no provider is configured")
		return nil, ErrSearchUnavailable
	}

	startTime := time.Now()
	videos, err := s.searcher.Search(ctx, query)
	metrics.RecordSearch(err, startTime)
	if err != nil {
		logger.Error("Video search failed", err, map[string]interface{}{
			"query": query,
		})
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}

	logger.Info("Video search completed", map[string]interface{}{
		"query":   query,
		"results": len(videos),
	})
	return videos, nil
}
