package service

import (
	"errors"
	"strings"

	"github.com/ikkim/tubemark-backend/internal/app/model"
	"github.com/ikkim/tubemark-backend/internal/app/repository"
	"github.com/ikkim/tubemark-backend/internal/metrics"
	"github.com/ikkim/tubemark-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInvalidVideo = errors.New("video link is required")
)

type FavoriteService interface {
	MarkFavorite(userID uint, video model.VideoInput) error
	UnmarkFavorite(userID uint, video model.VideoInput) error
	ListFavorites(userID uint) ([]model.FavoriteVideoResponse, error)
}

type favoriteService struct {
	videoRepo repository.VideoRepository
}

func NewFavoriteService(videoRepo repository.VideoRepository) FavoriteService {
	return &favoriteService{videoRepo: videoRepo}
}

func (s *favoriteService) MarkFavorite(userID uint, input model.VideoInput) error {
	link := strings.TrimSpace(input.Link)

	logger.Info("Marking video as favorite", map[string]interface{}{
		"user_id": userID,
		"url":     link,
	})

	if link == "" {
		return ErrInvalidVideo
	}

	video := &model.Video{
		ExternalID:  strings.TrimSpace(input.ID),
		Title:       input.Title,
		Description: input.Description,
		URL:         link,
		Thumbnail:   input.Thumbnail,
	}
	if err := s.videoRepo.Upsert(video); err != nil {
		logger.Error("Failed to save video", err, map[string]interface{}{
			"user_id": userID,
			"url":     link,
		})
		return err
	}

	created, err := s.videoRepo.AddFavorite(userID, video.ID)
	if err != nil {
		logger.Error("Failed to add favorite", err, map[string]interface{}{
			"user_id":  userID,
			"video_id": video.ID,
		})
		return err
	}

	if created {
		metrics.FavoriteEvents.WithLabelValues("mark").Inc()
	}
	logger.Info("Video marked as favorite", map[string]interface{}{
		"user_id":  userID,
		"video_id": video.ID,
		"created":  created,
	})
	return nil
}

func (s *favoriteService) UnmarkFavorite(userID uint, input model.VideoInput) error {
	link := strings.TrimSpace(input.Link)

	logger.Info("Unmarking favorite video", map[string]interface{}{
		"user_id": userID,
		"url":     link,
	})

	if link == "" {
		return ErrInvalidVideo
	}

	video, err := s.videoRepo.FindByURL(link)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Never favorited by anyone; nothing to remove
			return nil
		}
		logger.Error("Failed to find video", err, map[string]interface{}{
			"user_id": userID,
			"url":     link,
		})
		return err
	}

	if err := s.videoRepo.RemoveFavorite(userID, video.ID); err != nil {
		logger.Error("Failed to remove favorite", err, map[string]interface{}{
			"user_id":  userID,
			"video_id": video.ID,
		})
		return err
	}

	metrics.FavoriteEvents.WithLabelValues("unmark").Inc()
	logger.Info("Favorite video unmarked", map[string]interface{}{
		"user_id":  userID,
		"video_id": video.ID,
	})
	return nil
}

func (s *favoriteService) ListFavorites(userID uint) ([]model.FavoriteVideoResponse, error) {
	logger.Debug("Fetching favorite videos", map[string]interface{}{
		"user_id": userID,
	})

	videos, err := s.videoRepo.ListFavorites(userID)
	if err != nil {
		logger.Error("Failed to fetch favorite videos", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	favorites := make([]model.FavoriteVideoResponse, 0, len(videos))
	for i := range videos {
		favorites = append(favorites, videos[i].ToFavoriteResponse())
	}

	logger.Info("Favorite videos fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(favorites),
	})
	return favorites, nil
}
