package repository

import (
	"github.com/ikkim/tubemark-backend/internal/app/model"
	"github.com/ikkim/tubemark-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VideoRepository interface {
	// Upsert finds the video by URL or creates it, refreshing its metadata
	Upsert(video *model.Video) error
	FindByURL(url string) (*model.Video, error)
	// AddFavorite links user and video; created is false if already linked
	AddFavorite(userID, videoID uint) (created bool, err error)
	RemoveFavorite(userID, videoID uint) error
	// ListFavorites returns the user's videos, most recently favorited first
	ListFavorites(userID uint) ([]model.Video, error)
}

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Upsert(video *model.Video) error {
	logger.Debug("Upserting video in database", map[string]interface{}{
		"url": video.URL,
	})

	attrs := model.Video{
		ExternalID:  video.ExternalID,
		Title:       video.Title,
		Description: video.Description,
		Thumbnail:   video.Thumbnail,
	}

	err := r.db.Where(model.Video{URL: video.URL}).Assign(attrs).FirstOrCreate(video).Error
	if err != nil {
		if !isUniqueViolation(err) {
			logger.Error("Failed to upsert video in database", err, map[string]interface{}{
				"url": video.URL,
			})
			return err
		}
		// A concurrent insert of the same URL lost the unique race; reread it
		existing, findErr := r.FindByURL(video.URL)
		if findErr != nil {
			logger.Error("Failed to reread video after unique conflict", findErr, map[string]interface{}{
				"url": video.URL,
			})
			return err
		}
		*video = *existing
	}

	logger.Debug("Video upserted in database", map[string]interface{}{
		"video_id": video.ID,
		"url":      video.URL,
	})
	return nil
}

func (r *videoRepository) FindByURL(url string) (*model.Video, error) {
	logger.Debug("Finding video by URL in database", map[string]interface{}{
		"url": url,
	})

	var video model.Video
	if err := r.db.Where("url = ?", url).First(&video).Error; err != nil {
		logLookupError("Failed to find video by URL in database", err, map[string]interface{}{
			"url": url,
		})
		return nil, err
	}

	logger.Debug("Video found by URL in database", map[string]interface{}{
		"video_id": video.ID,
	})
	return &video, nil
}

func (r *videoRepository) AddFavorite(userID, videoID uint) (bool, error) {
	logger.Debug("Adding favorite video in database", map[string]interface{}{
		"user_id":  userID,
		"video_id": videoID,
	})

	favorite := &model.FavoriteVideo{UserID: userID, VideoID: videoID}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(favorite)
	if result.Error != nil {
		logger.Error("Failed to add favorite video in database", result.Error, map[string]interface{}{
			"user_id":  userID,
			"video_id": videoID,
		})
		return false, result.Error
	}

	created := result.RowsAffected > 0
	logger.Debug("Favorite video added in database", map[string]interface{}{
		"user_id":  userID,
		"video_id": videoID,
		"created":  created,
	})
	return created, nil
}

func (r *videoRepository) RemoveFavorite(userID, videoID uint) error {
	logger.Debug("Removing favorite video from database", map[string]interface{}{
		"user_id":  userID,
		"video_id": videoID,
	})

	result := r.db.Where("user_id = ? AND video_id = ?", userID, videoID).Delete(&model.FavoriteVideo{})
	if result.Error != nil {
		logger.Error("Failed to remove favorite video from database", result.Error, map[string]interface{}{
			"user_id":  userID,
			"video_id": videoID,
		})
		return result.Error
	}

	logger.Debug("Favorite video removed from database", map[string]interface{}{
		"user_id":  userID,
		"video_id": videoID,
		"count":    result.RowsAffected,
	})
	return nil
}

func (r *videoRepository) ListFavorites(userID uint) ([]model.Video, error) {
	logger.Debug("Listing favorite videos in database", map[string]interface{}{
		"user_id": userID,
	})

	var videos []model.Video
	err := r.db.
		Joins("JOIN favorite_videos ON favorite_videos.video_id = videos.id").
		Where("favorite_videos.user_id = ?", userID).
		Order("favorite_videos.created_at DESC").
		Order("videos.id DESC").
		Find(&videos).Error
	if err != nil {
		logger.Error("Failed to list favorite videos in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Favorite videos listed in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(videos),
	})
	return videos, nil
}
