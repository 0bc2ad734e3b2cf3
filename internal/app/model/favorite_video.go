package model

import (
	"time"
)

// FavoriteVideo links a user to a bookmarked video. The composite key keeps
// each pair unique.
type FavoriteVideo struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	VideoID   uint      `gorm:"primaryKey;autoIncrement:false;index" json:"video_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Video Video `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"video"`
}

func (FavoriteVideo) TableName() string {
	return "favorite_videos"
}

// VideoInput is a video as clients send it
type VideoInput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// FavoriteVideoResponse is a favorited video as clients see it
type FavoriteVideoResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`
	Link        string `json:"link"`
	IsFavorite  bool   `json:"isFavorite"`
}

func (v *Video) ToFavoriteResponse() FavoriteVideoResponse {
	return FavoriteVideoResponse{
		ID:          v.PublicID(),
		Title:       v.Title,
		Thumbnail:   v.Thumbnail,
		Description: v.Description,
		Link:        v.URL,
		IsFavorite:  true,
	}
}
