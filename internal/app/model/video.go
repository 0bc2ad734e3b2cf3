package model

import (
	"strconv"
	"time"
)

type Video struct {
	ID          uint      `gorm:"primarykey" json:"-"`
	ExternalID  string    `gorm:"size:64;index" json:"external_id"`         // provider video id
	Title       string    `gorm:"size:500" json:"title"`                    // title
	Description string    `gorm:"type:text" json:"description"`             // description
	URL         string    `gorm:"size:500;uniqueIndex;not null" json:"url"` // watch link, natural key
	Thumbnail   string    `gorm:"size:500" json:"thumbnail"`                // thumbnail URL
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Video) TableName() string {
	return "videos"
}

// PublicID is the id clients see: the provider id when known
func (v *Video) PublicID() string {
	if v.ExternalID != "" {
		return v.ExternalID
	}
	return strconv.FormatUint(uint64(v.ID), 10)
}
