package model

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`                          // user ID
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"` // login name
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`    // email
	PasswordHash string    `gorm:"not null" json:"-"`                             // bcrypt hash
	Name         string    `gorm:"size:255" json:"name"`                          // display name
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Favorites []FavoriteVideo `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse is the public projection of a User
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}
