package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/tubemark-backend/internal/app/model"
	"github.com/ikkim/tubemark-backend/internal/app/service"
	apperrors "github.com/ikkim/tubemark-backend/internal/errors"
	"github.com/ikkim/tubemark-backend/internal/middleware"
)

type FavoriteController struct {
	favoriteService service.FavoriteService
}

func NewFavoriteController(favoriteService service.FavoriteService) *FavoriteController {
	return &FavoriteController{
		favoriteService: favoriteService,
	}
}

// FavoriteRequest is the {"params": {"video": {...}}} envelope
type FavoriteRequest struct {
	Params struct {
		Video model.VideoInput `json:"video"`
	} `json:"params"`
}

// bindFavorite reads the authenticated user and the video payload.
// Reports false after responding with an error.
func bindFavorite(c *gin.Context) (uint, model.VideoInput, bool) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return 0, model.VideoInput{}, false
	}

	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid favorite request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return 0, model.VideoInput{}, false
	}

	return userID, req.Params.Video, true
}

func respondFavoriteError(c *gin.Context, err error, action string) {
	if errors.Is(err, service.ErrInvalidVideo) {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Video link is required")
		return
	}
	middleware.GetLoggerFromContext(c).Error("Failed to "+action, err, nil)
	apperrors.InternalError(c, "")
}

// MarkFavorite adds a video to the user's favorites
// POST /mark-favorite
func (ctrl *FavoriteController) MarkFavorite(c *gin.Context) {
	userID, video, ok := bindFavorite(c)
	if !ok {
		return
	}

	if err := ctrl.favoriteService.MarkFavorite(userID, video); err != nil {
		respondFavoriteError(c, err, "mark favorite")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Video added to favorites",
	})
}

// UnmarkFavorite removes a video from the user's favorites
// POST /unmark-favorite
func (ctrl *FavoriteController) UnmarkFavorite(c *gin.Context) {
	userID, video, ok := bindFavorite(c)
	if !ok {
		return
	}

	if err := ctrl.favoriteService.UnmarkFavorite(userID, video); err != nil {
		respondFavoriteError(c, err, "unmark favorite")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Video removed from favorites",
	})
}

// ListFavorites returns the user's favorites, newest first
// GET /favorite-videos
func (ctrl *FavoriteController) ListFavorites(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	videos, err := ctrl.favoriteService.ListFavorites(userID)
	if err != nil {
		log.Error("Failed to list favorites", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Debug("Favorites listed", map[string]interface{}{
		"user_id": userID,
		"count":   len(videos),
	})

	c.JSON(http.StatusOK, videos)
}
