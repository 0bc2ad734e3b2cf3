package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/tubemark-backend/internal/app/service"
	apperrors "github.com/ikkim/tubemark-backend/internal/errors"
	"github.com/ikkim/tubemark-backend/internal/middleware"
)

type SearchController struct {
	searchService service.SearchService
}

func NewSearchController(searchService service.SearchService) *SearchController {
	return &SearchController{
		searchService: searchService,
	}
}

// Search proxies a video search
// GET /search?q=
func (ctrl *SearchController) Search(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query := c.Query("q")

	videos, err := ctrl.searchService.Search(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Search query is required")
			return
		}
		log.Error("Video search failed", err, map[string]interface{}{
			"query": query,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.InternalExternalAPI, "Video search is unavailable right now")
		return
	}

	c.JSON(http.StatusOK, videos)
}
