package youtube

// Video is a search hit reduced to what clients render
type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Thumbnails  struct {
			Default thumbnail `json:"default"`
			Medium  thumbnail `json:"medium"`
			High    thumbnail `json:"high"`
		} `json:"thumbnails"`
	} `json:"snippet"`
}

type thumbnail struct {
	URL string `json:"url"`
}

// ErrorResponse is the error envelope of Google APIs
type ErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

func (e *ErrorResponse) reason() string {
	if len(e.Error.Errors) > 0 {
		return e.Error.Errors[0].Reason
	}
	return ""
}

// WatchURL is the public page of a video
func WatchURL(videoID string) string {
	return watchURLPrefix + videoID
}

func (it *searchItem) toVideo() Video {
	thumb := it.Snippet.Thumbnails.High.URL
	if thumb == "" {
		thumb = it.Snippet.Thumbnails.Medium.URL
	}
	if thumb == "" {
		thumb = it.Snippet.Thumbnails.Default.URL
	}
	return Video{
		ID:          it.ID.VideoID,
		Title:       it.Snippet.Title,
		Thumbnail:   thumb,
		Description: it.Snippet.Description,
		Link:        WatchURL(it.ID.VideoID),
	}
}
