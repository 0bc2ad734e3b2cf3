package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ikkim/tubemark-backend/pkg/youtube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	videos    []youtube.Video
	err       error
	lastQuery string
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]youtube.Video, error) {
	f.lastQuery = query
	return f.videos, f.err
}

func TestSearchService_Search(t *testing.T) {
	searcher := &fakeSearcher{videos: []youtube.Video{{ID: "abc", Link: youtube.WatchURL("abc")}}}
	svc := NewSearchService(searcher)

	videos, err := svc.Search(context.Background(), "  cats ")
	require.NoError(t, err)
	assert.Len(t, videos, 1)
	assert.Equal(t, "cats", searcher.lastQuery)
}

func TestSearchService_Errors(t *testing.T) {
	tests := []struct {
		name     string
		searcher VideoSearcher
		query    string
		wantErr  error
	}{
		{
			name:     "Empty query",
			searcher: &fakeSearcher{},
			query:    "   ",
			wantErr:  ErrEmptyQuery,
		},
		{
			name:     "No provider",
			searcher: nil,
			query:    "cats",
			wantErr:  ErrSearchUnavailable,
		},
		{
			name:     "Provider failure",
			searcher: &fakeSearcher{err: errors.New("quota exceeded")},
			query:    "cats",
			wantErr:  ErrSearchUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSearchService(tt.searcher).Search(context.Background(), tt.query)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
