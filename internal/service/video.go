package service

import (
	"context"

	"github.com/deepencoding/video-processing-service/internal/store"
	"github.com/deepencoding/video-processing-service/internal/store/model"
)

// VideoService serves the read-only video catalog. The pipeline never goes
// through here.
type VideoService struct {
	store store.Store
}

func NewVideoService(store store.Store) *VideoService {
	return &VideoService{store: store}
}

func (s *VideoService) ListVideos(ctx context.Context) (model.VideoList, error) {
	return s.store.Video().List(ctx)
}

func (s *VideoService) GetVideo(ctx context.Context, id string) (*model.Video, error) {
	video, err := s.store.Video().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// The store substitutes a default Undefined record on a miss.
	if video.Status == model.VideoStatusUndefined && video.Filename == "" {
		return nil, NewErrVideoNotFound(id)
	}
	return video, nil
}
