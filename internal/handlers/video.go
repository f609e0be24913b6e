package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/deepencoding/video-processing-service/internal/service"
	"github.com/deepencoding/video-processing-service/internal/store/model"
)

type VideoResponse struct {
	ID          string `json:"id"`
	OwnerID     string `json:"ownerId"`
	Filename    string `json:"filename"`
	Status      string `json:"status"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func videoToApi(v model.Video) VideoResponse {
	return VideoResponse{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		Filename:    v.Filename,
		Status:      string(v.Status),
		Title:       v.Title,
		Description: v.Description,
	}
}

// (GET /api/v1/videos)
func (s *ServiceHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := s.videoSrv.ListVideos(r.Context())
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"message": "failed to list videos"})
		return
	}

	resp := make([]VideoResponse, 0, len(videos))
	for _, v := range videos {
		resp = append(resp, videoToApi(v))
	}
	render.JSON(w, r, resp)
}

// (GET /api/v1/videos/{id})
func (s *ServiceHandler) GetVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	video, err := s.videoSrv.GetVideo(r.Context(), id)
	if err != nil {
		var notFoundErr *service.ErrVideoNotFound
		if errors.As(err, &notFoundErr) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"message": err.Error()})
			return
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"message": "failed to get video"})
		return
	}

	render.JSON(w, r, videoToApi(*video))
}
