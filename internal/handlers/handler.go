package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/deepencoding/video-processing-service/internal/notification"
	"github.com/deepencoding/video-processing-service/internal/service"
)

type ServiceHandler struct {
	pipelineSrv *service.PipelineService
	videoSrv    *service.VideoService
}

func NewServiceHandler(pipelineService *service.PipelineService, videoService *service.VideoService) *ServiceHandler {
	return &ServiceHandler{
		pipelineSrv: pipelineService,
		videoSrv:    videoService,
	}
}

// ProcessVideo handles the push-delivery notification that a raw asset
// landed in storage. Client-input faults map to 400, infrastructure faults
// to 500; the serving process survives both.
//
// (POST /process-video)
func (s *ServiceHandler) ProcessVideo(w http.ResponseWriter, r *http.Request) {
	var envelope notification.Envelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		http.Error(w, "Bad Request: Invalid envelope.", http.StatusBadRequest)
		return
	}

	if err := s.pipelineSrv.Process(r.Context(), envelope); err != nil {
		status, body := mapPipelineError(err)
		if status >= http.StatusInternalServerError {
			zap.S().Named("handlers").Errorw("pipeline run failed", "error", err)
		}
		http.Error(w, body, status)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Processing Complete."))
}

// (GET /health)
func (s *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func mapPipelineError(err error) (int, string) {
	var decodeErr *notification.DecodeError
	if errors.As(err, &decodeErr) {
		return http.StatusBadRequest, decodeFailureBody(decodeErr.Reason)
	}

	var duplicateErr *service.ErrDuplicateVideo
	if errors.As(err, &duplicateErr) {
		return http.StatusBadRequest, fmt.Sprintf("Bad Request: %s.", duplicateErr.Error())
	}

	var transferErr *service.ErrTransfer
	if errors.As(err, &transferErr) {
		if transferErr.Direction == service.TransferDownload {
			return http.StatusInternalServerError, "Failed to download raw video."
		}
		return http.StatusInternalServerError, "Failed to upload processed video."
	}

	var conversionErr *service.ErrConversion
	if errors.As(err, &conversionErr) {
		return http.StatusInternalServerError, "Failed to convert video."
	}

	return http.StatusInternalServerError, fmt.Sprintf("Internal error: %s.", err.Error())
}

func decodeFailureBody(reason notification.DecodeReason) string {
	switch reason {
	case notification.ReasonEncoding:
		return "Bad Request: Invalid base64."
	case notification.ReasonCharset:
		return "Bad Request: Invalid UTF-8."
	case notification.ReasonFormat:
		return "Bad Request: Invalid JSON."
	case notification.ReasonMissingField:
		return "Bad Request: Missing filename."
	case notification.ReasonBadIdentifier:
		return "Bad Request: Invalid video name."
	default:
		return "Bad Request."
	}
}
