package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/deepencoding/video-processing-service/internal/notification"
	"github.com/deepencoding/video-processing-service/internal/storage"
	"github.com/deepencoding/video-processing-service/internal/store"
	"github.com/deepencoding/video-processing-service/internal/store/model"
	"github.com/deepencoding/video-processing-service/internal/transcoder"
	"github.com/deepencoding/video-processing-service/pkg/metrics"
)

// ProcessedPrefix is prepended to the raw asset name to form the processed
// object key and scratch filename.
const ProcessedPrefix = "processed-"

// Pipeline terminal outcomes, reported as metrics.
const (
	outcomeCommitted = "committed"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)

// PipelineOptions bound the slow external calls. A zero duration leaves the
// call unbounded.
type PipelineOptions struct {
	TransferTimeout   time.Duration
	ConversionTimeout time.Duration
	TargetHeight      int
}

// PipelineService sequences one ingest-transcode-publish attempt: decode the
// envelope, derive identity, guard and claim the status record, download,
// convert and upload the asset, then commit the processed status. Any failure
// after the claim routes through compensation before surfacing.
type PipelineService struct {
	store      store.Store
	transfer   storage.Transfer
	scratch    storage.Scratch
	transcoder transcoder.Transcoder
	opts       PipelineOptions
}

func NewPipelineService(
	store store.Store,
	transfer storage.Transfer,
	scratch storage.Scratch,
	trans transcoder.Transcoder,
	opts PipelineOptions,
) *PipelineService {
	return &PipelineService{
		store:      store,
		transfer:   transfer,
		scratch:    scratch,
		transcoder: trans,
		opts:       opts,
	}
}

// Process runs the full pipeline for one delivery envelope. The returned
// error is one of the typed errors in errors.go (or a *notification.
// DecodeError); a nil return means the processed status was committed.
func (s *PipelineService) Process(ctx context.Context, envelope notification.Envelope) error {
	log := zap.S().Named("pipeline")

	name, err := notification.DecodeName(envelope.Message.Data)
	if err != nil {
		metrics.IncreasePipelineRunsTotalMetric(outcomeRejected)
		return err
	}

	id, ownerID, err := notification.DeriveIdentity(name)
	if err != nil {
		metrics.IncreasePipelineRunsTotalMetric(outcomeRejected)
		return err
	}
	log = log.With("video_id", id)

	// Guard: read-then-claim, without an atomic compare-and-swap. Two
	// concurrent requests for a brand-new id can both pass this read; the
	// duplicate rejection is best effort.
	video, err := s.store.Video().Get(ctx, id)
	if err != nil {
		metrics.IncreasePipelineRunsTotalMetric(outcomeFailed)
		return NewErrStore("reading video status", err)
	}
	if video.Status != model.VideoStatusUndefined && video.Status != model.VideoStatusFailed {
		log.Infof("rejecting duplicate request, video is %s", video.Status)
		metrics.IncreasePipelineRunsTotalMetric(outcomeRejected)
		return NewErrDuplicateVideo(id, video.Status)
	}

	if err := s.store.Video().Claim(ctx, id, ownerID, name); err != nil {
		// No local files exist yet, nothing to compensate.
		metrics.IncreasePipelineRunsTotalMetric(outcomeFailed)
		return NewErrStore("claiming video", err)
	}
	log.Info("video claimed")

	processedName := ProcessedPrefix + name
	rawPath := s.scratch.RawPath(name)
	processedPath := s.scratch.ProcessedPath(processedName)

	if err := s.download(ctx, name); err != nil {
		s.compensate(ctx, id, rawPath, processedPath)
		metrics.IncreasePipelineRunsTotalMetric(outcomeFailed)
		return NewErrTransfer(TransferDownload, name, err)
	}

	if err := s.convert(ctx, rawPath, processedPath); err != nil {
		s.compensate(ctx, id, rawPath, processedPath)
		metrics.IncreasePipelineRunsTotalMetric(outcomeFailed)
		return NewErrConversion(name, err)
	}

	if err := s.upload(ctx, processedName); err != nil {
		s.compensate(ctx, id, rawPath, processedPath)
		metrics.IncreasePipelineRunsTotalMetric(outcomeFailed)
		return NewErrTransfer(TransferUpload, processedName, err)
	}

	if err := s.store.Video().CommitProcessed(ctx, id, ownerID, processedName); err != nil {
		s.compensate(ctx, id, rawPath, processedPath)
		metrics.IncreasePipelineRunsTotalMetric(outcomeFailed)
		return NewErrStore("committing processed video", err)
	}

	log.Infof("video processed as %s", processedName)
	metrics.IncreasePipelineRunsTotalMetric(outcomeCommitted)
	return nil
}

func (s *PipelineService) download(ctx context.Context, name string) error {
	ctx, cancel := maybeTimeout(ctx, s.opts.TransferTimeout)
	defer cancel()
	return s.transfer.Download(ctx, name)
}

func (s *PipelineService) upload(ctx context.Context, name string) error {
	ctx, cancel := maybeTimeout(ctx, s.opts.TransferTimeout)
	defer cancel()
	return s.transfer.Upload(ctx, name)
}

func (s *PipelineService) convert(ctx context.Context, inputPath, outputPath string) error {
	ctx, cancel := maybeTimeout(ctx, s.opts.ConversionTimeout)
	defer cancel()

	start := time.Now()
	err := s.transcoder.Convert(ctx, inputPath, outputPath, transcoder.Params{
		TargetHeight: s.opts.TargetHeight,
	})
	metrics.ObserveConversionDuration(time.Since(start).Seconds())
	return err
}

// compensate removes both scratch files regardless of which ones exist and
// best-effort marks the record Failed so a later request may re-claim the id.
// Compensation failures are logged, never propagated.
func (s *PipelineService) compensate(ctx context.Context, id string, paths ...string) {
	s.scratch.Cleanup(paths...)
	if err := s.store.Video().MarkFailed(ctx, id); err != nil {
		zap.S().Named("pipeline").Errorw("failed to mark video as failed",
			"video_id", id, "error", err)
	}
}

func maybeTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
