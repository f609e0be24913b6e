package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/deepencoding/video-processing-service/internal/store/model"
)

type Video interface {
	Get(ctx context.Context, id string) (*model.Video, error)
	Claim(ctx context.Context, id string, ownerID string, filename string) error
	CommitProcessed(ctx context.Context, id string, ownerID string, processedFilename string) error
	MarkFailed(ctx context.Context, id string) error
	List(ctx context.Context) (model.VideoList, error)
	Delete(ctx context.Context, id string) error
	InitialMigration() error
}

type VideoStore struct {
	db *gorm.DB
}

// Make sure we conform to Video interface
var _ Video = (*VideoStore)(nil)

func NewVideoStore(db *gorm.DB) Video {
	return &VideoStore{db: db}
}

func (s *VideoStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Video{})
}

// Get returns the record for id, or the default Undefined record when no row
// exists. A miss is never surfaced as an error; only storage faults are.
func (s *VideoStore) Get(ctx context.Context, id string) (*model.Video, error) {
	var video model.Video
	result := s.db.WithContext(ctx).First(&video, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			video = model.NewUndefinedVideo(id)
			return &video, nil
		}
		return nil, result.Error
	}
	return &video, nil
}

// Claim upserts the record with status Processing, marking ownership of the
// processing attempt. The guard read happens at the orchestrator; between that
// read and this write two concurrent requests for a brand-new id can race.
func (s *VideoStore) Claim(ctx context.Context, id string, ownerID string, filename string) error {
	video := model.Video{
		ID:       id,
		OwnerID:  ownerID,
		Filename: filename,
		Status:   model.VideoStatusProcessing,
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner_id", "filename", "status"}),
	}).Create(&video)
	return result.Error
}

// CommitProcessed upserts the record with status Processed and the processed
// filename, the second and last mutation of the happy path.
func (s *VideoStore) CommitProcessed(ctx context.Context, id string, ownerID string, processedFilename string) error {
	video := model.Video{
		ID:       id,
		OwnerID:  ownerID,
		Filename: processedFilename,
		Status:   model.VideoStatusProcessed,
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner_id", "filename", "status"}),
	}).Create(&video)
	return result.Error
}

// MarkFailed moves an existing record to Failed so a later request may
// re-claim the id.
func (s *VideoStore) MarkFailed(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Model(&model.Video{ID: id}).
		Update("status", model.VideoStatusFailed)
	return result.Error
}

func (s *VideoStore) List(ctx context.Context) (model.VideoList, error) {
	var videos model.VideoList
	result := s.db.WithContext(ctx).Model(&videos).Order("id").Find(&videos)
	if result.Error != nil {
		return nil, result.Error
	}
	return videos, nil
}

// Delete removes the record for id. Administrative operation, never called by
// the pipeline.
func (s *VideoStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&model.Video{ID: id})
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return nil
}
