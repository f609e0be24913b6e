package model

import (
	"encoding/json"
	"time"
)

// VideoStatus is the persisted processing state of one asset. It only moves
// forward on the happy path: Undefined -> Processing -> Processed. Failed is
// terminal for one attempt but re-claimable by a later request.
type VideoStatus string

const (
	VideoStatusUndefined  VideoStatus = "Undefined"
	VideoStatusProcessing VideoStatus = "Processing"
	VideoStatusProcessed  VideoStatus = "Processed"
	VideoStatusFailed     VideoStatus = "Failed"
)

type Video struct {
	ID          string      `gorm:"primaryKey"`
	OwnerID     string      `gorm:"index;not null"`
	Filename    string      `gorm:"not null"`
	Status      VideoStatus `gorm:"type:VARCHAR(16);not null;default:'Undefined'"`
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type VideoList []Video

// NewUndefinedVideo returns the logical zero record for an id that has no
// stored row. A miss is not an error at the store layer.
func NewUndefinedVideo(id string) Video {
	return Video{ID: id, Status: VideoStatusUndefined}
}

func (v Video) String() string {
	val, _ := json.Marshal(v)
	return string(val)
}
