package service

import (
	"fmt"

	"github.com/deepencoding/video-processing-service/internal/store/model"
)

// Transfer directions, used to tell a failed fetch from a failed publish.
const (
	TransferDownload = "download"
	TransferUpload   = "upload"
)

// ErrDuplicateVideo is the guard rejection: the record already has an attempt
// in flight or completed, so this request must not do any work.
type ErrDuplicateVideo struct {
	error
}

func NewErrDuplicateVideo(id string, status model.VideoStatus) *ErrDuplicateVideo {
	return &ErrDuplicateVideo{fmt.Errorf("video %s is already %s", id, status)}
}

// ErrTransfer is an infrastructure fault moving bytes between the object
// stores and scratch space. The whole request is safe to retry.
type ErrTransfer struct {
	error
	Direction string
}

func NewErrTransfer(direction string, name string, err error) *ErrTransfer {
	return &ErrTransfer{
		error:     fmt.Errorf("%s of %s failed: %w", direction, name, err),
		Direction: direction,
	}
}

// ErrConversion is a fault of the external transformation tool, carrying its
// diagnostic output.
type ErrConversion struct {
	error
}

func NewErrConversion(name string, err error) *ErrConversion {
	return &ErrConversion{fmt.Errorf("conversion of %s failed: %w", name, err)}
}

// ErrStore is a persistence fault on a claim or commit write, distinct from a
// record miss.
type ErrStore struct {
	error
}

func NewErrStore(op string, err error) *ErrStore {
	return &ErrStore{fmt.Errorf("%s failed: %w", op, err)}
}

type ErrVideoNotFound struct {
	error
}

func NewErrVideoNotFound(id string) *ErrVideoNotFound {
	return &ErrVideoNotFound{fmt.Errorf("video %s not found", id)}
}
