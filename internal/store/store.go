package store

import (
	"gorm.io/gorm"
)

type Store interface {
	Video() Video
	InitialMigration() error
	Close() error
}

type DataStore struct {
	video Video
	db    *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		video: NewVideoStore(db),
		db:    db,
	}
}

func (s *DataStore) Video() Video {
	return s.video
}

func (s *DataStore) InitialMigration() error {
	return s.video.InitialMigration()
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
