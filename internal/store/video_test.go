package store_test

import (
	"context"
	"fmt"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/deepencoding/video-processing-service/internal/config"
	st "github.com/deepencoding/video-processing-service/internal/store"
	"github.com/deepencoding/video-processing-service/internal/store/model"
)

const (
	insertVideoStm = "INSERT INTO videos (id, owner_id, filename, status) VALUES ('%s', '%s', '%s', '%s');"
)

func TestStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Store Suite")
}

var _ = Describe("video store", Ordered, func() {
	var (
		s      st.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		cfg := config.NewDefault()
		cfg.Database.Type = "sqlite"
		cfg.Database.Name = "file::memory:?cache=shared"

		db, err := st.InitDB(cfg)
		Expect(err).To(BeNil())

		s = st.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM videos;")
	})

	Context("get", func() {
		It("returns the default record when no row exists", func() {
			video, err := s.Video().Get(context.TODO(), "abc-123")
			Expect(err).To(BeNil())
			Expect(video.ID).To(Equal("abc-123"))
			Expect(video.Status).To(Equal(model.VideoStatusUndefined))
			Expect(video.Filename).To(BeEmpty())
			Expect(video.OwnerID).To(BeEmpty())
		})

		It("returns the stored record", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertVideoStm, "abc-123", "abc", "abc-123.mp4", "Processing"))
			Expect(tx.Error).To(BeNil())

			video, err := s.Video().Get(context.TODO(), "abc-123")
			Expect(err).To(BeNil())
			Expect(video.Status).To(Equal(model.VideoStatusProcessing))
			Expect(video.Filename).To(Equal("abc-123.mp4"))
			Expect(video.OwnerID).To(Equal("abc"))
		})
	})

	Context("claim", func() {
		It("creates a Processing record for a new id", func() {
			err := s.Video().Claim(context.TODO(), "abc-123", "abc", "abc-123.mp4")
			Expect(err).To(BeNil())

			video, err := s.Video().Get(context.TODO(), "abc-123")
			Expect(err).To(BeNil())
			Expect(video.Status).To(Equal(model.VideoStatusProcessing))
			Expect(video.Filename).To(Equal("abc-123.mp4"))
			Expect(video.OwnerID).To(Equal("abc"))
		})

		It("re-claims a Failed record", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertVideoStm, "abc-123", "abc", "abc-123.mp4", "Failed"))
			Expect(tx.Error).To(BeNil())

			err := s.Video().Claim(context.TODO(), "abc-123", "abc", "abc-123.mp4")
			Expect(err).To(BeNil())

			video, err := s.Video().Get(context.TODO(), "abc-123")
			Expect(err).To(BeNil())
			Expect(video.Status).To(Equal(model.VideoStatusProcessing))
		})
	})

	Context("commit", func() {
		It("moves a claimed record to Processed with the processed filename", func() {
			err := s.Video().Claim(context.TODO(), "abc-123", "abc", "abc-123.mp4")
			Expect(err).To(BeNil())

			err = s.Video().CommitProcessed(context.TODO(), "abc-123", "abc", "processed-abc-123.mp4")
			Expect(err).To(BeNil())

			video, err := s.Video().Get(context.TODO(), "abc-123")
			Expect(err).To(BeNil())
			Expect(video.Status).To(Equal(model.VideoStatusProcessed))
			Expect(video.Filename).To(Equal("processed-abc-123.mp4"))
		})
	})

	Context("mark failed", func() {
		It("moves a claimed record to Failed", func() {
			err := s.Video().Claim(context.TODO(), "abc-123", "abc", "abc-123.mp4")
			Expect(err).To(BeNil())

			err = s.Video().MarkFailed(context.TODO(), "abc-123")
			Expect(err).To(BeNil())

			video, err := s.Video().Get(context.TODO(), "abc-123")
			Expect(err).To(BeNil())
			Expect(video.Status).To(Equal(model.VideoStatusFailed))
		})
	})

	Context("list", func() {
		It("lists all records ordered by id", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertVideoStm, "bbb-2", "bbb", "bbb-2.mp4", "Processed"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertVideoStm, "aaa-1", "aaa", "aaa-1.mp4", "Processing"))
			Expect(tx.Error).To(BeNil())

			videos, err := s.Video().List(context.TODO())
			Expect(err).To(BeNil())
			Expect(videos).To(HaveLen(2))
			Expect(videos[0].ID).To(Equal("aaa-1"))
			Expect(videos[1].ID).To(Equal("bbb-2"))
		})

		It("lists nothing when the table is empty", func() {
			videos, err := s.Video().List(context.TODO())
			Expect(err).To(BeNil())
			Expect(videos).To(HaveLen(0))
		})
	})

	Context("delete", func() {
		It("deletes an existing record", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertVideoStm, "abc-123", "abc", "abc-123.mp4", "Processed"))
			Expect(tx.Error).To(BeNil())

			err := s.Video().Delete(context.TODO(), "abc-123")
			Expect(err).To(BeNil())

			video, err := s.Video().Get(context.TODO(), "abc-123")
			Expect(err).To(BeNil())
			Expect(video.Status).To(Equal(model.VideoStatusUndefined))
		})

		It("is a no-op for a missing record", func() {
			Expect(s.Video().Delete(context.TODO(), "missing-1")).To(Succeed())
		})
	})
})
