package courseService

import (
	"chainlearn/ledger"
	"chainlearn/models"
	courseModels "chainlearn/models/course"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Transactions{},
		&models.Rating{},
		&courseModels.Course{},
		&courseModels.Module{},
		&courseModels.Quiz{},
		&courseModels.Enrollment{},
	))

	return NewGormStore(db)
}

func seedCourse(t *testing.T, store *GormStore, price uint, moduleCount int) (*courseModels.Course, []courseModels.Module) {
	t.Helper()

	course := &courseModels.Course{
		Title:        "Intro to Smart Contracts",
		OwnerAddress: "0xcafe0000000000000000000000000000000000ee",
		Price:        price,
		Status:       "ACTIVE",
		IsPublished:  true,
	}
	require.NoError(t, store.db.Create(course).Error)

	modules := make([]courseModels.Module, moduleCount)
	for i := 0; i < moduleCount; i++ {
		modules[i] = courseModels.Module{
			CourseID:    course.ID,
			Title:       fmt.Sprintf("Module %d", i+1),
			ContentType: courseModels.ContentTypeText,
			OrderIndex:  i,
		}
		require.NoError(t, store.db.Create(&modules[i]).Error)
	}

	return course, modules
}

// fakeLedger counts calls and fails on demand
type fakeLedger struct {
	transferErr   error
	signErr       error
	mintErr       error
	transferCalls int
	signCalls     int
	mintCalls     int
}

func (f *fakeLedger) Transfer(_ context.Context, from, to string, amount uint) (string, error) {
	f.transferCalls++
	if f.transferErr != nil {
		return "", f.transferErr
	}
	return fmt.Sprintf("0xtransfer%04d", f.transferCalls), nil
}

func (f *fakeLedger) RequestSignature(_ context.Context, signer, payload string) (string, error) {
	f.signCalls++
	if f.signErr != nil {
		return "", f.signErr
	}
	return "0xsigned:" + payload, nil
}

func (f *fakeLedger) MintCertificate(_ context.Context, owner string, metadata ledger.CertificateMetadata) (*ledger.MintResult, error) {
	f.mintCalls++
	if f.mintErr != nil {
		return nil, f.mintErr
	}
	return &ledger.MintResult{
		TokenID: fmt.Sprintf("%d", f.mintCalls),
		TxHash:  fmt.Sprintf("0xmint%04d", f.mintCalls),
	}, nil
}

var errStoreDown = errors.New("store down")

// failingStore wraps a real store and fails chosen writes
type failingStore struct {
	*GormStore
	failCreateEnrollment bool
	failUpdateProgress   bool
}

func (s *failingStore) CreateEnrollment(enrollment *courseModels.Enrollment) error {
	if s.failCreateEnrollment {
		return errStoreDown
	}
	return s.GormStore.CreateEnrollment(enrollment)
}

func (s *failingStore) UpdateEnrollmentProgress(learner string, courseID uint, completedIDs []uint, progress, currentIndex int, lastAccessed time.Time) error {
	if s.failUpdateProgress {
		return errStoreDown
	}
	return s.GormStore.UpdateEnrollmentProgress(learner, courseID, completedIDs, progress, currentIndex, lastAccessed)
}

const learnerAddr = "0xAbCd00000000000000000000000000000000BeEf"
