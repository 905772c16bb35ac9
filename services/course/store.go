package courseService

import (
	"chainlearn/models"
	courseModels "chainlearn/models/course"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence contract of the enrollment/progress workflow.
// Lookups return (nil, nil) when no row exists.
type Store interface {
	// EnsureUser creates the user row for a wallet address if absent.
	// Learners are created lazily on first enrollment.
	EnsureUser(learner string) error

	GetEnrollment(learner string, courseID uint) (*courseModels.Enrollment, error)
	CreateEnrollment(enrollment *courseModels.Enrollment) error
	// UpdateEnrollmentProgress writes the completed set, the derived progress
	// and the resume index as one atomic update. Partial writes are not
	// possible by contract.
	UpdateEnrollmentProgress(learner string, courseID uint, completedIDs []uint, progress, currentIndex int, lastAccessed time.Time) error
	ListEnrollments(learner string) ([]courseModels.Enrollment, error)
	SetCertificateMinted(learner string, courseID uint, tokenID string) error

	CreateTransaction(transaction *models.Transactions) error
	GetTransactionByReference(reference string) (*models.Transactions, error)
	UpdateTransactionStatus(reference, status string) error
	ListPendingEnrollmentTransactions() ([]models.Transactions, error)

	UpsertRating(rating *models.Rating) error
	GetRating(learner string, courseID uint) (*models.Rating, error)

	GetCourse(courseID uint) (*courseModels.Course, error)
	ListModules(courseID uint) ([]courseModels.Module, error)
	IncrementStudentCount(courseID uint) error
	RefreshCourseRating(courseID uint) error
}

// GormStore implements Store on a GORM connection
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) EnsureUser(learner string) error {
	var user models.User
	return s.db.Where(models.User{WalletAddress: learner}).FirstOrCreate(&user).Error
}

func (s *GormStore) GetEnrollment(learner string, courseID uint) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	err := s.db.Where("learner_address = ? AND course_id = ? AND is_deleted = ?", learner, courseID, false).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (s *GormStore) CreateEnrollment(enrollment *courseModels.Enrollment) error {
	return s.db.Create(enrollment).Error
}

func (s *GormStore) UpdateEnrollmentProgress(learner string, courseID uint, completedIDs []uint, progress, currentIndex int, lastAccessed time.Time) error {
	result := s.db.Model(&courseModels.Enrollment{}).
		Where("learner_address = ? AND course_id = ? AND is_deleted = ?", learner, courseID, false).
		Updates(map[string]interface{}{
			"completed_module_ids": courseModels.EncodeModuleIDs(completedIDs),
			"progress":             progress,
			"current_module_index": currentIndex,
			"last_accessed_at":     lastAccessed,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("enrollment (%s, %d) not found", learner, courseID)
	}
	return nil
}

func (s *GormStore) ListEnrollments(learner string) ([]courseModels.Enrollment, error) {
	var enrollments []courseModels.Enrollment
	err := s.db.Where("learner_address = ? AND is_deleted = ?", learner, false).
		Order("enrolled_at desc").
		Find(&enrollments).Error
	return enrollments, err
}

// SetCertificateMinted flips the mint flag false->true. Rows already minted
// are left untouched, which keeps the flag monotonic.
func (s *GormStore) SetCertificateMinted(learner string, courseID uint, tokenID string) error {
	return s.db.Model(&courseModels.Enrollment{}).
		Where("learner_address = ? AND course_id = ? AND certificate_minted = ? AND is_deleted = ?",
			learner, courseID, false, false).
		Updates(map[string]interface{}{
			"certificate_minted":   true,
			"certificate_token_id": tokenID,
		}).Error
}

func (s *GormStore) CreateTransaction(transaction *models.Transactions) error {
	return s.db.Create(transaction).Error
}

func (s *GormStore) GetTransactionByReference(reference string) (*models.Transactions, error) {
	var transaction models.Transactions
	err := s.db.Where("reference = ? AND is_deleted = ?", reference, false).First(&transaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (s *GormStore) UpdateTransactionStatus(reference, status string) error {
	return s.db.Model(&models.Transactions{}).
		Where("reference = ? AND is_deleted = ?", reference, false).
		Update("status", status).Error
}

func (s *GormStore) ListPendingEnrollmentTransactions() ([]models.Transactions, error) {
	var transactions []models.Transactions
	err := s.db.Where("status = ? AND is_deleted = ?", models.TransactionStatusPendingEnrollment, false).
		Find(&transactions).Error
	return transactions, err
}

// UpsertRating overwrites a learner's previous rating of the course if one exists
func (s *GormStore) UpsertRating(rating *models.Rating) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "learner_address"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stars", "review", "updated_at"}),
	}).Create(rating).Error
}

func (s *GormStore) GetRating(learner string, courseID uint) (*models.Rating, error) {
	var rating models.Rating
	err := s.db.Where("learner_address = ? AND course_id = ? AND is_deleted = ?", learner, courseID, false).
		First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (s *GormStore) GetCourse(courseID uint) (*courseModels.Course, error) {
	var course courseModels.Course
	err := s.db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *GormStore) ListModules(courseID uint) ([]courseModels.Module, error) {
	var modules []courseModels.Module
	err := s.db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").
		Find(&modules).Error
	return modules, err
}

func (s *GormStore) IncrementStudentCount(courseID uint) error {
	return s.db.Model(&courseModels.Course{}).
		Where("id = ?", courseID).
		Update("student_count", gorm.Expr("student_count + 1")).Error
}

// RefreshCourseRating recomputes the course's rating aggregate from all rows
func (s *GormStore) RefreshCourseRating(courseID uint) error {
	var stats struct {
		Avg   float64
		Count int64
	}
	err := s.db.Model(&models.Rating{}).
		Select("COALESCE(AVG(stars), 0) as avg, COUNT(*) as count").
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Scan(&stats).Error
	if err != nil {
		return err
	}

	return s.db.Model(&courseModels.Course{}).
		Where("id = ?", courseID).
		Updates(map[string]interface{}{
			"rating_avg":   stats.Avg,
			"rating_count": stats.Count,
		}).Error
}
