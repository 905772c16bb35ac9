package course

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Enrollment tracks a learner's enrollment in a course with progress.
// Exactly one row exists per (learner, course); the unique index backs up the
// look-up-or-create check in the enrollment manager. Progress is always the
// derived percentage of completed modules, never set independently.
type Enrollment struct {
	gorm.Model
	LearnerAddress     string         `json:"learner_address" gorm:"index:idx_enrollment_learner_course,unique;not null"`
	CourseID           uint           `json:"course_id" gorm:"index:idx_enrollment_learner_course,unique;not null"`
	CompletedModuleIDs datatypes.JSON `json:"completed_module_ids"` // module id array, grows monotonically
	Progress           int            `json:"progress" gorm:"default:0"`
	CurrentModuleIndex int            `json:"current_module_index" gorm:"default:0"` // last-viewed position, for resume
	CertificateMinted  bool           `json:"certificate_minted" gorm:"default:false"`
	CertificateTokenID string         `json:"certificate_token_id" gorm:"default:''"`
	EnrolledAt         time.Time      `json:"enrolled_at"`
	LastAccessedAt     time.Time      `json:"last_accessed_at"`
	IsDeleted          bool           `gorm:"default:false"`
}

// CompletedModules decodes the stored module id array.
func (e *Enrollment) CompletedModules() []uint {
	var ids []uint
	if len(e.CompletedModuleIDs) == 0 {
		return ids
	}
	if err := json.Unmarshal(e.CompletedModuleIDs, &ids); err != nil {
		return nil
	}
	return ids
}

// HasCompleted reports whether the module is in the completed set.
func (e *Enrollment) HasCompleted(moduleID uint) bool {
	for _, id := range e.CompletedModules() {
		if id == moduleID {
			return true
		}
	}
	return false
}

// EncodeModuleIDs packs a module id array for storage.
func EncodeModuleIDs(ids []uint) datatypes.JSON {
	if ids == nil {
		ids = []uint{}
	}
	raw, _ := json.Marshal(ids)
	return datatypes.JSON(raw)
}
