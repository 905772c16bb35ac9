package models

import "gorm.io/gorm"

// Rating is a learner's rating of a course. One row per (learner, course);
// resubmission overwrites.
type Rating struct {
	gorm.Model
	LearnerAddress string `json:"learner_address" gorm:"index:idx_rating_learner_course,unique;not null"`
	CourseID       uint   `json:"course_id" gorm:"index:idx_rating_learner_course,unique;not null"`
	Stars          int    `json:"stars" gorm:"not null;check:stars >= 1 AND stars <= 5"` // 1–5 rating
	Review         string `json:"review" gorm:"type:text;default:''"`                    // Optional comment
	IsDeleted      bool   `gorm:"default:false"`
}
