package course

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz belongs to exactly one module. When a module carries a quiz, passing
// it is the prerequisite for marking that module complete.
type Quiz struct {
	gorm.Model
	ModuleID     uint           `json:"module_id" gorm:"uniqueIndex;not null"`
	PassingScore int            `json:"passing_score" gorm:"default:70"` // percent, 0-100
	Questions    datatypes.JSON `json:"questions"`                       // ordered QuizQuestion array
	IsDeleted    bool           `gorm:"default:false"`
}

// QuizQuestion is the fixed question shape stored in Quiz.Questions.
type QuizQuestion struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"` // index into Options
}

// DecodeQuestions unpacks the stored question array.
func (q *Quiz) DecodeQuestions() ([]QuizQuestion, error) {
	var questions []QuizQuestion
	if len(q.Questions) == 0 {
		return questions, nil
	}
	if err := json.Unmarshal(q.Questions, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// QuizAttempt represents a learner's attempt at a module quiz
type QuizAttempt struct {
	gorm.Model
	LearnerAddress  string `json:"learner_address" gorm:"index;not null"`
	ModuleID        uint   `json:"module_id" gorm:"index;not null"`
	SelectedAnswers string `json:"selected_answers"` // JSON array of chosen option indexes
	Score           int    `json:"score"`            // percent achieved
	Passed          bool   `json:"passed" gorm:"default:false"`
	AttemptNumber   int    `json:"attempt_number" gorm:"default:1"`
	IsDeleted       bool   `gorm:"default:false"`
}
