package courseService

import (
	"chainlearn/models"
	courseModels "chainlearn/models/course"
	"fmt"
	"log"
	"time"
)

// CompletionResult is the outcome of a completeModule call. CourseCompleted
// is recomputed from the invariant on every call, so it re-signals once the
// course is fully complete; callers act on it only when FirstCompletion is
// also true.
type CompletionResult struct {
	Enrollment       *courseModels.Enrollment `json:"enrollment"`
	AlreadyCompleted bool                     `json:"already_completed"`
	CourseCompleted  bool                     `json:"course_completed"`
	FirstCompletion  bool                     `json:"first_completion"`
}

// ProgressTracker records module completion and keeps progress and the
// resume index consistent.
type ProgressTracker struct {
	store    Store
	sessions *SessionState
}

func NewProgressTracker(store Store, sessions *SessionState) *ProgressTracker {
	return &ProgressTracker{store: store, sessions: sessions}
}

// CompleteModule adds the module to the completed set and recomputes the
// derived progress. Completing an already-completed module is a no-op that
// returns the unchanged enrollment. A locked module is rejected without any
// mutation. On a failed write nothing in memory changes and the same call
// can be retried safely.
func (t *ProgressTracker) CompleteModule(learner string, course *courseModels.Course, modules []courseModels.Module, moduleID uint) (*CompletionResult, error) {
	learner = models.NormalizeAddress(learner)

	index := -1
	for i := range modules {
		if modules[i].ID == moduleID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("%w: module %d, course %d", ErrModuleNotInCourse, moduleID, course.ID)
	}

	enrollment, err := t.store.GetEnrollment(learner, course.ID)
	if err != nil {
		return nil, fmt.Errorf("enrollment lookup failed: %w", err)
	}
	if enrollment == nil {
		return nil, fmt.Errorf("%w: course %d", ErrNotEnrolled, course.ID)
	}

	total := len(modules)

	// Idempotent: a second completion of the same module changes nothing.
	if enrollment.HasCompleted(moduleID) {
		return &CompletionResult{
			Enrollment:       enrollment,
			AlreadyCompleted: true,
			CourseCompleted:  len(enrollment.CompletedModules()) == total,
		}, nil
	}

	if IsLocked(enrollment, modules, index) {
		return nil, fmt.Errorf("%w: module %d requires module %d first", ErrModuleLocked, moduleID, modules[index-1].ID)
	}

	completed := append(enrollment.CompletedModules(), moduleID)
	progress := DeriveProgress(len(completed), total)

	// Advance the resume position when the learner completed the module they
	// were on and a next module exists.
	currentIndex := enrollment.CurrentModuleIndex
	if index == currentIndex && index+1 < total {
		currentIndex = index + 1
	}

	lastAccessed := time.Now().UTC()

	// One atomic write; the in-memory enrollment is only updated after it lands.
	if err := t.store.UpdateEnrollmentProgress(learner, course.ID, completed, progress, currentIndex, lastAccessed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProgressWriteFailed, err)
	}

	wasComplete := enrollment.Progress == 100
	enrollment.CompletedModuleIDs = courseModels.EncodeModuleIDs(completed)
	enrollment.Progress = progress
	enrollment.CurrentModuleIndex = currentIndex
	enrollment.LastAccessedAt = lastAccessed

	if err := t.sessions.Refresh(learner); err != nil {
		log.Printf("[PROGRESS] session refresh failed for %s: %v", learner, err)
	}

	completedCourse := len(completed) == total
	return &CompletionResult{
		Enrollment:      enrollment,
		CourseCompleted: completedCourse,
		FirstCompletion: completedCourse && !wasComplete,
	}, nil
}

// ModuleStates returns the lock/completion state of every module for the
// learner, in course order. A nil enrollment yields everything locked except
// position 0.
func ModuleStates(enrollment *courseModels.Enrollment, modules []courseModels.Module) []ModuleState {
	states := make([]ModuleState, len(modules))
	for i := range modules {
		states[i] = ModuleState{
			ModuleID:  modules[i].ID,
			Title:     modules[i].Title,
			Completed: enrollment != nil && enrollment.HasCompleted(modules[i].ID),
			Locked:    IsLocked(enrollment, modules, i),
		}
	}
	return states
}

type ModuleState struct {
	ModuleID  uint   `json:"module_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Locked    bool   `json:"locked"`
}
