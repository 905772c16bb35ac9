package courseService

import (
	courseModels "chainlearn/models/course"
	"sync"
)

// SessionState caches each learner's enrollment list so lock/progress reads
// do not hit the database on every request. It is refreshed wholesale after
// every successful mutation; no other component patches it.
type SessionState struct {
	mu        sync.RWMutex
	store     Store
	byLearner map[string][]courseModels.Enrollment
}

func NewSessionState(store Store) *SessionState {
	return &SessionState{
		store:     store,
		byLearner: make(map[string][]courseModels.Enrollment),
	}
}

// Refresh re-fetches the learner's enrollments and replaces the cached list.
func (s *SessionState) Refresh(learner string) error {
	enrollments, err := s.store.ListEnrollments(learner)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.byLearner[learner] = enrollments
	s.mu.Unlock()
	return nil
}

// Enrollments returns the cached list, loading it on first access.
func (s *SessionState) Enrollments(learner string) ([]courseModels.Enrollment, error) {
	s.mu.RLock()
	cached, ok := s.byLearner[learner]
	s.mu.RUnlock()
	if ok {
		out := make([]courseModels.Enrollment, len(cached))
		copy(out, cached)
		return out, nil
	}

	if err := s.Refresh(learner); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]courseModels.Enrollment, len(s.byLearner[learner]))
	copy(out, s.byLearner[learner])
	return out, nil
}

// Get returns the cached enrollment for one course, if present.
func (s *SessionState) Get(learner string, courseID uint) (*courseModels.Enrollment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.byLearner[learner] {
		if s.byLearner[learner][i].CourseID == courseID {
			enrollment := s.byLearner[learner][i]
			return &enrollment, true
		}
	}
	return nil, false
}

// Forget drops the learner's cached list, e.g. on logout.
func (s *SessionState) Forget(learner string) {
	s.mu.Lock()
	delete(s.byLearner, learner)
	s.mu.Unlock()
}
