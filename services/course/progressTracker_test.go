package courseService

import (
	"chainlearn/models"
	courseModels "chainlearn/models/course"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enrollLearner(t *testing.T, store *GormStore, course *courseModels.Course) *SessionState {
	t.Helper()
	sessions := NewSessionState(store)
	manager := NewEnrollmentManager(store, &fakeLedger{}, sessions)
	_, err := manager.Enroll(context.Background(), learnerAddr, course)
	require.NoError(t, err)
	return sessions
}

func TestCompleteModuleDerivesProgress(t *testing.T) {
	store := newTestStore(t)
	course, modules := seedCourse(t, store, 0, 4)
	sessions := enrollLearner(t, store, course)
	tracker := NewProgressTracker(store, sessions)

	result, err := tracker.CompleteModule(learnerAddr, course, modules, modules[0].ID)
	require.NoError(t, err)

	assert.Equal(t, 25, result.Enrollment.Progress)
	assert.Equal(t, 1, result.Enrollment.CurrentModuleIndex)
	assert.False(t, result.CourseCompleted)

	// module 1 unlocked, module 2 still locked
	assert.False(t, IsLocked(result.Enrollment, modules, 1))
	assert.True(t, IsLocked(result.Enrollment, modules, 2))

	// the write landed
	stored, err := store.GetEnrollment(result.Enrollment.LearnerAddress, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, stored.Progress)
	assert.True(t, stored.HasCompleted(modules[0].ID))
}

func TestCompleteModuleIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	course, modules := seedCourse(t, store, 0, 3)
	sessions := enrollLearner(t, store, course)
	tracker := NewProgressTracker(store, sessions)

	first, err := tracker.CompleteModule(learnerAddr, course, modules, modules[0].ID)
	require.NoError(t, err)

	second, err := tracker.CompleteModule(learnerAddr, course, modules, modules[0].ID)
	require.NoError(t, err)

	// completing the same module twice must not double-count
	assert.True(t, second.AlreadyCompleted)
	assert.Equal(t, first.Enrollment.Progress, second.Enrollment.Progress)
	assert.Equal(t, len(first.Enrollment.CompletedModules()), len(second.Enrollment.CompletedModules()))
}

func TestCompleteLockedModuleRejected(t *testing.T) {
	store := newTestStore(t)
	course, modules := seedCourse(t, store, 0, 4)
	sessions := enrollLearner(t, store, course)
	tracker := NewProgressTracker(store, sessions)

	_, err := tracker.CompleteModule(learnerAddr, course, modules, modules[0].ID)
	require.NoError(t, err)

	// module 2 is locked while module 1 is incomplete
	_, err = tracker.CompleteModule(learnerAddr, course, modules, modules[2].ID)
	require.ErrorIs(t, err, ErrModuleLocked)

	// rejection must not mutate the enrollment
	stored, err := store.GetEnrollment(models.NormalizeAddress(learnerAddr), course.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, stored.Progress)
	assert.Len(t, stored.CompletedModules(), 1)
}

func TestCompleteModuleNotInCourse(t *testing.T) {
	store := newTestStore(t)
	course, modules := seedCourse(t, store, 0, 2)
	otherCourse, otherModules := seedCourse(t, store, 0, 2)
	sessions := enrollLearner(t, store, course)
	tracker := NewProgressTracker(store, sessions)

	_, err := tracker.CompleteModule(learnerAddr, course, modules, otherModules[0].ID)
	require.ErrorIs(t, err, ErrModuleNotInCourse)
	_ = otherCourse
}

func TestCompleteModuleRequiresEnrollment(t *testing.T) {
	store := newTestStore(t)
	course, modules := seedCourse(t, store, 0, 2)
	tracker := NewProgressTracker(store, NewSessionState(store))

	_, err := tracker.CompleteModule(learnerAddr, course, modules, modules[0].ID)
	require.ErrorIs(t, err, ErrNotEnrolled)
}

func TestCompleteModuleWriteFailureLeavesStateUntouched(t *testing.T) {
	store := newTestStore(t)
	course, modules := seedCourse(t, store, 0, 3)
	sessions := enrollLearner(t, store, course)
	broken := &failingStore{GormStore: store, failUpdateProgress: true}
	tracker := NewProgressTracker(broken, sessions)

	_, err := tracker.CompleteModule(learnerAddr, course, modules, modules[0].ID)
	require.ErrorIs(t, err, ErrProgressWriteFailed)

	// nothing recorded; the same call succeeds once the store recovers
	stored, getErr := store.GetEnrollment(models.NormalizeAddress(learnerAddr), course.ID)
	require.NoError(t, getErr)
	assert.Equal(t, 0, stored.Progress)
	assert.Empty(t, stored.CompletedModules())

	broken.failUpdateProgress = false
	result, err := tracker.CompleteModule(learnerAddr, course, modules, modules[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 33, result.Enrollment.Progress)
}

func TestCourseCompletionScenario(t *testing.T) {
	store := newTestStore(t)
	course, modules := seedCourse(t, store, 0, 4)
	sessions := enrollLearner(t, store, course)
	tracker := NewProgressTracker(store, sessions)

	expected := []int{25, 50, 75, 100}
	for i, module := range modules {
		result, err := tracker.CompleteModule(learnerAddr, course, modules, module.ID)
		require.NoError(t, err)
		assert.Equal(t, expected[i], result.Enrollment.Progress)

		if i < len(modules)-1 {
			assert.False(t, result.CourseCompleted)
		} else {
			// the final module completes the course, exactly once
			assert.True(t, result.CourseCompleted)
			assert.True(t, result.FirstCompletion)
			assert.True(t, CanRate(result.Enrollment))
			assert.True(t, CanMintCertificate(result.Enrollment))
		}
	}

	// re-signalling after full completion is safe but flagged as a repeat
	repeat, err := tracker.CompleteModule(learnerAddr, course, modules, modules[3].ID)
	require.NoError(t, err)
	assert.True(t, repeat.CourseCompleted)
	assert.True(t, repeat.AlreadyCompleted)
	assert.False(t, repeat.FirstCompletion)
}

func TestCurrentModuleIndexOnlyAdvancesFromCurrent(t *testing.T) {
	store := newTestStore(t)
	course, modules := seedCourse(t, store, 0, 3)
	sessions := enrollLearner(t, store, course)
	tracker := NewProgressTracker(store, sessions)

	result, err := tracker.CompleteModule(learnerAddr, course, modules, modules[0].ID)
	require.NoError(t, err)
	require.Equal(t, 1, result.Enrollment.CurrentModuleIndex)

	// the learner navigated back: completing an earlier module again is a
	// no-op and completing ahead of the resume position leaves it alone
	require.NoError(t, store.UpdateEnrollmentProgress(
		result.Enrollment.LearnerAddress, course.ID,
		result.Enrollment.CompletedModules(), result.Enrollment.Progress,
		0, result.Enrollment.LastAccessedAt,
	))

	result, err = tracker.CompleteModule(learnerAddr, course, modules, modules[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Enrollment.CurrentModuleIndex)
}

func TestSessionRefreshAfterCompletion(t *testing.T) {
	store := newTestStore(t)
	course, modules := seedCourse(t, store, 0, 2)
	sessions := enrollLearner(t, store, course)
	tracker := NewProgressTracker(store, sessions)

	_, err := tracker.CompleteModule(learnerAddr, course, modules, modules[0].ID)
	require.NoError(t, err)

	cached, ok := sessions.Get(models.NormalizeAddress(learnerAddr), course.ID)
	require.True(t, ok)
	assert.Equal(t, 50, cached.Progress)
}
