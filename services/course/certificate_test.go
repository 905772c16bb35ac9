package courseService

import (
	"chainlearn/ledger"
	"chainlearn/models"
	courseModels "chainlearn/models/course"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeCourse(t *testing.T, store *GormStore, sessions *SessionState, course *courseModels.Course, modules []courseModels.Module) {
	t.Helper()
	tracker := NewProgressTracker(store, sessions)
	for _, module := range modules {
		_, err := tracker.CompleteModule(learnerAddr, course, modules, module.ID)
		require.NoError(t, err)
	}
}

func TestCompletionGates(t *testing.T) {
	store := newTestStore(t)
	course, modules := seedCourse(t, store, 0, 2)
	sessions := enrollLearner(t, store, course)

	enrollment, err := store.GetEnrollment(models.NormalizeAddress(learnerAddr), course.ID)
	require.NoError(t, err)

	// locked before completion
	assert.False(t, CanRate(enrollment))
	assert.False(t, CanMintCertificate(enrollment))
	assert.False(t, CanRate(nil))
	assert.False(t, CanMintCertificate(nil))

	completeCourse(t, store, sessions, course, modules)
	enrollment, err = store.GetEnrollment(models.NormalizeAddress(learnerAddr), course.ID)
	require.NoError(t, err)

	// both unlock at 100%, independently of each other
	assert.True(t, CanRate(enrollment))
	assert.True(t, CanMintCertificate(enrollment))
}

func TestMintCertificate(t *testing.T) {
	store := newTestStore(t)
	course, modules := seedCourse(t, store, 0, 2)
	course.CertificateTitle = "Smart Contract Graduate"
	course.CertificateIssuer = "chainlearn"
	require.NoError(t, store.db.Save(course).Error)

	sessions := enrollLearner(t, store, course)
	completeCourse(t, store, sessions, course, modules)

	chain := &fakeLedger{}
	trigger := NewCertificateTrigger(store, chain, sessions)

	result, err := trigger.MintCertificate(context.Background(), learnerAddr, course)
	require.NoError(t, err)
	assert.NotEmpty(t, result.TokenID)
	assert.Equal(t, 1, chain.mintCalls)

	enrollment, err := store.GetEnrollment(models.NormalizeAddress(learnerAddr), course.ID)
	require.NoError(t, err)
	assert.True(t, enrollment.CertificateMinted)
	assert.Equal(t, result.TokenID, enrollment.CertificateTokenID)

	// minting and rating stay independent: rating still allowed
	assert.True(t, CanRate(enrollment))

	// a second mint is refused; the flag never goes back to false
	_, err = trigger.MintCertificate(context.Background(), learnerAddr, course)
	require.ErrorIs(t, err, ErrAlreadyMinted)
	assert.Equal(t, 1, chain.mintCalls)
}

func TestMintRequiresCompletion(t *testing.T) {
	store := newTestStore(t)
	course, modules := seedCourse(t, store, 0, 3)
	sessions := enrollLearner(t, store, course)

	tracker := NewProgressTracker(store, sessions)
	_, err := tracker.CompleteModule(learnerAddr, course, modules, modules[0].ID)
	require.NoError(t, err)

	chain := &fakeLedger{}
	trigger := NewCertificateTrigger(store, chain, sessions)

	_, err = trigger.MintCertificate(context.Background(), learnerAddr, course)
	require.ErrorIs(t, err, ErrCourseNotCompleted)
	assert.Equal(t, 0, chain.mintCalls)
}

func TestMintFailureKeepsFlagFalse(t *testing.T) {
	store := newTestStore(t)
	course, modules := seedCourse(t, store, 0, 2)
	sessions := enrollLearner(t, store, course)
	completeCourse(t, store, sessions, course, modules)

	chain := &fakeLedger{mintErr: ledger.ErrRejected}
	trigger := NewCertificateTrigger(store, chain, sessions)

	_, err := trigger.MintCertificate(context.Background(), learnerAddr, course)
	require.ErrorIs(t, err, ErrMintFailed)

	enrollment, getErr := store.GetEnrollment(models.NormalizeAddress(learnerAddr), course.ID)
	require.NoError(t, getErr)
	assert.False(t, enrollment.CertificateMinted)

	// the retry is allowed and succeeds once the ledger recovers
	chain.mintErr = nil
	_, err = trigger.MintCertificate(context.Background(), learnerAddr, course)
	require.NoError(t, err)
}

func TestSetCertificateMintedIsMonotonic(t *testing.T) {
	store := newTestStore(t)
	course, modules := seedCourse(t, store, 0, 2)
	sessions := enrollLearner(t, store, course)
	completeCourse(t, store, sessions, course, modules)

	learner := models.NormalizeAddress(learnerAddr)
	require.NoError(t, store.SetCertificateMinted(learner, course.ID, "42"))

	// a second write targets only unminted rows: token id cannot be replaced
	require.NoError(t, store.SetCertificateMinted(learner, course.ID, "43"))

	enrollment, err := store.GetEnrollment(learner, course.ID)
	require.NoError(t, err)
	assert.True(t, enrollment.CertificateMinted)
	assert.Equal(t, "42", enrollment.CertificateTokenID)
}

func TestRateCourse(t *testing.T) {
	store := newTestStore(t)
	course, modules := seedCourse(t, store, 0, 2)
	sessions := enrollLearner(t, store, course)

	trigger := NewCertificateTrigger(store, &fakeLedger{}, sessions)

	// rating is gated on completion
	_, err := trigger.RateCourse(learnerAddr, course, 5, "great")
	require.ErrorIs(t, err, ErrCourseNotCompleted)

	completeCourse(t, store, sessions, course, modules)

	rated, err := trigger.HasRated(learnerAddr, course.ID)
	require.NoError(t, err)
	assert.False(t, rated)

	_, err = trigger.RateCourse(learnerAddr, course, 4, "solid intro")
	require.NoError(t, err)

	// resubmission overwrites instead of duplicating
	_, err = trigger.RateCourse(learnerAddr, course, 5, "changed my mind")
	require.NoError(t, err)

	var count int64
	store.db.Model(&models.Rating{}).Count(&count)
	assert.EqualValues(t, 1, count)

	rating, err := store.GetRating(models.NormalizeAddress(learnerAddr), course.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, rating.Stars)

	rated, err = trigger.HasRated(learnerAddr, course.ID)
	require.NoError(t, err)
	assert.True(t, rated)

	// course aggregate refreshed
	updated, err := store.GetCourse(course.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated.RatingCount)
	assert.InDelta(t, 5.0, updated.RatingAvg, 0.001)
}
