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

func TestEnrollFreeCourse(t *testing.T) {
	store := newTestStore(t)
	course, _ := seedCourse(t, store, 0, 4)
	chain := &fakeLedger{}
	manager := NewEnrollmentManager(store, chain, NewSessionState(store))

	result, err := manager.Enroll(context.Background(), learnerAddr, course)
	require.NoError(t, err)
	require.NotNil(t, result.Enrollment)

	assert.False(t, result.AlreadyEnrolled)
	assert.Equal(t, 0, result.Enrollment.Progress)
	assert.Empty(t, result.Enrollment.CompletedModules())
	assert.Equal(t, 0, result.Enrollment.CurrentModuleIndex)
	assert.False(t, result.Enrollment.CertificateMinted)

	// no payment for a free course, but still one signature and one
	// zero-amount transaction record
	assert.Equal(t, 0, chain.transferCalls)
	assert.Equal(t, 1, chain.signCalls)

	var transactions []models.Transactions
	require.NoError(t, store.db.Find(&transactions).Error)
	require.Len(t, transactions, 1)
	assert.Equal(t, uint(0), transactions[0].Amount)
	assert.Equal(t, models.TransactionStatusCompleted, transactions[0].Status)

	// learner user row created lazily
	var user models.User
	require.NoError(t, store.db.Where("wallet_address = ?", models.NormalizeAddress(learnerAddr)).First(&user).Error)
}

func TestEnrollIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	course, _ := seedCourse(t, store, 10, 4)
	chain := &fakeLedger{}
	manager := NewEnrollmentManager(store, chain, NewSessionState(store))

	first, err := manager.Enroll(context.Background(), learnerAddr, course)
	require.NoError(t, err)
	require.False(t, first.AlreadyEnrolled)

	second, err := manager.Enroll(context.Background(), learnerAddr, course)
	require.NoError(t, err)
	assert.True(t, second.AlreadyEnrolled)
	assert.Equal(t, first.Enrollment.ID, second.Enrollment.ID)

	// exactly one payment, one signature, one enrollment row
	assert.Equal(t, 1, chain.transferCalls)
	assert.Equal(t, 1, chain.signCalls)

	var count int64
	store.db.Model(&courseModels.Enrollment{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestEnrollPaymentFailed(t *testing.T) {
	store := newTestStore(t)
	course, _ := seedCourse(t, store, 25, 3)
	chain := &fakeLedger{transferErr: ledger.ErrRejected}
	manager := NewEnrollmentManager(store, chain, NewSessionState(store))

	_, err := manager.Enroll(context.Background(), learnerAddr, course)
	require.ErrorIs(t, err, ErrPaymentFailed)

	// pre-persistence abort: nothing was written, signature never requested
	assert.Equal(t, 0, chain.signCalls)
	var count int64
	store.db.Model(&courseModels.Enrollment{}).Count(&count)
	assert.EqualValues(t, 0, count)
	store.db.Model(&models.Transactions{}).Count(&count)
	assert.EqualValues(t, 0, count)

	// a retry with the transfer now succeeding creates exactly one enrollment
	chain.transferErr = nil
	result, err := manager.Enroll(context.Background(), learnerAddr, course)
	require.NoError(t, err)
	assert.False(t, result.AlreadyEnrolled)

	store.db.Model(&courseModels.Enrollment{}).Count(&count)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, 2, chain.transferCalls)
}

func TestEnrollConfirmationTimeout(t *testing.T) {
	store := newTestStore(t)
	course, _ := seedCourse(t, store, 25, 3)
	chain := &fakeLedger{transferErr: ledger.ErrConfirmationTimeout}
	manager := NewEnrollmentManager(store, chain, NewSessionState(store))

	_, err := manager.Enroll(context.Background(), learnerAddr, course)
	// timeout is distinct from a plain payment failure: the transfer may
	// still land, so the caller must not retry blindly
	require.ErrorIs(t, err, ErrConfirmationTimeout)
	assert.NotErrorIs(t, err, ErrPaymentFailed)
}

func TestEnrollSignatureRejectedFreeCourse(t *testing.T) {
	store := newTestStore(t)
	course, _ := seedCourse(t, store, 0, 3)
	chain := &fakeLedger{signErr: ledger.ErrRejected}
	manager := NewEnrollmentManager(store, chain, NewSessionState(store))

	_, err := manager.Enroll(context.Background(), learnerAddr, course)
	require.ErrorIs(t, err, ErrSignatureRejected)

	var count int64
	store.db.Model(&courseModels.Enrollment{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestEnrollSignatureRejectedAfterPayment(t *testing.T) {
	store := newTestStore(t)
	course, _ := seedCourse(t, store, 50, 3)
	chain := &fakeLedger{signErr: ledger.ErrRejected}
	manager := NewEnrollmentManager(store, chain, NewSessionState(store))

	_, err := manager.Enroll(context.Background(), learnerAddr, course)
	// the ledger was debited and transfers are not reversible, so this must
	// surface distinctly from a clean signature rejection
	require.ErrorIs(t, err, ErrPaidButNotEnrolled)

	var count int64
	store.db.Model(&courseModels.Enrollment{}).Count(&count)
	assert.EqualValues(t, 0, count)

	// the stranded payment is recorded for the reconciler/support path
	var transactions []models.Transactions
	require.NoError(t, store.db.Find(&transactions).Error)
	require.Len(t, transactions, 1)
	assert.Equal(t, models.TransactionStatusPendingEnrollment, transactions[0].Status)
	assert.Equal(t, uint(50), transactions[0].Amount)
}

func TestEnrollWriteFailedThenRetryPersistenceOnly(t *testing.T) {
	store := newTestStore(t)
	course, _ := seedCourse(t, store, 10, 3)
	broken := &failingStore{GormStore: store, failCreateEnrollment: true}
	chain := &fakeLedger{}
	sessions := NewSessionState(broken)
	manager := NewEnrollmentManager(broken, chain, sessions)

	_, err := manager.Enroll(context.Background(), learnerAddr, course)
	require.ErrorIs(t, err, ErrEnrollmentWriteFailed)
	assert.Equal(t, 1, chain.transferCalls)

	// the payment was recorded as pending
	pending, listErr := store.ListPendingEnrollmentTransactions()
	require.NoError(t, listErr)
	require.Len(t, pending, 1)

	// retrying the persistence step alone completes the enrollment without
	// touching the ledger again
	broken.failCreateEnrollment = false
	enrollment, err := manager.RetryEnrollmentWrite(learnerAddr, course, pending[0].Reference)
	require.NoError(t, err)
	require.NotNil(t, enrollment)
	assert.Equal(t, 1, chain.transferCalls)
	assert.Equal(t, 1, chain.signCalls)

	// exactly one transaction exists for the original payment, now completed
	var transactions []models.Transactions
	require.NoError(t, store.db.Find(&transactions).Error)
	require.Len(t, transactions, 1)
	assert.Equal(t, models.TransactionStatusCompleted, transactions[0].Status)

	var count int64
	store.db.Model(&courseModels.Enrollment{}).Count(&count)
	assert.EqualValues(t, 1, count)

	// and the retry itself is idempotent
	again, err := manager.RetryEnrollmentWrite(learnerAddr, course, pending[0].Reference)
	require.NoError(t, err)
	assert.Equal(t, enrollment.ID, again.ID)
	store.db.Model(&courseModels.Enrollment{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestEnrollNormalizesAddress(t *testing.T) {
	store := newTestStore(t)
	course, _ := seedCourse(t, store, 0, 2)
	manager := NewEnrollmentManager(store, &fakeLedger{}, NewSessionState(store))

	first, err := manager.Enroll(context.Background(), "0xABCDEF0000000000000000000000000000000001", course)
	require.NoError(t, err)

	// same wallet, different casing: still the same enrollment
	second, err := manager.Enroll(context.Background(), "0xabcdef0000000000000000000000000000000001", course)
	require.NoError(t, err)
	assert.True(t, second.AlreadyEnrolled)
	assert.Equal(t, first.Enrollment.ID, second.Enrollment.ID)
}

func TestRetryWriteRequiresPaymentOnRecord(t *testing.T) {
	store := newTestStore(t)
	course, _ := seedCourse(t, store, 10, 3)
	chain := &fakeLedger{}
	manager := NewEnrollmentManager(store, chain, NewSessionState(store))

	// never paid: the persistence-only retry must not create anything
	enrollment, err := manager.RetryEnrollmentWrite(learnerAddr, course, "")
	require.ErrorIs(t, err, ErrPaymentFailed)
	assert.Nil(t, enrollment)

	// a reference that names no transaction is just as worthless
	enrollment, err = manager.RetryEnrollmentWrite(learnerAddr, course, "no-such-reference")
	require.ErrorIs(t, err, ErrPaymentFailed)
	assert.Nil(t, enrollment)

	assert.Equal(t, 0, chain.transferCalls)
	assert.Equal(t, 0, chain.signCalls)

	var enrollments, transactions int64
	store.db.Model(&courseModels.Enrollment{}).Count(&enrollments)
	store.db.Model(&models.Transactions{}).Count(&transactions)
	assert.EqualValues(t, 0, enrollments)
	assert.EqualValues(t, 0, transactions)
}

func TestRetryWriteRejectsAnotherLearnersPayment(t *testing.T) {
	store := newTestStore(t)
	course, _ := seedCourse(t, store, 10, 3)
	manager := NewEnrollmentManager(store, &fakeLedger{}, NewSessionState(store))

	// a stranded payment exists, but it belongs to a different wallet
	other := &models.Transactions{
		LearnerAddress:  "0x9999000000000000000000000000000000009999",
		CourseID:        course.ID,
		Reference:       "ref-other-learner",
		TransactionType: models.TransactionTypeEnrollment,
		Amount:          course.Price,
		Status:          models.TransactionStatusPendingEnrollment,
	}
	require.NoError(t, store.CreateTransaction(other))

	enrollment, err := manager.RetryEnrollmentWrite(learnerAddr, course, "ref-other-learner")
	require.ErrorIs(t, err, ErrPaymentFailed)
	assert.Nil(t, enrollment)

	var count int64
	store.db.Model(&courseModels.Enrollment{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestRetryFreeCourseWriteRecordsTransaction(t *testing.T) {
	store := newTestStore(t)
	course, _ := seedCourse(t, store, 0, 2)
	manager := NewEnrollmentManager(store, &fakeLedger{}, NewSessionState(store))

	// a free-course write replay needs no payment evidence, but the
	// enrollment still ends up with exactly one zero-amount record
	enrollment, err := manager.RetryEnrollmentWrite(learnerAddr, course, "")
	require.NoError(t, err)
	require.NotNil(t, enrollment)

	var transactions []models.Transactions
	require.NoError(t, store.db.Find(&transactions).Error)
	require.Len(t, transactions, 1)
	assert.Equal(t, uint(0), transactions[0].Amount)
	assert.Equal(t, models.TransactionStatusCompleted, transactions[0].Status)
	assert.Equal(t, models.NormalizeAddress(learnerAddr), transactions[0].LearnerAddress)

	// replaying again stays idempotent: one enrollment, one transaction
	again, err := manager.RetryEnrollmentWrite(learnerAddr, course, "")
	require.NoError(t, err)
	assert.Equal(t, enrollment.ID, again.ID)

	var enrollments, txCount int64
	store.db.Model(&courseModels.Enrollment{}).Count(&enrollments)
	store.db.Model(&models.Transactions{}).Count(&txCount)
	assert.EqualValues(t, 1, enrollments)
	assert.EqualValues(t, 1, txCount)
}
