package courseService

import (
	"chainlearn/ledger"
	"chainlearn/models"
	courseModels "chainlearn/models/course"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Ledger is the on-chain contract consumed by the workflow
type Ledger interface {
	Transfer(ctx context.Context, from, to string, amount uint) (string, error)
	RequestSignature(ctx context.Context, signer, payload string) (string, error)
	MintCertificate(ctx context.Context, owner string, metadata ledger.CertificateMetadata) (*ledger.MintResult, error)
}

// EnrollResult is the outcome of an enroll call
type EnrollResult struct {
	Enrollment      *courseModels.Enrollment `json:"enrollment"`
	AlreadyEnrolled bool                     `json:"already_enrolled"`
	TxHash          string                   `json:"tx_hash,omitempty"`
}

// EnrollmentManager establishes the (learner, course) enrollment exactly
// once, handling payment for priced courses. Steps run strictly in order:
// idempotency check, payment, signature, persistence, session refresh.
type EnrollmentManager struct {
	store    Store
	ledger   Ledger
	sessions *SessionState
}

func NewEnrollmentManager(store Store, ledgerClient Ledger, sessions *SessionState) *EnrollmentManager {
	return &EnrollmentManager{store: store, ledger: ledgerClient, sessions: sessions}
}

// Enroll enrolls the learner in the course. Error kinds:
//   - ErrPaymentFailed / ErrSignatureRejected: nothing persisted, whole call
//     retryable.
//   - ErrConfirmationTimeout: payment outcome unknown, do not auto-retry.
//   - ErrPaidButNotEnrolled: ledger debited, no enrollment; a PENDING
//     transaction row is left behind for the retry path and the reconciler.
//   - ErrEnrollmentWriteFailed: ledger steps done, DB write failed; retry the
//     persistence step only via RetryEnrollmentWrite.
func (m *EnrollmentManager) Enroll(ctx context.Context, learner string, course *courseModels.Course) (*EnrollResult, error) {
	learner = models.NormalizeAddress(learner)
	if learner == "" {
		return nil, fmt.Errorf("learner address is required")
	}

	// Step 1: idempotency check. An existing enrollment short-circuits the
	// whole call: no second payment, no duplicate row.
	existing, err := m.store.GetEnrollment(learner, course.ID)
	if err != nil {
		return nil, fmt.Errorf("enrollment lookup failed: %w", err)
	}
	if existing != nil {
		return &EnrollResult{Enrollment: existing, AlreadyEnrolled: true}, nil
	}

	reference := uuid.NewString()

	// Step 2: payment, priced courses only. A failure here aborts before
	// anything is persisted.
	var txHash string
	if course.Price > 0 {
		txHash, err = m.ledger.Transfer(ctx, learner, course.OwnerAddress, course.Price)
		if err != nil {
			if errors.Is(err, ledger.ErrConfirmationTimeout) {
				return nil, fmt.Errorf("%w: %v", ErrConfirmationTimeout, err)
			}
			return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
		}
	}

	// Step 3: signed attestation over the course title, proving wallet
	// control independent of payment.
	if _, err := m.ledger.RequestSignature(ctx, learner, course.Title); err != nil {
		if course.Price > 0 && txHash != "" {
			// The transfer is not reversible. Record it so the learner is
			// never charged again, and surface the partial failure.
			m.recordPendingPayment(learner, course.ID, reference, txHash, course.Price)
			return nil, fmt.Errorf("%w: signature rejected after payment %s", ErrPaidButNotEnrolled, txHash)
		}
		return nil, fmt.Errorf("%w: %v", ErrSignatureRejected, err)
	}

	// Step 4: persistence.
	enrollment, err := m.writeEnrollment(learner, course, reference, txHash)
	if err != nil {
		if course.Price > 0 && txHash != "" {
			m.recordPendingPayment(learner, course.ID, reference, txHash, course.Price)
		}
		return nil, fmt.Errorf("%w: %v", ErrEnrollmentWriteFailed, err)
	}

	// Step 5: session refresh. The enrollment is already durable; a stale
	// cache here heals on the next refresh.
	if err := m.sessions.Refresh(learner); err != nil {
		log.Printf("[ENROLL] session refresh failed for %s: %v", learner, err)
	}

	return &EnrollResult{Enrollment: enrollment, TxHash: txHash}, nil
}

// RetryEnrollmentWrite re-runs the persistence step for a payment that
// already landed. It never touches the ledger, so it cannot double-pay, and
// it is idempotent: existing rows are kept as-is.
//
// A priced course requires a confirmed payment on record: the reference must
// name a transaction belonging to this (learner, course) pair. Without one
// there is nothing to replay and the caller must go through Enroll.
func (m *EnrollmentManager) RetryEnrollmentWrite(learner string, course *courseModels.Course, reference string) (*courseModels.Enrollment, error) {
	learner = models.NormalizeAddress(learner)

	if course.Price > 0 {
		if reference == "" {
			return nil, fmt.Errorf("%w: no payment on record for course %d", ErrPaymentFailed, course.ID)
		}
		paid, err := m.store.GetTransactionByReference(reference)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEnrollmentWriteFailed, err)
		}
		if paid == nil || paid.LearnerAddress != learner || paid.CourseID != course.ID {
			return nil, fmt.Errorf("%w: reference %s is not a payment for course %d", ErrPaymentFailed, reference, course.ID)
		}
	}

	existing, err := m.store.GetEnrollment(learner, course.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnrollmentWriteFailed, err)
	}

	enrollment := existing
	if enrollment == nil {
		now := time.Now().UTC()
		enrollment = &courseModels.Enrollment{
			LearnerAddress:     learner,
			CourseID:           course.ID,
			CompletedModuleIDs: courseModels.EncodeModuleIDs(nil),
			Progress:           0,
			CurrentModuleIndex: 0,
			EnrolledAt:         now,
			LastAccessedAt:     now,
		}
		if err := m.store.EnsureUser(learner); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEnrollmentWriteFailed, err)
		}
		if err := m.store.CreateEnrollment(enrollment); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEnrollmentWriteFailed, err)
		}
		if err := m.store.IncrementStudentCount(course.ID); err != nil {
			log.Printf("[ENROLL] student count update failed for course %d: %v", course.ID, err)
		}

		// A free-course replay has no pending row to flip; write the
		// zero-amount record here so every enrollment still carries
		// exactly one transaction.
		if reference == "" {
			transaction := &models.Transactions{
				LearnerAddress:  learner,
				CourseID:        course.ID,
				Reference:       uuid.NewString(),
				TransactionType: models.TransactionTypeEnrollment,
				Amount:          0,
				Status:          models.TransactionStatusCompleted,
			}
			if err := m.store.CreateTransaction(transaction); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrEnrollmentWriteFailed, err)
			}
		}
	}

	if reference != "" {
		if err := m.store.UpdateTransactionStatus(reference, models.TransactionStatusCompleted); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEnrollmentWriteFailed, err)
		}
	}

	if err := m.sessions.Refresh(learner); err != nil {
		log.Printf("[ENROLL] session refresh failed for %s: %v", learner, err)
	}

	return enrollment, nil
}

func (m *EnrollmentManager) writeEnrollment(learner string, course *courseModels.Course, reference, txHash string) (*courseModels.Enrollment, error) {
	// Users are created lazily on first enrollment
	if err := m.store.EnsureUser(learner); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	enrollment := &courseModels.Enrollment{
		LearnerAddress:     learner,
		CourseID:           course.ID,
		CompletedModuleIDs: courseModels.EncodeModuleIDs(nil),
		Progress:           0,
		CurrentModuleIndex: 0,
		EnrolledAt:         now,
		LastAccessedAt:     now,
	}
	if err := m.store.CreateEnrollment(enrollment); err != nil {
		return nil, err
	}

	// A zero-amount record is written for free courses too, so every
	// enrollment has exactly one transaction row.
	transaction := &models.Transactions{
		LearnerAddress:  learner,
		CourseID:        course.ID,
		Reference:       reference,
		TransactionType: models.TransactionTypeEnrollment,
		TxHash:          txHash,
		Amount:          course.Price,
		Status:          models.TransactionStatusCompleted,
	}
	if err := m.store.CreateTransaction(transaction); err != nil {
		return nil, err
	}

	if err := m.store.IncrementStudentCount(course.ID); err != nil {
		log.Printf("[ENROLL] student count update failed for course %d: %v", course.ID, err)
	}

	return enrollment, nil
}

// recordPendingPayment leaves a PENDING_ENROLLMENT transaction row behind a
// partial failure. Best effort: if even this write fails, the tx hash in the
// returned error is the learner's receipt for support.
func (m *EnrollmentManager) recordPendingPayment(learner string, courseID uint, reference, txHash string, amount uint) {
	transaction := &models.Transactions{
		LearnerAddress:  learner,
		CourseID:        courseID,
		Reference:       reference,
		TransactionType: models.TransactionTypeEnrollment,
		TxHash:          txHash,
		Amount:          amount,
		Status:          models.TransactionStatusPendingEnrollment,
	}
	if err := m.store.CreateTransaction(transaction); err != nil {
		log.Printf("[ENROLL] failed to record pending payment %s (tx %s): %v", reference, txHash, err)
	}
}
