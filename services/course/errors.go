package courseService

import "errors"

// Error kinds surfaced by the enrollment/progress workflow. Controllers map
// these to HTTP statuses and user-facing messages; nothing is swallowed here.
var (
	// ErrPaymentFailed: the transfer never landed. Nothing was persisted, so
	// the whole enroll call is safe to retry.
	ErrPaymentFailed = errors.New("payment failed")

	// ErrSignatureRejected: the wallet declined the attestation before any
	// payment happened. Safe to retry the whole enroll call.
	ErrSignatureRejected = errors.New("signature rejected")

	// ErrPaidButNotEnrolled: the ledger was debited but no enrollment record
	// exists. Transfers are not reversible, so the learner must retry the
	// persistence step or go through support. Never re-pay.
	ErrPaidButNotEnrolled = errors.New("paid but not enrolled")

	// ErrEnrollmentWriteFailed: ledger steps succeeded, the database write
	// did not. Retry the persistence step only.
	ErrEnrollmentWriteFailed = errors.New("enrollment write failed")

	// ErrProgressWriteFailed: the module completion was not durably recorded.
	// Retrying the same completeModule call is safe.
	ErrProgressWriteFailed = errors.New("progress write failed")

	// ErrConfirmationTimeout: a ledger call's outcome is unknown. Must not be
	// retried automatically; a retry could double-pay.
	ErrConfirmationTimeout = errors.New("ledger confirmation timeout")

	// ErrMintFailed: no certificate was minted; the mint flag stays false.
	// A manual retry is allowed but not guaranteed idempotent at the ledger.
	ErrMintFailed = errors.New("certificate mint failed")

	// ErrCertificateWriteFailed: the mint confirmed on the ledger but the
	// flag was not persisted. Retrying the write is safe; re-minting is not.
	ErrCertificateWriteFailed = errors.New("certificate write failed")

	ErrNotEnrolled        = errors.New("not enrolled in course")
	ErrModuleNotInCourse  = errors.New("module does not belong to course")
	ErrModuleLocked       = errors.New("module is locked")
	ErrCourseNotCompleted = errors.New("course not completed")
	ErrAlreadyMinted      = errors.New("certificate already minted")
)
