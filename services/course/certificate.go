package courseService

import (
	"chainlearn/ledger"
	"chainlearn/models"
	courseModels "chainlearn/models/course"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"
)

// CanRate reports whether the learner may rate the course. Rating unlocks at
// full completion and is independent of the mint state.
func CanRate(enrollment *courseModels.Enrollment) bool {
	return enrollment != nil && enrollment.Progress == 100
}

// CanMintCertificate reports whether the learner may mint the completion
// certificate: full completion and not yet minted.
func CanMintCertificate(enrollment *courseModels.Enrollment) bool {
	return enrollment != nil && enrollment.Progress == 100 && !enrollment.CertificateMinted
}

// CertificateTrigger exposes the completion-gated actions: certificate
// minting and rating.
type CertificateTrigger struct {
	store    Store
	ledger   Ledger
	sessions *SessionState
}

func NewCertificateTrigger(store Store, ledgerClient Ledger, sessions *SessionState) *CertificateTrigger {
	return &CertificateTrigger{store: store, ledger: ledgerClient, sessions: sessions}
}

// MintCertificate mints the completion NFT and persists the mint flag. On a
// mint failure the flag stays false and the call may be retried; a retry
// after an ambiguous failure risks a duplicate mint at the ledger level,
// which this system does not mask.
func (t *CertificateTrigger) MintCertificate(ctx context.Context, learner string, course *courseModels.Course) (*ledger.MintResult, error) {
	learner = models.NormalizeAddress(learner)

	enrollment, err := t.store.GetEnrollment(learner, course.ID)
	if err != nil {
		return nil, fmt.Errorf("enrollment lookup failed: %w", err)
	}
	if enrollment == nil {
		return nil, fmt.Errorf("%w: course %d", ErrNotEnrolled, course.ID)
	}
	if enrollment.CertificateMinted {
		return nil, ErrAlreadyMinted
	}
	if enrollment.Progress != 100 {
		return nil, fmt.Errorf("%w: progress %d%%", ErrCourseNotCompleted, enrollment.Progress)
	}

	metadata := buildCertificateMetadata(learner, course)
	result, err := t.ledger.MintCertificate(ctx, learner, metadata)
	if err != nil {
		if errors.Is(err, ledger.ErrConfirmationTimeout) {
			return nil, fmt.Errorf("%w: %v", ErrConfirmationTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMintFailed, err)
	}

	// The mint confirmed; the flag transition is false->true only.
	if err := t.store.SetCertificateMinted(learner, course.ID, result.TokenID); err != nil {
		return nil, fmt.Errorf("%w: token %s minted, flag not persisted: %v", ErrCertificateWriteFailed, result.TokenID, err)
	}

	if err := t.sessions.Refresh(learner); err != nil {
		log.Printf("[CERTIFICATE] session refresh failed for %s: %v", learner, err)
	}

	return result, nil
}

// RateCourse upserts the learner's rating, gated on full completion, and
// refreshes the course aggregate.
func (t *CertificateTrigger) RateCourse(learner string, course *courseModels.Course, stars int, review string) (*models.Rating, error) {
	learner = models.NormalizeAddress(learner)

	enrollment, err := t.store.GetEnrollment(learner, course.ID)
	if err != nil {
		return nil, fmt.Errorf("enrollment lookup failed: %w", err)
	}
	if !CanRate(enrollment) {
		return nil, fmt.Errorf("%w: rating unlocks at 100%%", ErrCourseNotCompleted)
	}

	rating := &models.Rating{
		LearnerAddress: learner,
		CourseID:       course.ID,
		Stars:          stars,
		Review:         review,
	}
	if err := t.store.UpsertRating(rating); err != nil {
		return nil, fmt.Errorf("rating write failed: %w", err)
	}

	if err := t.store.RefreshCourseRating(course.ID); err != nil {
		log.Printf("[RATING] course %d aggregate refresh failed: %v", course.ID, err)
	}

	return rating, nil
}

// HasRated reports whether the learner already rated the course.
func (t *CertificateTrigger) HasRated(learner string, courseID uint) (bool, error) {
	rating, err := t.store.GetRating(models.NormalizeAddress(learner), courseID)
	if err != nil {
		return false, err
	}
	return rating != nil, nil
}

func buildCertificateMetadata(learner string, course *courseModels.Course) ledger.CertificateMetadata {
	name := course.CertificateTitle
	if name == "" {
		name = course.Title + " Certificate"
	}

	attributes := map[string]string{}
	if len(course.CertificateAttributes) > 0 {
		if err := json.Unmarshal(course.CertificateAttributes, &attributes); err != nil {
			log.Printf("[CERTIFICATE] course %d has malformed certificate attributes: %v", course.ID, err)
			attributes = map[string]string{}
		}
	}

	return ledger.CertificateMetadata{
		Name:        name,
		Description: course.CertificateDescription,
		Issuer:      course.CertificateIssuer,
		Learner:     learner,
		CourseID:    course.ID,
		CompletedAt: time.Now().UTC(),
		Attributes:  attributes,
	}
}
