package controllers

import (
	"chainlearn/middleware"
	courseService "chainlearn/services/course"
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	enrollManager *courseService.EnrollmentManager
	tracker       *courseService.ProgressTracker
	certTrigger   *courseService.CertificateTrigger
	sessions      *courseService.SessionState
	store         courseService.Store
)

// Setup injects the workflow services. Called once from main after the
// database and ledger client are ready.
func Setup(manager *courseService.EnrollmentManager, progressTracker *courseService.ProgressTracker,
	certificateTrigger *courseService.CertificateTrigger, sessionState *courseService.SessionState,
	courseStore courseService.Store) {
	enrollManager = manager
	tracker = progressTracker
	certTrigger = certificateTrigger
	sessions = sessionState
	store = courseStore
}

// respondWorkflowError maps core error kinds to HTTP responses. Every kind
// gets its own user-facing message; partial-failure cases carry recovery
// guidance instead of a generic error.
func respondWorkflowError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, courseService.ErrPaymentFailed):
		return middleware.JsonResponse(c, fiber.StatusPaymentRequired, false,
			"Payment failed. Nothing was charged; you can try enrolling again.", nil)
	case errors.Is(err, courseService.ErrConfirmationTimeout):
		return middleware.JsonResponse(c, fiber.StatusGatewayTimeout, false,
			"The blockchain did not confirm in time. The transaction may still complete; please check your wallet before retrying.", nil)
	case errors.Is(err, courseService.ErrSignatureRejected):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false,
			"Signature request was rejected. You can try enrolling again.", nil)
	case errors.Is(err, courseService.ErrPaidButNotEnrolled):
		return middleware.JsonResponse(c, fiber.StatusConflict, false,
			"Your payment went through but the enrollment could not be completed. Do NOT pay again; use the retry option or contact support.", fiber.Map{
				"recoverable": true,
			})
	case errors.Is(err, courseService.ErrEnrollmentWriteFailed):
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false,
			"Enrollment could not be saved. Your payment is recorded; use the retry option, do not pay again.", fiber.Map{
				"recoverable": true,
			})
	case errors.Is(err, courseService.ErrProgressWriteFailed):
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false,
			"Progress could not be saved. Please try completing the module again.", nil)
	case errors.Is(err, courseService.ErrModuleLocked):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false,
			"This module is locked. Complete the previous module first!", nil)
	case errors.Is(err, courseService.ErrModuleNotInCourse):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
			"Module does not belong to this course!", nil)
	case errors.Is(err, courseService.ErrNotEnrolled):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false,
			"Please enroll in this course first!", nil)
	case errors.Is(err, courseService.ErrCourseNotCompleted):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
			"Please complete the course first!", nil)
	case errors.Is(err, courseService.ErrAlreadyMinted):
		return middleware.JsonResponse(c, fiber.StatusConflict, false,
			"Certificate has already been minted!", nil)
	case errors.Is(err, courseService.ErrMintFailed):
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false,
			"Certificate mint failed. No certificate was created; you can try again.", nil)
	case errors.Is(err, courseService.ErrCertificateWriteFailed):
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false,
			"Your certificate was minted but could not be recorded. Contact support; do not mint again.", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false,
			"Something went wrong!", nil)
	}
}
