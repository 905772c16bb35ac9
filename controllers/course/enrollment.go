package controllers

import (
	"chainlearn/database"
	"chainlearn/middleware"
	"chainlearn/models"
	courseModels "chainlearn/models/course"
	"chainlearn/utils"
	"log"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse enrolls the caller in a course, paying the course price on
// the ledger for priced courses.
func EnrollInCourse(c *fiber.Ctx) error {
	// Retrieve wallet address from auth middleware
	learner, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Retrieve validated course ID
	courseID := c.Locals("courseID").(int)

	// Check if course exists and is active
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ?", courseID, false, "ACTIVE").First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
	}

	result, err := enrollManager.Enroll(c.Context(), learner, &course)
	if err != nil {
		return respondWorkflowError(c, err)
	}

	if result.AlreadyEnrolled {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Already enrolled in this course!", result)
	}

	// Receipt email, fire and forget
	var user models.User
	if err := database.Database.Db.Where("wallet_address = ?", models.NormalizeAddress(learner)).First(&user).Error; err == nil {
		go func(u models.User, title, txHash string, amount uint) {
			if mailErr := utils.SendEnrollmentReceiptEmail(u, title, txHash, amount); mailErr != nil {
				log.Println("enrollment receipt email failed:", mailErr)
			}
		}(user, course.Title, result.TxHash, course.Price)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", result)
}

// RetryEnrollment re-runs the persistence step for a payment that already
// landed on the ledger. It never triggers another transfer.
func RetryEnrollment(c *fiber.Ctx) error {
	learner, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Find the stranded payment for this (learner, course) pair
	var pending models.Transactions
	reference := ""
	err := database.Database.Db.Where(
		"learner_address = ? AND course_id = ? AND status = ? AND is_deleted = ?",
		models.NormalizeAddress(learner), courseID, models.TransactionStatusPendingEnrollment, false,
	).Order("created_at desc").First(&pending).Error
	if err == nil {
		reference = pending.Reference
	} else if course.Price > 0 {
		// No stranded payment means there is nothing to replay: a priced
		// course must go through the enroll endpoint and pay.
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No pending payment found for this course. Use the enroll endpoint instead!", nil)
	}

	enrollment, err := enrollManager.RetryEnrollmentWrite(learner, &course, reference)
	if err != nil {
		return respondWorkflowError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment completed successfully!", enrollment)
}

// GetEnrollments returns the caller's enrollment list from the session cache
func GetEnrollments(c *fiber.Ctx) error {
	learner, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollments, err := sessions.Enrollments(models.NormalizeAddress(learner))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type EnrollmentWithCourse struct {
		courseModels.Enrollment
		CourseTitle        string `json:"course_title"`
		CourseDescription  string `json:"course_description"`
		CourseThumbnailURL string `json:"course_thumbnail_url"`
	}

	result := make([]EnrollmentWithCourse, len(enrollments))
	for i, enrollment := range enrollments {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", enrollment.CourseID).First(&course)
		result[i] = EnrollmentWithCourse{
			Enrollment:         enrollment,
			CourseTitle:        course.Title,
			CourseDescription:  course.Description,
			CourseThumbnailURL: course.ThumbnailURL,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"total":       len(result),
	})
}
