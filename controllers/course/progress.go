package controllers

import (
	"chainlearn/database"
	"chainlearn/middleware"
	"chainlearn/models"
	courseModels "chainlearn/models/course"
	courseService "chainlearn/services/course"

	"github.com/gofiber/fiber/v2"
)

// CompleteModule marks a module complete for the caller and recomputes the
// course progress. Modules with a quiz must go through the quiz submission
// endpoint instead.
func CompleteModule(c *fiber.Ctx) error {
	learner, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ?", courseID, false, "ACTIVE").First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
	}

	// A quiz module completes through quiz success, not directly
	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("module_id = ? AND is_deleted = ?", moduleID, false).First(&quiz).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This module has a quiz. Pass the quiz to complete it!", nil)
	}

	modules, err := store.ListModules(course.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	result, err := tracker.CompleteModule(learner, &course, modules, uint(moduleID))
	if err != nil {
		return respondWorkflowError(c, err)
	}

	message := "Module marked as completed!"
	if result.AlreadyCompleted {
		message = "Module was already completed."
	}
	if result.FirstCompletion {
		message = "Congratulations, you completed the course!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"enrollment":           result.Enrollment,
		"course_completed":     result.CourseCompleted,
		"can_rate":             courseService.CanRate(result.Enrollment),
		"can_mint_certificate": courseService.CanMintCertificate(result.Enrollment),
	})
}

// GetUserProgress returns the caller's progress in a course with per-module
// lock/completion states.
func GetUserProgress(c *fiber.Ctx) error {
	learner, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	enrollment, err := store.GetEnrollment(models.NormalizeAddress(learner), course.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}
	if enrollment == nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	modules, err := store.ListModules(course.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":           enrollment,
		"completed_ids":        enrollment.CompletedModules(),
		"module_states":        courseService.ModuleStates(enrollment, modules),
		"can_rate":             courseService.CanRate(enrollment),
		"can_mint_certificate": courseService.CanMintCertificate(enrollment),
	})
}
