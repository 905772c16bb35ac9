package controllers

import (
	"chainlearn/database"
	"chainlearn/hint"
	"chainlearn/middleware"
	"chainlearn/models"
	courseModels "chainlearn/models/course"
	courseService "chainlearn/services/course"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

var hintClient *hint.Client
var store courseService.Store

// Setup injects the hint client and store built in main.
func Setup(client *hint.Client, s courseService.Store) {
	hintClient = client
	store = s
}

// AskHint answers a learner question about the module they are studying.
// The assistant only sees the module the learner can legitimately access.
func AskHint(c *fiber.Ctx) error {
	learner, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)
	question := c.Locals("hintQuestion").(string)
	history := c.Locals("hintHistory").([]hint.Message)

	enrollment, err := store.GetEnrollment(models.NormalizeAddress(learner), uint(courseID))
	if err != nil || enrollment == nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	modules, err := store.ListModules(course.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	moduleIndex := -1
	for i, m := range modules {
		if m.ID == uint(moduleID) {
			moduleIndex = i
			break
		}
	}
	if moduleIndex == -1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Module does not belong to this course!", nil)
	}
	if courseService.IsLocked(enrollment, modules, moduleIndex) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Complete the previous module first!", nil)
	}

	module := modules[moduleIndex]
	systemPrompt := fmt.Sprintf(
		"You are a study assistant for the course %q. The learner is working on the module %q. "+
			"Module description: %s. Give hints that guide the learner toward the answer without "+
			"solving it outright. Stay on topic.",
		course.Title, module.Title, module.Description)
	if module.ContentType == courseModels.ContentTypeText && module.TextContent != "" {
		systemPrompt += "\n\nModule content:\n" + module.TextContent
	}

	answer, err := hintClient.Complete(c.Context(), systemPrompt, history, question)
	if err != nil {
		if errors.Is(err, hint.ErrUnavailable) {
			return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Hint assistant is unavailable right now!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Hint assistant failed to answer!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Hint generated successfully!", fiber.Map{
		"answer": answer,
	})
}
