package controllers

import (
	"chainlearn/database"
	"chainlearn/middleware"
	"chainlearn/models"
	courseModels "chainlearn/models/course"
	courseService "chainlearn/services/course"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

// loadQuizModule resolves the course, its modules and the target module's
// position, enforcing enrollment and the sequential lock. Returns a non-nil
// error response when any gate fails.
func loadQuizModule(c *fiber.Ctx, learner string, courseID, moduleID int) (*courseModels.Course, []courseModels.Module, int, error) {
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ?", courseID, false, "ACTIVE").First(&course).Error; err != nil {
		return nil, nil, 0, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	enrollment, err := store.GetEnrollment(models.NormalizeAddress(learner), course.ID)
	if err != nil || enrollment == nil {
		return nil, nil, 0, middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	modules, err := store.ListModules(course.ID)
	if err != nil {
		return nil, nil, 0, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	moduleIndex := -1
	for i, m := range modules {
		if m.ID == uint(moduleID) {
			moduleIndex = i
			break
		}
	}
	if moduleIndex == -1 {
		return nil, nil, 0, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Module does not belong to this course!", nil)
	}
	if courseService.IsLocked(enrollment, modules, moduleIndex) {
		return nil, nil, 0, middleware.JsonResponse(c, fiber.StatusForbidden, false, "Complete the previous module first!", nil)
	}

	return &course, modules, moduleIndex, nil
}

// GetModuleQuiz returns a module's quiz with the correct answers stripped.
// Locked modules don't expose their quiz.
func GetModuleQuiz(c *fiber.Ctx) error {
	learner, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	if _, _, _, errResp := loadQuizModule(c, learner, courseID, moduleID); errResp != nil {
		return errResp
	}

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("module_id = ? AND is_deleted = ?", moduleID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "This module has no quiz!", nil)
	}

	questions, err := quiz.DecodeQuestions()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quiz!", nil)
	}

	// Don't show answers
	type QuestionView struct {
		Prompt  string   `json:"prompt"`
		Options []string `json:"options"`
	}
	view := make([]QuestionView, len(questions))
	for i, question := range questions {
		view[i] = QuestionView{Prompt: question.Prompt, Options: question.Options}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"quiz_id":       quiz.ID,
		"passing_score": quiz.PassingScore,
		"questions":     view,
	})
}

// SubmitQuiz evaluates a quiz attempt. Passing the quiz is the gate that
// completes the module; a failed attempt changes nothing. Locked modules
// reject the attempt before anything is recorded.
func SubmitQuiz(c *fiber.Ctx) error {
	learner, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)
	answers := c.Locals("validatedQuizAnswers").([]int)

	course, modules, _, errResp := loadQuizModule(c, learner, courseID, moduleID)
	if errResp != nil {
		return errResp
	}

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("module_id = ? AND is_deleted = ?", moduleID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "This module has no quiz!", nil)
	}

	questions, err := quiz.DecodeQuestions()
	if err != nil || len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quiz!", nil)
	}

	if len(answers) != len(questions) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please answer every question!", nil)
	}

	// Score the attempt
	correct := 0
	for i, question := range questions {
		if answers[i] == question.Answer {
			correct++
		}
	}
	score := 100 * correct / len(questions)
	passed := score >= quiz.PassingScore

	// Record the attempt
	var attemptCount int64
	database.Database.Db.Model(&courseModels.QuizAttempt{}).
		Where("learner_address = ? AND module_id = ? AND is_deleted = ?", models.NormalizeAddress(learner), moduleID, false).
		Count(&attemptCount)

	selectedJSON, _ := json.Marshal(answers)
	attempt := courseModels.QuizAttempt{
		LearnerAddress:  models.NormalizeAddress(learner),
		ModuleID:        uint(moduleID),
		SelectedAnswers: string(selectedJSON),
		Score:           score,
		Passed:          passed,
		AttemptNumber:   int(attemptCount) + 1,
	}
	if err := database.Database.Db.Create(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit answers!", nil)
	}

	if !passed {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted. Score below passing threshold, try again!", fiber.Map{
			"score":         score,
			"passing_score": quiz.PassingScore,
			"passed":        false,
			"attempt":       attempt.AttemptNumber,
		})
	}

	// Quiz passed: complete the module through the tracker so lock order,
	// dedup and progress derivation all apply.
	result, err := tracker.CompleteModule(learner, course, modules, uint(moduleID))
	if err != nil {
		return respondWorkflowError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz passed, module completed!", fiber.Map{
		"score":            score,
		"passed":           true,
		"attempt":          attempt.AttemptNumber,
		"enrollment":       result.Enrollment,
		"course_completed": result.CourseCompleted,
	})
}
