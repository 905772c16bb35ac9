package controllers

import (
	"chainlearn/database"
	"chainlearn/middleware"
	"chainlearn/models"
	courseModels "chainlearn/models/course"
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// CreateCourse creates a new DRAFT course owned by the calling creator.
func CreateCourse(c *fiber.Ctx) error {
	creator, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	body := c.Locals("validatedCreateCourse").(*courseModels.Course)
	body.OwnerAddress = models.NormalizeAddress(creator)
	body.Status = "DRAFT"
	body.IsPublished = false

	if err := database.Database.Db.Create(body).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", body)
}

// UpdateCourse updates course fields; only the owner may edit.
func UpdateCourse(c *fiber.Ctx) error {
	creator, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	updates := c.Locals("validatedUpdateCourse").(map[string]interface{})

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND owner_address = ? AND is_deleted = ?",
		courseID, models.NormalizeAddress(creator), false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if err := database.Database.Db.Model(&course).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// PublishCourse flips a DRAFT course to ACTIVE once it has at least one module.
func PublishCourse(c *fiber.Ctx) error {
	creator, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND owner_address = ? AND is_deleted = ?",
		courseID, models.NormalizeAddress(creator), false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var moduleCount int64
	database.Database.Db.Model(&courseModels.Module{}).
		Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Count(&moduleCount)
	if moduleCount == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Add at least one module before publishing!", nil)
	}

	if err := database.Database.Db.Model(&course).Updates(map[string]interface{}{
		"status":       "ACTIVE",
		"is_published": true,
	}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully!", nil)
}

// AddModule appends a module to the owner's course. OrderIndex defaults to
// the end of the current sequence.
func AddModule(c *fiber.Ctx) error {
	creator, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	module := c.Locals("validatedAddModule").(*courseModels.Module)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND owner_address = ? AND is_deleted = ?",
		courseID, models.NormalizeAddress(creator), false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	module.CourseID = course.ID
	if module.OrderIndex == 0 {
		var moduleCount int64
		database.Database.Db.Model(&courseModels.Module{}).
			Where("course_id = ? AND is_deleted = ?", course.ID, false).
			Count(&moduleCount)
		module.OrderIndex = int(moduleCount)
	}

	if err := database.Database.Db.Create(module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module added successfully!", module)
}

// SetModuleQuiz creates or replaces the quiz attached to a module.
func SetModuleQuiz(c *fiber.Ctx) error {
	creator, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)
	passingScore := c.Locals("quizPassingScore").(int)
	questions := c.Locals("quizQuestions").([]courseModels.QuizQuestion)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND owner_address = ? AND is_deleted = ?",
		courseID, models.NormalizeAddress(creator), false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?",
		moduleID, course.ID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	encoded, err := json.Marshal(questions)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz questions!", nil)
	}

	var quiz courseModels.Quiz
	result := database.Database.Db.Where("module_id = ?", module.ID).First(&quiz)
	quiz.ModuleID = module.ID
	quiz.PassingScore = passingScore
	quiz.Questions = datatypes.JSON(encoded)
	quiz.IsDeleted = false

	if result.Error != nil {
		err = database.Database.Db.Create(&quiz).Error
	} else {
		err = database.Database.Db.Save(&quiz).Error
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz saved successfully!", fiber.Map{
		"quiz_id":       quiz.ID,
		"passing_score": quiz.PassingScore,
	})
}

// GetCreatorCourses lists the creator's own courses, drafts included.
func GetCreatorCourses(c *fiber.Ctx) error {
	creator, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var courses []courseModels.Course
	var total int64
	query := database.Database.Db.Model(&courseModels.Course{}).
		Where("owner_address = ? AND is_deleted = ?", models.NormalizeAddress(creator), false)
	query.Count(&total)

	if err := query.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"page":    page,
		"limit":   limit,
		"total":   total,
	})
}
