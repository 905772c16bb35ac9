package controllers

import (
	"chainlearn/database"
	"chainlearn/middleware"
	"chainlearn/models"
	courseModels "chainlearn/models/course"
	courseService "chainlearn/services/course"

	"github.com/gofiber/fiber/v2"
)

// GetAllCourses lists published courses with pagination. Public, no wallet
// needed to browse the catalog.
func GetAllCourses(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).
		Where("is_deleted = ? AND status = ?", false, "ACTIVE")

	// Get total count
	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetCourseDetails returns a course with its modules and, for the caller,
// each module's lock/completion state.
func GetCourseDetails(c *fiber.Ctx) error {
	learner, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ?", courseID, false, "ACTIVE").First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	modules, err := store.ListModules(course.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	// Lock states come from the cached enrollment; nil enrollment means
	// everything beyond position 0 is locked.
	enrollment, isEnrolled := sessions.Get(models.NormalizeAddress(learner), course.ID)
	if !isEnrolled {
		// cache may be cold right after login
		if stored, getErr := store.GetEnrollment(models.NormalizeAddress(learner), course.ID); getErr == nil && stored != nil {
			enrollment = stored
			isEnrolled = true
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":        course,
		"modules":       modules,
		"module_states": courseService.ModuleStates(enrollment, modules),
		"is_enrolled":   isEnrolled,
		"enrollment":    enrollment,
	})
}
