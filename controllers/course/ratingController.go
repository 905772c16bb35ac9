package controllers

import (
	"chainlearn/database"
	"chainlearn/middleware"
	"chainlearn/models"
	courseModels "chainlearn/models/course"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// RateCourse lets a learner who finished the course leave a star rating.
func RateCourse(c *fiber.Ctx) error {
	learner, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	stars := c.Locals("ratingStars").(int)
	review := c.Locals("ratingReview").(string)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	alreadyRated, err := certTrigger.HasRated(learner, course.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save rating!", nil)
	}

	rating, err := certTrigger.RateCourse(learner, &course, stars, review)
	if err != nil {
		return respondWorkflowError(c, err)
	}

	message := "Rating submitted successfully!"
	if alreadyRated {
		message = "Rating updated successfully!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, rating)
}

// GetCourseRatings lists ratings for a course, newest first
func GetCourseRatings(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var ratings []models.Rating
	var total int64
	database.Database.Db.Model(&models.Rating{}).
		Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Count(&total)

	if err := database.Database.Db.
		Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ratings).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch ratings!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ratings fetched successfully!", fiber.Map{
		"rating_avg":   course.RatingAvg,
		"rating_count": course.RatingCount,
		"ratings":      ratings,
		"page":         page,
		"limit":        limit,
		"total":        total,
	})
}
