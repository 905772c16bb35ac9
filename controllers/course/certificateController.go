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

// MintCertificate mints the completion certificate for a finished course.
func MintCertificate(c *fiber.Ctx) error {
	learner, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	result, err := certTrigger.MintCertificate(c.Context(), learner, &course)
	if err != nil {
		return respondWorkflowError(c, err)
	}

	// Notify the learner, failures here don't affect the mint
	var user models.User
	if dbErr := database.Database.Db.Where("wallet_address = ?", models.NormalizeAddress(learner)).First(&user).Error; dbErr == nil {
		if mailErr := utils.SendCertificateIssuedEmail(user, course.Title, result.TokenID); mailErr != nil {
			log.Println("certificate email failed:", mailErr)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate minted successfully!", fiber.Map{
		"token_id": result.TokenID,
		"tx_hash":  result.TxHash,
		"course":   course.Title,
	})
}

// GetUserCertificates lists the learner's minted certificates
func GetUserCertificates(c *fiber.Ctx) error {
	learner, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollments, err := store.ListEnrollments(models.NormalizeAddress(learner))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	type CertificateView struct {
		CourseID    uint   `json:"course_id"`
		CourseTitle string `json:"course_title"`
		Title       string `json:"title"`
		Issuer      string `json:"issuer"`
		TokenID     string `json:"token_id"`
		EarnedAt    string `json:"earned_at"`
	}

	certificates := []CertificateView{}
	for _, enrollment := range enrollments {
		if !enrollment.CertificateMinted {
			continue
		}
		var course courseModels.Course
		if err := database.Database.Db.Where("id = ?", enrollment.CourseID).First(&course).Error; err != nil {
			continue
		}
		title := course.CertificateTitle
		if title == "" {
			title = course.Title + " Certificate"
		}
		certificates = append(certificates, CertificateView{
			CourseID:    course.ID,
			CourseTitle: course.Title,
			Title:       title,
			Issuer:      course.CertificateIssuer,
			TokenID:     enrollment.CertificateTokenID,
			EarnedAt:    enrollment.LastAccessedAt.Format("2006-01-02"),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certificates)
}
