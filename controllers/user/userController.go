package controllers

import (
	"chainlearn/config"
	"chainlearn/database"
	"chainlearn/middleware"
	"chainlearn/models"
	"chainlearn/utils"
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// GetProfile returns the calling wallet's profile
func GetProfile(c *fiber.Ctx) error {
	wallet, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("wallet_address = ? AND is_deleted = ?",
		models.NormalizeAddress(wallet), false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}

// UpdateProfile updates name, email, specialties and experience.
func UpdateProfile(c *fiber.Ctx) error {
	wallet, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	updates := c.Locals("validatedProfileUpdate").(map[string]interface{})

	var user models.User
	if err := database.Database.Db.Where("wallet_address = ? AND is_deleted = ?",
		models.NormalizeAddress(wallet), false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := database.Database.Db.Model(&user).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}

// BecomeCreator flags the wallet as a course creator.
func BecomeCreator(c *fiber.Ctx) error {
	wallet, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	specialties := c.Locals("creatorSpecialties").([]string)
	experience := c.Locals("creatorExperience").(string)

	var user models.User
	if err := database.Database.Db.Where("wallet_address = ? AND is_deleted = ?",
		models.NormalizeAddress(wallet), false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if user.IsCreator {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already a creator!", nil)
	}

	encoded, _ := json.Marshal(specialties)
	if err := database.Database.Db.Model(&user).Updates(map[string]interface{}{
		"is_creator":  true,
		"specialties": datatypes.JSON(encoded),
		"experience":  experience,
	}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "You are now a creator!", nil)
}

// UploadAvatar stores the uploaded image and saves its URL on the profile.
func UploadAvatar(c *fiber.Ctx) error {
	wallet, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Avatar file is required!", nil)
	}

	if file.Size > 5*1024*1024 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Avatar must be under 5MB!", nil)
	}

	savedPath, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save avatar!", nil)
	}

	avatarURL := utils.GetFileURL(savedPath)
	if err := database.Database.Db.Model(&models.User{}).
		Where("wallet_address = ?", models.NormalizeAddress(wallet)).
		Update("avatar_url", avatarURL).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Avatar uploaded successfully!", fiber.Map{
		"avatar_url": avatarURL,
	})
}

// GetTransactions lists the wallet's payment history, newest first.
func GetTransactions(c *fiber.Ctx) error {
	wallet, ok := c.Locals("walletAddress").(string)
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

	query := database.Database.Db.Model(&models.Transactions{}).
		Where("learner_address = ? AND is_deleted = ?", models.NormalizeAddress(wallet), false)

	if txType := c.Query("type"); txType != "" {
		query = query.Where("transaction_type = ?", txType)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var transactions []models.Transactions
	if err := query.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch transactions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transactions fetched successfully!", fiber.Map{
		"transactions": transactions,
		"page":         page,
		"limit":        limit,
		"total":        total,
	})
}
