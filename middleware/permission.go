package middleware

import (
	"chainlearn/database"
	"chainlearn/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreatorOnly returns a middleware that restricts a route to onboarded creators
func CreatorOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get wallet address from context (set by WalletAuth)
		address, ok := c.Locals("walletAddress").(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  false,
				"message": "Unauthorized: wallet address not found",
				"data":    nil,
			})
		}

		var user models.User
		err := database.Database.Db.Where("wallet_address = ? AND is_creator = ? AND is_deleted = false",
			models.NormalizeAddress(address), true).First(&user).Error

		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"status":  false,
					"message": "Creator onboarding required to access this resource!",
					"data":    nil,
				})
			}
			// Other DB error
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  false,
				"message": "Server error while checking creator status!",
				"data":    nil,
			})
		}

		// Creator confirmed, proceed
		return c.Next()
	}
}
