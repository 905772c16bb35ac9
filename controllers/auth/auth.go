package controllers

import (
	"chainlearn/database"
	"chainlearn/ledger"
	"chainlearn/middleware"
	"chainlearn/models"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var ledgerClient *ledger.Client

// Setup injects the ledger client built in main.
func Setup(client *ledger.Client) {
	ledgerClient = client
}

// ConnectWallet authenticates a wallet by asking the connected wallet to sign
// a one-time challenge. A user row is created lazily on first connect.
func ConnectWallet(c *fiber.Ctx) error {
	address := c.Locals("validatedWalletAddress").(string)
	name := c.Locals("validatedName").(string)

	normalized := models.NormalizeAddress(address)

	challenge := fmt.Sprintf("chainlearn login %s %s", uuid.NewString(), time.Now().UTC().Format(time.RFC3339))
	if _, err := ledgerClient.RequestSignature(c.Context(), normalized, challenge); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Wallet signature rejected!", nil)
	}

	var user models.User
	result := database.Database.Db.Where("wallet_address = ? AND is_deleted = ?", normalized, false).First(&user)
	if result.Error != nil {
		user = models.User{
			WalletAddress: normalized,
			Name:          name,
		}
		if err := database.Database.Db.Create(&user).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user!", nil)
		}
	} else if name != "" && user.Name != name {
		database.Database.Db.Model(&user).Update("name", name)
		user.Name = name
	}

	token, err := middleware.GenerateJWT(normalized, user.Name)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet connected successfully!", fiber.Map{
		"token": token,
		"user":  user,
	})
}
