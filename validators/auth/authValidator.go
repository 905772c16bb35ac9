package authValidator

import (
	"chainlearn/middleware"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var walletAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

func ConnectWallet() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			WalletAddress string `json:"wallet_address"`
			Name          string `json:"name"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Wallet Address
		address := strings.TrimSpace(reqData.WalletAddress)
		if address == "" {
			errors["wallet_address"] = "Wallet address is required!"
		} else if !walletAddressRegex.MatchString(address) {
			errors["wallet_address"] = "Invalid wallet address format!"
		}

		// Validate Name
		name := strings.TrimSpace(reqData.Name)
		if len(name) > 100 {
			errors["name"] = "Name must be under 100 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedWalletAddress", address)
		c.Locals("validatedName", name)
		return c.Next()
	}
}
