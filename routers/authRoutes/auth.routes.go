package authRoutes

import (
	controllers "chainlearn/controllers/auth"
	validators "chainlearn/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up wallet authentication routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/connect", validators.ConnectWallet(), controllers.ConnectWallet)
}
