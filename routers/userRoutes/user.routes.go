package userRoutes

import (
	courseControllers "chainlearn/controllers/course"
	controllers "chainlearn/controllers/user"
	"chainlearn/middleware"
	validators "chainlearn/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up profile and wallet history routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user", middleware.WalletAuth)

	userGroup.Get("/profile", controllers.GetProfile)
	userGroup.Put("/profile", validators.UpdateProfile(), controllers.UpdateProfile)
	userGroup.Post("/become-creator", validators.BecomeCreator(), controllers.BecomeCreator)
	userGroup.Post("/avatar", controllers.UploadAvatar)
	userGroup.Get("/transactions", controllers.GetTransactions)
	userGroup.Get("/certificates", courseControllers.GetUserCertificates)
}
