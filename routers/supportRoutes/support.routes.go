package supportRoutes

import (
	controllers "chainlearn/controllers/support"
	"chainlearn/middleware"
	validators "chainlearn/validators/support"

	"github.com/gofiber/fiber/v2"
)

// SetupSupportRoutes sets up support ticket routes
func SetupSupportRoutes(app *fiber.App) {
	supportGroup := app.Group("/support", middleware.WalletAuth)

	supportGroup.Post("/ticket", validators.CreateTicket(), controllers.CreateSupportTicket)
	supportGroup.Get("/tickets", controllers.TicketList)
}
