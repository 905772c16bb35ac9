package supportValidator

import (
	"chainlearn/middleware"
	"chainlearn/models"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func CreateTicket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title          string `json:"title"`
			Message        string `json:"message"`
			Category       string `json:"category"`
			CourseID       *uint  `json:"course_id"`
			TransactionRef string `json:"transaction_ref"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Title
		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		// Validate Message
		if strings.TrimSpace(reqData.Message) == "" {
			errors["message"] = "Message is required!"
		} else if len(strings.TrimSpace(reqData.Message)) < 10 {
			errors["message"] = "Message must be at least 10 characters long!"
		}

		// Validate Category
		category := strings.ToUpper(strings.TrimSpace(reqData.Category))
		if category == "" {
			category = models.TicketCategoryGeneral
		}
		if category != models.TicketCategoryGeneral && category != models.TicketCategoryPayment {
			errors["category"] = "Category must be GENERAL or PAYMENT!"
		}

		// Payment tickets need something to trace
		if category == models.TicketCategoryPayment && strings.TrimSpace(reqData.TransactionRef) == "" && reqData.CourseID == nil {
			errors["transaction_ref"] = "Payment tickets need a transaction reference or course ID!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		ticket := &models.SupportTicket{
			Title:          strings.TrimSpace(reqData.Title),
			Message:        strings.TrimSpace(reqData.Message),
			Category:       category,
			CourseID:       reqData.CourseID,
			TransactionRef: strings.TrimSpace(reqData.TransactionRef),
		}

		c.Locals("validatedSupportTicket", ticket)
		return c.Next()
	}
}
