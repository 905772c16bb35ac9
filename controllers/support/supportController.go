package controllers

import (
	"chainlearn/database"
	"chainlearn/middleware"
	"chainlearn/models"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// CreateSupportTicket opens a ticket. Payment tickets carry the transaction
// reference so a stuck enrollment can be traced and reconciled.
func CreateSupportTicket(c *fiber.Ctx) error {
	wallet, ok := c.Locals("walletAddress").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	ticket := c.Locals("validatedSupportTicket").(*models.SupportTicket)
	ticket.LearnerAddress = models.NormalizeAddress(wallet)
	ticket.Status = "OPEN"

	if ticket.Category == models.TicketCategoryPayment && ticket.TransactionRef != "" {
		var tx models.Transactions
		if err := database.Database.Db.Where("reference = ? AND learner_address = ?",
			ticket.TransactionRef, ticket.LearnerAddress).First(&tx).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Transaction reference not found!", nil)
		}
		if ticket.CourseID == nil {
			ticket.CourseID = &tx.CourseID
		}
		ticket.Priority = "HIGH"
	}

	if err := database.Database.Db.Create(ticket).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create ticket!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Support ticket created successfully!", ticket)
}

// TicketList returns the wallet's own tickets, newest first.
func TicketList(c *fiber.Ctx) error {
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

	query := database.Database.Db.Model(&models.SupportTicket{}).
		Where("learner_address = ? AND is_deleted = ?", models.NormalizeAddress(wallet), false)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var tickets []models.SupportTicket
	if err := query.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&tickets).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tickets!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tickets fetched successfully!", fiber.Map{
		"tickets": tickets,
		"page":    page,
		"limit":   limit,
		"total":   total,
	})
}
