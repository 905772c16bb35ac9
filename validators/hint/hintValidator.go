package hintValidator

import (
	"chainlearn/hint"
	"chainlearn/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func AskHint() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		moduleID, err := strconv.Atoi(strings.TrimSpace(c.Params("moduleId")))
		if err != nil || moduleID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Module ID!", nil)
		}

		reqData := new(struct {
			Question string `json:"question"`
			History  []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"history"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Question
		question := strings.TrimSpace(reqData.Question)
		if question == "" {
			errors["question"] = "Question is required!"
		} else if len(question) > 2000 {
			errors["question"] = "Question must be under 2000 characters!"
		}

		// Validate History roles
		history := make([]hint.Message, 0, len(reqData.History))
		for i, message := range reqData.History {
			if message.Role != "user" && message.Role != "assistant" {
				errors["history["+strconv.Itoa(i)+"]"] = "Role must be user or assistant!"
				continue
			}
			history = append(history, hint.Message{Role: message.Role, Content: message.Content})
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		c.Locals("hintQuestion", question)
		c.Locals("hintHistory", history)
		return c.Next()
	}
}
