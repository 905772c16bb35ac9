package userValidator

import (
	"chainlearn/middleware"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name  *string `json:"name"`
			Email *string `json:"email"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		updates := make(map[string]interface{})

		// Validate Name
		if reqData.Name != nil {
			name := strings.TrimSpace(*reqData.Name)
			if len(name) > 100 {
				errors["name"] = "Name must be under 100 characters!"
			} else {
				updates["name"] = name
			}
		}

		// Validate Email
		if reqData.Email != nil {
			email := strings.TrimSpace(*reqData.Email)
			if email != "" && !emailRegex.MatchString(email) {
				errors["email"] = "Invalid email format!"
			} else {
				updates["email"] = email
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}
		if len(updates) == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
		}

		c.Locals("validatedProfileUpdate", updates)
		return c.Next()
	}
}

func BecomeCreator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Specialties []string `json:"specialties"`
			Experience  string   `json:"experience"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Specialties
		if len(reqData.Specialties) == 0 {
			errors["specialties"] = "At least one specialty is required!"
		}

		// Validate Experience
		if strings.TrimSpace(reqData.Experience) == "" {
			errors["experience"] = "Experience is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("creatorSpecialties", reqData.Specialties)
		c.Locals("creatorExperience", strings.TrimSpace(reqData.Experience))
		return c.Next()
	}
}
