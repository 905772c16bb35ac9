package courseValidator

import (
	"chainlearn/middleware"
	courseModels "chainlearn/models/course"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CourseID validates the :id path param and stores it in locals.
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// CourseAndModuleID validates both :id and :moduleId path params.
func CourseAndModuleID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		moduleID, err := strconv.Atoi(strings.TrimSpace(c.Params("moduleId")))
		if err != nil || moduleID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Module ID!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		return c.Next()
	}
}

func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers *[]int `json:"answers"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Answers == nil || len(*reqData.Answers) == 0 {
			errors["answers"] = "Answers are required!"
		} else {
			for _, answer := range *reqData.Answers {
				if answer < 0 {
					errors["answers"] = "Answers must be option indexes!"
					break
				}
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuizAnswers", *reqData.Answers)
		return c.Next()
	}
}

func RateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Stars  *int   `json:"stars"`
			Review string `json:"review"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Stars
		if reqData.Stars == nil {
			errors["stars"] = "Stars are required!"
		} else if *reqData.Stars < 1 || *reqData.Stars > 5 {
			errors["stars"] = "Stars must be between 1 and 5!"
		}

		// Validate Review
		if len(reqData.Review) > 2000 {
			errors["review"] = "Review must be under 2000 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("ratingStars", *reqData.Stars)
		c.Locals("ratingReview", strings.TrimSpace(reqData.Review))
		return c.Next()
	}
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title                  string `json:"title"`
			Description            string `json:"description"`
			Price                  *uint  `json:"price"`
			ThumbnailURL           string `json:"thumbnail_url"`
			CertificateTitle       string `json:"certificate_title"`
			CertificateIssuer      string `json:"certificate_issuer"`
			CertificateDescription string `json:"certificate_description"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Title
		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		} else if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		// Validate Description
		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Description is required!"
		} else if len(strings.TrimSpace(reqData.Description)) < 5 {
			errors["description"] = "Description must be at least 5 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		course := &courseModels.Course{
			Title:                  strings.TrimSpace(reqData.Title),
			Description:            strings.TrimSpace(reqData.Description),
			ThumbnailURL:           strings.TrimSpace(reqData.ThumbnailURL),
			CertificateTitle:       strings.TrimSpace(reqData.CertificateTitle),
			CertificateIssuer:      strings.TrimSpace(reqData.CertificateIssuer),
			CertificateDescription: strings.TrimSpace(reqData.CertificateDescription),
		}
		if reqData.Price != nil {
			course.Price = *reqData.Price
		}

		c.Locals("validatedCreateCourse", course)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			Title                  *string `json:"title"`
			Description            *string `json:"description"`
			Price                  *uint   `json:"price"`
			ThumbnailURL           *string `json:"thumbnail_url"`
			Status                 *string `json:"status"`
			CertificateTitle       *string `json:"certificate_title"`
			CertificateIssuer      *string `json:"certificate_issuer"`
			CertificateDescription *string `json:"certificate_description"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		updates := make(map[string]interface{})

		if reqData.Title != nil {
			if len(strings.TrimSpace(*reqData.Title)) < 3 {
				errors["title"] = "Title must be at least 3 characters long!"
			} else {
				updates["title"] = strings.TrimSpace(*reqData.Title)
			}
		}
		if reqData.Description != nil {
			if len(strings.TrimSpace(*reqData.Description)) < 5 {
				errors["description"] = "Description must be at least 5 characters long!"
			} else {
				updates["description"] = strings.TrimSpace(*reqData.Description)
			}
		}
		if reqData.Price != nil {
			updates["price"] = *reqData.Price
		}
		if reqData.ThumbnailURL != nil {
			updates["thumbnail_url"] = strings.TrimSpace(*reqData.ThumbnailURL)
		}
		if reqData.Status != nil {
			status := strings.ToUpper(strings.TrimSpace(*reqData.Status))
			if status != "ACTIVE" && status != "INACTIVE" {
				errors["status"] = "Status must be ACTIVE or INACTIVE!"
			} else {
				updates["status"] = status
			}
		}
		if reqData.CertificateTitle != nil {
			updates["certificate_title"] = strings.TrimSpace(*reqData.CertificateTitle)
		}
		if reqData.CertificateIssuer != nil {
			updates["certificate_issuer"] = strings.TrimSpace(*reqData.CertificateIssuer)
		}
		if reqData.CertificateDescription != nil {
			updates["certificate_description"] = strings.TrimSpace(*reqData.CertificateDescription)
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}
		if len(updates) == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedUpdateCourse", updates)
		return c.Next()
	}
}

func AddModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			ContentType string `json:"content_type"`
			TextContent string `json:"text_content"`
			VideoURL    string `json:"video_url"`
			ImageURL    string `json:"image_url"`
			Duration    string `json:"duration"`
			OrderIndex  *int   `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Title
		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		// Validate ContentType and the matching content field
		contentType := strings.ToUpper(strings.TrimSpace(reqData.ContentType))
		switch contentType {
		case courseModels.ContentTypeText:
			if strings.TrimSpace(reqData.TextContent) == "" {
				errors["text_content"] = "Text content is required for TEXT modules!"
			}
		case courseModels.ContentTypeVideo:
			if strings.TrimSpace(reqData.VideoURL) == "" {
				errors["video_url"] = "Video URL is required for VIDEO modules!"
			}
		case courseModels.ContentTypeImage:
			if strings.TrimSpace(reqData.ImageURL) == "" {
				errors["image_url"] = "Image URL is required for IMAGE modules!"
			}
		default:
			errors["content_type"] = "Content type must be TEXT, VIDEO or IMAGE!"
		}

		if reqData.OrderIndex != nil && *reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		module := &courseModels.Module{
			Title:       strings.TrimSpace(reqData.Title),
			Description: strings.TrimSpace(reqData.Description),
			ContentType: contentType,
			TextContent: reqData.TextContent,
			VideoURL:    strings.TrimSpace(reqData.VideoURL),
			ImageURL:    strings.TrimSpace(reqData.ImageURL),
			Duration:    strings.TrimSpace(reqData.Duration),
		}
		if reqData.OrderIndex != nil {
			module.OrderIndex = *reqData.OrderIndex
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedAddModule", module)
		return c.Next()
	}
}

func SetModuleQuiz() fiber.Handler {
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
			PassingScore *int `json:"passing_score"`
			Questions    []struct {
				Prompt  string   `json:"prompt"`
				Options []string `json:"options"`
				Answer  *int     `json:"answer"`
			} `json:"questions"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		passingScore := 70
		if reqData.PassingScore != nil {
			if *reqData.PassingScore < 1 || *reqData.PassingScore > 100 {
				errors["passing_score"] = "Passing score must be between 1 and 100!"
			} else {
				passingScore = *reqData.PassingScore
			}
		}

		if len(reqData.Questions) == 0 {
			errors["questions"] = "At least one question is required!"
		}

		questions := make([]courseModels.QuizQuestion, 0, len(reqData.Questions))
		for i, question := range reqData.Questions {
			key := "questions[" + strconv.Itoa(i) + "]"
			if strings.TrimSpace(question.Prompt) == "" {
				errors[key] = "Prompt is required!"
				continue
			}
			if len(question.Options) < 2 {
				errors[key] = "At least two options are required!"
				continue
			}
			if question.Answer == nil || *question.Answer < 0 || *question.Answer >= len(question.Options) {
				errors[key] = "Answer must be a valid option index!"
				continue
			}
			questions = append(questions, courseModels.QuizQuestion{
				Prompt:  strings.TrimSpace(question.Prompt),
				Options: question.Options,
				Answer:  *question.Answer,
			})
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		c.Locals("quizPassingScore", passingScore)
		c.Locals("quizQuestions", questions)
		return c.Next()
	}
}
