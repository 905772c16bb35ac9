package courseRoutes

import (
	controllers "chainlearn/controllers/course"
	hintControllers "chainlearn/controllers/hint"
	"chainlearn/middleware"
	validators "chainlearn/validators/course"
	hintValidators "chainlearn/validators/hint"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all learner-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog
	courseGroup.Get("/list", controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.WalletAuth, validators.CourseID(), controllers.GetCourseDetails)
	courseGroup.Get("/:id/ratings", validators.CourseID(), controllers.GetCourseRatings)

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.WalletAuth, validators.CourseID(), controllers.EnrollInCourse)
	courseGroup.Post("/:id/enroll/retry", middleware.WalletAuth, validators.CourseID(), controllers.RetryEnrollment)
	courseGroup.Get("/enrollments/list", middleware.WalletAuth, controllers.GetEnrollments)

	// Progress
	courseGroup.Post("/:id/module/:moduleId/complete", middleware.WalletAuth, validators.CourseAndModuleID(), controllers.CompleteModule)
	courseGroup.Get("/:id/progress", middleware.WalletAuth, validators.CourseID(), controllers.GetUserProgress)

	// Quizzes
	courseGroup.Get("/:id/module/:moduleId/quiz", middleware.WalletAuth, validators.CourseAndModuleID(), controllers.GetModuleQuiz)
	courseGroup.Post("/:id/module/:moduleId/quiz", middleware.WalletAuth, validators.CourseAndModuleID(), validators.SubmitQuiz(), controllers.SubmitQuiz)

	// Completion rewards
	courseGroup.Post("/:id/certificate", middleware.WalletAuth, validators.CourseID(), controllers.MintCertificate)
	courseGroup.Post("/:id/rate", middleware.WalletAuth, validators.CourseID(), validators.RateCourse(), controllers.RateCourse)

	// Study hints
	courseGroup.Post("/:id/module/:moduleId/hint", middleware.WalletAuth, hintValidators.AskHint(), hintControllers.AskHint)

	// Creator course management
	creatorGroup := app.Group("/creator/course", middleware.WalletAuth, middleware.CreatorOnly())
	creatorGroup.Post("/create", validators.CreateCourse(), controllers.CreateCourse)
	creatorGroup.Get("/list", controllers.GetCreatorCourses)
	creatorGroup.Put("/:id", validators.UpdateCourse(), controllers.UpdateCourse)
	creatorGroup.Post("/:id/publish", validators.CourseID(), controllers.PublishCourse)
	creatorGroup.Post("/:id/module", validators.AddModule(), controllers.AddModule)
	creatorGroup.Post("/:id/module/:moduleId/quiz", validators.SetModuleQuiz(), controllers.SetModuleQuiz)
}
