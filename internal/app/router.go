package app

import (
	"github.com/OmarCypha700/nexus-academy-backend/docs"
	"github.com/OmarCypha700/nexus-academy-backend/internal/config"
	"github.com/OmarCypha700/nexus-academy-backend/internal/middleware"
	"github.com/OmarCypha700/nexus-academy-backend/internal/model"
	"github.com/OmarCypha700/nexus-academy-backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Health)

	api := router.Group("/api/v1")

	// Public: registration, login, and the course catalog. Catalog detail
	// personalizes for signed-in users, so it tries auth but never demands it.
	api.POST("/auth/register", c.auth.Register)
	api.POST("/auth/login", c.auth.Login)
	api.GET("/courses", c.course.ListCatalog)
	api.GET("/courses/:id", middleware.OptionalAuth(cfg.JWT.Secret), c.course.GetCourse)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.ActivityMiddleware(repos.user))
	{
		authed.GET("/auth/profile", c.auth.Profile)
		authed.PUT("/auth/profile", c.auth.UpdateProfile)
		authed.PUT("/auth/password", c.auth.ChangePassword)

		// Enrolled learning
		authed.POST("/courses/:id/enroll", c.enrollment.Enroll)
		authed.GET("/courses/:id/enrollment", c.enrollment.CheckEnrollment)
		authed.GET("/my/courses", c.enrollment.MyCourses)
		authed.GET("/my/courses/:id", c.enrollment.LearningView)
		authed.GET("/courses/:id/lessons", c.lesson.ListByCourse)
		authed.GET("/lessons/:id", c.lesson.GetLesson)
		authed.POST("/lessons/:id/complete", c.enrollment.CompleteLesson)
		authed.GET("/lessons/:id/quizzes", c.quiz.ListByLesson)
		authed.GET("/lessons/:id/assignments", c.assignment.ListByLesson)

		authed.GET("/modules/:id/lessons", c.lesson.ListByModule)
		authed.GET("/instructors/:id", c.course.GetInstructor)

		// Quiz taking
		authed.GET("/quizzes/:id/take", c.quiz.TakeQuiz)
		authed.POST("/quizzes/:id/submit", c.quiz.SubmitQuiz)
		authed.GET("/quizzes/:id/results", c.quiz.MyResults)
		authed.GET("/attempts/:id", c.quiz.GetAttempt)

		// Payments
		authed.POST("/courses/:id/payments", c.payment.Initialize)
		authed.POST("/payments/:reference/verify", c.payment.Verify)
		authed.GET("/my/payments", c.payment.MyPayments)

		authed.GET("/dashboard/student", c.dashboard.StudentOverview)
	}

	// Authoring: instructors and admins.
	instructor := api.Group("")
	instructor.Use(
		middleware.AuthMiddleware(cfg.JWT.Secret),
		middleware.ActivityMiddleware(repos.user),
		middleware.RoleMiddleware(model.Instructor),
	)
	{
		instructor.POST("/courses", c.course.CreateCourse)
		instructor.PUT("/courses/:id", c.course.UpdateCourse)
		instructor.DELETE("/courses/:id", c.course.DeleteCourse)
		instructor.GET("/instructor/courses", c.course.MyCourses)

		instructor.GET("/courses/:id/outcomes", c.course.ListOutcomes)
		instructor.POST("/courses/:id/outcomes", c.course.CreateOutcome)
		instructor.PUT("/outcomes/:id", c.course.UpdateOutcome)
		instructor.DELETE("/outcomes/:id", c.course.DeleteOutcome)
		instructor.GET("/courses/:id/requirements", c.course.ListRequirements)
		instructor.POST("/courses/:id/requirements", c.course.CreateRequirement)
		instructor.PUT("/requirements/:id", c.course.UpdateRequirement)
		instructor.DELETE("/requirements/:id", c.course.DeleteRequirement)

		instructor.POST("/modules", c.course.CreateModule)
		instructor.PUT("/modules/:id", c.course.UpdateModule)
		instructor.DELETE("/modules/:id", c.course.DeleteModule)
		instructor.PUT("/courses/:id/modules/reorder", c.course.ReorderModules)

		instructor.POST("/lessons", c.lesson.CreateLesson)
		instructor.PUT("/lessons/:id", c.lesson.UpdateLesson)
		instructor.DELETE("/lessons/:id", c.lesson.DeleteLesson)

		instructor.POST("/quizzes", c.quiz.CreateQuiz)
		instructor.GET("/quizzes/:id", c.quiz.GetQuiz)
		instructor.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		instructor.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)
		instructor.GET("/quizzes/:id/attempts", c.quiz.ListAttempts)
		instructor.GET("/quizzes/:id/questions", c.quiz.ListQuestions)

		instructor.POST("/questions", c.quiz.CreateQuestion)
		instructor.PUT("/questions/:id", c.quiz.UpdateQuestion)
		instructor.DELETE("/questions/:id", c.quiz.DeleteQuestion)

		instructor.POST("/assignments", c.assignment.CreateAssignment)
		instructor.PUT("/assignments/:id", c.assignment.UpdateAssignment)
		instructor.DELETE("/assignments/:id", c.assignment.DeleteAssignment)
		instructor.POST("/assignments/upload", c.assignment.UploadFile)

		instructor.GET("/dashboard/instructor", c.dashboard.InstructorOverview)
		instructor.GET("/courses/:id/students", c.dashboard.CourseStudents)
		instructor.GET("/courses/:id/students/:studentId", c.dashboard.CourseStudentDetail)
	}
}
