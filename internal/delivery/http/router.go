package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"CourseCanvas/internal/delivery/http/controllers"
	coursectl "CourseCanvas/internal/delivery/http/controllers/course"
	lessonctl "CourseCanvas/internal/delivery/http/controllers/lesson"
	"CourseCanvas/internal/delivery/http/controllers/middleware"
	"CourseCanvas/internal/service"
	"CourseCanvas/pkg/logger"
)

func InitRoutes(l logger.Log, u service.Collection, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(config))

	statusController := controllers.NewStatusHandler()
	courseController := coursectl.NewHandler(l, u.Courses, u.Query)
	authoringController := lessonctl.NewAuthoringHandler(l, u.Authoring)
	playbackController := lessonctl.NewPlaybackHandler(l, u.Playback)
	auth := middleware.NewAuthMiddlewareProvider(l, jwtSecret)

	v1 := r.Group("/v1", middleware.LoggingMiddleware(l))
	{
		v1.GET("/status", statusController.Status)
		v1.GET("/widgets", authoringController.Palette)
		v1.GET("/my-courses",
			auth.AuthMiddleware, middleware.RequireRoles(middleware.AuthorRole),
			courseController.MyCourses)

		courses := v1.Group("/courses")
		{
			courses.GET("", courseController.ListCourses)
			courses.GET("/:course_id", courseController.CourseByID)

			author := courses.Group("", auth.AuthMiddleware, middleware.RequireRoles(middleware.AuthorRole))
			{
				author.POST("", courseController.CreateCourse)
				author.PATCH("/:course_id", courseController.UpdateCourse)
				author.PUT("/:course_id/logo", courseController.UploadLogo)
				author.POST("/:course_id/edit", authoringController.OpenSession)
			}

			client := courses.Group("", auth.AuthMiddleware, middleware.RequireRoles(middleware.ClientRole, middleware.AuthorRole))
			{
				client.GET("/:course_id/lesson", playbackController.Lesson)
				client.POST("/:course_id/lesson/answers", playbackController.SubmitAnswer)
				client.GET("/:course_id/lesson/progress", playbackController.Progress)
				client.DELETE("/:course_id/lesson/answers", playbackController.Reset)
			}
		}

		sessions := v1.Group("/editor/:session_id", auth.AuthMiddleware, middleware.RequireRoles(middleware.AuthorRole))
		{
			sessions.GET("", authoringController.Snapshot)
			sessions.GET("/render", authoringController.Render)
			sessions.POST("/widgets", authoringController.AddWidget)
			sessions.PUT("/widgets/:widget_id", authoringController.UpdateWidget)
			sessions.PUT("/widgets/:widget_id/layout", authoringController.MoveWidget)
			sessions.DELETE("/widgets/:widget_id", authoringController.RemoveWidget)
			sessions.POST("/widgets/:widget_id/select", authoringController.SelectWidget)
			sessions.POST("/widgets/:widget_id/draft", authoringController.OpenDraft)
			sessions.PUT("/widgets/:widget_id/draft", authoringController.UpdateDraft)
			sessions.POST("/widgets/:widget_id/image", authoringController.UploadWidgetImage)
			sessions.POST("/widgets/:widget_id/draft/commit", authoringController.CommitDraft)
			sessions.DELETE("/widgets/:widget_id/draft", authoringController.DiscardDraft)
			sessions.POST("/save", authoringController.Save)
			sessions.DELETE("", authoringController.CloseSession)
		}
	}
	return r
}
