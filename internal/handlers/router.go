package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

type HandlerManager struct {
	authHandler       *AuthHandler
	profileHandler    *ProfileHandler
	courseHandler     *CourseHandler
	studentHandler    *StudentHandler
	reviewHandler     *ReviewHandler
	moodHandler       *MoodHandler
	discussionHandler *DiscussionHandler
	aiHandler         *AIHandler
	uploadHandler     *UploadHandler
	adminHandler      *AdminHandler
	dashboardHandler  *DashboardHandler
	healthHandler     *HealthHandler
	authMiddleware    *AuthMiddleware
	ssoEnabled        bool
}

func NewHandlerManager(serviceManager services.ServiceManager, cookie CookieConfig, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Auth(), cookie, logger),
		profileHandler:    NewProfileHandler(serviceManager.Profile(), logger),
		courseHandler:     NewCourseHandler(serviceManager.Course(), serviceManager.Export(), logger),
		studentHandler:    NewStudentHandler(serviceManager.Enrollment(), serviceManager.Recommendation(), logger),
		reviewHandler:     NewReviewHandler(serviceManager.Review(), logger),
		moodHandler:       NewMoodHandler(serviceManager.Mood(), logger),
		discussionHandler: NewDiscussionHandler(serviceManager.Discussion(), logger),
		aiHandler:         NewAIHandler(serviceManager.AIContent(), serviceManager.Counseling(), logger),
		uploadHandler:     NewUploadHandler(serviceManager.Upload(), logger),
		adminHandler:      NewAdminHandler(serviceManager.Admin(), serviceManager.Export(), logger),
		dashboardHandler:  NewDashboardHandler(serviceManager.Dashboard(), logger),
		healthHandler:     NewHealthHandler(serviceManager),
		authMiddleware:    NewAuthMiddleware(serviceManager.Auth(), cookie.Name, logger),
		ssoEnabled:        serviceManager.Auth().SSOEnabled(),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthHandler.Health)

	requireAuth := hm.authMiddleware.RequireAuth()
	student := RequireRoles(models.RoleStudent)
	educator := RequireRoles(models.RoleEducator)
	admin := RequireRoles(models.RoleAdmin)
	upload := ImageUpload(MaxImageSize)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", hm.authHandler.Register)
		auth.POST("/login", hm.authHandler.Login)
		auth.POST("/logout", hm.authHandler.Logout)
		auth.POST("/forgot-password", hm.authHandler.ForgotPassword)
		auth.POST("/reset-password", hm.authHandler.ResetPassword)
		auth.GET("/me", requireAuth, hm.authHandler.Me)
		auth.PUT("/password", requireAuth, hm.authHandler.ChangePassword)

		if hm.ssoEnabled {
			auth.GET("/sso/casdoor/login", hm.authHandler.SSOLogin)
			auth.GET("/sso/casdoor/callback", hm.authHandler.SSOCallback)
		}
	}

	// Public catalog; the optional session reveals drafts to their owner
	courses := v1.Group("/courses")
	{
		courses.GET("", hm.courseHandler.ListCourses)
		courses.GET("/categories", hm.courseHandler.Categories)
		courses.GET("/:id", hm.authMiddleware.OptionalAuth(), hm.courseHandler.GetCourse)
		courses.GET("/:id/reviews", hm.reviewHandler.ListCourseReviews)

		courses.POST("/:id/enroll", requireAuth, student, hm.studentHandler.Enroll)
		courses.DELETE("/:id/enroll", requireAuth, student, hm.studentHandler.Drop)
		courses.POST("/:id/reviews", requireAuth, student, hm.reviewHandler.CreateReview)
		courses.GET("/:id/discussions", requireAuth, hm.discussionHandler.ListCourseDiscussions)
		courses.POST("/:id/discussions", requireAuth, hm.discussionHandler.CreateDiscussion)
	}

	v1.GET("/educators/:id", hm.profileHandler.GetPublicEducator)

	authed := v1.Group("", requireAuth)
	{
		students := authed.Group("/students/me", student)
		{
			students.GET("/profile", hm.profileHandler.GetStudentProfile)
			students.PUT("/profile", hm.profileHandler.UpdateStudentProfile)
			students.POST("/onboarding", hm.profileHandler.CompleteStudentOnboarding)
			students.GET("/courses", hm.studentHandler.MyCourses)
			students.PUT("/courses/:id/progress", hm.studentHandler.UpdateProgress)
			students.GET("/dashboard", hm.dashboardHandler.StudentDashboard)
			students.GET("/recommendations", hm.studentHandler.Recommendations)
		}

		educators := authed.Group("/educators/me", educator)
		{
			educators.GET("/profile", hm.profileHandler.GetEducatorProfile)
			educators.PUT("/profile", hm.profileHandler.UpdateEducatorProfile)
			educators.POST("/onboarding", hm.profileHandler.CompleteEducatorOnboarding)
		}

		manage := authed.Group("/educator", educator)
		{
			manage.GET("/dashboard", hm.dashboardHandler.EducatorDashboard)
			manage.GET("/courses", hm.courseHandler.MyCourses)
			manage.POST("/courses", hm.courseHandler.CreateCourse)
			manage.PUT("/courses/:id", hm.courseHandler.UpdateCourse)
			manage.DELETE("/courses/:id", hm.courseHandler.DeleteCourse)
			manage.POST("/courses/:id/publish", hm.courseHandler.PublishCourse)
			manage.POST("/courses/:id/archive", hm.courseHandler.ArchiveCourse)
			manage.GET("/courses/:id/students", hm.courseHandler.CourseStudents)
			manage.GET("/courses/:id/export", hm.courseHandler.ExportCourse)
		}

		authed.PUT("/reviews/:id", hm.reviewHandler.UpdateReview)
		authed.DELETE("/reviews/:id", hm.reviewHandler.DeleteReview)

		moods := authed.Group("/moods")
		{
			moods.POST("", hm.moodHandler.CreateMood)
			moods.GET("", hm.moodHandler.ListMoods)
			moods.GET("/today", hm.moodHandler.TodayMood)
			moods.GET("/stats", hm.moodHandler.MoodStats)
			moods.PUT("/:id", hm.moodHandler.UpdateMood)
			moods.DELETE("/:id", hm.moodHandler.DeleteMood)
		}

		discussions := authed.Group("/discussions")
		{
			discussions.GET("/:id", hm.discussionHandler.GetDiscussion)
			discussions.POST("/:id/replies", hm.discussionHandler.Reply)
			discussions.DELETE("/:id", hm.discussionHandler.DeleteDiscussion)
			discussions.POST("/:id/pin", hm.discussionHandler.PinDiscussion)
		}

		aiGroup := authed.Group("/ai")
		{
			aiGroup.POST("/course-outline", educator, hm.aiHandler.CourseOutline)
			aiGroup.POST("/course-description", educator, hm.aiHandler.CourseDescription)
			aiGroup.POST("/quiz", RequireRoles(models.RoleEducator, models.RoleStudent), hm.aiHandler.Quiz)
			aiGroup.POST("/thumbnail", educator, hm.aiHandler.Thumbnail)

			counseling := aiGroup.Group("/counseling/sessions")
			{
				counseling.POST("", hm.aiHandler.CreateSession)
				counseling.GET("", hm.aiHandler.ListSessions)
				counseling.GET("/:id", hm.aiHandler.GetSession)
				counseling.POST("/:id/messages", hm.aiHandler.SendMessage)
			}
		}

		authed.POST("/uploads/images", upload, hm.uploadHandler.UploadImage)
		authed.PUT("/users/me/avatar", upload, hm.uploadHandler.UpdateAvatar)

		adminGroup := authed.Group("/admin", admin)
		{
			adminGroup.GET("/users", hm.adminHandler.ListUsers)
			adminGroup.PUT("/users/:id/role", hm.adminHandler.UpdateRole)
			adminGroup.PUT("/users/:id/status", hm.adminHandler.UpdateStatus)
			adminGroup.DELETE("/users/:id", hm.adminHandler.DeleteUser)
			adminGroup.GET("/courses", hm.courseHandler.AdminListCourses)
			adminGroup.PUT("/courses/:id/status", hm.courseHandler.AdminUpdateStatus)
			adminGroup.PUT("/educators/:id/verify", hm.adminHandler.VerifyEducator)
			adminGroup.GET("/stats", hm.adminHandler.Stats)
			adminGroup.GET("/activity", hm.adminHandler.Activity)
			adminGroup.GET("/enrollments/export", hm.adminHandler.ExportEnrollments)
		}
	}
}
