package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/config"
	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/handlers"
	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/mail"
	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/middleware"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	mailer := mail.NewFromEnv()

	r := gin.Default()

	SetupRoutes(r, db, mailer)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func SetupRoutes(r *gin.Engine, db *gorm.DB, mailer mail.Mailer) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.MailerMiddleware(mailer))

	api := r.Group("/api")

	user := api.Group("/user")
	{
		user.POST("/signup", handlers.Signup)
		user.POST("/login", handlers.Login)
		user.POST("/logout", handlers.Logout)
		user.POST("/verify-email", handlers.VerifyEmail)
		user.POST("/forgot-password", handlers.ForgotPassword)
		user.POST("/reset-password/:token", handlers.ResetPasswordWithToken)
	}

	userProtected := api.Group("/user")
	userProtected.Use(middleware.JWTAuthMiddleware())
	{
		userProtected.POST("/reset-password", handlers.ResetPassword)
		userProtected.GET("/check-auth", handlers.CheckAuth)
		userProtected.PUT("/profile/update", handlers.UpdateProfile)
		userProtected.GET("/all-users", handlers.ListUsers)
		userProtected.PUT("/update-users", handlers.UpdateUserRole)
		userProtected.PUT("/update-members", handlers.UpdateMemberRole)
	}

	club := api.Group("/club")
	{
		club.GET("/search/:text", handlers.SearchClubs)
		club.GET("/:id", handlers.GetClub)
	}
	api.GET("/clubs", handlers.ListClubs)

	clubProtected := api.Group("/club")
	clubProtected.Use(middleware.JWTAuthMiddleware())
	{
		clubProtected.POST("", handlers.CreateClub)
		clubProtected.GET("", handlers.GetMyClub)
		clubProtected.PUT("", handlers.UpdateClub)
	}

	event := api.Group("/event")
	{
		event.GET("/:id", handlers.GetEvent)
		event.GET("/:id/qr", handlers.EventQRCode)
	}
	api.GET("/events", handlers.ListEvents)

	eventProtected := api.Group("/event")
	eventProtected.Use(middleware.JWTAuthMiddleware())
	{
		eventProtected.POST("", handlers.CreateEvent)
		eventProtected.PUT("/:id", handlers.UpdateEvent)
		eventProtected.DELETE("/:id", handlers.DeleteEvent)
	}
}
