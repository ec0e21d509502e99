package main

import (
	"log"
	"strings"
	"time"

	"campusvoice.com/backend/internal/bootstrap"
	"campusvoice.com/backend/internal/config"
	"campusvoice.com/backend/internal/handler"
	"campusvoice.com/backend/internal/middleware"
	"campusvoice.com/backend/internal/model"
	"campusvoice.com/backend/internal/repository"
	"campusvoice.com/backend/internal/service"
	"campusvoice.com/backend/pkg/database"
	"campusvoice.com/backend/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedReferenceData(db); err != nil {
		log.Fatalf("failed to seed reference data: %v", err)
	}
	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminStaff(db); err != nil {
			log.Fatalf("failed to seed admin staff: %v", err)
		}
	}

	redisClient := newRedisClient(cfg.RedisURL)

	var searchService service.SearchIndexer
	if cfg.MeiliSearchHost != "" {
		meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchService = service.NewMeiliSearchService(meiliClient)
	}

	fileStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	studentRepo := repository.NewStudentRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	routingPolicy := service.DefaultRoutingPolicy()
	selector := service.NewAssignmentSelector(routingPolicy)
	categorizer := service.NewCategorizer(nil)

	notificationService := service.NewNotificationService(notificationRepo, redisClient)
	complaintService := service.NewComplaintService(
		db,
		complaintRepo,
		staffRepo,
		referenceRepo,
		selector,
		categorizer,
		routingPolicy,
		fileStorage,
		notificationService,
		searchService,
		redisClient,
		cfg.RateLimitSubmit,
	)

	authService := service.NewAuthService(studentRepo, staffRepo, cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	studentService := service.NewStudentService(studentRepo, fileStorage, notificationService)
	staffService := service.NewStaffService(staffRepo, fileStorage)

	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(studentService)
	staffHandler := handler.NewStaffHandler(staffService)
	complaintHandler := handler.NewComplaintHandler(complaintService)
	notificationHandler := handler.NewNotificationHandler(notificationService, redisClient)
	metaHandler := handler.NewMetaHandler(referenceRepo)
	searchHandler := handler.NewSearchHandler(searchService, complaintRepo)

	authMiddleware := middleware.NewAuthMiddleware(studentRepo, staffRepo, cfg.JWTSecret)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	setupCORS(router, cfg.AllowedOrigins)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/students/register", studentHandler.Register)
		auth.POST("/students/login", authHandler.StudentLogin)
		auth.POST("/staff/login", authHandler.StaffLogin)
	}

	meta := api.Group("/meta")
	{
		meta.GET("/categories", metaHandler.ListCategories)
		meta.GET("/categories/:category_id/types", metaHandler.ListTypes)
		meta.GET("/priorities", metaHandler.ListPriorities)
	}

	students := api.Group("/students")
	students.Use(authMiddleware.RequireStudent())
	{
		students.GET("/me", studentHandler.Profile)
		students.PUT("/me/profile-picture", studentHandler.UpdateProfilePicture)

		students.POST("/complaints", complaintHandler.Create)
		students.GET("/complaints", complaintHandler.ListMine)
		students.GET("/complaints/:id", complaintHandler.GetMine)
		students.POST("/complaints/:id/follow-up", complaintHandler.AddFollowUp)
		students.POST("/complaints/:id/rating", complaintHandler.Rate)
		students.POST("/course-uploads", complaintHandler.SubmitCourseUpload)

		students.GET("/notifications", notificationHandler.GetNotifications)
		students.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		students.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		students.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		students.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	staff := api.Group("/staff")
	staff.Use(authMiddleware.RequireStaff())
	{
		staff.GET("/me", staffHandler.Profile)
		staff.PUT("/me/profile-picture", staffHandler.UpdateProfilePicture)
		staff.GET("/peers", staffHandler.ListPeers)

		staff.GET("/complaints", complaintHandler.ListScoped)
		staff.GET("/complaints/assigned", complaintHandler.ListAssigned)
		staff.GET("/complaints/resolved", complaintHandler.ListResolved)
		staff.GET("/complaints/search", searchHandler.SearchComplaints)
		staff.POST("/complaints/:id/respond", complaintHandler.Respond)
		staff.POST("/complaints/:id/close", complaintHandler.Close)
		staff.POST("/complaints/:id/escalate", complaintHandler.Escalate)

		staff.GET("/notifications", notificationHandler.GetNotifications)
		staff.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		staff.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		staff.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		staff.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		admins := staff.Group("")
		admins.Use(authMiddleware.RequireRoles(model.RoleHallAdmin, model.RoleHOD, model.RoleBursar))
		{
			admins.POST("/accounts", staffHandler.Create)
			admins.POST("/complaints/:id/reassign", complaintHandler.Reassign)
		}
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func newRedisClient(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Println("REDIS_URL not set, notifications and rate limiting degrade gracefully")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, continuing without redis: %v", err)
		return nil
	}
	return redis.NewClient(opts)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := []string{"http://localhost:5173"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
