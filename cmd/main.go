package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"invest-platform/internal/auth"
	"invest-platform/internal/config"
	"invest-platform/internal/database"
	"invest-platform/internal/handlers"
	"invest-platform/internal/payments"
	"invest-platform/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Initialize services
	authService := services.NewAuthService(db)
	userService := services.NewUserService(db)

	// Initialize Paystack client
	paystackClient := payments.NewPaystackClient(cfg.Paystack.SecretKey, cfg.Paystack.BaseURL)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	investmentHandler := handlers.NewInvestmentHandler(db)
	referralHandler := handlers.NewReferralHandler(db)
	withdrawalHandler := handlers.NewWithdrawalHandler(db)
	adminHandler := handlers.NewAdminHandler(db)
	paymentHandler := handlers.NewPaymentHandler(db, paystackClient, cfg.Paystack.SecretKey)

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// Authenticated /auth/me route
	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.GetMe)
	}

	// Paystack webhook (public, signature-verified)
	router.POST("/api/paystack/webhook", paymentHandler.Webhook)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// User endpoints
		userRoutes := api.Group("/user")
		{
			userRoutes.GET("/profile", userHandler.GetProfile)
			userRoutes.GET("/stats", userHandler.GetDashboardStats)
			userRoutes.GET("/transactions", userHandler.GetTransactions)
		}

		// Investment endpoints
		api.POST("/investments", investmentHandler.CreateInvestment)
		api.GET("/investments", investmentHandler.GetInvestments)
		api.GET("/investments/upgrades", investmentHandler.GetUpgradeHistory)

		// Referral endpoints
		api.GET("/referrals/tree", referralHandler.GetReferralTree)
		api.GET("/referrals/stats", referralHandler.GetReferralStats)
		api.GET("/referrals", referralHandler.GetReferrals)

		// Withdrawal endpoints
		api.POST("/withdrawals", withdrawalHandler.RequestWithdrawal)
		api.GET("/withdrawals", withdrawalHandler.GetWithdrawals)

		// Payment endpoints
		api.POST("/payments/initialize", paymentHandler.InitializePayment)
	}

	// Admin routes (protected + admin only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(auth.AdminMiddleware())
	{
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/users", adminHandler.GetUsers)
		admin.GET("/withdrawals", adminHandler.GetWithdrawals)
		admin.PATCH("/withdrawals/:id", adminHandler.ProcessWithdrawal)
		admin.GET("/analytics", adminHandler.GetAdvancedAnalytics)
	}

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
