package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"libmanager/pkg/account"
	"libmanager/pkg/catalog"
	"libmanager/pkg/config"
	"libmanager/pkg/database"
	"libmanager/pkg/eligibility"
	"libmanager/pkg/mail"
	"libmanager/pkg/reservation"
	"libmanager/pkg/token"
)

var (
	db           *gorm.DB
	tokens       *token.Service
	accounts     *account.Service
	items        *catalog.Service
	reservations *reservation.Manager
)

func main() {
	log.Println("Starting libmanager server...")

	godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err = database.Init(cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	dispatcher := mail.NewDispatcher(&mail.SMTPSender{
		Addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
		From: cfg.MailFrom,
	})
	stop := make(chan struct{})
	defer close(stop)
	go dispatcher.Run(stop)

	tokens = token.NewService(cfg.JWTSecret)
	accounts = account.NewService(db, cfg.MaxUsers, tokens, dispatcher)
	items = catalog.NewService(db, cfg.MaxTotalCopies)
	reservations = reservation.NewManager(db, eligibility.NewEvaluator(eligibility.DefaultRules()))

	server := setupRouter()

	log.Printf("Server starting on :%s", cfg.ServerPort)
	if err := server.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func setupRouter() *gin.Engine {
	server := gin.Default()

	server.POST("/api/v1/login", login)
	server.POST("/api/v1/account/reset-request", requestPasswordReset)
	server.POST("/api/v1/account/reset", resetPassword)

	authed := server.Group("/api/v1", authRequired)
	authed.GET("/items", listItems)
	authed.GET("/items/:id", getItem)
	authed.POST("/reservations", createReservation)
	authed.GET("/reservations/my", getMyReservations)

	admin := server.Group("/api/v1", authRequired, adminRequired)
	admin.POST("/items", createItem)
	admin.PUT("/items/:id", updateItem)
	admin.DELETE("/items/:id", deleteItem)
	admin.GET("/users", listUsers)
	admin.GET("/users/:username", getUser)
	admin.POST("/users", createUser)
	admin.PUT("/users/:username", updateUser)
	admin.DELETE("/users/:username", deleteUser)
	admin.GET("/reservations", searchReservations)
	admin.GET("/reservations/:id", getReservation)
	admin.DELETE("/reservations/:id", cancelReservation)

	server.GET("/manage/health", healthCheck)

	return server
}

func healthCheck(c *gin.Context) {
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database connection failed",
		})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database ping failed",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
