package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/velasquezhn3/vj-sub000/config"
	"github.com/velasquezhn3/vj-sub000/cron"
	"github.com/velasquezhn3/vj-sub000/database"
	conversationRepo "github.com/velasquezhn3/vj-sub000/database/repository/conversation"
	reservationRepo "github.com/velasquezhn3/vj-sub000/database/repository/reservation"
	unitRepo "github.com/velasquezhn3/vj-sub000/database/repository/unit"
	userRepo "github.com/velasquezhn3/vj-sub000/database/repository/user"
	"github.com/velasquezhn3/vj-sub000/handlers"
	"github.com/velasquezhn3/vj-sub000/models"
	"github.com/velasquezhn3/vj-sub000/routes"
	"github.com/velasquezhn3/vj-sub000/services/allocation"
	"github.com/velasquezhn3/vj-sub000/services/conversation"
	"github.com/velasquezhn3/vj-sub000/services/flow"
	"github.com/velasquezhn3/vj-sub000/services/messaging"
	"github.com/velasquezhn3/vj-sub000/services/reservation"
	"github.com/velasquezhn3/vj-sub000/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitStateCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())

	// repositories.
	resRepo := reservationRepo.NewMongoReservationRepo()
	unitsRepo := unitRepo.NewMongoUnitRepo()
	usersRepo := userRepo.NewMongoUserRepo()
	convRepo := conversationRepo.NewMongoConversationRepo()

	if err := unitsRepo.Seed(defaultUnits()); err != nil {
		logger.Sugar().Warnf("main: failed to seed unit inventory: %v", err)
	}

	// services.
	allocationEngine := &allocation.DefaultAllocationEngine{
		Units:        unitsRepo,
		Reservations: resRepo,
	}

	reservationService := &reservation.DefaultReservationService{
		Repo:      resRepo,
		Users:     usersRepo,
		Allocator: allocationEngine,
	}

	ttls := conversation.TTLPolicy{
		Conversational: time.Duration(config.AppConfig.StateTTLMinutes) * time.Minute,
		PaymentWaiting: time.Duration(config.AppConfig.PaymentStateTTLHours) * time.Hour,
	}
	stateStore := conversation.NewDefaultStateStore(
		conversation.NewRedisStateCache(utils.GetStateCacheClient()),
		convRepo,
		ttls,
	)

	var sender messaging.Sender
	if config.AppConfig.OutboundWebhookURL != "" {
		sender = messaging.NewHTTPSender(config.AppConfig.OutboundWebhookURL)
	} else {
		sender = messaging.LogSender{}
	}

	orchestrator := flow.NewDefaultFlowOrchestrator(
		stateStore,
		reservationService,
		sender,
		config.AppConfig.OperatorChannel,
	)
	adminChannel := &flow.AdminChannel{
		States:       stateStore,
		Reservations: reservationService,
		Sender:       sender,
	}

	messageHandler := handlers.NewMessageHandler(orchestrator)
	adminHandler := handlers.NewAdminHandler(adminChannel)
	routes.RegisterRoutes(router, messageHandler, adminHandler)

	// Background cleanup sweeps.
	cron.InitSweepWorker(reservationService, stateStore)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// defaultUnits seeds the cabin inventory on first start. Inventory is owned
// by an external collaborator afterwards; this only bootstraps an empty
// collection.
func defaultUnits() []models.Unit {
	return []models.Unit{
		{ID: "cabin-small-1", Type: models.UnitTypeSmall, Capacity: 3, DisplayName: "Cabaña Colibrí"},
		{ID: "cabin-small-2", Type: models.UnitTypeSmall, Capacity: 3, DisplayName: "Cabaña Tucán"},
		{ID: "cabin-medium-1", Type: models.UnitTypeMedium, Capacity: 6, DisplayName: "Cabaña Ceiba"},
		{ID: "cabin-medium-2", Type: models.UnitTypeMedium, Capacity: 6, DisplayName: "Cabaña Caoba"},
		{ID: "cabin-large-1", Type: models.UnitTypeLarge, Capacity: 9, DisplayName: "Cabaña Roatán"},
	}
}
