package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kingrain94/tenant-guard/internal/config"
	"github.com/kingrain94/tenant-guard/internal/repository/composite"
	"github.com/kingrain94/tenant-guard/internal/service/queue"
	"github.com/kingrain94/tenant-guard/internal/worker"
	"github.com/kingrain94/tenant-guard/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	appLogger := logger.NewLogger(os.Getenv("APP_ENV"))

	dbConnections, err := config.NewDatabaseConnections()
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", err)
	}
	defer dbConnections.Close()

	osConfig := config.DefaultOpenSearchConfig()
	osClient, err := osConfig.GetClient()
	if err != nil {
		appLogger.Fatal("Failed to connect to OpenSearch", err)
	}
	repo := composite.NewCompositeRepository(dbConnections, osClient, osConfig)

	sqsConfig := config.DefaultSQSConfig()
	sqsClient, err := sqsConfig.GetClient(context.Background())
	if err != nil {
		appLogger.Fatal("Failed to connect to SQS", err)
	}
	sqsService := queue.NewSQSService(sqsClient, sqsConfig)

	cleanupWorker := worker.NewCleanupWorker(
		sqsService,
		sqsConfig.CleanupQueueURL,
		repo.AuditEntry(),
		repo.OpenSearch(),
		appLogger,
		1,
		5*time.Second,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	cleanupWorker.Start()
	appLogger.Info("Cleanup worker started")

	<-sigChan
	appLogger.Info("Shutting down cleanup worker...")
	cleanupWorker.Stop()
	appLogger.Info("Cleanup worker stopped")
	appLogger.Sync()
}
