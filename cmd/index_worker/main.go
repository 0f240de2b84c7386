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
	"github.com/kingrain94/tenant-guard/internal/repository/opensearch"
	"github.com/kingrain94/tenant-guard/internal/service/queue"
	"github.com/kingrain94/tenant-guard/internal/worker"
	"github.com/kingrain94/tenant-guard/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	appLogger := logger.NewLogger(os.Getenv("APP_ENV"))

	osConfig := config.DefaultOpenSearchConfig()
	osClient, err := osConfig.GetClient()
	if err != nil {
		appLogger.Fatal("Failed to connect to OpenSearch", err)
	}
	osRepo := opensearch.NewRepository(osClient, osConfig)
	appLogger.Info("OpenSearch connection established for index worker")

	sqsConfig := config.DefaultSQSConfig()
	sqsClient, err := sqsConfig.GetClient(context.Background())
	if err != nil {
		appLogger.Fatal("Failed to connect to SQS", err)
	}
	sqsService := queue.NewSQSService(sqsClient, sqsConfig)

	indexWorker := worker.NewIndexWorker(
		sqsService,
		sqsConfig.IndexQueueURL,
		osRepo,
		appLogger,
		2,
		5*time.Second,
	)
	indexWorker.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down index worker...")
	indexWorker.Stop()
	appLogger.Info("Index worker stopped")
	appLogger.Sync()
}
