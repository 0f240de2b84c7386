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
	"github.com/kingrain94/tenant-guard/internal/repository/postgres"
	"github.com/kingrain94/tenant-guard/internal/service/queue"
	"github.com/kingrain94/tenant-guard/internal/worker"
	"github.com/kingrain94/tenant-guard/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	appLogger := logger.NewLogger(os.Getenv("APP_ENV"))
	ctx := context.Background()

	dbConnections, err := config.NewDatabaseConnections()
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", err)
	}
	defer dbConnections.Close()
	pgRepo := postgres.NewPostgresRepository(dbConnections)

	s3Config := config.DefaultS3Config()
	s3Client, err := s3Config.GetClient(ctx)
	if err != nil {
		appLogger.Fatal("Failed to create S3 client", err)
	}

	sqsConfig := config.DefaultSQSConfig()
	sqsClient, err := sqsConfig.GetClient(ctx)
	if err != nil {
		appLogger.Fatal("Failed to connect to SQS", err)
	}
	sqsService := queue.NewSQSService(sqsClient, sqsConfig)

	archiveWorker := worker.NewArchiveWorker(
		sqsService,
		sqsConfig.ArchiveQueueURL,
		pgRepo.AuditEntry(),
		s3Client,
		s3Config,
		sqsService,
		appLogger,
		1,
		10*time.Second,
	)
	archiveWorker.Start()
	appLogger.Infof("Archive worker started, writing to s3://%s/%s", s3Config.BucketName, s3Config.KeyPrefix)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down archive worker...")
	archiveWorker.Stop()
	appLogger.Info("Archive worker stopped")
	appLogger.Sync()
}
