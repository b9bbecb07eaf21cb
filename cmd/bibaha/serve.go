package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bibaha/internal/audit"
	"bibaha/internal/db"
	"bibaha/internal/mail"
	"bibaha/internal/notify"
	"bibaha/internal/pdf"
	"bibaha/internal/registry"
	"bibaha/internal/review"
	"bibaha/internal/server"
	"bibaha/internal/storage"
	"bibaha/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	s3Client := s3.NewFromConfig(awsConfig)
	sesClient := ses.NewFromConfig(awsConfig)

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	applicationRepo := store.NewApplicationRepository(pool)
	documentRepo := store.NewDocumentRepository(pool)
	auditRepo := store.NewAuditLogRepository(pool)
	notificationRepo := store.NewNotificationRepository(pool)

	blobs := storage.NewS3Storage(s3Client, config.DocumentBucket)
	trail := audit.NewTrail(auditRepo)
	notifications := notify.NewDispatcher(notificationRepo)

	var mailer review.Mailer
	if config.EmailEnabled {
		mailer = mail.NewSESMailer(sesClient, config.EmailSender)
	}

	applications := registry.NewApplicationService(applicationRepo, documentRepo, logger)
	documents := registry.NewDocumentService(documentRepo, applicationRepo, blobs, logger)
	workflow := review.NewWorkflow(
		applicationRepo,
		documents,
		trail,
		notifications,
		mailer,
		pdf.NewCertificateRenderer(config.OfficeName),
		blobs,
		logger,
	)

	jwkCache, err := jwk.NewCache(context.Background(), httprc.NewClient())
	if err != nil {
		return fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", config.AuthIssuerURL)

	err = jwkCache.Register(context.Background(), jwksURL)
	if err != nil {
		return fmt.Errorf("failed to register jwks url with cache: %w", err)
	}

	srv, err := server.New(
		config,
		logger,
		applications,
		documents,
		workflow,
		notifications,
		trail,
		jwkCache,
		jwksURL,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
