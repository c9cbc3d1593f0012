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

	"opsboard/internal/backup"
	"opsboard/internal/db"
	"opsboard/internal/llm"
	"opsboard/internal/realtime"
	"opsboard/internal/server"
	"opsboard/internal/stats"
	"opsboard/internal/storage"
	"opsboard/internal/store"
	"opsboard/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
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

	if config.AuthIssuerURL == "" {
		return fmt.Errorf("set AUTH_ISSUER_URL")
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	incidentRepo := store.NewIncidentRepository(pool)
	paymentRepo := store.NewPaymentRepository(pool)
	mediaRepo := store.NewMediaRepository(pool)
	profileRepo := store.NewProfileRepository(pool)
	chatRepo := store.NewChatRepository(pool)
	lookupRepo := store.NewLookupRepository(pool)
	exportRepo := store.NewExportRepository(pool)

	uploader, err := buildUploader(ctx, config)
	if err != nil {
		return err
	}

	jwkCache, err := jwk.NewCache(context.Background(), httprc.NewClient())
	if err != nil {
		return fmt.Errorf("failed to initilaize jwk cache: %w", err)
	}

	jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", config.AuthIssuerURL)

	err = jwkCache.Register(context.Background(), jwksURL)
	if err != nil {
		return fmt.Errorf("failed to register jwk with cache: %w", err)
	}

	aggregator := stats.NewAggregator(logger, incidentRepo, profileRepo)
	exporter := backup.NewExporter(logger, exportRepo)
	chatClient := llm.NewClient(config.ChatEndpointURL, config.ChatModel)

	waiter, err := realtime.Listen(ctx, config.DatabaseURL, config.RealtimeChannel)
	if err != nil {
		logger.WithError(err).Warn("realtime subscription unavailable, statistics refresh on demand only")
	} else {
		listener := realtime.NewListener(logger, waiter, aggregator)
		go listener.Run(ctx)
	}

	srv, err := server.New(
		config,
		logger,
		incidentRepo,
		paymentRepo,
		mediaRepo,
		profileRepo,
		chatRepo,
		lookupRepo,
		uploader,
		aggregator,
		exporter,
		chatClient,
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

func buildUploader(ctx context.Context, config *types.Config) (storage.Uploader, error) {
	switch config.StorageDriver {
	case "supabase":
		if config.SupabaseProjectID == "" || config.SupabaseServiceKey == "" {
			return nil, fmt.Errorf("set SUPABASE_PROJECT_ID and SUPABASE_SERVICE_KEY")
		}
		return storage.NewSupabaseStorage(config.SupabaseProjectID, config.SupabaseServiceKey, config.StorageBucket), nil

	case "s3":
		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		region := config.S3Region
		if region == "" {
			region = awsConfig.Region
		}
		return storage.NewS3Storage(s3.NewFromConfig(awsConfig), config.StorageBucket, region), nil

	case "minio":
		client, err := minio.New(config.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(config.MinioAccessKey, config.MinioSecretKey, ""),
			Secure: config.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		return storage.NewMinioStorage(client, config.StorageBucket, config.MinioEndpoint, config.MinioUseSSL), nil
	}

	return nil, fmt.Errorf("unknown storage driver %q: expected supabase, s3 or minio", config.StorageDriver)
}
