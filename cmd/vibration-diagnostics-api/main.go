package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Application
	applicationPort "github.com/dreschagin/vibration-diagnostics/internal/application/port"
	"github.com/dreschagin/vibration-diagnostics/internal/application/usecase"

	// Infrastructure
	redisCache "github.com/dreschagin/vibration-diagnostics/internal/infrastructure/cache/redis"
	"github.com/dreschagin/vibration-diagnostics/internal/infrastructure/collector"
	natsInfra "github.com/dreschagin/vibration-diagnostics/internal/infrastructure/messaging/nats"
	wsInfra "github.com/dreschagin/vibration-diagnostics/internal/infrastructure/notification/websocket"
	"github.com/dreschagin/vibration-diagnostics/internal/infrastructure/observability/cloudwatch"
	dynamodbRepo "github.com/dreschagin/vibration-diagnostics/internal/infrastructure/persistence/dynamodb"
	"github.com/dreschagin/vibration-diagnostics/internal/infrastructure/persistence/postgres"
	"github.com/dreschagin/vibration-diagnostics/internal/infrastructure/sensor"
	s3storage "github.com/dreschagin/vibration-diagnostics/internal/infrastructure/storage/s3"

	// Interfaces
	httpInterface "github.com/dreschagin/vibration-diagnostics/internal/interfaces/http"
	"github.com/dreschagin/vibration-diagnostics/internal/interfaces/http/handler"
	"github.com/dreschagin/vibration-diagnostics/internal/interfaces/http/middleware"

	// Shared
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
	"github.com/dreschagin/vibration-diagnostics/pkg/config"
	"github.com/dreschagin/vibration-diagnostics/pkg/logger"

	_ "github.com/lib/pq"
)

// Период фоновой очистки устаревших оценок
const retentionSweepInterval = 6 * time.Hour

func main() {
	// 1. Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализируем logger
	log := logger.New(os.Getenv("LOG_LEVEL"))
	log.Info("Starting Vibration Diagnostics API")

	// 3. Подключаемся к БД
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Error("Failed to connect to database", err)
		os.Exit(1)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	// Проверяем подключение
	if err := db.Ping(); err != nil {
		log.Error("Failed to ping database", err)
		os.Exit(1)
	}
	log.Info("Database connected successfully")

	// 4. Dependency Injection - Infrastructure Layer

	// Repository
	assessmentRepository := postgres.NewPostgresAssessmentRepository(db)

	// Источник измерений (симулятор)
	sampleSource, err := sensor.NewSimulatedSensor(defaultFleet(), cfg.Diagnostics.SimulatorSeed)
	if err != nil {
		log.Error("Failed to initialize sample source", err)
		os.Exit(1)
	}

	// Сборщик состояния хоста
	hostCollector := collector.NewHostStatusCollector()

	// WebSocket Hub
	hub := wsInfra.NewHub(log)

	// 4.5. Redis Cache
	var cache applicationPort.Cache
	if cfg.Redis.Enabled {
		cacheImpl, initErr := redisCache.NewAssessmentCache(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.TTL,
			cfg.Redis.PoolSize,
			cfg.Redis.MinIdleConns,
			cfg.Redis.DialTimeout,
			cfg.Redis.ReadTimeout,
			cfg.Redis.WriteTimeout,
		)
		if initErr != nil {
			log.Warn("Failed to connect to Redis, continuing without cache", "error", initErr.Error())
		} else {
			cache = cacheImpl
			defer cacheImpl.Close()
			log.Info("Redis cache initialized")
		}
	} else {
		log.Warn("Redis cache is disabled")
	}

	// 5. CloudWatch Integration

	// CloudWatch Metrics Publisher
	var metricsPublisher applicationPort.HealthMetricsPublisher
	if cfg.CloudWatch.Enabled {
		publisherImpl, initErr := cloudwatch.NewMetricsPublisher(context.Background(),
			cloudwatch.MetricsPublisherConfig{
				Namespace:         cfg.CloudWatch.Namespace,
				Region:            cfg.CloudWatch.Region,
				Endpoint:          cfg.CloudWatch.Endpoint,
				AccessKeyID:       cfg.CloudWatch.AccessKeyID,
				SecretAccessKey:   cfg.CloudWatch.SecretAccessKey,
				BufferSize:        cfg.CloudWatch.BufferSize,
				FlushInterval:     cfg.CloudWatch.FlushInterval,
				StorageResolution: cfg.CloudWatch.StorageResolution,
			})
		if initErr != nil {
			log.Error("Failed to initialize CloudWatch metrics publisher", initErr)
			os.Exit(1)
		}
		metricsPublisher = publisherImpl
		log.Info("CloudWatch metrics publisher initialized")
	} else {
		log.Warn("CloudWatch metrics publishing is disabled")
	}

	// CloudWatch Logs Publisher
	var logsPublisher applicationPort.LogPublisher
	if cfg.CloudWatch.Enabled && cfg.CloudWatch.LogGroupName != "" {
		publisherImpl, initErr := cloudwatch.NewLogsPublisher(context.Background(),
			cloudwatch.LogsPublisherConfig{
				LogGroupName:    cfg.CloudWatch.LogGroupName,
				LogStreamName:   cfg.CloudWatch.LogStreamName,
				Region:          cfg.CloudWatch.Region,
				Endpoint:        cfg.CloudWatch.Endpoint,
				AccessKeyID:     cfg.CloudWatch.AccessKeyID,
				SecretAccessKey: cfg.CloudWatch.SecretAccessKey,
				BufferSize:      cfg.CloudWatch.BufferSize,
				FlushInterval:   cfg.CloudWatch.FlushInterval,
				AutoCreate:      true,
			})
		if initErr != nil {
			log.Error("Failed to initialize CloudWatch logs publisher", initErr)
			os.Exit(1)
		}
		logsPublisher = publisherImpl
		log.SetLogPublisher(logsPublisher)
		log.Info("CloudWatch logs publisher initialized")
	}

	// 5.5. NATS Event Publisher
	var eventPublisher applicationPort.EventPublisher
	if cfg.NATS.Enabled {
		publisherImpl, initErr := natsInfra.NewPublisher(cfg.NATS.URL, log)
		if initErr != nil {
			log.Warn("Failed to connect to NATS, continuing without event publishing", "error", initErr.Error())
		} else {
			eventPublisher = publisherImpl
			defer eventPublisher.Close()
			log.Info("NATS event publisher initialized", "url", cfg.NATS.URL)
		}
	} else {
		log.Warn("NATS event publishing is disabled")
	}

	// 6. Dependency Injection - Application Layer (Use Cases)

	diagnoseUC := usecase.NewDiagnoseSampleUseCase(
		sampleSource,
		assessmentRepository,
		cache,            // Can be nil if Redis disabled
		eventPublisher,   // Can be nil if NATS disabled
		hub,
		metricsPublisher, // Can be nil if CloudWatch disabled
		log,
	)

	getLatestUC := usecase.NewGetLatestAssessmentUseCase(
		assessmentRepository,
		cache,
		log,
	)

	getHistoryUC := usecase.NewGetAssessmentHistoryUseCase(
		assessmentRepository,
		cache,
		log,
	)

	var reportStorage applicationPort.ReportStorage
	if cfg.S3.Enabled {
		storageImpl, initErr := s3storage.NewReportStorage(context.Background(), s3storage.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
			URLMode:         s3storage.URLMode(cfg.S3.URLMode),
			PresignedTTL:    cfg.S3.PresignedTTL,
		})
		if initErr != nil {
			log.Error("Failed to initialize report storage", initErr)
			os.Exit(1)
		}
		reportStorage = storageImpl
	} else {
		log.Warn("S3 storage is disabled, report exports will fail")
	}

	var reportMetadataRepo applicationPort.ReportMetadataRepository
	if cfg.DynamoDB.Enabled {
		repoImpl, initErr := dynamodbRepo.NewReportMetadataRepository(context.Background(), dynamodbRepo.Config{
			TableName:       cfg.DynamoDB.TableName,
			Region:          cfg.DynamoDB.Region,
			Endpoint:        cfg.DynamoDB.Endpoint,
			AccessKeyID:     cfg.DynamoDB.AccessKeyID,
			SecretAccessKey: cfg.DynamoDB.SecretAccessKey,
			StrongReads:     cfg.DynamoDB.StrongReads,
		})
		if initErr != nil {
			log.Error("Failed to initialize report metadata repository", initErr)
			os.Exit(1)
		}
		reportMetadataRepo = repoImpl
		log.Info("Report metadata repository initialized", "provider", "dynamodb")
	} else {
		log.Warn("DynamoDB report metadata index is disabled, using S3 listing mode")
	}

	exportReportUC := usecase.NewExportDiagnosticReportUseCase(
		assessmentRepository,
		reportStorage,
		reportMetadataRepo,
		usecase.ExportDiagnosticReportConfig{
			KeyPrefix: cfg.S3.KeyPrefix,
			TTL:       cfg.Reports.TTL,
		},
		log,
	)
	listReportsUC := usecase.NewListDiagnosticReportsUseCase(
		reportStorage,
		reportMetadataRepo,
		usecase.ListDiagnosticReportsConfig{
			KeyPrefix:           cfg.S3.KeyPrefix,
			FallbackToS3OnError: true,
		},
		log,
	)

	// 7. Dependency Injection - Interfaces Layer (HTTP Handlers)

	authConfig := middleware.AuthConfig{
		Enabled:     cfg.Security.AuthEnabled,
		BearerToken: cfg.Security.AuthToken,
	}

	diagnosticsAPIHandler := handler.NewDiagnosticsAPIHandler(
		diagnoseUC,
		getLatestUC,
		getHistoryUC,
		cfg.Diagnostics.MaxHistoryDuration,
		log,
	)
	reportAPIHandler := handler.NewReportAPIHandler(
		exportReportUC,
		listReportsUC,
		authConfig,
		cfg.Reports.MaxPayloadBytes,
		cfg.Reports.RateLimitPerMinute,
		log,
	)
	systemStatusHandler := handler.NewSystemStatusHandler(hostCollector, hub, log)
	websocketHandler := handler.NewWebSocketHandler(hub, cfg.Security.AllowedOrigins, authConfig, log)
	authAPIHandler := handler.NewAuthAPIHandler(authConfig, log)

	var trendAnalyzerAPIHandler *handler.TrendAnalyzerAPIHandler
	if cfg.TrendAnalyzer.BaseURL != "" {
		trendAnalyzerAPIHandler = handler.NewTrendAnalyzerAPIHandler(
			cfg.TrendAnalyzer.BaseURL,
			cfg.TrendAnalyzer.RequestTimeout,
			log,
		)
	}

	rateLimiter := middleware.NewIPRateLimiter(cfg.Security.RateLimitPerSec, cfg.Security.RateLimitBurst)

	// Router
	router := httpInterface.NewRouter(
		diagnosticsAPIHandler,
		reportAPIHandler,
		systemStatusHandler,
		websocketHandler,
		authAPIHandler,
		trendAnalyzerAPIHandler,
		cfg.Security,
		rateLimiter,
		log,
	)

	// 8. Запускаем фоновые процессы

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запускаем WebSocket hub
	go hub.Run()
	log.Info("WebSocket hub started")

	// Запускаем цикл диагностики
	go func() {
		ticker := time.NewTicker(cfg.Diagnostics.AcquisitionInterval)
		defer ticker.Stop()

		log.Info("Diagnostics loop started",
			"interval", cfg.Diagnostics.AcquisitionInterval.String(),
			"equipment_count", len(sampleSource.EquipmentIDs()))

		for {
			select {
			case <-ticker.C:
				if err := diagnoseUC.Execute(ctx); err != nil {
					log.Error("Diagnostics cycle failed", err)
				}
			case <-ctx.Done():
				log.Info("Diagnostics loop stopped")
				return
			}
		}
	}()

	// Запускаем очистку устаревших оценок
	go func() {
		ticker := time.NewTicker(retentionSweepInterval)
		defer ticker.Stop()

		retention := time.Duration(cfg.Diagnostics.RetentionDays) * 24 * time.Hour
		log.Info("Retention sweeper started", "retention_days", cfg.Diagnostics.RetentionDays)

		for {
			select {
			case <-ticker.C:
				cutoff, err := valueobject.NewTimeRangeFromDuration(retention)
				if err != nil {
					log.Error("Failed to build retention range", err)
					continue
				}
				if err := assessmentRepository.DeleteOlderThan(ctx, cutoff); err != nil {
					log.Error("Failed to delete old assessments", err)
				}
			case <-ctx.Done():
				log.Info("Retention sweeper stopped")
				return
			}
		}
	}()

	// 9. Настраиваем HTTP сервер

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Канал для получения сигналов ОС
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Запускаем сервер в отдельной goroutine
	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", err)
			os.Exit(1)
		}
	}()

	// 10. Ожидаем сигнал для graceful shutdown

	<-sigChan
	log.Info("Shutdown signal received, starting graceful shutdown...")

	// Останавливаем фоновые процессы
	cancel()

	// Даем время на завершение текущих операций
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Flush CloudWatch buffers before shutdown
	if metricsPublisher != nil {
		log.Info("Flushing CloudWatch metrics buffer...")
		if err := metricsPublisher.Flush(shutdownCtx); err != nil {
			log.Error("Failed to flush CloudWatch metrics", err)
		}
	}

	if logsPublisher != nil {
		log.Info("Flushing CloudWatch logs buffer...")
		if err := logsPublisher.Flush(shutdownCtx); err != nil {
			log.Error("Failed to flush CloudWatch logs", err)
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	log.Info("Server stopped gracefully")
}

// defaultFleet описывает парк агрегатов симулятора
func defaultFleet() []sensor.EquipmentProfile {
	return []sensor.EquipmentProfile{
		{
			EquipmentID:        "pump-001",
			RPM:                1500,
			BaseVelocity:       2.2,
			BaseAcceleration:   3.5,
			DegradationPerHour: 0.0004,
			Temperature:        52.0,
		},
		{
			EquipmentID:        "fan-002",
			RPM:                980,
			BaseVelocity:       1.6,
			BaseAcceleration:   2.1,
			DegradationPerHour: 0.0002,
			Temperature:        41.0,
		},
		{
			EquipmentID:        "compressor-003",
			RPM:                2950,
			BaseVelocity:       3.1,
			BaseAcceleration:   5.4,
			DegradationPerHour: 0.0007,
			Temperature:        63.0,
		},
	}
}
