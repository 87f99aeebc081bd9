package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/probegapp/probeg/external/ironstar"
	"github.com/probegapp/probeg/external/jobqueue"
	"github.com/probegapp/probeg/external/russiarunning"
	"github.com/probegapp/probeg/external/staticcal"
	"github.com/probegapp/probeg/external/telegram"
	"github.com/probegapp/probeg/internal/config"
	"github.com/probegapp/probeg/internal/domain/calendar"
	"github.com/probegapp/probeg/internal/domain/organizer"
	"github.com/probegapp/probeg/internal/domain/race"
	"github.com/probegapp/probeg/internal/extract"
	"github.com/probegapp/probeg/internal/infrastructure/account/passport"
	cacherepo "github.com/probegapp/probeg/internal/infrastructure/repository/cache"
	"github.com/probegapp/probeg/internal/infrastructure/repository/postgres"
	"github.com/probegapp/probeg/internal/interfaces/httpapi"
	basecache "github.com/probegapp/probeg/internal/platform/cache"
	idgen "github.com/probegapp/probeg/internal/platform/id"
	"github.com/probegapp/probeg/internal/platform/logging"
	"github.com/probegapp/probeg/internal/platform/resilience"
	"github.com/probegapp/probeg/internal/usecase"
)

// App holds the wired HTTP server plus the background pieces that need
// an explicit shutdown.
type App struct {
	Server    *http.Server
	Scheduler *usecase.JobSchedulerService

	db      *sqlx.DB
	browser *extract.Browser
}

func New(cfg config.Config, logger *logging.Logger, accessLogger *slog.Logger) (*App, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	idGen := idgen.NewRandomGenerator()

	runnerRepo := postgres.NewRunnerRepository(db)
	resultRepo := postgres.NewResultRepository(db)
	claimRepo := postgres.NewClaimRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)
	submissionRepo := postgres.NewSubmissionRepository(db)
	feedbackRepo := postgres.NewFeedbackRepository(db)
	jobDispatchRepo := postgres.NewJobDispatchRepository(db)

	var raceRepo race.Repository = postgres.NewRaceRepository(db)
	var organizerRepo organizer.Repository = postgres.NewOrganizerRepository(db, idGen)
	var store *basecache.Store
	if cfg.CacheEnabled {
		store = basecache.NewStore(cfg.CacheTTL)
		raceRepo = cacherepo.NewRaceRepository(raceRepo, store)
		organizerRepo = cacherepo.NewOrganizerRepository(organizerRepo, store)
	}

	var notifier usecase.Notifier
	if cfg.TelegramEnabled {
		notifier = telegram.NewClient(telegram.ClientConfig{
			BotToken:   cfg.TelegramBotToken,
			Timeout:    cfg.TelegramTimeout,
			MaxRetries: cfg.TelegramMaxRetries,
			Logger:     logger,
		})
	}

	var pages usecase.PageExtractor
	var browser *extract.Browser
	if cfg.BrowserEnabled {
		browser = extract.NewBrowser(cfg.BrowserTimeout, logger)
		pages = browser
	}

	importSvc := usecase.NewImportService(runnerRepo, raceRepo, resultRepo, organizerRepo, idGen, logger)

	raceQuerySvc := usecase.NewRaceQueryService(raceRepo, resultRepo, store, logger)
	runnerQuerySvc := usecase.NewRunnerQueryService(runnerRepo, resultRepo, logger)
	claimSvc := usecase.NewClaimService(claimRepo, resultRepo, runnerRepo, idGen, notifier, logger)
	subscriptionSvc := usecase.NewSubscriptionService(subscriptionRepo, raceRepo, runnerRepo, idGen, logger)
	profileSvc := usecase.NewProfileService(runnerRepo, idGen, logger)
	submissionSvc := usecase.NewSubmissionService(submissionRepo, raceRepo, idGen, notifier, logger)
	feedbackSvc := usecase.NewFeedbackService(feedbackRepo, idGen, logger)
	collectionSvc := usecase.NewCollectionService(buildSources(cfg, logger), raceRepo, organizerRepo, idGen, logger)
	protocolSyncSvc := usecase.NewProtocolSyncService(
		raceRepo,
		subscriptionRepo,
		runnerRepo,
		importSvc,
		pages,
		notifier,
		usecase.ProtocolSyncConfig{
			Workers:        cfg.ProtocolSyncWorkers,
			PerSourceLimit: cfg.ProtocolSyncPerSourceLimit,
		},
		logger,
	)

	scheduler := usecase.NewJobSchedulerService(
		buildJobQueue(cfg, accessLogger),
		jobDispatchRepo,
		usecase.JobSchedulerConfig{
			CollectInterval:      cfg.JobCollectInterval,
			ProtocolSyncInterval: cfg.JobProtocolSyncInterval,
		},
		logger,
	)

	verifier := passport.NewClient(passport.ClientConfig{
		HTTPClient:     &http.Client{Timeout: cfg.PassportTimeout},
		BaseURL:        cfg.PassportBaseURL,
		IntrospectPath: cfg.PassportIntrospectPath,
		CacheTTL:       cfg.PassportCacheTTL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.PassportCircuitEnabled,
			FailureThreshold: cfg.PassportCircuitFailureCount,
			OpenTimeout:      cfg.PassportCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.PassportCircuitHalfOpenMaxReq,
		},
		Logger: logger,
	})

	handler := httpapi.NewHandler(
		raceQuerySvc,
		runnerQuerySvc,
		claimSvc,
		subscriptionSvc,
		profileSvc,
		importSvc,
		collectionSvc,
		protocolSyncSvc,
		submissionSvc,
		feedbackSvc,
		jobDispatchRepo,
		logger,
	)
	router := httpapi.NewRouter(
		handler,
		verifier,
		accessLogger,
		cfg.SwaggerEnabled,
		cfg.CORSAllowedOrigins,
		cfg.InternalJobToken,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Server:    server,
		Scheduler: scheduler,
		db:        db,
		browser:   browser,
	}, nil
}

// Close releases the browser and database handles. Call after the HTTP
// server has drained.
func (a *App) Close() error {
	if a.browser != nil {
		a.browser.Close()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

func buildSources(cfg config.Config, logger *logging.Logger) []calendar.Source {
	var sources []calendar.Source

	if cfg.RussiaRunningEnabled {
		sources = append(sources, russiarunning.NewClient(russiarunning.ClientConfig{
			BaseURL:    cfg.RussiaRunningBaseURL,
			Timeout:    cfg.RussiaRunningTimeout,
			MaxRetries: cfg.RussiaRunningMaxRetries,
			Take:       cfg.RussiaRunningTake,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.RussiaRunningCircuitEnabled,
				FailureThreshold: cfg.RussiaRunningCircuitFailureCount,
				OpenTimeout:      cfg.RussiaRunningCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.RussiaRunningCircuitHalfOpenReq,
			},
		}))
	}

	if cfg.IronstarEnabled {
		sources = append(sources, ironstar.NewClient(ironstar.ClientConfig{
			BaseURL: cfg.IronstarBaseURL,
			Timeout: cfg.IronstarTimeout,
			Logger:  logger,
		}))
	}

	if cfg.StaticCalendarsEnabled {
		sources = append(sources, staticcal.Sources()...)
	}

	return sources
}

func buildJobQueue(cfg config.Config, logger *slog.Logger) usecase.JobQueue {
	if !cfg.QStashEnabled {
		return usecase.NewNoopJobQueue()
	}

	return jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.QStashCircuitEnabled,
			FailureThreshold: cfg.QStashCircuitFailureCount,
			OpenTimeout:      cfg.QStashCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
		},
	}, logger)
}
