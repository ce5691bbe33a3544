package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Marvel4tech/greenbal/internal/config"
	"github.com/Marvel4tech/greenbal/internal/domain/leaderboard"
	"github.com/Marvel4tech/greenbal/internal/domain/match"
	"github.com/Marvel4tech/greenbal/internal/domain/prediction"
	"github.com/Marvel4tech/greenbal/internal/domain/profile"
	"github.com/Marvel4tech/greenbal/internal/infrastructure/account/janus"
	"github.com/Marvel4tech/greenbal/internal/infrastructure/jobqueue"
	"github.com/Marvel4tech/greenbal/internal/infrastructure/repository/memory"
	"github.com/Marvel4tech/greenbal/internal/infrastructure/repository/postgres"
	"github.com/Marvel4tech/greenbal/internal/interfaces/httpapi"
	"github.com/Marvel4tech/greenbal/internal/platform/cache"
	idgen "github.com/Marvel4tech/greenbal/internal/platform/id"
	"github.com/Marvel4tech/greenbal/internal/platform/logging"
	"github.com/Marvel4tech/greenbal/internal/platform/resilience"
	"github.com/Marvel4tech/greenbal/internal/usecase"
)

// droppedJobPublisher stands in when QStash is disabled. A scoring failure
// then stays visible only through scoring_pending and the admin sweep.
type droppedJobPublisher struct {
	logger *logging.Logger
}

func (p droppedJobPublisher) PublishRescore(ctx context.Context, matchID string) error {
	p.logger.WarnContext(ctx, "qstash disabled, rescore left for manual sweep", "match_id", matchID)
	return nil
}

// NewHTTPServer wires repositories, services and the HTTP router. The
// returned close function releases the database handle when one was opened.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	zone, err := time.LoadLocation(cfg.CivilTimezone)
	if err != nil {
		return nil, nil, fmt.Errorf("load civil timezone: %w", err)
	}

	var (
		matchRepo       match.Repository
		predictionRepo  prediction.Repository
		leaderboardRepo leaderboard.Repository
		profileRepo     profile.Repository
		closeDB         = func() error { return nil }
	)

	if cfg.DBURL != "" {
		db, err := openDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		matchRepo = postgres.NewMatchRepository(db)
		predictionRepo = postgres.NewPredictionRepository(db)
		leaderboardRepo = postgres.NewLeaderboardRepository(db)
		profileRepo = postgres.NewProfileRepository(db)
		closeDB = db.Close
		logger.Info("postgres repositories enabled", "database", dbNameFromURL(cfg.DBURL))
	} else {
		matchRepo = memory.NewMatchRepository(memory.SeedMatches())
		predictionRepo = memory.NewPredictionRepository()
		leaderboardRepo = memory.NewLeaderboardRepository()
		profileRepo = memory.NewProfileRepository(memory.SeedProfiles())
		logger.Info("in-memory repositories enabled", "reason", "DB_URL empty")
	}

	var pageCache *cache.Store
	if cfg.CacheEnabled {
		pageCache = cache.NewStore(cfg.CacheTTL)
	}

	var jobs usecase.JobPublisher = droppedJobPublisher{logger: logger}
	if cfg.QStashEnabled {
		jobs = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
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

	idGenerator := idgen.NewRandomGenerator()
	scoringService := usecase.NewScoringService(matchRepo, predictionRepo, leaderboardRepo, pageCache)
	predictionService := usecase.NewPredictionService(matchRepo, predictionRepo, leaderboardRepo, profileRepo, idGenerator)
	leaderboardService := usecase.NewLeaderboardService(leaderboardRepo, profileRepo, pageCache, cfg.LeaderboardDefaultLimit)
	matchService := usecase.NewMatchService(matchRepo, scoringService, jobs, idGenerator, logger, zone)
	rescoreService := usecase.NewRescoreService(matchRepo, scoringService)

	janusClient := janus.NewClient(
		&http.Client{Timeout: cfg.JanusTimeout},
		cfg.JanusBaseURL,
		cfg.JanusIntrospectPath,
		cfg.JanusAdminKey,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.JanusCircuitEnabled,
			FailureThreshold: cfg.JanusCircuitFailureCount,
			OpenTimeout:      cfg.JanusCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.JanusCircuitHalfOpenMaxReq,
		},
		logger,
	)

	handler := httpapi.NewHandler(matchService, predictionService, leaderboardService, rescoreService, logger)
	router := httpapi.NewRouter(handler, janusClient, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = closeDB()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, closeDB, nil
}
