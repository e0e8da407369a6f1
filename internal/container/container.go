package container

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"catalog/indexer/internal/client"
	"catalog/indexer/internal/config"
	"catalog/indexer/internal/queue"
	"catalog/indexer/internal/repository"
	"catalog/indexer/internal/service"
	"catalog/indexer/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config       *config.Config
	Client       client.CatalogClient
	Repository   repository.IndexRepository
	Queue        queue.Queue
	StateManager state.StateManager

	Service *service.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	db, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}
	container.db = db

	indexRepo := repository.NewIndexRepository(db)
	if err := indexRepo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	container.Repository = indexRepo

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})
	container.redis = rdb

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("✅ Connected to Redis successfully")

	redisQueue, err := queue.NewRedisQueue(ctx, rdb, cfg.Redis)
	if err != nil {
		container.Close()
		return nil, err
	}
	container.Queue = redisQueue

	stateManager := state.NewRedisStateManager(rdb)
	container.StateManager = stateManager

	catalogClient := client.NewCatalogClient(cfg.Catalog)
	container.Client = catalogClient

	container.Service = service.NewService(
		indexRepo,
		catalogClient,
		redisQueue,
		stateManager,
		cfg.Redis.ConsumerGroup,
		cfg.Redis.MinIdleTime,
	)

	return container, nil
}

// Run enqueues every configured source, re-enqueues them every refresh interval
// and runs the workers until ctx is cancelled
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.schedule(ctx)
	})

	g.Go(func() error {
		return c.Service.RunWorkers(ctx, c.Config.Catalog.MaxWorkers)
	})

	return g.Wait()
}

func (c *Container) schedule(ctx context.Context) error {
	sources := c.Config.Catalog.Sources
	if len(sources) == 0 {
		log.Warn("⚠️ No catalog sources configured, workers will only process queued tasks")
		return nil
	}

	if err := c.Service.EnqueueAll(ctx, sources, false); err != nil {
		return err
	}

	if c.Config.Catalog.RefreshInterval <= 0 {
		return nil
	}

	ticker := time.NewTicker(time.Duration(c.Config.Catalog.RefreshInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := c.Service.EnqueueAll(ctx, sources, false); err != nil {
				log.Errorf("❌ Failed to enqueue refresh round: %v", err)
			}
		}
	}
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis client: %w", err)
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
