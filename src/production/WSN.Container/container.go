package container

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Config"
	logger "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Logger"
	implementation "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Implementation"
	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

// ApiContainer manages dependencies for the API service
type ApiContainer struct {
	config *config.Config
	logger *logger.Logger

	mu          sync.Mutex
	db          *sql.DB
	mongoClient *mongo.Client
	kvStore     interfaces.KVStore

	cleanupFuncs []func(ctx context.Context) error
}

// IngestorContainer manages dependencies for the MQTT ingestor service
type IngestorContainer struct {
	config *config.IngestorConfig
	logger *logger.Logger
}

// NewApiContainer creates a new container for the API service
func NewApiContainer() (*ApiContainer, error) {
	cfg, err := config.LoadApiConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load API configuration: %w", err)
	}

	return &ApiContainer{
		config: cfg,
		logger: logger.NewLogger(&cfg.Logging),
	}, nil
}

// NewIngestorContainer creates a new container for the ingestor service
func NewIngestorContainer() (*IngestorContainer, error) {
	cfg, err := config.LoadIngestorConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load ingestor configuration: %w", err)
	}

	return &IngestorContainer{
		config: cfg,
		logger: logger.NewLogger(&cfg.Logging),
	}, nil
}

// GetConfig returns the configuration
func (c *ApiContainer) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the logger
func (c *ApiContainer) GetLogger() *logger.Logger {
	return c.logger
}

// GetConfig returns the ingestor configuration
func (c *IngestorContainer) GetConfig() *config.IngestorConfig {
	return c.config
}

// GetLogger returns the logger
func (c *IngestorContainer) GetLogger() *logger.Logger {
	return c.logger
}

// GetKVStore returns the key-value store for the configured backend,
// connecting on first use.
func (c *ApiContainer) GetKVStore(ctx context.Context) (interfaces.KVStore, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kvStore != nil {
		return c.kvStore, nil
	}

	switch c.config.Store.Backend {
	case "postgres":
		db, err := c.connectPostgres(ctx)
		if err != nil {
			return nil, err
		}
		store := implementation.NewPostgresKVStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure kv schema: %w", err)
		}
		c.kvStore = store
	case "mongo":
		client, err := c.connectMongo(ctx)
		if err != nil {
			return nil, err
		}
		coll := client.Database(c.config.Store.MongoDatabase).Collection(c.config.Store.MongoCollection)
		c.kvStore = implementation.NewMongoKVStore(coll)
	case "memory":
		c.kvStore = implementation.NewMemoryKVStore()
	default:
		return nil, fmt.Errorf("unknown store backend %q", c.config.Store.Backend)
	}

	return c.kvStore, nil
}

func (c *ApiContainer) connectPostgres(ctx context.Context) (*sql.DB, error) {
	if c.db != nil {
		return c.db, nil
	}

	db, err := sql.Open("postgres", c.config.GetPostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	c.db = db
	c.cleanupFuncs = append(c.cleanupFuncs, func(context.Context) error {
		return db.Close()
	})
	return db, nil
}

func (c *ApiContainer) connectMongo(ctx context.Context) (*mongo.Client, error) {
	if c.mongoClient != nil {
		return c.mongoClient, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(c.config.Store.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	c.mongoClient = client
	c.cleanupFuncs = append(c.cleanupFuncs, func(ctx context.Context) error {
		return client.Disconnect(ctx)
	})
	return client, nil
}

// Shutdown releases every resource the container opened
func (c *ApiContainer) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for i := len(c.cleanupFuncs) - 1; i >= 0; i-- {
		if err := c.cleanupFuncs[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.cleanupFuncs = nil
	return firstErr
}

// Shutdown is a no-op for the ingestor container; it holds no connections
func (c *IngestorContainer) Shutdown(context.Context) error {
	return nil
}
