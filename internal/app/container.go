package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"skill-ledger/internal/config"
	"skill-ledger/internal/database/migration"
	dbpostgres "skill-ledger/internal/database/postgres"
	"skill-ledger/internal/domain/searchlog"
	"skill-ledger/internal/infrastructure/cache"
	"skill-ledger/internal/infrastructure/ledger"
	"skill-ledger/internal/infrastructure/persistence/mongodb"
	pgrepo "skill-ledger/internal/infrastructure/persistence/postgres"
	"skill-ledger/internal/pkg/jwt"
	"skill-ledger/internal/usecase"
	"skill-ledger/internal/ws"
)

// Container owns every long-lived resource the server needs. Close releases
// them in reverse order of construction.
type Container struct {
	Config config.Config
	Logger *log.Logger

	Mongo    *mongodb.DB
	Postgres *dbpostgres.Pool
	Ledger   usecase.Ledger
	Cache    usecase.Cache
	Hub      *ws.Hub
	JWT      jwt.Service

	Employees usecase.EmployeeUsecase
	Skills    usecase.SkillUsecase
	Search    usecase.SearchUsecase

	closers []func() error
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}
	c := &Container{Config: cfg, Logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.initStores(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.initLedger(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.initCache()

	searchLog, err := c.initSearchLog(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Hub = ws.NewHub(logger)
	if cfg.Admin.JWTSecret != "" {
		c.JWT = jwt.NewHMACService(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	} else {
		logger.Printf("[App] ADMIN_JWT_SECRET not set, admin routes are unauthenticated")
	}

	employees := mongodb.NewEmployeeRepository(c.Mongo)
	c.Employees = usecase.NewEmployeeService(employees, mongodb.NewSkillMetaRepository(c.Mongo), logger)
	c.Skills = usecase.NewSkillService(employees, c.Ledger, usecase.SkillServiceOptions{
		Cache:    c.Cache,
		CacheTTL: cfg.Cache.TTL,
		Notifier: c.Hub,
		Logger:   logger,
	})
	c.Search = usecase.NewSearchService(employees, c.Ledger, searchLog, usecase.SearchServiceOptions{
		Cache:       c.Cache,
		CacheTTL:    cfg.Cache.TTL,
		Concurrency: cfg.App.SearchConcurrency,
		Logger:      logger,
	})

	return c, nil
}

func (c *Container) initStores(ctx context.Context) error {
	db, err := mongodb.Connect(ctx, c.Config.Mongo)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	c.Mongo = db
	c.closers = append(c.closers, func() error {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return db.Close(closeCtx)
	})

	if err := db.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}

func (c *Container) initLedger(ctx context.Context) error {
	if !c.Config.Ledger.Enabled {
		c.Logger.Printf("[App] ledger disabled, confirmations will not be mirrored")
		c.Ledger = ledger.Noop{}
		return nil
	}

	client, err := ledger.Dial(ctx, c.Config.Ledger, c.Logger)
	if err != nil {
		return fmt.Errorf("dial ledger: %w", err)
	}
	c.Ledger = client
	c.closers = append(c.closers, func() error {
		client.Close()
		return nil
	})
	return nil
}

func (c *Container) initCache() {
	cfg := c.Config.Cache
	switch cfg.Driver {
	case config.CacheDriverRedis:
		r := cache.NewRedis(cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL,
		}, c.Logger)
		c.Cache = r
		c.closers = append(c.closers, r.Close)
	case config.CacheDriverNone:
		c.Cache = cache.Noop{}
	default:
		c.Cache = cache.NewMemory(cfg.Size, cfg.TTL)
	}
	c.Logger.Printf("[App] cache ready | driver=%s ttl=%s", cfg.Driver, cfg.TTL)
}

func (c *Container) initSearchLog(ctx context.Context) (searchlog.Repository, error) {
	if c.Config.SearchLog.Driver != config.SearchLogDriverPostgres {
		return mongodb.NewSearchLogRepository(c.Mongo), nil
	}

	pool, err := dbpostgres.Connect(ctx, c.Config.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	c.Postgres = pool
	c.closers = append(c.closers, pool.Close)

	if err := (migration.Runner{Logger: c.Logger}).Run(ctx, pool.SQLDB()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return pgrepo.NewSearchLogRepository(pool), nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
