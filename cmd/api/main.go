package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/userhub/users-service/internal/api"
	"github.com/userhub/users-service/internal/core/ports"
	"github.com/userhub/users-service/internal/core/service"
	"github.com/userhub/users-service/internal/infrastructure/config"
	"github.com/userhub/users-service/internal/infrastructure/db/mongo"
	"github.com/userhub/users-service/internal/infrastructure/db/postgres"
	rediscache "github.com/userhub/users-service/internal/infrastructure/db/redis"
	httpserver "github.com/userhub/users-service/internal/infrastructure/http"
	"github.com/userhub/users-service/internal/infrastructure/http/handlers"
	"github.com/userhub/users-service/pkg/logger"
)

const serviceName = "users-service"

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
		Env:     cfg.Env,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("service stopped with error")
	}
	log.Info().Msg("service stopped")
}

// storage bundles the repositories of the selected driver with its health
// check and cleanup.
type storage struct {
	users ports.UserRepository
	roles ports.RoleRepository
	check handlers.Check
	close func(context.Context)
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.close(context.Background())

	checks := []handlers.Check{store.check}
	users, roles := store.users, store.roles

	if cfg.Redis.Enabled {
		rdb, err := rediscache.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()

		cached := rediscache.NewCachedUserRepository(users, rediscache.NewClientStore(rdb), cfg.Redis.CacheTTL, log)
		users = cached
		roles = rediscache.NewCachedRoleRepository(roles, cached)
		checks = append(checks, handlers.RedisCheck(rdb))
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("redis user cache enabled")
	}

	userService := service.NewUserService(users, service.NewBcryptHasher(cfg.BcryptCost), log)
	roleService := service.NewRoleService(users, roles, log)

	public := httpserver.NewEcho(log)
	public.Use(echoprometheus.NewMiddleware("users"))
	api.RegisterPublicRoutes(public, api.Dependencies{
		Users:  userService,
		Roles:  roleService,
		Checks: checks,
	})

	internal := httpserver.NewEcho(log)
	api.RegisterInternalRoutes(internal, userService)

	servers := []*httpserver.Server{
		httpserver.NewServer("public", ":"+cfg.Port, public, log),
		httpserver.NewServer("internal", ":"+cfg.InternalPort, internal, log),
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(srv.Start)
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		if err := postgres.RunMigrations(cfg.Postgres.URL, log); err != nil {
			return nil, err
		}
		pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL})
		if err != nil {
			return nil, err
		}
		log.Info().Msg("connected to postgres")
		return &storage{
			users: postgres.NewUserRepository(pool),
			roles: postgres.NewRoleRepository(pool),
			check: handlers.PostgresCheck(pool),
			close: func(context.Context) { pool.Close() },
		}, nil

	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return &storage{
			users: mongo.NewUserRepository(db),
			roles: mongo.NewRoleRepository(db),
			check: handlers.MongoCheck(db),
			close: func(ctx context.Context) { _ = client.Disconnect(ctx) },
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
}
