package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/electrostore/storefront/cart"
	"github.com/electrostore/storefront/catalog"
	"github.com/electrostore/storefront/config"
	"github.com/electrostore/storefront/kv"
	"github.com/electrostore/storefront/session"
	"github.com/electrostore/storefront/token"
	"github.com/electrostore/storefront/web"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.Debug)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := newStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}

	tokens := token.New(token.WithLifetime(cfg.TokenLifetime))

	sessions := session.New(store, tokens,
		session.WithLogger(logger.Named("session")),
		session.WithDelay(cfg.SimulatedDelay),
	)

	products := catalog.New(
		catalog.WithLogger(logger.Named("catalog")),
		catalog.WithDelay(cfg.SimulatedDelay, cfg.SimulatedDelay/2),
	)

	engine := cart.New(store, products, sessions, cart.WithLogger(logger.Named("cart")))

	// Restore runs before the engine subscription goes live so the engine
	// only ever observes a settled authentication state.
	sessions.Restore(ctx)

	go engine.Run(ctx)

	seedDemoUsers(ctx, sessions, logger)

	err = web.Start(ctx, web.Config{
		Addr:     cfg.Addr,
		Debug:    cfg.Debug,
		Sessions: sessions,
		Cart:     engine,
		Catalog:  products,
		Tokens:   tokens,
		Logger:   logger.Named("web"),
	})
	if err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}

func newLogger(debug bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)

	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}

	if err != nil {
		panic(err)
	}

	return logger
}

func newStore(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		return kv.NewSQLite(cfg.SQLitePath)
	case config.StoreRedis:
		return kv.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return kv.NewMemory(), nil
	}
}

// seedDemoUsers registers the demo accounts through the normal path and
// signs back out, leaving a clean unauthenticated state.
func seedDemoUsers(ctx context.Context, sessions *session.Store, logger *zap.Logger) {
	if sessions.IsAuthenticated() {
		// A live restored session means the store is already populated.
		return
	}

	demos := []session.Registration{
		{
			Email:           "admin@electrostore.com",
			Password:        "Admin123!",
			ConfirmPassword: "Admin123!",
			FirstName:       "Administrador",
			LastName:        "ElectroStore",
			Phone:           "+57 300 1234567",
		},
		{
			Email:           "demo@electrostore.com",
			Password:        "Demo1234!",
			ConfirmPassword: "Demo1234!",
			FirstName:       "Usuario",
			LastName:        "Demo",
		},
	}

	seeded := false

	for _, reg := range demos {
		resp := sessions.Register(ctx, reg)
		if resp.Success {
			seeded = true
		}
	}

	if seeded {
		sessions.Logout(ctx)
		logger.Info("demo users seeded")
	}
}
