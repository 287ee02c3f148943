// Package web is the HTTP adapter over the storefront core: auth, catalog
// and cart endpoints returning the component responses as JSON.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/electrostore/storefront/cart"
	"github.com/electrostore/storefront/entities"
	"github.com/electrostore/storefront/session"
	"github.com/electrostore/storefront/token"
)

type Config struct {
	Addr     string
	Debug    bool
	Sessions *session.Store
	Cart     *cart.Engine
	Catalog  entities.CatalogProvider
	Tokens   *token.Manager
	Logger   *zap.Logger
}

// Start serves until ctx is done, then shuts the server down gracefully.
func Start(ctx context.Context, cfg Config) error {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			cfg.Logger.Warn("server shutdown failed", zap.Error(err))
		}
	}()

	cfg.Logger.Info("http server listening", zap.String("addr", cfg.Addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// NewRouter builds the gin engine with all routes registered. Split out of
// Start so tests can drive it with httptest.
func NewRouter(cfg Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	s := server{
		sessions: cfg.Sessions,
		cart:     cfg.Cart,
		catalog:  cfg.Catalog,
		tokens:   cfg.Tokens,
		logger:   cfg.Logger,
	}

	auth := router.Group("/auth")
	{
		auth.POST("/login", s.login)
		auth.POST("/register", s.register)
		auth.POST("/logout", s.logout)
	}

	products := router.Group("/products")
	{
		products.GET("", s.listProducts)
		products.GET("/featured", s.featuredProducts)
		products.GET("/:id", s.getProduct)
	}

	authed := router.Group("/cart")
	authed.Use(s.requireToken)
	{
		authed.GET("", s.getCart)
		authed.GET("/summary", s.getSummary)
		authed.POST("/items", s.addItem)
		authed.PUT("/items/:id", s.updateQuantity)
		authed.DELETE("/items/:id", s.removeItem)
		authed.DELETE("", s.clearCart)
	}

	return router
}
