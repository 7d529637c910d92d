package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"irs-responder/internal/auth/credentials"
	"irs-responder/internal/auth/handler"
	"irs-responder/internal/auth/provider"
	"irs-responder/internal/auth/provider/google"
	"irs-responder/internal/auth/provider/keycloak"
	"irs-responder/internal/auth/resolver"
	"irs-responder/internal/config"
	"irs-responder/internal/guard"
	"irs-responder/internal/logger"
	"irs-responder/internal/middleware"
	"irs-responder/internal/responder"
	responderhandler "irs-responder/internal/responder/handler"
	"irs-responder/internal/session"
	"irs-responder/internal/web"
)

// Healthchecker is implemented by every backing service.
type Healthchecker interface {
	Healthcheck(ctx context.Context) error
}

// Deps are the collaborators the router needs.
type Deps struct {
	SessionStore session.Store
	Identities   resolver.Resolver
	Credentials  handler.CredentialService
	Drafts       responder.Repository
	Providers    *provider.Registry
	Health       map[string]Healthchecker
}

func setupProviders(ctx context.Context, cfg config.Config) (*provider.Registry, error) {
	var list []provider.OAuthProvider

	if cfg.GoogleEnabled() {
		p, err := google.New(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if cfg.KeycloakEnabled() {
		p, err := keycloak.New(
			ctx,
			cfg.KeycloakIssuer,
			cfg.KeycloakClientID,
			cfg.KeycloakRedirectURL,
			cfg.KeycloakPublicBaseURL,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	registry := provider.NewRegistry(list...)
	logger.Info("oauth providers configured", map[string]any{
		"providers": registry.Names(),
	})
	return registry, nil
}

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	registry, err := setupProviders(ctx, cfg)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	router, err := NewRouter(cfg, Deps{
		SessionStore: session.NewRedisStore(infra.Redis.Client),
		Identities:   resolver.NewDBResolver(infra.DB),
		Credentials:  credentials.NewService(infra.DB),
		Drafts:       responder.NewSQLRepository(infra.DB),
		Providers:    registry,
		Health: map[string]Healthchecker{
			"database": infra.DB,
			"redis":    infra.Redis,
		},
	})
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	return router, infra.Close, nil
}

// NewRouter builds the gin engine: public routes, page routes behind the page
// guard and API routes behind the API guard.
func NewRouter(cfg config.Config, deps Deps) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	sessions := guard.NewStoreResolver(deps.SessionStore)

	authHandler := handler.NewHandler(
		deps.Providers,
		deps.SessionStore,
		deps.Identities,
		deps.Credentials,
		handler.Options{
			SessionTTL:   cfg.SessionTTL,
			CookieSecure: cfg.CookieSecure,
			LoginPath:    cfg.LoginPath,
		},
	)
	draftHandler := responderhandler.NewHandler(responder.NewService(deps.Drafts))

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	// Engine level so preflight requests for unmatched OPTIONS routes are answered.
	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	router.SetHTMLTemplate(tmpl)

	// Public

	authHandler.RegisterRoutes(router)

	router.GET("/health", health(deps.Health))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/", func(c *gin.Context) {
		if _, ok := sessions.Current(c.Request); ok {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		c.Redirect(http.StatusFound, cfg.LoginPath)
	})

	// Pages

	pages := router.Group("/")
	pages.Use(middleware.GinRequirePage(sessions, cfg.LoginPath))
	draftHandler.RegisterPages(pages)

	// API

	api := router.Group("/api")
	api.Use(middleware.GinRequireAPI(sessions))
	draftHandler.RegisterAPI(api)

	return router, nil
}

func health(checks map[string]Healthchecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		result := gin.H{}
		for name, check := range checks {
			if err := check.Healthcheck(ctx); err != nil {
				status = http.StatusServiceUnavailable
				result[name] = err.Error()
				continue
			}
			result[name] = "ok"
		}

		result["status"] = "ok"
		if status != http.StatusOK {
			result["status"] = "degraded"
		}
		c.JSON(status, result)
	}
}
