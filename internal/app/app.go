package app

import (
	"github.com/charleyoshi/stock-trading-simulator/internal/auth"
	"github.com/charleyoshi/stock-trading-simulator/internal/config"
	"github.com/charleyoshi/stock-trading-simulator/internal/database"
	"github.com/charleyoshi/stock-trading-simulator/internal/health"
	"github.com/charleyoshi/stock-trading-simulator/internal/history"
	"github.com/charleyoshi/stock-trading-simulator/internal/middleware"
	"github.com/charleyoshi/stock-trading-simulator/internal/portfolio"
	"github.com/charleyoshi/stock-trading-simulator/internal/quotes"
	"github.com/charleyoshi/stock-trading-simulator/internal/trading"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. Returns the DB and Redis handles so main can verify the
// connections before listening.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	fiberApp := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	fiberApp.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
	}))

	// Session (Redis)
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	fiberApp.Use(sessionHandler)

	// Tracing + route logger
	fiberApp.Use(middleware.Tracing())
	fiberApp.Use(middleware.RouteLogger())

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	// Health (no auth)
	healthHandlers := &health.Handlers{DB: db, Rdb: rdb}
	fiberApp.Get("/health", healthHandlers.Check)

	// Auth (no auth middleware)
	authService := &auth.Service{DB: db}
	authHandlers := &auth.Handlers{Service: authService, Rdb: rdb, Config: sessionCfg}
	authGroup := fiberApp.Group("/api/v1/auth")
	authGroup.Post("/register", authHandlers.Register)
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// Quote source shared by the portfolio valuator and the trading engine
	quoteSource := quotes.NewClient(cfg.QuoteAPIURL, cfg.QuoteAPIKey, rdb)

	// --- Protected modules (auth required) ---

	portfolioService := &portfolio.Service{DB: db, Quotes: quoteSource}
	portfolioHandlers := &portfolio.Handlers{Service: portfolioService}
	fiberApp.Get("/api/v1/portfolio", middleware.RequireAuth(), portfolioHandlers.Get)

	tradingService := &trading.Service{DB: db, Quotes: quoteSource}
	tradingHandlers := &trading.Handlers{Service: tradingService}
	tradingGroup := fiberApp.Group("/api/v1/trading", middleware.RequireAuth())
	tradingGroup.Post("/buy", tradingHandlers.Buy)
	tradingGroup.Post("/sell", tradingHandlers.Sell)
	tradingGroup.Post("/add-cash", tradingHandlers.AddCash)

	quoteHandlers := &quotes.Handlers{Source: quoteSource}
	fiberApp.Get("/api/v1/quotes/:symbol", middleware.RequireAuth(), quoteHandlers.Get)

	historyService := &history.Service{DB: db}
	historyHandlers := &history.Handlers{Service: historyService}
	fiberApp.Get("/api/v1/history", middleware.RequireAuth(), historyHandlers.Get)

	return fiberApp, db, rdb, nil
}
