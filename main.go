package main

import (
	"context"
	"log"

	"github.com/Jeho05/gamezone-checkout/config"
	"github.com/Jeho05/gamezone-checkout/internal/cache"
	"github.com/Jeho05/gamezone-checkout/internal/checkout"
	"github.com/Jeho05/gamezone-checkout/internal/handler"
	"github.com/Jeho05/gamezone-checkout/internal/middleware"
	"github.com/Jeho05/gamezone-checkout/internal/shopapi"
	"github.com/Jeho05/gamezone-checkout/internal/widget"
	"github.com/Jeho05/gamezone-checkout/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()

	// Shop API + cached catalog
	shop := shopapi.NewClient(cfg.ShopAPIBaseURL, cfg.ShopAPIKey)
	redisClient := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
	catalog := cache.NewCatalog(redisClient, shop, cfg.CatalogCacheTTL)

	// Settlement events (optional)
	var publisher checkout.Publisher
	if cfg.RabbitURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer pub.Close()
		publisher = pub
	} else {
		log.Println("RABBIT_URL not set, settlement events disabled")
	}

	// Payment widget: readiness loader, event bus, adapter
	provider := widget.NewHTTPProvider(cfg.WidgetStatusURL, cfg.WidgetInvokeURL, cfg.WidgetAPIKey)
	loader := widget.NewLoader(provider, cfg.WidgetPollInterval, cfg.WidgetPollAttempts)
	loader.Start(context.Background())
	bus := widget.NewBus()
	adapter := widget.NewAdapter(loader, bus, provider, widget.Config{
		APIKey:  cfg.WidgetAPIKey,
		Sandbox: cfg.WidgetSandbox,
		Theme:   cfg.WidgetTheme,
	})

	manager := checkout.NewManager(catalog, shop, adapter, publisher)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "gamezone-checkout"})
	})

	handler.NewCheckoutHandler(manager).RegisterRoutes(e)
	handler.NewCatalogHandler(catalog).RegisterRoutes(e)
	handler.NewPaymentEventsHandler(bus).RegisterRoutes(e)

	log.Printf("Checkout Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
