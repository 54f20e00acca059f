package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"pixelmart/internal/config"
	"pixelmart/internal/http/handlers"
	applog "pixelmart/internal/log"
	"pixelmart/internal/repos"
	"pixelmart/internal/services"
	"pixelmart/internal/telemetry"
)

const serviceVersion = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	ctx := context.Background()

	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint, cfg.ServiceName, serviceVersion)
		if err != nil {
			log.Fatal(err)
		}
		defer func() { _ = shutdownTracer(context.Background()) }()
	}

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(cfg.ServiceName, serviceVersion)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = shutdownMeter(context.Background()) }()
	if err := runtime.Start(); err != nil {
		log.Printf("[warn] runtime metrics disabled: %v", err)
	}
	metrics, err := telemetry.NewMetrics()
	if err != nil {
		log.Fatal(err)
	}

	sink := buildSink(cfg)
	defer func() { _ = sink.Close() }()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	repo := repos.NewStateRepo(db)
	st, err := repo.Load(ctx)
	if err != nil {
		log.Fatal(err)
	}
	shop := services.NewShop(st, repo)

	adminAuth := services.NewAdminAuth(adminVerifier(cfg.AdminSecret))
	deps := handlers.NewDeps(shop, sink, metrics, adminAuth)

	appCfg := handlers.AppConfig()
	appCfg.ReadTimeout = 10 * time.Second
	appCfg.WriteTimeout = 10 * time.Second
	app := fiber.New(appCfg)

	app.Get("/metrics", adaptor.HTTPHandler(metricsHandler))
	handlers.Install(app, true)
	handlers.Register(app, deps)
	app.Use(handlers.NotFound)

	go func() {
		applog.Info(nil, "server.start", map[string]any{"port": cfg.Port})
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	applog.Info(nil, "server.stop", nil)
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		applog.Error(nil, "server.shutdown", err, nil)
	}
}

func buildSink(cfg config.Config) telemetry.Sink {
	var sinks telemetry.MultiSink
	if cfg.TelemetryURL != "" {
		sinks = append(sinks, telemetry.NewHTTPSink(cfg.TelemetryURL))
	}
	if len(cfg.KafkaBrokers) > 0 {
		sinks = append(sinks, telemetry.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic))
	}
	if len(sinks) == 0 {
		return telemetry.NopSink{}
	}
	return sinks
}

// adminVerifier refuses every secret when none is configured.
func adminVerifier(secret string) services.CredentialVerifier {
	if secret == "" {
		log.Printf("[warn] ADMIN_SECRET not set; admin login disabled")
		return denyAll{}
	}
	v, err := services.NewSecretVerifier(secret)
	if err != nil {
		log.Fatal(err)
	}
	return v
}

type denyAll struct{}

func (denyAll) Verify(string) bool { return false }
