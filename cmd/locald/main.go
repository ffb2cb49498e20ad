// Package main is the entry point for the funcplane local daemon. The
// daemon keeps one emulator in memory and exposes it over HTTP so the
// CLI and scripts share a registry across invocations.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"funcplane/internal/client"
	"funcplane/internal/config"
	"funcplane/internal/logger"
	"funcplane/internal/observability"
	"funcplane/internal/runtime"
	"funcplane/internal/server"
	"funcplane/internal/server/handlers"
	"funcplane/internal/store"
	"funcplane/internal/store/memory"
	"funcplane/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg := logger.New(logger.ParseLevel(cfg.LogLevel))
	ctx := context.Background()

	// Registry
	var registry store.Registry
	var pinger handlers.Pinger
	switch cfg.StoreDriver {
	case "postgres":
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer pg.Close()
		registry = pg
		pinger = pg
		logg.Info("using postgres registry")
	default:
		mem := memory.New()
		registry = mem
		pinger = mem
		logg.Info("using in-memory registry")
	}

	// Tracing
	if cfg.OTELEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, "funcplane-locald", cfg.OTELEndpoint)
		if err != nil {
			log.Fatalf("Failed to init tracing: %v", err)
		}
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				log.Printf("Failed to shutdown tracer: %v", err)
			}
		}()
	}

	// Metrics
	metricsHandler, shutdownMetrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to init metrics: %v", err)
	}
	defer func() {
		if err := shutdownMetrics(context.Background()); err != nil {
			log.Printf("Failed to shutdown metrics: %v", err)
		}
	}()

	runMetrics, err := observability.NewRunMetrics()
	if err != nil {
		log.Fatalf("Failed to register run metrics: %v", err)
	}

	// Select runtime based on configuration
	var rt runtime.Runtime
	switch cfg.Runtime {
	case "docker":
		dockerRT, err := runtime.NewDockerRuntime(cfg.RuntimeImage)
		if err != nil {
			log.Fatalf("Failed to create Docker runtime: %v", err)
		}
		rt = dockerRT
		logg.Info("using docker runtime", "image", cfg.RuntimeImage)
	case "kubernetes":
		k8sRT, err := runtime.NewKubernetesRuntime(runtime.KubernetesConfig{
			Namespace: cfg.KubernetesNamespace,
			Image:     cfg.RuntimeImage,
		}, logg)
		if err != nil {
			log.Fatalf("Failed to create Kubernetes runtime: %v", err)
		}
		rt = k8sRT
		logg.Info("using kubernetes runtime", "namespace", cfg.KubernetesNamespace)
	case "exec":
		fallthrough
	default:
		rt = runtime.NewExecRuntime()
		logg.Info("using exec runtime", "interpreter", cfg.Interpreter)
	}

	installer := runtime.NewPipInstaller(cfg.Interpreter, logg)
	emulator := client.New(registry, rt, installer, client.Config{
		Interpreter: cfg.Interpreter,
		InTest:      cfg.InTest,
	}, logg)
	emulator.SetMetrics(runMetrics)

	// Start a dedicated metrics server
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsHandler)
		metricsAddr := fmt.Sprintf(":%d", cfg.MetricsPort)
		logg.Info("metrics listening", "addr", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	// Start Server
	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := server.New(addr, emulator, server.Options{
		Pinger:         pinger,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	go func() {
		logg.Info("funcplane daemon starting", "addr", addr)
		if err := srv.Run(ctx); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("shutting down daemon")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	logg.Info("server exited properly")
}
