// Package config handles environment variable loading for the local daemon.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration values for the application.
type Config struct {
	// HTTP server port for the local daemon
	HTTPPort int

	// Dedicated metrics server port
	MetricsPort int

	// Registry store driver: "memory" (default) or "postgres"
	StoreDriver string

	// Database connection string, required for the postgres driver
	DatabaseURL string

	// Interpreter used to run function entrypoints and install dependencies
	Interpreter string

	// Runtime backend: "exec" (default), "docker" or "kubernetes"
	Runtime string

	// Interpreter image for the docker and kubernetes runtimes
	RuntimeImage string

	// Namespace for the kubernetes runtime
	KubernetesNamespace string

	// OTLP collector endpoint for tracing (empty disables tracing)
	OTELEndpoint string

	// Log level: debug, info, warn, error
	LogLevel string

	// Requests per second allowed by the daemon, 0 means unlimited
	RateLimitRPS float64

	// Burst size for the rate limiter
	RateLimitBurst int

	// InTest switches file operations from "fail" to "warn and return empty".
	// The IN_TEST key is a contract with the test harnesses of remote clients.
	InTest bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	port := 7171 // Default
	if portStr := os.Getenv("PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		port = p
	}

	metricsPort := 7172 // Default
	if portStr := os.Getenv("METRICS_PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid METRICS_PORT: %w", err)
		}
		metricsPort = p
	}

	storeDriver := os.Getenv("STORE_DRIVER")
	if storeDriver == "" {
		storeDriver = "memory"
	}

	dbURL := os.Getenv("DATABASE_URL")
	if storeDriver == "postgres" && dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required with STORE_DRIVER=postgres")
	}

	interpreter := os.Getenv("INTERPRETER")
	if interpreter == "" {
		interpreter = "python"
	}

	rt := os.Getenv("RUNTIME")
	if rt == "" {
		rt = "exec"
	}

	image := os.Getenv("RUNTIME_IMAGE")
	if image == "" {
		image = "python:3.11-slim"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	rps := 0.0
	if rpsStr := os.Getenv("RATE_LIMIT_RPS"); rpsStr != "" {
		r, err := strconv.ParseFloat(rpsStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
		}
		rps = r
	}

	burst := 1
	if burstStr := os.Getenv("RATE_LIMIT_BURST"); burstStr != "" {
		b, err := strconv.Atoi(burstStr)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
		}
		burst = b
	}

	return &Config{
		HTTPPort:            port,
		MetricsPort:         metricsPort,
		StoreDriver:         storeDriver,
		DatabaseURL:         dbURL,
		Interpreter:         interpreter,
		Runtime:             rt,
		RuntimeImage:        image,
		KubernetesNamespace: os.Getenv("KUBERNETES_NAMESPACE"),
		OTELEndpoint:        os.Getenv("OTEL_ENDPOINT"),
		LogLevel:            logLevel,
		RateLimitRPS:        rps,
		RateLimitBurst:      burst,
		InTest:              os.Getenv("IN_TEST") != "",
	}, nil
}
