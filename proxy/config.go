/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package proxy

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	envAddress              = "GRIDCACHE_PROXY_ADDRESS"
	envTransferThreshold    = "GRIDCACHE_TRANSFER_THRESHOLD"
	envEventBufferHighWater = "GRIDCACHE_EVENT_BUFFER_HIGH_WATER"
	envWorkerThreads        = "GRIDCACHE_WORKER_THREADS"
	envDefaultScope         = "GRIDCACHE_DEFAULT_SCOPE"
	envRequestDeadline      = "GRIDCACHE_REQUEST_DEADLINE"

	defaultAddress              = "localhost:1408"
	defaultTransferThreshold    = 524288
	defaultEventBufferHighWater = 8192
	defaultRequestDeadline      = 30 * time.Second
)

// Config holds the proxy configuration knobs. Values are read from an
// optional YAML file with environment variables taking precedence.
type Config struct {
	// Address is the gRPC listen address.
	Address string `yaml:"address"`

	// MetricsAddress is the HTTP listen address for metrics; empty disables it.
	MetricsAddress string `yaml:"metricsAddress"`

	// TransferThreshold is the soft byte cap on one page of a cursor
	// iteration. A page always contains at least one entry so a single large
	// entry can exceed the threshold by its own size.
	TransferThreshold int `yaml:"transferThreshold"`

	// EventBufferHighWater bounds the per-stream event buffer. A subscriber
	// that falls further behind is terminated with RESOURCE_EXHAUSTED rather
	// than having events silently dropped.
	EventBufferHighWater int `yaml:"eventBufferHighWater"`

	// WorkerThreads sizes the executor pool.
	WorkerThreads int `yaml:"workerThreads"`

	// DefaultScope is applied when a request carries no scope.
	DefaultScope string `yaml:"defaultScope"`

	// RequestDeadlineMillis is the client-side ensure-cache wait in
	// milliseconds.
	RequestDeadlineMillis int64 `yaml:"requestDeadlineMillis"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Address:               defaultAddress,
		TransferThreshold:     defaultTransferThreshold,
		EventBufferHighWater:  defaultEventBufferHighWater,
		WorkerThreads:         runtime.NumCPU(),
		RequestDeadlineMillis: defaultRequestDeadline.Milliseconds(),
	}
}

// LoadConfig reads the YAML file at path when it is non-empty and applies
// environment overrides on top of the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.Address = getStringFromEnvOrDefault(envAddress, cfg.Address)
	cfg.TransferThreshold = getIntFromEnvOrDefault(envTransferThreshold, cfg.TransferThreshold)
	cfg.EventBufferHighWater = getIntFromEnvOrDefault(envEventBufferHighWater, cfg.EventBufferHighWater)
	cfg.WorkerThreads = getIntFromEnvOrDefault(envWorkerThreads, cfg.WorkerThreads)
	cfg.DefaultScope = getStringFromEnvOrDefault(envDefaultScope, cfg.DefaultScope)
	cfg.RequestDeadlineMillis = int64(getIntFromEnvOrDefault(envRequestDeadline, int(cfg.RequestDeadlineMillis)))

	if cfg.TransferThreshold <= 0 {
		cfg.TransferThreshold = defaultTransferThreshold
	}
	if cfg.EventBufferHighWater <= 0 {
		cfg.EventBufferHighWater = defaultEventBufferHighWater
	}
	return cfg, nil
}

func getStringFromEnvOrDefault(name, defaultValue string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return defaultValue
}

func getIntFromEnvOrDefault(name string, defaultValue int) int {
	if value := os.Getenv(name); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
