/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package proxy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Address != defaultAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
	if cfg.TransferThreshold != defaultTransferThreshold {
		t.Fatalf("expected default transfer threshold, got %d", cfg.TransferThreshold)
	}
	if cfg.EventBufferHighWater != defaultEventBufferHighWater {
		t.Fatalf("expected default event buffer high water, got %d", cfg.EventBufferHighWater)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxy.yaml")
	content := []byte("address: 0.0.0.0:9999\ntransferThreshold: 16384\nworkerThreads: 8\ndefaultScope: tenant-a\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Address != "0.0.0.0:9999" || cfg.TransferThreshold != 16384 ||
		cfg.WorkerThreads != 8 || cfg.DefaultScope != "tenant-a" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadConfigEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxy.yaml")
	if err := os.WriteFile(path, []byte("transferThreshold: 16384\n"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	t.Setenv(envTransferThreshold, "1024")
	t.Setenv(envDefaultScope, "env-scope")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.TransferThreshold != 1024 {
		t.Fatalf("expected env override 1024, got %d", cfg.TransferThreshold)
	}
	if cfg.DefaultScope != "env-scope" {
		t.Fatalf("expected env scope, got %q", cfg.DefaultScope)
	}
}

func TestLoadConfigRejectsNonPositiveKnobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxy.yaml")
	if err := os.WriteFile(path, []byte("transferThreshold: -1\neventBufferHighWater: 0\n"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.TransferThreshold != defaultTransferThreshold {
		t.Fatalf("expected threshold fallback, got %d", cfg.TransferThreshold)
	}
	if cfg.EventBufferHighWater != defaultEventBufferHighWater {
		t.Fatalf("expected buffer fallback, got %d", cfg.EventBufferHighWater)
	}
}
