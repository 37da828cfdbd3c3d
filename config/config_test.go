package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %q", cfg.Server.Port)
	}
	if cfg.Warehouse.Timezone != "America/Los_Angeles" {
		t.Errorf("default timezone = %q", cfg.Warehouse.Timezone)
	}
	if cfg.Queue.PriorityOrder != "fifo" {
		t.Errorf("default priority order = %q", cfg.Queue.PriorityOrder)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db.internal:27017")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("QUEUE_PRIORITY_ORDER", "lifo")
	t.Setenv("NETSUITE_VALIDATION_URL", "https://lambda.example.com/validate")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Mongo.URI != "mongodb://db.internal:27017" {
		t.Errorf("mongo uri = %q", cfg.Mongo.URI)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Queue.PriorityOrder != "lifo" {
		t.Errorf("priority order = %q", cfg.Queue.PriorityOrder)
	}
	if cfg.NetSuite.ValidationURL != "https://lambda.example.com/validate" {
		t.Errorf("validation url = %q", cfg.NetSuite.ValidationURL)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: "7070"
mongo:
  uri: "mongodb://localhost:27017"
  dbName: "pickup"
warehouse:
  timezone: "America/New_York"
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Mongo.DBName != "pickup" {
		t.Errorf("db name = %q", cfg.Mongo.DBName)
	}
	if cfg.Warehouse.Timezone != "America/New_York" {
		t.Errorf("timezone = %q", cfg.Warehouse.Timezone)
	}
}
