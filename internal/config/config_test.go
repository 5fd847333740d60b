package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Driver: "valkey",
			Addrs:  []string{"localhost:6379"},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingValkeyAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = []string{}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing valkey addrs")
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "postgres"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}

	expected := `database.driver must be "valkey" or "redis", got "postgres"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_NegativeTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.SchemaTTLSec = -1

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative ttl")
	}
}

func TestValidate_EmptyMappingPath(t *testing.T) {
	cfg := validConfig()
	cfg.Mappings.Paths = []string{"products.yaml", "  "}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for empty mapping path")
	}
	if err.Error() != "mappings.paths[1] is empty" {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.HTTP.MaxBodyBytes != 4<<20 {
		t.Errorf("expected MaxBodyBytes=4MiB, got %d", cfg.HTTP.MaxBodyBytes)
	}
	if cfg.Database.Driver != "valkey" {
		t.Errorf("expected Driver=valkey, got %q", cfg.Database.Driver)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Storage.KeyPrefix != "schemaguard:" {
		t.Errorf("expected KeyPrefix='schemaguard:', got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.SchemaTTL() != 0 {
		t.Errorf("expected no ttl, got %v", cfg.SchemaTTL())
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5, MaxBodyBytes: 1024},
		Database: DatabaseConfig{Driver: "redis", ReadinessTimeout: 15},
		Storage:  StorageConfig{KeyPrefix: "custom:", SchemaTTLSec: 3600},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.MaxBodyBytes != 1024 {
		t.Errorf("expected MaxBodyBytes=1024, got %d", cfg.HTTP.MaxBodyBytes)
	}
	if cfg.Database.Driver != "redis" {
		t.Errorf("expected Driver=redis, got %q", cfg.Database.Driver)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.SchemaTTL() != time.Hour {
		t.Errorf("expected ttl=1h, got %v", cfg.SchemaTTL())
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SG_TEST_ADDR", "valkey:6379")
	t.Setenv("SG_TEST_MISSING", "")

	in := []byte("a: ${SG_TEST_ADDR}\nb: ${SG_TEST_MISSING:-fallback}\nc: ${SG_TEST_MISSING}\n")
	got := string(expandEnvVars(in))

	want := "a: valkey:6379\nb: fallback\nc: \n"
	if got != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestLoad_Local(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_ADDR", "cache:6380")

	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if len(cfg.Database.Addrs) != 1 || cfg.Database.Addrs[0] != "cache:6380" {
		t.Errorf("unexpected addrs: %v", cfg.Database.Addrs)
	}
	if cfg.Storage.KeyPrefix != "schemaguard:" {
		t.Errorf("unexpected key prefix: %q", cfg.Storage.KeyPrefix)
	}
}

func TestLoad_MissingEnv(t *testing.T) {
	if _, err := Load("does-not-exist"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
