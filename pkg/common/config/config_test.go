package config

import (
	"testing"
)

func TestGetStringSliceEnvSplitsOnCommas(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker-a:9092, broker-b:9092 ,")

	cfg := Load()
	if len(cfg.KafkaBrokers) != 2 {
		t.Fatalf("expected 2 brokers, got %v", cfg.KafkaBrokers)
	}
	if cfg.KafkaBrokers[0] != "broker-a:9092" || cfg.KafkaBrokers[1] != "broker-b:9092" {
		t.Fatalf("expected trimmed broker addresses, got %v", cfg.KafkaBrokers)
	}
}

func TestGetStringSliceEnvDefaults(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "localhost:9092" {
		t.Fatalf("expected the default broker list, got %v", cfg.KafkaBrokers)
	}

	t.Setenv("KAFKA_BROKERS", " , ,")
	cfg = Load()
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "localhost:9092" {
		t.Fatalf("expected the default broker list for a blank value, got %v", cfg.KafkaBrokers)
	}
}
