package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCoreMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_core_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no core migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE TABLE IF NOT EXISTS ad_sources",
		"CREATE TABLE IF NOT EXISTS media_buying_entries",
		"CREATE TABLE IF NOT EXISTS media_buying_budgets",
		"CREATE TABLE IF NOT EXISTS budget_alerts",
		"CREATE TABLE IF NOT EXISTS lead_conversions",
		"CREATE TABLE IF NOT EXISTS exchange_rates",
		"CREATE UNIQUE INDEX IF NOT EXISTS uix_budgets_period_source",
		"CREATE UNIQUE INDEX IF NOT EXISTS uix_budget_alerts_period",
		"CREATE UNIQUE INDEX IF NOT EXISTS uix_lead_conversions_entry_order",
		"DROP TABLE IF EXISTS media_buying_entries",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
