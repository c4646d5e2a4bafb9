package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mrosales/partsledger-backend/pkg/migrate"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected exactly one migration matching %q, found %d", pattern, len(matches))
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migration directory invalid: %v", err)
	}
}

func TestOrganizationsMigrationEnforcesSingletons(t *testing.T) {
	content := readMigration(t, "*_create_organizations.sql")

	checks := []string{
		"CREATE UNIQUE INDEX ux_organizations_singleton_type",
		"WHERE is_active AND type IN ('primary_distributor', 'manufacturer')",
		"parent_organization_id  UUID REFERENCES organizations(id)",
		"DROP TABLE IF EXISTS organizations",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestLedgerMigrationsEnforceInvariants(t *testing.T) {
	transactions := readMigration(t, "*_create_stock_transactions.sql")
	for _, sub := range []string{
		"CHECK (quantity > 0)",
		"DECIMAL(20,4)",
		"performed_by_user_id  UUID NOT NULL REFERENCES users(id)",
		"ix_stock_transactions_keyset",
	} {
		if !strings.Contains(transactions, sub) {
			t.Errorf("stock_transactions migration missing %q", sub)
		}
	}

	balances := readMigration(t, "*_create_stock_balances.sql")
	for _, sub := range []string{
		"PRIMARY KEY (warehouse_id, part_id)",
		"current_stock  DECIMAL(20,4) NOT NULL DEFAULT 0",
		"version        BIGINT NOT NULL DEFAULT 0",
	} {
		if !strings.Contains(balances, sub) {
			t.Errorf("stock_balances migration missing %q", sub)
		}
	}
}

func TestOutboxMigrationHasUnpublishedIndex(t *testing.T) {
	content := readMigration(t, "*_create_outbox_events.sql")
	for _, sub := range []string{
		"ix_outbox_events_unpublished",
		"WHERE published_at IS NULL",
		"payload         JSONB NOT NULL",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("outbox migration missing %q", sub)
		}
	}
}
