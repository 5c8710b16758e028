package mysql

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"idxlint/internal/schema"
)

func TestLoadIndexes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"TABLE_NAME", "INDEX_NAME", "COLUMN_NAME", "NON_UNIQUE"}).
		AddRow("users", "PRIMARY", "user_id", false).
		AddRow("users", "uq_users_email", "email", false).
		AddRow("users", "idx_users_region_city", "region", true).
		AddRow("users", "idx_users_region_city", "city", true).
		AddRow("orders", "PRIMARY", "order_id", false)

	mock.ExpectQuery("SELECT.*FROM information_schema.STATISTICS").
		WithArgs("shop").
		WillReturnRows(rows)

	snap, err := LoadIndexes(db, "shop")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	users := snap.Indexes("users")
	if len(users) != 3 {
		t.Fatalf("expected 3 users indexes, got %d: %+v", len(users), users)
	}

	byName := make(map[string]schema.IndexInfo)
	for _, idx := range users {
		byName[idx.Name] = idx
	}
	if pk := byName["PRIMARY"]; pk.Kind != schema.PrimaryKey {
		t.Errorf("PRIMARY kind = %s, want %s", pk.Kind, schema.PrimaryKey)
	}
	if uq := byName["uq_users_email"]; uq.Kind != schema.UniqueIndex {
		t.Errorf("unique index kind = %s, want %s", uq.Kind, schema.UniqueIndex)
	}
	composite := byName["idx_users_region_city"]
	if composite.Kind != schema.SecondaryIndex {
		t.Errorf("composite kind = %s, want %s", composite.Kind, schema.SecondaryIndex)
	}
	if len(composite.Columns) != 2 || composite.Columns[0] != "region" || composite.Columns[1] != "city" {
		t.Errorf("composite columns = %v, want ['region', 'city'] in key order", composite.Columns)
	}

	if len(snap.Indexes("orders")) != 1 {
		t.Errorf("expected 1 orders index, got %d", len(snap.Indexes("orders")))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestLoadIndexes_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT.*FROM information_schema.STATISTICS").
		WithArgs("shop").
		WillReturnError(errors.New("access denied"))

	if _, err := LoadIndexes(db, "shop"); err == nil {
		t.Error("expected error on query failure, got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestLoadIndexes_EmptySchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT.*FROM information_schema.STATISTICS").
		WithArgs("empty").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME", "INDEX_NAME", "COLUMN_NAME", "NON_UNIQUE"}))

	snap, err := LoadIndexes(db, "empty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Tables() != 0 {
		t.Errorf("Tables() = %d, want 0", snap.Tables())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
