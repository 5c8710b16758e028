package cardinality

import (
	"testing"

	"idxlint/internal/schema"
)

func usersSnapshot() *schema.Snapshot {
	snap := schema.NewSnapshot()
	snap.Add("users", schema.IndexInfo{Kind: schema.PrimaryKey, Name: "PRIMARY", Columns: []string{"user_id"}})
	snap.Add("users", schema.IndexInfo{Kind: schema.UniqueConstraint, Name: "uq_users_email", Columns: []string{"email"}})
	snap.Add("users", schema.IndexInfo{Kind: schema.UniqueIndex, Name: "uq_users_tenant_login", Columns: []string{"tenant_id", "login"}})
	snap.Add("users", schema.IndexInfo{Kind: schema.SecondaryIndex, Name: "idx_users_status", Columns: []string{"status"}})
	snap.Add("users", schema.IndexInfo{Kind: schema.SecondaryIndex, Name: "idx_users_active", Columns: []string{"is_active"}})
	snap.Add("users", schema.IndexInfo{Kind: schema.SecondaryIndex, Name: "idx_users_region_city", Columns: []string{"region", "city"}})
	return snap
}

func TestClassify_PriorityLadder(t *testing.T) {
	cls := NewClassifier(usersSnapshot())

	tests := []struct {
		name   string
		table  string
		column string
		want   Level
	}{
		{"primary key", "users", "user_id", High},
		{"primary key case-insensitive", "USERS", "USER_ID", High},
		{"unique constraint", "users", "email", High},
		{"composite unique member", "users", "login", High},
		{"boolean name beats secondary index", "users", "is_active", Low},
		{"secondary index", "users", "status", Medium},
		{"composite index non-leading member", "users", "city", Medium},
		{"unindexed column", "users", "nickname", Medium},
		{"unknown table", "ghosts", "anything", Medium},
		{"boolean name without metadata", "ghosts", "has_license", Low},
		{"bare boolean name", "ghosts", "deleted", Low},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cls.Classify(tt.table, tt.column); got != tt.want {
				t.Errorf("Classify(%s, %s) = %v, want %v", tt.table, tt.column, got, tt.want)
			}
		})
	}
}

func TestClassify_EmptyInputsDefaultMedium(t *testing.T) {
	cls := NewClassifier(usersSnapshot())
	if got := cls.Classify("", "user_id"); got != Medium {
		t.Errorf("empty table = %v, want Medium", got)
	}
	if got := cls.Classify("users", ""); got != Medium {
		t.Errorf("empty column = %v, want Medium", got)
	}
}

func TestClassify_NilSnapshot(t *testing.T) {
	cls := NewClassifier(nil)
	if got := cls.Classify("users", "user_id"); got != Medium {
		t.Errorf("no metadata = %v, want Medium", got)
	}
}

func TestClassify_Overrides(t *testing.T) {
	cls := NewClassifier(usersSnapshot())
	cls.OverrideLow([]string{"status"})
	cls.OverrideHigh([]string{"is_active"})

	if got := cls.Classify("users", "status"); got != Low {
		t.Errorf("low override = %v, want Low", got)
	}
	if got := cls.Classify("users", "IS_ACTIVE"); got != High {
		t.Errorf("high override = %v, want High", got)
	}
}

func TestIsBooleanColumn(t *testing.T) {
	cls := NewClassifier(nil)
	tests := []struct {
		column string
		want   bool
	}{
		{"is_active", true},
		{"has_children", true},
		{"can_edit", true},
		{"should_retry", true},
		{"admin_flag", true},
		{"push_enabled", true},
		{"active", true},
		{"enabled", true},
		{"deleted", true},
		{"visible", true},
		{"VISIBLE", true},
		{"island", false}, // no prefix match on "is" without underscore
		{"status", false},
		{"activation_code", false},
	}
	for _, tt := range tests {
		if got := cls.IsBooleanColumn(tt.column); got != tt.want {
			t.Errorf("IsBooleanColumn(%q) = %v, want %v", tt.column, got, tt.want)
		}
	}
}

func TestSupportingPredicates(t *testing.T) {
	cls := NewClassifier(usersSnapshot())

	if !cls.IsPrimaryKey("users", "user_id") {
		t.Error("IsPrimaryKey(users, user_id) = false, want true")
	}
	if cls.IsPrimaryKey("users", "email") {
		t.Error("IsPrimaryKey(users, email) = true, want false")
	}
	if !cls.HasUniqueConstraint("users", "email") {
		t.Error("HasUniqueConstraint(users, email) = false, want true")
	}
	if !cls.HasUniqueConstraint("users", "tenant_id") {
		t.Error("HasUniqueConstraint(users, tenant_id) = false, want true (composite member)")
	}
	if cls.HasUniqueConstraint("users", "status") {
		t.Error("HasUniqueConstraint(users, status) = true, want false")
	}
}

func TestLevelString(t *testing.T) {
	if High.String() != "HIGH" || Medium.String() != "MEDIUM" || Low.String() != "LOW" {
		t.Errorf("Level strings = %s/%s/%s", High, Medium, Low)
	}
}
