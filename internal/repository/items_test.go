package repository

import (
	"strings"
	"testing"

	"todo-api/internal/store"
)

func TestUpdateQuery_Blind(t *testing.T) {
	q, args := updateQuery(`"todos"`, "id-1", store.Update{Text: "t", Checked: true, UpdatedAt: 42})
	if strings.Contains(q, "$5") {
		t.Fatalf("blind update must not carry a precondition: %s", q)
	}
	if !strings.Contains(q, "updated_at = GREATEST($3, created_at)") {
		t.Fatalf("updated_at must never drop below created_at: %s", q)
	}
	if !strings.Contains(q, "RETURNING "+columns) {
		t.Fatalf("update must return the full row: %s", q)
	}
	if len(args) != 4 || args[0] != "t" || args[1] != true || args[2] != int64(42) || args[3] != "id-1" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestUpdateQuery_Conditional(t *testing.T) {
	prev := int64(7)
	q, args := updateQuery(`"todos"`, "id-1", store.Update{Text: "t", UpdatedAt: 42, IfUpdatedAt: &prev})
	if !strings.Contains(q, "AND updated_at = $5") {
		t.Fatalf("missing precondition: %s", q)
	}
	if len(args) != 5 || args[4] != int64(7) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestNewItems_QuotesTable(t *testing.T) {
	r := NewItems(nil, "my todos")
	if r.table != `"my todos"` {
		t.Fatalf("table = %s", r.table)
	}
	if !strings.HasPrefix(putQuery(r.table), `INSERT INTO "my todos"`) {
		t.Fatalf("unexpected put query: %s", putQuery(r.table))
	}
}
