package delivery

import (
	"encoding/json"
	"testing"
)

func TestAppendExprConcatenatesOntoColumn(t *testing.T) {
	expr := AppendExpr("Delivered")

	if expr.SQL != "track || ?::jsonb" {
		t.Errorf("SQL = %q, want concatenation onto the stored array", expr.SQL)
	}
	if len(expr.Vars) != 1 {
		t.Fatalf("vars = %d, want 1", len(expr.Vars))
	}

	raw, ok := expr.Vars[0].(string)
	if !ok {
		t.Fatalf("var is %T, want string", expr.Vars[0])
	}
	var entries TrackLog
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		t.Fatalf("fragment is not valid JSON: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("fragment holds %d entries, want exactly 1", len(entries))
	}
	if entries[0].Action != "Delivered" {
		t.Errorf("action = %q, want Delivered", entries[0].Action)
	}
	if entries[0].Timestamp.IsZero() {
		t.Error("entry timestamp not set")
	}
}

func TestAppendExprEntriesAreIndependent(t *testing.T) {
	first := AppendExpr("Picked up by a dispatch rider")
	second := AppendExpr("Delivered")

	var a, b TrackLog
	if err := json.Unmarshal([]byte(first.Vars[0].(string)), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(second.Vars[0].(string)), &b); err != nil {
		t.Fatal(err)
	}

	// Each expression carries only its own entry, so two updates built
	// from the same stale row still land both entries in the column.
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("fragments hold %d and %d entries, want 1 each", len(a), len(b))
	}
	if a[0].Action == b[0].Action {
		t.Error("fragments should carry their own actions")
	}
}
