package coupon

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestAppendTransactionExprConcatenatesOneRedemption(t *testing.T) {
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	expr := AppendTransactionExpr(42, at)

	if !strings.Contains(expr.SQL, "|| ?::jsonb") {
		t.Errorf("SQL = %q, want concatenation onto the stored array", expr.SQL)
	}
	if !strings.Contains(expr.SQL, "COALESCE(transactions, '[]'::jsonb)") {
		t.Errorf("SQL = %q, want a NULL-safe base for fresh coupons", expr.SQL)
	}
	if len(expr.Vars) != 1 {
		t.Fatalf("vars = %d, want 1", len(expr.Vars))
	}

	var entries TransactionLog
	if err := json.Unmarshal([]byte(expr.Vars[0].(string)), &entries); err != nil {
		t.Fatalf("fragment is not valid JSON: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("fragment holds %d entries, want exactly 1", len(entries))
	}
	if entries[0].DeliveryID != 42 {
		t.Errorf("delivery = %d, want 42", entries[0].DeliveryID)
	}
	if !entries[0].Timestamp.Equal(at) {
		t.Errorf("timestamp = %v, want %v", entries[0].Timestamp, at)
	}
}
