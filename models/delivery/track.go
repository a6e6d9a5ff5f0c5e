package delivery

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrackEntry is one line of a delivery's audit trail.
type TrackEntry struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// TrackLog is the append-only track column, stored as a JSON array.
type TrackLog []TrackEntry

// Scan implements the Scanner interface for database deserialization
func (t *TrackLog) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, t)
}

// Value implements the driver Valuer interface for database serialization
func (t TrackLog) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

// With returns a copy of the log with one more entry appended. The
// receiver is never mutated so a failed conditional update leaves the
// in-memory row untouched.
func (t TrackLog) With(action string) TrackLog {
	next := make(TrackLog, 0, len(t)+1)
	next = append(next, t...)
	next = append(next, TrackEntry{Action: action, Timestamp: time.Now().UTC()})
	return next
}

// AppendExpr builds the SQL fragment concatenating one entry onto the
// track column in place. Concurrent transitions each add their own
// entry instead of rewriting the array from a stale read, which would
// drop whichever entry committed first.
func AppendExpr(action string) clause.Expr {
	entry, _ := json.Marshal(TrackLog{{Action: action, Timestamp: time.Now().UTC()}})
	return gorm.Expr("track || ?::jsonb", string(entry))
}

// JSONMap stores loosely structured payloads (coordinates, payment info,
// schedules) as a JSON object column.
type JSONMap map[string]interface{}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, m)
}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// UintSlice stores a list of row ids as a JSON array column.
type UintSlice []uint

func (s *UintSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, s)
}

func (s UintSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}
