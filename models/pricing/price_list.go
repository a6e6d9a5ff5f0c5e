package pricing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"delivery-backend/models/delivery"
)

// Breakpoint maps a distance threshold (km) to a price.
type Breakpoint struct {
	Distance float64 `json:"distance"`
	Price    float64 `json:"price"`
}

// BreakpointList is the ordered breakpoint column, stored as JSON.
type BreakpointList []Breakpoint

// Scan implements the Scanner interface for database deserialization
func (b *BreakpointList) Scan(value interface{}) error {
	if value == nil {
		*b = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, b)
}

// Value implements the driver Valuer interface for database serialization
func (b BreakpointList) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	return json.Marshal(b)
}

// PriceList is one published price table for a transport mode. Updates
// insert a new row; the latest row per mode is authoritative and older
// rows are kept as history.
type PriceList struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Mode        delivery.Mode  `gorm:"type:varchar(20);not null;index" json:"mode"`
	Breakpoints BreakpointList `gorm:"type:jsonb;not null" json:"breakpoints"`

	// Price charged when the distance exceeds every breakpoint.
	LongDistancePrice float64 `gorm:"type:decimal(12,2);not null" json:"long_distance_price"`

	UpdatedByID uint `gorm:"not null" json:"updated_by_id"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName sets the table name for the PriceList model
func (PriceList) TableName() string {
	return "price_lists"
}
