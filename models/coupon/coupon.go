package coupon

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"delivery-backend/models/user"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Type of discount a coupon applies.
type Type string

const (
	// TypeFlatRate caps the delivery price at the coupon value.
	TypeFlatRate Type = "Flat Rate"
	// TypePercentage takes value percent off the price.
	TypePercentage Type = "Percentage"
	// TypeValue subtracts value from the price.
	TypeValue Type = "Value"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeFlatRate, TypePercentage, TypeValue:
		return true
	default:
		return false
	}
}

// UnlimitedUsages is the sentinel for coupons with no redemption cap.
// The conditional decrement skips rows carrying it.
const UnlimitedUsages = -1

// Transaction records a single redemption of the coupon.
type Transaction struct {
	DeliveryID uint      `json:"delivery"`
	Timestamp  time.Time `json:"timestamp"`
}

// TransactionLog is the redemption history, stored as a JSON array.
type TransactionLog []Transaction

// Scan implements the Scanner interface for database deserialization
func (t *TransactionLog) Scan(value interface{}) error {
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
func (t TransactionLog) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

// AppendTransactionExpr builds the SQL fragment recording one
// redemption on the transactions column in place, so concurrent
// redemptions of a multi-use coupon never overwrite each other's log
// entries.
func AppendTransactionExpr(deliveryID uint, at time.Time) clause.Expr {
	entry, _ := json.Marshal(TransactionLog{{DeliveryID: deliveryID, Timestamp: at.UTC()}})
	return gorm.Expr("COALESCE(transactions, '[]'::jsonb) || ?::jsonb", string(entry))
}

// Coupon is issued to a single client by an admin and redeemed at
// delivery creation time.
type Coupon struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Type  Type    `gorm:"type:varchar(20);not null" json:"type"`
	Value float64 `gorm:"type:decimal(12,2);not null" json:"value"`

	// Remaining redemptions; UnlimitedUsages means no cap.
	Usages int `gorm:"type:int;not null;default:1" json:"usages"`

	ClientID uint      `gorm:"not null;index" json:"client_id"`
	Client   user.User `gorm:"foreignKey:ClientID" json:"client"`

	CreatedByID uint `gorm:"not null" json:"created_by_id"`

	Expires time.Time `gorm:"not null" json:"expires"`
	Valid   bool      `gorm:"type:bool;default:true" json:"valid"`

	Transactions TransactionLog `gorm:"type:jsonb" json:"transactions,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Coupon model
func (Coupon) TableName() string {
	return "coupons"
}

// UsableAt reports whether the coupon can be redeemed at the given time.
func (c *Coupon) UsableAt(at time.Time) bool {
	return c.Valid && c.Usages != 0 && at.Before(c.Expires)
}
