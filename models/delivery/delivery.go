package delivery

import (
	"time"

	"delivery-backend/models/user"
)

// Delivery represents one package moving from a pickup point to a drop
// off point. The track column is an append-only audit trail whose first
// entry is always "Created".
type Delivery struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for client relationship
	ClientID uint      `gorm:"not null;index" json:"client_id"`
	Client   user.User `gorm:"foreignKey:ClientID" json:"client"`

	// Driver is unset until an admin assigns one.
	DriverID *uint      `gorm:"index" json:"driver_id,omitempty"`
	Driver   *user.User `gorm:"foreignKey:DriverID" json:"driver,omitempty"`

	Mode   Mode   `gorm:"type:varchar(20);not null" json:"mode"`
	Status Status `gorm:"type:varchar(20);not null;default:Pending;index" json:"status"`

	// Distance in kilometres as quoted at creation time.
	Distance float64 `gorm:"type:decimal(10,3)" json:"distance"`
	Price    float64 `gorm:"type:decimal(12,2);not null" json:"price"`

	PickUpNumber  string  `gorm:"type:varchar(20);not null" json:"pick_up_number"`
	DropOffNumber string  `gorm:"type:varchar(20);not null" json:"drop_off_number"`
	Note          *string `gorm:"type:text" json:"note,omitempty"`

	From     JSONMap `gorm:"type:jsonb;not null" json:"from"`
	To       JSONMap `gorm:"type:jsonb;not null" json:"to"`
	Payment  JSONMap `gorm:"type:jsonb" json:"payment,omitempty"`
	Schedule JSONMap `gorm:"type:jsonb" json:"schedule,omitempty"`

	// Ids of coupons redeemed against this delivery.
	Coupons UintSlice `gorm:"type:jsonb" json:"coupons,omitempty"`

	ReviewID *uint `gorm:"index" json:"review_id,omitempty"`

	Track TrackLog `gorm:"type:jsonb;not null" json:"track"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Delivery model
func (Delivery) TableName() string {
	return "deliveries"
}
