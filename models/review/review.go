package review

import (
	"time"

	"delivery-backend/models/user"
)

// Review is a client's rating of a driver for a finished (or cancelled)
// delivery. One review per delivery.
type Review struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	DriverID uint      `gorm:"not null;index" json:"driver_id"`
	Driver   user.User `gorm:"foreignKey:DriverID" json:"driver"`

	ClientID uint      `gorm:"not null;index" json:"client_id"`
	Client   user.User `gorm:"foreignKey:ClientID" json:"client"`

	DeliveryID uint `gorm:"not null;uniqueIndex" json:"delivery_id"`

	// Rating is 1..5.
	Rating int     `gorm:"type:int;not null" json:"rating"`
	Remark *string `gorm:"type:text" json:"remark,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName sets the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}
