package notification

import (
	"time"
)

// Notification is one message for one user. Delivered flips when the
// row has been returned to the client at least once; Read flips when
// the user opens it.
type Notification struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	UserID uint `gorm:"not null;index" json:"user_id"`

	Title   string `gorm:"type:varchar(255);not null" json:"title"`
	Details string `gorm:"type:text;not null" json:"details"`

	// Category is one of the constants.Category* values.
	Category string `gorm:"type:varchar(20);not null;default:success" json:"category"`

	// Link tells the client app which screen the notification opens
	// (order, profile, account); PayloadID carries the row id for it.
	Link      *string `gorm:"type:varchar(20)" json:"link,omitempty"`
	PayloadID *uint   `json:"payload_id,omitempty"`

	Read      bool `gorm:"type:bool;default:false" json:"read"`
	Delivered bool `gorm:"type:bool;default:false" json:"delivered"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
