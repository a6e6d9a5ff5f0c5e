package user

import (
	"time"
)

// Role of an account. Drivers are dispatch riders; superAdmin can manage
// other admins.
type Role string

const (
	RoleClient     Role = "client"
	RoleDriver     Role = "driver"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superAdmin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleDriver, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// IsStaff returns true for roles allowed on the admin surface.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// User model shared by clients, dispatch riders and admins.
type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid         string `gorm:"type:varchar(255);not null;unique" json:"uuid"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);not null;unique" json:"email"`
	Phone        string `gorm:"type:varchar(20);not null" json:"phone"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;default:client" json:"role"`

	// Drivers start with Valid=false until an admin approves the account.
	Valid  bool `gorm:"type:bool;default:true" json:"valid"`
	Banned bool `gorm:"type:bool;default:false" json:"banned"`

	Birthday *time.Time `json:"birthday,omitempty"`
	StaffID  *string    `gorm:"type:varchar(64)" json:"staff_id,omitempty"`
	PhotoURL *string    `gorm:"type:varchar(2048)" json:"photo_url,omitempty"`

	// Transient delivery channels, overwritten on login / socket connect.
	PushToken *string `gorm:"type:varchar(255)" json:"-"`
	SocketID  *string `gorm:"type:varchar(64)" json:"-"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// CanParticipate reports whether the account may be attached to new
// deliveries.
func (u *User) CanParticipate() bool {
	return u.Valid && !u.Banned
}

// Public returns the subset of fields safe to embed in API responses.
func (u *User) Public() map[string]interface{} {
	return map[string]interface{}{
		"id":        u.ID,
		"uuid":      u.Uuid,
		"name":      u.Name,
		"email":     u.Email,
		"phone":     u.Phone,
		"role":      u.Role,
		"photo_url": u.PhotoURL,
	}
}
