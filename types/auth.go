package types

import (
	"errors"
	"strings"
)

// RegisterRequest creates a client or driver account. Drivers must
// supply a staff id and wait for admin approval before they can be
// assigned deliveries.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Birthday string `json:"birthday,omitempty"`
	StaffID  string `json:"staff_id,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}

func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.Email) == "" || !strings.Contains(r.Email, "@") {
		return errors.New("a valid email is required")
	}
	if strings.TrimSpace(r.Phone) == "" {
		return errors.New("phone is required")
	}
	if len(r.Password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	switch r.Role {
	case "", "client":
		r.Role = "client"
	case "driver":
		if strings.TrimSpace(r.StaffID) == "" {
			return errors.New("staff_id is required for driver accounts")
		}
	default:
		return errors.New("role must be client or driver")
	}
	return nil
}

// AdminRegisterRequest creates an admin account. The shared secret
// gates the endpoint instead of an existing session.
type AdminRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Secret   string `json:"secret"`
	Super    bool   `json:"super,omitempty"`
}

func (r *AdminRegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.Email) == "" || !strings.Contains(r.Email, "@") {
		return errors.New("a valid email is required")
	}
	if len(r.Password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	if r.Secret == "" {
		return errors.New("secret is required")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

type PushTokenRequest struct {
	Token string `json:"token"`
}

func (r *PushTokenRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return errors.New("token is required")
	}
	return nil
}

type SocketRequest struct {
	SocketID string `json:"socket_id"`
}

func (r *SocketRequest) Validate() error {
	if strings.TrimSpace(r.SocketID) == "" {
		return errors.New("socket_id is required")
	}
	return nil
}
