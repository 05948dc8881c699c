package api

import "time"

type User struct {
	ID            uint      `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	Timezone      string    `json:"timezone"`
	CreatedAt     time.Time `json:"created_at"`
}

// Auth is returned by register, login and Google sign-in.
type Auth struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
	IsNewUser bool      `json:"is_new_user,omitempty"`
}

type Session struct {
	ID                uint      `json:"id"`
	Device            string    `json:"device"`
	Browser           string    `json:"browser,omitempty"`
	OS                string    `json:"os,omitempty"`
	Mobile            bool      `json:"mobile"`
	IPAddress         string    `json:"ip_address"`
	SystemInfo        string    `json:"system_info,omitempty"`
	DeviceFingerprint string    `json:"device_fingerprint,omitempty"`
	AuthMethod        string    `json:"auth_method"`
	IsActive          bool      `json:"is_active"`
	IsCurrentSession  bool      `json:"is_current_session"`
	LastUsedAt        time.Time `json:"last_used_at"`
	CreatedAt         time.Time `json:"created_at"`
	ExpiresAt         time.Time `json:"expires_at"`
}

type SessionList struct {
	Sessions []Session `json:"sessions"`
}

type RevokeAll struct {
	Revoked int64 `json:"revoked"`
}

type SignOut struct {
	ClearToken bool `json:"clear_token"`
}

// Empty is the payload of endpoints that only confirm success.
type Empty struct{}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Timezone string `json:"timezone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Health is the server's liveness document; it is not wrapped in the response envelope.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}
