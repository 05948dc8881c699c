package dto

import (
	"time"

	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/infrastructure/device"
)

// RegisterRequest represents the request to create an account
type RegisterRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Timezone string `json:"timezone,omitempty" binding:"omitempty,timezone"`
}

// LoginRequest represents the request to sign in with a password
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse represents the response for a user
type UserResponse struct {
	ID            uint      `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	Timezone      string    `json:"timezone"`
	CreatedAt     time.Time `json:"created_at"`
}

// AuthResponse is returned by every operation that opens a session.
type AuthResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserResponse `json:"user"`
	IsNewUser bool          `json:"is_new_user,omitempty"`
}

// SessionResponse describes one signed-in device. The token is never echoed back.
type SessionResponse struct {
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

type SessionListResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
}

type RevokeAllResponse struct {
	Revoked int64 `json:"revoked"`
}

// SignOutResponse tells the client to discard its stored token.
type SignOutResponse struct {
	ClearToken bool `json:"clear_token"`
}

func ToUserResponse(u *user.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:            u.ID(),
		Username:      u.Username().String(),
		Email:         u.Email().String(),
		EmailVerified: u.IsEmailVerified(),
		Timezone:      u.Timezone(),
		CreatedAt:     u.CreatedAt(),
	}
}

// ToSessionResponse marks the session as current when its id equals currentSessionID.
func ToSessionResponse(s *user.Session, currentSessionID uint) *SessionResponse {
	label := s.SystemInfo
	if label == "" {
		label = device.Describe(s.Device)
	}
	return &SessionResponse{
		ID:                s.ID,
		Device:            label,
		Browser:           s.Device.Browser,
		OS:                s.Device.OS,
		Mobile:            s.Device.Mobile,
		IPAddress:         s.IPAddress,
		SystemInfo:        s.SystemInfo,
		DeviceFingerprint: s.DeviceFingerprint,
		AuthMethod:        s.AuthMethod,
		IsActive:          s.IsActive,
		IsCurrentSession:  s.ID == currentSessionID,
		LastUsedAt:        s.LastUsedAt,
		CreatedAt:         s.CreatedAt,
		ExpiresAt:         s.ExpiresAt,
	}
}

func ToSessionListResponse(sessions []*user.Session, currentSessionID uint) *SessionListResponse {
	resp := &SessionListResponse{Sessions: make([]*SessionResponse, 0, len(sessions))}
	for _, s := range sessions {
		resp.Sessions = append(resp.Sessions, ToSessionResponse(s, currentSessionID))
	}
	return resp
}
