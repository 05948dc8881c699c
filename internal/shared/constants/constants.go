package constants

const (
	// HTTP headers
	HeaderAuthorization     = "Authorization"
	HeaderXRequestID        = "X-Request-ID"
	HeaderUserAgent         = "User-Agent"
	HeaderSystem            = "X-System"
	HeaderDeviceFingerprint = "X-Device-Fingerprint"

	BearerPrefix = "Bearer "

	// Context keys set by the authentication middleware
	ContextKeyUserID    = "user_id"
	ContextKeySessionID = "session_id"
	ContextKeyUser      = "user"
	ContextKeySession   = "session"
	ContextKeyRequestID = "request_id"

	// Sign-in methods recorded on a session
	AuthMethodPassword = "password"
	AuthMethodRegister = "register"
	AuthMethodGoogle   = "google"

	// Device descriptor limits
	MaxSystemInfoLength  = 255
	MaxFingerprintLength = 128

	ErrMsgInternalServerError = "Internal server error occurred"
)
