package constants

// Context keys set by the auth middleware
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	ContextKeyRole     = "role"
)

// DemoUsername is the fixed read-only reviewer account. The demo guard
// blocks every mutation attempted under this identity.
const DemoUsername = "demo_admin"

// AdminUsername is the bootstrap administrator account created at startup.
const AdminUsername = "admin"

const MinPasswordLength = 6

// Wire formats for dates and timestamps
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04:05"
)
