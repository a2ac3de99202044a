package shared

const (
	UserID = "user_id"

	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"

	NoData = "No data"

	StatsLoginMessage = "Please log in to view your statistics."

	AppName    = "FocusFlow API"
	AppVersion = "1.0.0"
)
