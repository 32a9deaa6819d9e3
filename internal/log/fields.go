package log

// Field names used across the application for consistent structured logging.
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldBackend   = "backend"
	FieldMonth     = "month"
	FieldExpenseID = "expense_id"
	FieldCount     = "count"
	FieldDuration  = "duration_ms"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldRemoteIP  = "remote_ip"
	FieldRequestID = "request_id"
	FieldUserID    = "user_id"
	FieldPort      = "port"
)

// Component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentBackend   = "backend"
	ComponentMigration = "migration"
)
