package types

type RunMode string

const (
	// ModeLocal is the mode for running the API server on a developer machine
	ModeLocal RunMode = "local"
	// ModeAPI is the mode for running the API server in a deployed environment
	ModeAPI RunMode = "api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LedgerBackend selects where the coupon ledger snapshot is stored
type LedgerBackend string

const (
	LedgerBackendFile LedgerBackend = "file"
	LedgerBackendS3   LedgerBackend = "s3"
)
