package shared

// Log levels understood by every Logger implementation
const (
	LevelDebug   = "DEBUG"
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
)

// Logger is the structured logging port used by domain components.
// Rule violations are logged here rather than raised.
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Log(level, message string, metadata map[string]interface{}) {}

// LoggerOrNop returns l, or a NopLogger when l is nil
func LoggerOrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
