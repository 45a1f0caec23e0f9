package meshcenter

// Log levels passed to a Logger.
const (
	LogDebug = iota
	LogInfo
	LogWarn
	LogError
)

// Logger receives progress messages from long-running operations.
// A nil Logger discards them.
type Logger func(level int, format string, args ...interface{})

func (l Logger) logf(level int, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l(level, format, args...)
}
