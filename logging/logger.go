package logging

// Logger stores the output configuration for one invocation of the tool
type Logger struct {
	LogLevel int
}

// Enumeration of the different log levels
const (
	LogLevelSilent  = iota // no output at all
	LogLevelError          // only errors and the closing success/fail summary
	LogLevelVerbose        // errors, phase progress, closing summary (DEFAULT)
)

// logger is a global reference to a shared Logger (created with the CLI, but
// separated for general usage); verbose until Initialize runs so early
// configuration errors are never swallowed
var logger = Logger{LogLevel: LogLevelVerbose}

// Initialize initializes the global logger with the provided log level
func Initialize(loglevelname string) {
	var loglevel int
	switch loglevelname {
	case "silent":
		loglevel = LogLevelSilent
	case "error":
		loglevel = LogLevelError
	// everything else (including invalid log levels) should default to verbose
	default:
		loglevel = LogLevelVerbose
	}

	logger = Logger{LogLevel: loglevel}
}
