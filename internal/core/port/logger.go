package port

// Fields carries structured data attached to a log entry.
type Fields map[string]interface{}

// LoggerPort is the logging contract the core depends on. It abstracts the
// application from the concrete sinks (stdout, fluent-bit, ...).
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)
	Debug(msg string, fields Fields)

	// WithFields returns a new logger instance with the fields pre-attached,
	// used to carry request context such as trace_id.
	WithFields(fields Fields) LoggerPort
}
