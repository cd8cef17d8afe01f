package logger

// ErrorEntry exposes one collected chain level for tests.
type ErrorEntry = errorEntry

// Message returns the message of the entry.
func (e ErrorEntry) Message() string { return e.message }

// Metadata returns the metadata of the entry.
func (e ErrorEntry) Metadata() map[string]any { return e.metadata }

var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
)
