package core

// Logger is any service that can report log entries.
// args may hold errors and map[string]interface{} extras.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies who triggered a log entry: the admin when signed in, else the client IP.
type Person struct {
	ID       string
	Username string
	Email    string
}
