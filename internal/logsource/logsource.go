package logsource

// Envelope carries one raw log line with source metadata.
type Envelope struct {
	Source string
	Line   string
}

// Source is a unified interface for all log input sources (file, stdin).
// Lines is closed when the source is exhausted or stopped; Err reports any
// read failure after that.
type Source interface {
	Lines() <-chan Envelope
	Stop()
	Name() string
	Err() error
}
