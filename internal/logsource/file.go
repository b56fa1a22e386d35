package logsource

import (
	"context"
	"os"
	"sync"
)

// FileSource reads log lines from a regular file.
type FileSource struct {
	*readerSource
	f         *os.File
	closeOnce sync.Once
}

// NewFileSource creates a FileSource reading the given path in a background
// goroutine. Lines is closed at end of file; call Stop to release the file.
func NewFileSource(ctx context.Context, path string, conf ...Config) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{
		readerSource: newReaderSource(ctx, path, f, conf...),
		f:            f,
	}, nil
}

// Stop cancels the source and closes the underlying file.
func (s *FileSource) Stop() {
	s.readerSource.Stop()
	s.closeOnce.Do(func() { _ = s.f.Close() })
}
