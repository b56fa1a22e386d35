package logsource

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const (
	// DefaultBuffer is the default channel buffer size for source lines.
	DefaultBuffer = 50_000

	readBufSize = 64 * 1024
)

// Config holds tunable parameters for a source.
type Config struct {
	BufferSize int
	Logger     *zap.Logger
}

// readerSource pumps lines from an io.Reader into a channel. It reads with a
// bufio.Reader rather than a Scanner so a line of any length is delivered
// rather than failing the whole source.
type readerSource struct {
	name   string
	ch     chan Envelope
	cancel context.CancelFunc
	log    *zap.Logger

	mu  sync.Mutex
	err error
}

func newReaderSource(ctx context.Context, name string, in io.Reader, conf ...Config) *readerSource {
	bufferSize := DefaultBuffer
	logger := zap.NewNop()
	if len(conf) > 0 {
		if conf[0].BufferSize > 0 {
			bufferSize = conf[0].BufferSize
		}
		if conf[0].Logger != nil {
			logger = conf[0].Logger
		}
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &readerSource{
		name:   name,
		ch:     make(chan Envelope, bufferSize),
		cancel: cancel,
		log:    logger,
	}
	go s.read(ctx, in)
	return s
}

func (s *readerSource) read(ctx context.Context, in io.Reader) {
	defer close(s.ch)

	// A single goroutine owns the blocking reads; the results channel lets
	// the pump observe cancellation without a goroutine per line.
	results := make(chan string)
	go func() {
		defer close(results)
		reader := bufio.NewReaderSize(in, readBufSize)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				select {
				case results <- strings.TrimRight(line, "\r\n"):
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					s.setErr(err)
					s.log.Warn("source read error",
						zap.String("source", s.name), zap.Error(err))
				}
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-results:
			if !ok {
				return
			}
			select {
			case s.ch <- Envelope{Source: s.name, Line: line}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *readerSource) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *readerSource) Lines() <-chan Envelope { return s.ch }
func (s *readerSource) Stop()                  { s.cancel() }
func (s *readerSource) Name() string           { return s.name }

func (s *readerSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
