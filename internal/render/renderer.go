package render

// Rendering of ecs-logging JSON lines to pretty text. Lines that are not
// valid ecs-logging records pass through unchanged so interleaved plain-text
// output (panics, startup noise) is not lost.

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/valyala/fastjson"
	"go.uber.org/zap"

	"github.com/tinytelemetry/ecslog/internal/ecs"
	"github.com/tinytelemetry/ecslog/internal/kql"
)

// DefaultMaxLineLen is the length above which a line is passed through
// without a parse attempt.
const DefaultMaxLineLen = 16384

// Renderer drives ECS log rendering.
type Renderer struct {
	log         *zap.Logger
	parser      fastjson.Parser
	painter     *Painter
	formatName  string
	formatter   Formatter
	levelFilter string
	kqlFilter   *kql.Filter
	strict      bool
	maxLineLen  int

	line     string // the raw input line
	logLevel string // cached "log.level", read during validation
}

// NewRenderer returns a renderer writing in the given format.
//
// log is the tool's own diagnostic logger, unrelated to the log content
// being rendered; nil disables diagnostics. shouldColorize is one of "auto"
// (colorize when stdout is a TTY), "yes", or "no". colorScheme names one of
// the painters in PainterFromName.
func NewRenderer(log *zap.Logger, shouldColorize, colorScheme, formatName string) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if shouldColorize == "auto" {
		if isatty.IsTerminal(os.Stdout.Fd()) {
			shouldColorize = "yes"
		} else {
			shouldColorize = "no"
		}
	}
	var painter *Painter
	switch shouldColorize {
	case "yes":
		var err error
		painter, err = PainterFromName(colorScheme)
		if err != nil {
			return nil, err
		}
	case "no":
		painter = NoColorPainter
	default:
		return nil, fmt.Errorf("invalid value for shouldColorize: %q", shouldColorize)
	}

	formatter, ok := formatterFromName[formatName]
	if !ok {
		known := make([]string, 0, len(formatterFromName))
		for n := range formatterFromName {
			known = append(known, n)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("unknown format %q (known formats: %s)",
			formatName, strings.Join(known, ", "))
	}

	log.Debug("create renderer",
		zap.String("format", formatName),
		zap.String("colorize", shouldColorize),
		zap.String("colorScheme", colorScheme))
	return &Renderer{
		log:        log,
		painter:    painter,
		formatName: formatName,
		formatter:  formatter,
		maxLineLen: DefaultMaxLineLen,
	}, nil
}

// SetLevelFilter drops records whose log.level orders below the given level.
func (r *Renderer) SetLevelFilter(level string) {
	r.levelFilter = level
}

// SetKQLFilter compiles the given KQL query and drops records not matching
// it.
func (r *Renderer) SetKQLFilter(query string) error {
	if query == "" {
		return nil
	}
	filter, err := kql.New(query, ecs.LevelLess)
	if err != nil {
		return err
	}
	r.kqlFilter = filter
	return nil
}

// SetStrict suppresses lines that are not valid ecs-logging records instead
// of passing them through.
func (r *Renderer) SetStrict(strict bool) {
	r.strict = strict
}

// SetMaxLineLen overrides the length above which lines are not parsed.
// Non-positive values restore the default.
func (r *Renderer) SetMaxLineLen(n int) {
	if n <= 0 {
		n = DefaultMaxLineLen
	}
	r.maxLineLen = n
}

// RenderLine renders a single input line, without its trailing newline, to
// out. Non-record lines pass through unchanged, or are dropped in strict
// mode; filtered-out records are dropped silently.
func (r *Renderer) RenderLine(out io.Writer, line string) error {
	if len(line) > r.maxLineLen || len(line) == 0 || line[0] != '{' {
		return r.passthrough(out, line)
	}

	rec, err := r.parser.Parse(line)
	if err != nil {
		r.log.Debug("line parse error", zap.Error(err))
		return r.passthrough(out, line)
	}

	logLevel, ok := ecs.ValidRecord(rec)
	if !ok {
		return r.passthrough(out, line)
	}
	r.line = line
	r.logLevel = logLevel

	// `--level info` drops records below log.level=info.
	if r.levelFilter != "" && ecs.LevelLess(r.logLevel, r.levelFilter) {
		return nil
	}
	if r.kqlFilter != nil && !r.kqlFilter.Match(rec) {
		return nil
	}

	var b strings.Builder
	r.formatter.formatRecord(r, rec, &b)
	_, err = fmt.Fprintln(out, b.String())
	return err
}

func (r *Renderer) passthrough(out io.Writer, line string) error {
	if r.strict {
		return nil
	}
	_, err := fmt.Fprintln(out, line)
	return err
}

// RenderStream renders log lines from in to out until EOF. A bufio.Reader
// is used rather than a Scanner so lines longer than any fixed buffer
// cannot fail the whole stream.
func (r *Renderer) RenderStream(in io.Reader, out io.Writer) error {
	reader := bufio.NewReaderSize(in, 64*1024)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			line = strings.TrimRight(line, "\r\n")
			if lineErr := r.RenderLine(out, line); lineErr != nil {
				return lineErr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
