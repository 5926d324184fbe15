package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "info", "":
		return Info
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

// Fields son pares clave/valor que acompañan una línea de log.
type Fields map[string]any

type Logger interface {
	// With devuelve un logger que agrega fields a toda línea futura.
	With(fields Fields) Logger

	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, fields Fields)
}

type Options struct {
	Level  Level
	Format Format
	App    string

	// Output por defecto es os.Stdout; inyectable para tests.
	Output io.Writer
}

func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	format := opts.Format
	if format == "" {
		format = FormatText
	}

	base := Fields{}
	if app := strings.TrimSpace(opts.App); app != "" {
		base["app"] = app
	}

	return &stdLogger{
		mu:     &sync.Mutex{},
		out:    out,
		level:  opts.Level,
		format: format,
		base:   base,
		now:    time.Now,
	}
}

// NewFromEnv arma el logger desde el entorno:
//   - LOG_LEVEL=debug|info|warn|error (default info)
//   - LOG_FORMAT=text|json (default text)
//   - APP_NAME (opcional, sale como campo app)
func NewFromEnv() Logger {
	return New(Options{
		Level:  ParseLevel(os.Getenv("LOG_LEVEL")),
		Format: ParseFormat(os.Getenv("LOG_FORMAT")),
		App:    os.Getenv("APP_NAME"),
	})
}

// Nop descarta todo. Útil como default en constructores y en tests.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) With(Fields) Logger { return nopLogger{} }

func (nopLogger) Debug(string, Fields) {}
func (nopLogger) Info(string, Fields)  {}
func (nopLogger) Warn(string, Fields)  {}
func (nopLogger) Error(string, Fields) {}

type stdLogger struct {
	mu     *sync.Mutex
	out    io.Writer
	level  Level
	format Format
	base   Fields
	now    func() time.Time
}

func (l *stdLogger) With(fields Fields) Logger {
	if len(fields) == 0 {
		return l
	}

	merged := make(Fields, len(l.base)+len(fields))
	for k, v := range l.base {
		merged[k] = v
	}
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		merged[k] = v
	}

	// comparte mu y out: los hijos escriben serializados con el padre
	return &stdLogger{
		mu:     l.mu,
		out:    l.out,
		level:  l.level,
		format: l.format,
		base:   merged,
		now:    l.now,
	}
}

func (l *stdLogger) Debug(msg string, fields Fields) { l.write(Debug, msg, fields) }
func (l *stdLogger) Info(msg string, fields Fields)  { l.write(Info, msg, fields) }
func (l *stdLogger) Warn(msg string, fields Fields)  { l.write(Warn, msg, fields) }
func (l *stdLogger) Error(msg string, fields Fields) { l.write(Error, msg, fields) }

func (l *stdLogger) write(lvl Level, msg string, fields Fields) {
	if lvl < l.level {
		return
	}

	ts := l.now().Format(time.RFC3339Nano)

	merged := make(Fields, len(l.base)+len(fields))
	for k, v := range l.base {
		merged[k] = v
	}
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		merged[k] = v
	}

	var line string
	switch l.format {
	case FormatJSON:
		entry := make(map[string]any, len(merged)+3)
		for k, v := range merged {
			entry[k] = v
		}
		entry["ts"] = ts
		entry["level"] = lvl.String()
		entry["msg"] = msg
		b, _ := json.Marshal(entry)
		line = string(b)
	default:
		line = formatText(ts, lvl, msg, merged)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, line+"\n")
}

// formatText fija ts, nivel y msg al frente y ordena el resto de las claves
// para que la salida sea estable.
func formatText(ts string, lvl Level, msg string, fields Fields) string {
	var sb strings.Builder
	sb.WriteString(ts)
	sb.WriteString(" ")
	sb.WriteString(lvl.String())
	sb.WriteString(" ")
	sb.WriteString(fmt.Sprintf("msg=%q", msg))

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		sb.WriteString(fmt.Sprintf(" %s=%v", k, fields[k]))
	}
	return sb.String()
}
