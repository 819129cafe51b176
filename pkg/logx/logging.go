package logx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ---- Config ----

type Config struct {
	Level   string
	Console bool
	File    FileConfig
	Chat    ChatConfig
}

type FileConfig struct {
	Enabled bool
	Path    string
}

// ChatConfig forwards log lines at or above MinLevel to a ChatSender.
type ChatConfig struct {
	Enabled    bool
	MinLevel   string
	RatePerSec int
}

// ChatSender carries log lines to an external chat (e.g. the Telegram notifier).
type ChatSender interface {
	SendLog(ctx context.Context, text string) error
}

// ---- Logger API ----

type Level = zerolog.Level

const (
	LevelTrace = zerolog.TraceLevel
	LevelDebug = zerolog.DebugLevel
	LevelInfo  = zerolog.InfoLevel
	LevelWarn  = zerolog.WarnLevel
	LevelError = zerolog.ErrorLevel
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Field mutates a zerolog event. Fields are applied in order; later fields
// with the same key win.
type Field func(e *zerolog.Event)

func String(k, v string) Field  { return func(e *zerolog.Event) { e.Str(k, v) } }
func Int(k string, v int) Field { return func(e *zerolog.Event) { e.Int(k, v) } }
func Int64(k string, v int64) Field {
	return func(e *zerolog.Event) { e.Int64(k, v) }
}
func Bool(k string, v bool) Field { return func(e *zerolog.Event) { e.Bool(k, v) } }
func Duration(k string, v time.Duration) Field {
	return func(e *zerolog.Event) { e.Dur(k, v) }
}
func Time(k string, v time.Time) Field { return func(e *zerolog.Event) { e.Time(k, v) } }
func Strs(k string, v []string) Field  { return func(e *zerolog.Event) { e.Strs(k, v) } }
func Any(k string, v any) Field        { return func(e *zerolog.Event) { e.Interface(k, v) } }
func Err(err error) Field {
	return func(e *zerolog.Event) {
		if err != nil {
			e.Err(err)
		}
	}
}

// Logger is a lightweight structured logger.
//
// - If created from Service, it follows Service.Apply() calls.
// - With() returns a derived logger with additional fixed fields.
// - Zero value is a safe no-op logger.
type Logger struct {
	svc     *Service
	base    zerolog.Logger
	hasBase bool

	fields []Field
}

// Nop returns a logger that never writes anything.
func Nop() Logger {
	return Logger{base: zerolog.Nop(), hasBase: true}
}

// NewConsole creates a standalone console logger (no Service, no chat sink).
// Useful before the config is loaded.
func NewConsole(level string) Logger {
	zerolog.TimeFieldFormat = consoleTimeFormat
	zerolog.ErrorFieldName = "err"
	return Logger{base: newConsoleRoot(parseLevel(level, zerolog.InfoLevel)), hasBase: true}
}

// New wraps an existing zerolog logger (tests, embedding).
func New(zl zerolog.Logger) Logger { return Logger{base: zl, hasBase: true} }

func (l Logger) IsZero() bool { return l.svc == nil && !l.hasBase && len(l.fields) == 0 }

func (l Logger) root() zerolog.Logger {
	if l.svc != nil {
		return l.svc.current()
	}
	if l.hasBase {
		return l.base
	}
	return zerolog.Nop()
}

func (l Logger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	cp := l
	cp.fields = append(append([]Field(nil), l.fields...), fields...)
	return cp
}

func (l Logger) Debug(msg string, fields ...Field) { l.log(zerolog.DebugLevel, msg, fields...) }
func (l Logger) Info(msg string, fields ...Field)  { l.log(zerolog.InfoLevel, msg, fields...) }
func (l Logger) Warn(msg string, fields ...Field)  { l.log(zerolog.WarnLevel, msg, fields...) }
func (l Logger) Error(msg string, fields ...Field) { l.log(zerolog.ErrorLevel, msg, fields...) }

func (l Logger) log(level zerolog.Level, msg string, fields ...Field) {
	zl := l.root()
	e := zl.WithLevel(level)
	if e == nil {
		return
	}

	// Caller: keep it short (file:line).
	if caller := shortCaller(3); caller != "" {
		e.Str(zerolog.CallerFieldName, caller)
	}
	for _, f := range l.fields {
		if f != nil {
			f(e)
		}
	}
	for _, f := range fields {
		if f != nil {
			f(e)
		}
	}
	e.Msg(msg)
}

func shortCaller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok || file == "" {
		return ""
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}

// ---- Service (dynamic config + sinks) ----

type Service struct {
	mu  sync.Mutex
	cfg Config

	root atomic.Value // stores zerolog.Logger

	file *os.File

	sender   ChatSender
	chatQ    chan string
	chatOnce sync.Once
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	// guarded by mu
	limiter  *rate.Limiter
	minLevel zerolog.Level
}

// NewService creates the logging service, applies cfg immediately and
// returns both the Service and a root Logger that follows later Apply calls.
func NewService(cfg Config) (*Service, Logger) {
	zerolog.ErrorFieldName = "err"
	zerolog.TimeFieldFormat = consoleTimeFormat

	s := &Service{chatQ: make(chan string, 64)}
	s.root.Store(newConsoleRoot(parseLevel(cfg.Level, zerolog.InfoLevel)))
	s.Apply(cfg)
	return s, Logger{svc: s}
}

func (s *Service) current() zerolog.Logger {
	zl, ok := s.root.Load().(zerolog.Logger)
	if !ok {
		return zerolog.Nop()
	}
	return zl
}

func (s *Service) Logger() Logger { return Logger{svc: s} }

// SetChatSender installs the chat sink transport. The sink stays silent
// until both a sender is set and Chat.Enabled is true.
func (s *Service) SetChatSender(cs ChatSender) {
	s.mu.Lock()
	s.sender = cs
	s.mu.Unlock()
}

func (s *Service) Close() error {
	s.mu.Lock()
	f := s.file
	s.file = nil
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		s.wg.Wait()
	}
	if f != nil {
		return f.Close()
	}
	return nil
}

// Apply swaps logger outputs/levels at runtime. Safe to call concurrently.
func (s *Service) Apply(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = cfg
	s.minLevel = parseLevel(cfg.Chat.MinLevel, zerolog.WarnLevel)
	rps := cfg.Chat.RatePerSec
	if rps <= 0 {
		rps = 1
	}
	s.limiter = rate.NewLimiter(rate.Limit(rps), rps)

	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}

	writers := make([]io.Writer, 0, 3)
	if cfg.Console {
		writers = append(writers, newConsoleWriter(Stdout()))
	}
	if cfg.File.Enabled {
		path := strings.TrimSpace(cfg.File.Path)
		if path == "" {
			path = "./qotd.log"
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(Stderr(), "logx: failed opening log file %q: %v\n", path, err)
		} else {
			s.file = f
			writers = append(writers, zerolog.SyncWriter(f))
		}
	}
	if cfg.Chat.Enabled {
		s.chatOnce.Do(func() {
			ctx, cancel := context.WithCancel(context.Background())
			s.cancel = cancel
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.chatWorker(ctx)
			}()
		})
		writers = append(writers, &chatWriter{svc: s})
	}
	if len(writers) == 0 {
		writers = append(writers, newConsoleWriter(Stdout()))
	}

	lvl := parseLevel(cfg.Level, zerolog.InfoLevel)
	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(lvl).With().Timestamp().Logger()
	s.root.Store(zl)
}

func newConsoleRoot(lvl zerolog.Level) zerolog.Logger {
	return zerolog.New(newConsoleWriter(Stdout())).Level(lvl).With().Timestamp().Logger()
}

func newConsoleWriter(w io.Writer) io.Writer {
	return zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat}
}

func (s *Service) chatWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.chatQ:
			s.mu.Lock()
			sender := s.sender
			s.mu.Unlock()
			if sender == nil {
				continue
			}
			sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			_ = sender.SendLog(sctx, msg)
			cancel()
		}
	}
}

// ---- Chat writer (zerolog sink) ----

type chatWriter struct{ svc *Service }

func (w *chatWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.InfoLevel, p)
}

func (w *chatWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	s := w.svc
	s.mu.Lock()
	sender := s.sender
	lim := s.limiter
	minLvl := s.minLevel
	s.mu.Unlock()

	if sender == nil || lim == nil || level < minLvl || !lim.Allow() {
		return len(p), nil
	}
	msg := formatChatLine(p)
	if msg == "" {
		return len(p), nil
	}
	// Never block core logging.
	select {
	case s.chatQ <- msg:
	default:
	}
	return len(p), nil
}

// formatChatLine renders a zerolog JSON line as "[LEVEL] message" followed
// by one "- key=value" line per field, in key order.
func formatChatLine(p []byte) string {
	var m map[string]any
	if err := json.Unmarshal(p, &m); err != nil {
		return truncate(strings.TrimSpace(string(p)), 3500)
	}

	lvl, _ := m["level"].(string)
	msg, _ := m["message"].(string)

	var b strings.Builder
	if lvl != "" {
		b.WriteString("[")
		b.WriteString(strings.ToUpper(lvl))
		b.WriteString("] ")
	}
	b.WriteString(msg)

	keys := make([]string, 0, len(m))
	for k := range m {
		switch k {
		case "time", "level", "message", zerolog.CallerFieldName:
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("\n- ")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(truncate(fmt.Sprint(m[k]), 600))
	}
	return truncate(b.String(), 3500)
}

func truncate(s string, maxN int) string {
	if maxN <= 0 || len(s) <= maxN {
		return s
	}
	if maxN < 10 {
		return s[:maxN]
	}
	return s[:maxN-3] + "..."
}

func parseLevel(s string, def zerolog.Level) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return def
	}
}

// ValidLevel reports whether s names a known level (empty counts as valid).
func ValidLevel(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	return parseLevel(s, zerolog.NoLevel) != zerolog.NoLevel
}

// Stdout returns the configured stdout sink.
func Stdout() io.Writer { return os.Stdout }

// Stderr returns the configured stderr sink.
func Stderr() io.Writer { return os.Stderr }
