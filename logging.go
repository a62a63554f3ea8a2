package sv2wire

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var logger = newWireLogger()

const (
	logLevelDebug logLevel = iota
	logLevelInfo
	logLevelWarn
	logLevelError
)

var levelNames = []string{
	"DEBUG",
	"INFO",
	"WARN",
	"ERROR",
}

type logLevel int

type logEvent struct {
	level logLevel
	msg   string
	attrs []any
}

// wireLogger writes key=value lines off the hot path through a buffered
// queue. The library is silent by default; hosts opt in with SetLogOutput.
type wireLogger struct {
	level    atomic.Int32
	queue    chan logEvent
	done     chan struct{}
	writerMu sync.RWMutex
	writer   io.Writer
	wg       sync.WaitGroup
	stopOnce sync.Once
	closing  atomic.Bool
}

func newWireLogger() *wireLogger {
	l := &wireLogger{
		queue:  make(chan logEvent, 1024),
		done:   make(chan struct{}),
		writer: io.Discard,
	}
	l.level.Store(int32(logLevelError))
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *wireLogger) run() {
	defer l.wg.Done()
	for {
		select {
		case evt := <-l.queue:
			l.writeEntry(evt)
		case <-l.done:
			for {
				select {
				case evt := <-l.queue:
					l.writeEntry(evt)
				default:
					return
				}
			}
		}
	}
}

func (l *wireLogger) log(level logLevel, msg string, attrs ...any) {
	if level < logLevel(l.level.Load()) {
		return
	}
	if l.closing.Load() {
		return
	}
	select {
	case l.queue <- logEvent{level: level, msg: msg, attrs: append([]any(nil), attrs...)}:
	case <-l.done:
	}
}

func (l *wireLogger) Debug(msg string, attrs ...any) {
	l.log(logLevelDebug, msg, attrs...)
}

func (l *wireLogger) Info(msg string, attrs ...any) {
	l.log(logLevelInfo, msg, attrs...)
}

func (l *wireLogger) Warn(msg string, attrs ...any) {
	l.log(logLevelWarn, msg, attrs...)
}

func (l *wireLogger) Error(msg string, attrs ...any) {
	l.log(logLevelError, msg, attrs...)
}

func (l *wireLogger) setLevel(level logLevel) {
	l.level.Store(int32(level))
}

func (l *wireLogger) setWriter(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	l.writerMu.Lock()
	l.writer = w
	l.writerMu.Unlock()
}

func (l *wireLogger) Stop() {
	l.stopOnce.Do(func() {
		l.closing.Store(true)
		close(l.done)
		l.wg.Wait()
	})
}

func (l *wireLogger) writeEntry(evt logEvent) {
	levelName := "UNKNOWN"
	if int(evt.level) >= 0 && int(evt.level) < len(levelNames) {
		levelName = levelNames[evt.level]
	}
	var entry strings.Builder
	entry.WriteString(time.Now().UTC().Format(time.RFC3339Nano))
	entry.WriteString(" [")
	entry.WriteString(levelName)
	entry.WriteString("] ")
	entry.WriteString(evt.msg)
	if attrs := formatLogAttrs(evt.attrs); attrs != "" {
		entry.WriteString(" ")
		entry.WriteString(attrs)
	}
	entry.WriteByte('\n')

	l.writerMu.RLock()
	w := l.writer
	l.writerMu.RUnlock()
	_, _ = w.Write([]byte(entry.String()))
}

func formatLogAttrs(attrs []any) string {
	if len(attrs) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(attrs); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		key := fmt.Sprint(attrs[i])
		if i+1 < len(attrs) {
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(fmt.Sprint(attrs[i+1]))
			i++
		} else {
			b.WriteString(key)
		}
	}
	return b.String()
}

// SetLogLevel selects the minimum severity that gets written. Levels are
// "debug", "info", "warn" and "error"; unknown names keep the current level.
func SetLogLevel(name string) {
	switch strings.ToLower(name) {
	case "debug":
		logger.setLevel(logLevelDebug)
	case "info":
		logger.setLevel(logLevelInfo)
	case "warn":
		logger.setLevel(logLevelWarn)
	case "error":
		logger.setLevel(logLevelError)
	}
}

// SetLogOutput directs log lines to w. Passing nil silences the library.
func SetLogOutput(w io.Writer) {
	logger.setWriter(w)
}

// LogToStderr is a convenience for command-line hosts.
func LogToStderr() {
	logger.setWriter(os.Stderr)
}
