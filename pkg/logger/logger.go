// Package logger provides named, leveled loggers shared across actionaudit's
// packages. Every package that needs to log constructs one package-level
// instance with New and calls its Printf/Print/Debugf methods; verbosity is
// controlled globally via SetVerbose.
package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	mu      sync.Mutex
	base    *log.Logger
	verbose bool
)

func init() {
	base = newBase(false)
}

func newBase(v bool) *log.Logger {
	opts := log.Options{
		ReportTimestamp: v,
		ReportCaller:    v,
		Level:           log.InfoLevel,
	}
	if v {
		opts.Level = log.DebugLevel
		opts.TimeFormat = "2006/01/02 15:04:05"
	}
	l := log.NewWithOptions(os.Stderr, opts)

	styles := log.DefaultStyles()
	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString(strings.ToUpper(log.DebugLevel.String())).
		Bold(true).MaxWidth(4).Foreground(lipgloss.Color("14"))
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString(strings.ToUpper(log.WarnLevel.String())).
		Bold(true).MaxWidth(4).Foreground(lipgloss.Color("11"))
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString(strings.ToUpper(log.ErrorLevel.String())).
		Bold(true).MaxWidth(4).Foreground(lipgloss.Color("9"))
	l.SetStyles(styles)
	log.SetDefault(l)
	return l
}

// SetVerbose reconfigures every logger created via New to show debug-level
// messages, timestamps, and caller info.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	base = newBase(v)
}

// Logger is a named wrapper around the shared charmbracelet/log instance.
// The name is attached as a "component" prefix on every message so output
// from concurrently running audits and oracle calls stays attributable.
type Logger struct {
	name string
}

// New returns a Logger whose messages are prefixed with name, e.g.
// "audit:unpinned-uses".
func New(name string) *Logger {
	return &Logger{name: name}
}

func (l *Logger) with() *log.Logger {
	mu.Lock()
	b := base
	mu.Unlock()
	return b.With("component", l.name)
}

func (l *Logger) Printf(format string, args ...any) { l.with().Infof(format, args...) }
func (l *Logger) Print(args ...any)                 { l.with().Info(argsToMsg(args...)) }
func (l *Logger) Println(args ...any)               { l.with().Info(argsToMsg(args...)) }
func (l *Logger) Debugf(format string, args ...any)  { l.with().Debugf(format, args...) }
func (l *Logger) Debug(args ...any)                  { l.with().Debug(argsToMsg(args...)) }
func (l *Logger) Warnf(format string, args ...any)   { l.with().Warnf(format, args...) }
func (l *Logger) Warn(args ...any)                   { l.with().Warn(argsToMsg(args...)) }
func (l *Logger) Errorf(format string, args ...any)  { l.with().Errorf(format, args...) }
func (l *Logger) Error(args ...any)                  { l.with().Error(argsToMsg(args...)) }

func argsToMsg(args ...any) string {
	if len(args) == 1 {
		if s, ok := args[0].(string); ok {
			return s
		}
	}
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if s, ok := a.(string); ok {
			parts = append(parts, s)
			continue
		}
		parts = append(parts, "")
	}
	return strings.Join(parts, " ")
}
