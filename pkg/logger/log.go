package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
)

type LogStatus int

const (
	VERBOSE LogStatus = iota
	DEBUG
	INFO
	SUCCESS
	NEW
	REMOVE
	STOP
	WARNING
	ERROR
	FATAL
)

const DEFAULT_MIN_STAT = INFO

// minStatus holds the lowest LogStatus level which will be printed. Messages
// emitted with a lower level are discarded.
var minStatus atomic.Int32

func init() {
	minStatus.Store(int32(DEFAULT_MIN_STAT))
}

func (e LogStatus) String() string {
	return []string{
		"V",
		"D",
		"I",
		"✓",
		"+",
		"-",
		"X",
		"!",
		"!!",
		"PANIC",
	}[e]
}

// Level returns the numeric level of this status, suitable for
// passing to SetMinLoggingLevel.
func (e LogStatus) Level() int { return int(e) }

func (e LogStatus) Color() *color.Color {
	return []*color.Color{
		color.New(color.FgWhite, color.Italic),                //Verbose
		color.New(color.FgWhite, color.Italic),                //Debug
		color.New(color.FgWhite),                              //Info
		color.New(color.FgHiGreen),                            //Success
		color.New(color.FgGreen, color.Italic),                //New
		color.New(color.FgYellow, color.Italic),               //Remove
		color.New(color.FgHiYellow),                           //Stop
		color.New(color.FgYellow, color.Underline),            //Warning
		color.New(color.FgHiRed, color.Bold),                  //Error
		color.New(color.FgHiRed, color.Bold, color.Underline), //PANIC
	}[e]
}

// ParseLevel converts a textual level (e.g. "debug", "WARNING") to
// the matching LogStatus. Unknown values yield the default level.
func ParseLevel(level string) LogStatus {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "VERBOSE":
		return VERBOSE
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARNING
	case "ERROR":
		return ERROR
	}

	return DEFAULT_MIN_STAT
}

// SetMinLoggingLevel changes the minimum level required for a log
// line to be printed. Use LogStatus.Level to obtain a level.
func SetMinLoggingLevel(level int) {
	minStatus.Store(int32(level))
}

type Logger interface {
	Emit(LogStatus, string, ...interface{})
}

type loggerImpl struct {
	name string
}

func (l *loggerImpl) Emit(status LogStatus, message string, interpolations ...interface{}) {
	Log.Emit(status, l.name, message, interpolations...)
}

type LoggerManager interface {
	GetLogger(string) Logger
	Emit(LogStatus, string, string, ...interface{})
}

var defaultMgr = &loggerMgr{
	offset: 0,
}

var Log LoggerManager = defaultMgr

type loggerMgr struct {
	sync.Mutex
	offset int
	out    io.Writer
}

// SetOutput redirects all log lines to w. By default lines are written to
// color.Output (stdout).
func SetOutput(w io.Writer) {
	defaultMgr.Lock()
	defer defaultMgr.Unlock()

	defaultMgr.out = w
}

func (l *loggerMgr) GetLogger(name string) Logger {
	return &loggerImpl{name: name}
}

func (l *loggerMgr) Emit(status LogStatus, name string, message string, interpolations ...interface{}) {
	if int32(status) < minStatus.Load() {
		return
	}

	l.Lock()
	defer l.Unlock()

	l.setNameOffset(len(name))
	padding := strings.Repeat(" ", l.offset-len(name))
	msg := fmt.Sprintf("[%s] %s(%s) %s", name, padding, status, fmt.Sprintf(message, interpolations...))

	if l.out == nil {
		status.Color().Print(msg)
		return
	}

	status.Color().Fprint(l.out, msg)
}

func (l *loggerMgr) setNameOffset(offset int) {
	if offset > l.offset {
		l.offset = offset
	}
}

func Get(name string) Logger {
	return Log.GetLogger(name)
}
