package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Logger holds one stdlib logger per level behind a shared mutex
type Logger struct {
	debugLogger *log.Logger
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	output      io.Writer
	level       LogLevel
	mutex       sync.Mutex
}

// LogLevel defines the logging levels
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// GlobalLogger is the process logger. It writes INFO and above to stdout
// until InitLogger replaces it.
var GlobalLogger = New(os.Stdout, "INFO")

var once sync.Once

// InitLogger configures the global logger with the given output and level.
// Only the first call has any effect.
func InitLogger(output io.Writer, level string) {
	once.Do(func() {
		GlobalLogger = New(output, level)
	})
}

// New builds a standalone logger, mostly useful in tests.
func New(output io.Writer, level string) *Logger {
	if output == nil {
		output = os.Stdout
	}

	flags := log.Ldate | log.Ltime | log.Lshortfile
	return &Logger{
		debugLogger: log.New(output, color.BlueString("DEBUG: "), flags),
		infoLogger:  log.New(output, color.GreenString("INFO: "), flags),
		warnLogger:  log.New(output, color.YellowString("WARN: "), flags),
		errorLogger: log.New(output, color.RedString("ERROR: "), flags),
		output:      output,
		level:       ParseLevel(level),
	}
}

// ParseLevel maps a level name to a LogLevel, defaulting to INFO.
func ParseLevel(level string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Level returns the configured minimum level
func (l *Logger) Level() LogLevel {
	return l.level
}

func (l *Logger) write(level LogLevel, target *log.Logger, msg string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.level <= level {
		// depth 3 points Lshortfile at the caller of Printf/Errorf/...
		_ = target.Output(3, msg)
	}
}

// Println logs a message at the INFO level
func (l *Logger) Println(v ...interface{}) {
	l.write(INFO, l.infoLogger, fmt.Sprintln(v...))
}

// Printf logs a formatted message at the INFO level
func (l *Logger) Printf(format string, v ...interface{}) {
	l.write(INFO, l.infoLogger, fmt.Sprintf(format, v...))
}

// Warnf logs a formatted message at the WARN level
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.write(WARN, l.warnLogger, fmt.Sprintf(format, v...))
}

// Error logs a message at the ERROR level
func (l *Logger) Error(v ...interface{}) {
	l.write(ERROR, l.errorLogger, fmt.Sprintln(v...))
}

// Errorf logs a formatted message at the ERROR level
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.write(ERROR, l.errorLogger, fmt.Sprintf(format, v...))
}

// Debug logs a message at the DEBUG level
func (l *Logger) Debug(v ...interface{}) {
	l.write(DEBUG, l.debugLogger, fmt.Sprintln(v...))
}

// Debugf logs a formatted message at the DEBUG level
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.write(DEBUG, l.debugLogger, fmt.Sprintf(format, v...))
}

// Fatalf logs at the ERROR level and exits the process
func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.write(ERROR, l.errorLogger, fmt.Sprintf(format, v...))
	os.Exit(1)
}
