package logger

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Logger writes category-tagged lines to stdout and, when LOG_FILE is set,
// mirrors them uncolored into a file.
type Logger struct {
	mu    sync.Mutex
	file  *os.File
	debug bool

	debugColor *color.Color
	infoColor  *color.Color
	warnColor  *color.Color
	errorColor *color.Color
	tagColor   *color.Color
}

func NewLogger() *Logger {
	l := &Logger{
		debug:      os.Getenv("LOG_DEBUG") == "true",
		debugColor: color.New(color.FgHiBlack),
		infoColor:  color.New(color.FgGreen),
		warnColor:  color.New(color.FgYellow),
		errorColor: color.New(color.FgRed, color.Bold),
		tagColor:   color.New(color.FgCyan),
	}

	if path := os.Getenv("LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: cannot open log file %s: %v\n", path, err)
		} else {
			l.file = f
		}
	}

	return l
}

func (l *Logger) write(level string, levelColor *color.Color, category, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := time.Now().Format("2006-01-02 15:04:05.000")
	fmt.Printf("%s %s %s %s\n",
		ts,
		levelColor.Sprintf("%-5s", level),
		l.tagColor.Sprintf("[%s]", category),
		message)

	if l.file != nil {
		fmt.Fprintf(l.file, "%s %-5s [%s] %s\n", ts, level, category, message)
	}
}

func (l *Logger) Debug(category, message string) {
	if !l.debug {
		return
	}
	l.write("DEBUG", l.debugColor, category, message)
}

func (l *Logger) Info(category, message string) {
	l.write("INFO", l.infoColor, category, message)
}

func (l *Logger) Warn(category, message string) {
	l.write("WARN", l.warnColor, category, message)
}

func (l *Logger) Error(category, message string) {
	l.write("ERROR", l.errorColor, category, message)
}

// Fatal logs the message and exits the process.
func (l *Logger) Fatal(category, message string) {
	l.write("FATAL", l.errorColor, category, message)
	l.Close()
	os.Exit(1)
}

// Domain helpers keep call sites short and the category set consistent.

func (l *Logger) LogPayment(action, paymentID, message string) {
	l.Info("PAYMENT", fmt.Sprintf("%s [%s] %s", action, paymentID, message))
}

func (l *Logger) LogCustomer(action, customerID, message string) {
	l.Info("CUSTOMER", fmt.Sprintf("%s [%s] %s", action, customerID, message))
}

func (l *Logger) LogDatabase(action, table, message string) {
	l.Info("DATABASE", fmt.Sprintf("%s [%s] %s", action, table, message))
}

func (l *Logger) LogKafka(action, topic, message string) {
	l.Info("KAFKA", fmt.Sprintf("%s [%s] %s", action, topic, message))
}

func (l *Logger) LogAPI(method, path, status, duration string) {
	l.Info("API", fmt.Sprintf("%s %s - %s (%s)", method, path, status, duration))
}

func (l *Logger) LogProcess(stage, message string) {
	l.Info("PROCESS", fmt.Sprintf("%s: %s", stage, message))
}

func (l *Logger) LogSecurity(event, message string) {
	l.Warn("SECURITY", fmt.Sprintf("%s: %s", event, message))
}

func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}
