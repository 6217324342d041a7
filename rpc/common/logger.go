package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/lni/dragonboat/v4/logger"
	"google.golang.org/grpc/grpclog"
)

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// imgLogger implements the ILogger interface with custom formatting
type imgLogger struct {
	name   string
	level  logger.LogLevel
	logger *log.Logger
}

func (l *imgLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *imgLogger) Debugf(format string, args ...interface{}) {
	if l.level >= logger.DEBUG {
		l.log("DEBUG", format, args...)
	}
}

func (l *imgLogger) Infof(format string, args ...interface{}) {
	if l.level >= logger.INFO {
		l.log("INFO", format, args...)
	}
}

func (l *imgLogger) Warningf(format string, args ...interface{}) {
	if l.level >= logger.WARNING {
		l.log("WARN", format, args...)
	}
}

func (l *imgLogger) Errorf(format string, args ...interface{}) {
	if l.level >= logger.ERROR {
		l.log("ERROR", format, args...)
	}
}

// Panicf always logs and panics, the level only filters the other methods
func (l *imgLogger) Panicf(format string, args ...interface{}) {
	l.log("PANIC", format, args...)
	panic(fmt.Sprintf(format, args...))
}

// log formats and writes a log message. this internal helper is used by the public methods
func (l *imgLogger) log(levelStr string, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("%-5s | %-15s | %s", levelStr, l.name, message)
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// NewLoggerFactory returns a logger.Factory whose loggers write to w.
// The commands log to stderr, stdout only carries the output of the client.
func NewLoggerFactory(w io.Writer) logger.Factory {
	return func(pkgName string) logger.ILogger {
		return &imgLogger{
			name:   pkgName,
			level:  logger.INFO,
			logger: log.New(w, "", log.Ldate|log.Ltime),
		}
	}
}

// --------------------------------------------------------------------------
// gRPC Logger Bridge (implements grpclog.LoggerV2)
// --------------------------------------------------------------------------

// grpcLogger forwards the internal logging of grpc-go to a named logger.
// grpc-go is chatty on info level, so info messages are logged as debug.
type grpcLogger struct {
	l logger.ILogger
}

func (g grpcLogger) Info(args ...any)                    { g.l.Debugf("%s", fmt.Sprint(args...)) }
func (g grpcLogger) Infoln(args ...any)                  { g.l.Debugf("%s", fmt.Sprint(args...)) }
func (g grpcLogger) Infof(format string, args ...any)    { g.l.Debugf(format, args...) }
func (g grpcLogger) Warning(args ...any)                 { g.l.Warningf("%s", fmt.Sprint(args...)) }
func (g grpcLogger) Warningln(args ...any)               { g.l.Warningf("%s", fmt.Sprint(args...)) }
func (g grpcLogger) Warningf(format string, args ...any) { g.l.Warningf(format, args...) }
func (g grpcLogger) Error(args ...any)                   { g.l.Errorf("%s", fmt.Sprint(args...)) }
func (g grpcLogger) Errorln(args ...any)                 { g.l.Errorf("%s", fmt.Sprint(args...)) }
func (g grpcLogger) Errorf(format string, args ...any)   { g.l.Errorf(format, args...) }

func (g grpcLogger) Fatal(args ...any) {
	g.l.Errorf("%s", fmt.Sprint(args...))
	os.Exit(1)
}

func (g grpcLogger) Fatalln(args ...any) {
	g.l.Errorf("%s", fmt.Sprint(args...))
	os.Exit(1)
}

func (g grpcLogger) Fatalf(format string, args ...any) {
	g.l.Errorf(format, args...)
	os.Exit(1)
}

// V reports whether verbosity level l is at least the requested verbose level.
// Verbose grpc logs are never enabled.
func (g grpcLogger) V(l int) bool {
	return l <= 0
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return logger.INFO, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// loggerNames lists all named loggers used by the application
var loggerNames = []string{
	"rpc",
	"transport/rpc",
	"client",
	"codec",
	"grpc",
}

// InitLoggers initializes all loggers with the custom format and the given level
func InitLoggers(level string) error {
	logLevel, err := ParseLogLevel(level)
	if err != nil {
		return err
	}

	// Set as the global logger factory
	logger.SetLoggerFactory(NewLoggerFactory(os.Stderr))

	// Configure the application loggers
	for _, name := range loggerNames {
		logger.GetLogger(name).SetLevel(logLevel)
	}

	// Route the grpc-go internal logs into the grpc logger
	grpclog.SetLoggerV2(grpcLogger{l: logger.GetLogger("grpc")})

	return nil
}
