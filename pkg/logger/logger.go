package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	jobIDFieldName = "JobID"
	ceFieldName    = "CE"
)

var stderr = struct{ io.Writer }{os.Stderr}

func init() { //nolint:gochecknoinits // init with zerolog is idiomatic
	configureLogging(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_TYPE"))
}

type tTesting interface {
	Log(args ...interface{})
	Logf(format string, args ...interface{})
	Helper()
	Cleanup(f func())
}

// ConfigureTestLogging allows logs to be associated with individual tests
func ConfigureTestLogging(t tTesting) {
	oldLogger := log.Logger
	oldContextLogger := zerolog.DefaultContextLogger
	configureLogging(os.Getenv("LOG_LEVEL"), "", zerolog.ConsoleTestWriter(t))
	t.Cleanup(func() {
		log.Logger = oldLogger
		zerolog.DefaultContextLogger = oldContextLogger
	})
}

// Configure replaces the global logger using the given level and output type.
// Empty values fall back to the LOG_LEVEL and LOG_TYPE environment variables.
func Configure(level, logType string) {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if logType == "" {
		logType = os.Getenv("LOG_TYPE")
	}
	configureLogging(level, logType)
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func configureLogging(level, logType string, loggingOptions ...func(w *zerolog.ConsoleWriter)) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(ParseLevel(level))

	isTerminal := isatty.IsTerminal(os.Stdout.Fd())

	defaultLogging := func(w *zerolog.ConsoleWriter) {
		w.Out = stderr
		w.NoColor = !isTerminal
		w.TimeFormat = "15:04:05.999 |"
		w.PartsOrder = []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		}
		w.FormatFieldName = func(i interface{}) string {
			return fmt.Sprintf("[%s:", i)
		}
		w.FormatFieldValue = func(i interface{}) string {
			if i == nil {
				i = ""
			}
			return fmt.Sprintf("%s]", i)
		}
	}

	loggingOptions = append([]func(w *zerolog.ConsoleWriter){defaultLogging}, loggingOptions...)
	textWriter := zerolog.NewConsoleWriter(loggingOptions...)

	zerolog.CallerMarshalFunc = shortCaller

	var useLogWriter io.Writer = textWriter
	switch strings.ToLower(logType) {
	case "json":
		useLogWriter = os.Stdout
	case "combined":
		useLogWriter = zerolog.MultiLevelWriter(textWriter, os.Stdout)
	}

	log.Logger = zerolog.New(useLogWriter).With().Timestamp().Caller().Logger()
	zerolog.DefaultContextLogger = &log.Logger
}

// shortCaller keeps the last two path elements of the caller's file.
func shortCaller(_ uintptr, file string, line int) string {
	short := file
	countedSeparators := 0
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			countedSeparators++
			if countedSeparators >= 2 { //nolint:gomnd
				short = file[i+1:]
				break
			}
		}
	}
	return short + ":" + strconv.Itoa(line)
}

// ContextWithJobLogger returns a context whose logger carries the job id.
func ContextWithJobLogger(ctx context.Context, jobID int64) context.Context {
	l := log.Ctx(ctx).With().Int64(jobIDFieldName, jobID).Logger()
	return l.WithContext(ctx)
}

// ContextWithCELogger returns a context whose logger carries the requesting CE.
func ContextWithCELogger(ctx context.Context, ce string) context.Context {
	l := log.Ctx(ctx).With().Str(ceFieldName, ce).Logger()
	return l.WithContext(ctx)
}
