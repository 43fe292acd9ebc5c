package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/go-syncguard/internal/jsonutil"
)

// Rotation settings for the append-only log file
const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 5
	logFileMaxAgeDays = 90
)

// StructuredFormatter provides JSON output formatting for structured logging.
type StructuredFormatter struct {
	// DisableTimestamp disables automatic timestamp generation
	DisableTimestamp bool
	// TimestampFormat sets the format for the timestamp field
	TimestampFormat string
}

// NewStructuredFormatter creates a new StructuredFormatter with default settings.
func NewStructuredFormatter() *StructuredFormatter {
	return &StructuredFormatter{
		TimestampFormat: time.RFC3339,
	}
}

// Format formats a logrus.Entry as JSON with standardized fields.
func (f *StructuredFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	data := make(logrus.Fields, len(entry.Data)+3)
	for k, v := range entry.Data {
		if err, ok := v.(error); ok {
			data[k] = err.Error()
			continue
		}
		data[k] = v
	}

	data["level"] = entry.Level.String()
	data["message"] = entry.Message

	if !f.DisableTimestamp {
		timestampFormat := f.TimestampFormat
		if timestampFormat == "" {
			timestampFormat = time.RFC3339
		}
		data[StandardFields.Timestamp] = entry.Time.Format(timestampFormat)
	}

	jsonBytes, err := jsonutil.MarshalJSON(data)
	if err != nil {
		return nil, err // Error already wrapped by jsonutil
	}

	return append(jsonBytes, '\n'), nil
}

// FileHook copies every entry, JSON formatted, to an additional writer.
type FileHook struct {
	Writer    io.Writer
	Formatter logrus.Formatter
}

// Levels returns all levels: the log file is a complete record.
func (h *FileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire writes the formatted entry to the hook writer.
func (h *FileHook) Fire(entry *logrus.Entry) error {
	line, err := h.Formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.Writer.Write(line)
	return err
}

// NewRotatingWriter returns a size-rotated, compressed, append-only writer for path.
func NewRotatingWriter(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Clean(path),
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		MaxAge:     logFileMaxAgeDays,
		Compress:   true,
	}
}

// ResolveLevel maps the verbose count and explicit level to a logrus level.
// Verbose flags override an explicit level.
func ResolveLevel(config *LogConfig) (logrus.Level, error) {
	if config == nil {
		return logrus.InfoLevel, nil
	}

	switch {
	case config.Verbose == 1:
		return logrus.DebugLevel, nil
	case config.Verbose >= 2:
		return logrus.TraceLevel, nil
	case config.LogLevel != "":
		level, err := logrus.ParseLevel(strings.ToLower(config.LogLevel))
		if err != nil {
			return logrus.InfoLevel, fmt.Errorf("invalid log level %q: %w", config.LogLevel, err)
		}
		return level, nil
	default:
		return logrus.InfoLevel, nil
	}
}

// ConfigureLogger configures a logrus.Logger instance based on LogConfig settings.
func ConfigureLogger(logger *logrus.Logger, config *LogConfig) error {
	if config == nil {
		return nil
	}

	level, err := ResolveLevel(config)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	if config.LogFormat == "json" {
		logger.SetFormatter(NewStructuredFormatter())
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors:    false,
			FullTimestamp:    true,
			TimestampFormat:  "15:04:05",
			PadLevelText:     true,
			QuoteEmptyFields: true,
		})
	}
	return nil
}

// AttachLogFile appends every entry of logger, as structured JSON, to a
// rotating file at path. Close the returned writer when done.
func AttachLogFile(logger *logrus.Logger, path string) io.Closer {
	writer := NewRotatingWriter(path)
	logger.AddHook(&FileHook{Writer: writer, Formatter: NewStructuredFormatter()})
	return writer
}
