// internal/audit/audit.go
package audit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Logger writes the audit trail as JSON lines. It is constructed once at
// startup and handed to the components that need it; there is no package
// global.
type Logger struct {
	logger *slog.Logger
	file   *os.File
}

// Config controls where audit records go.
type Config struct {
	// Dir is the directory for audit.log. Empty means ./logs/audit.
	Dir string
	// Mirror, when set, additionally receives every record (tests use a
	// buffer here, main passes os.Stdout).
	Mirror io.Writer
	Level  slog.Leveler
}

// New opens the audit log file, creating the directory if needed.
func New(cfg Config) (*Logger, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = filepath.Join("logs", "audit")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("criar diretório de auditoria: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "audit.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("abrir arquivo de auditoria: %w", err)
	}

	var w io.Writer = f
	if cfg.Mirror != nil {
		w = io.MultiWriter(f, cfg.Mirror)
	}

	level := cfg.Level
	if level == nil {
		level = slog.LevelInfo
	}

	return &Logger{
		logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})),
		file:   f,
	}, nil
}

// NewWithWriter builds a Logger that writes only to w. Used by tests.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{logger: slog.New(slog.NewJSONHandler(w, nil))}
}

func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) log(level slog.Level, msg, recordType string, attrs ...any) {
	base := []any{"audit_id", uuid.NewString(), "type", recordType}
	l.logger.Log(context.Background(), level, msg, append(base, attrs...)...)
}

// ReportAccess records that a user viewed a report.
func (l *Logger) ReportAccess(userID uint, report string, attrs ...any) {
	l.log(slog.LevelInfo, "REPORT_ACCESS", "report_access",
		append([]any{"user_id", userID, "report", report}, attrs...)...)
}

// ReportExport records a report download.
func (l *Logger) ReportExport(userID uint, format, filename string) {
	l.log(slog.LevelInfo, "REPORT_EXPORT", "report_export",
		"user_id", userID, "format", format, "filename", filename)
}

// AccessDenied records a rejected request.
func (l *Logger) AccessDenied(route, method, reason string, userID uint) {
	l.log(slog.LevelWarn, "ACCESS_DENIED", "access_denied",
		"route", route, "method", method, "reason", reason, "user_id", userID)
}

// SystemError records an unexpected failure with its cause.
func (l *Logger) SystemError(scope string, err error) {
	l.log(slog.LevelError, "SYSTEM_ERROR", "system_error",
		"scope", scope, "error", err.Error())
}
