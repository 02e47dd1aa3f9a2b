package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyCategory   = "category"
	KeyPlugin     = "plugin"
	KeyHook       = "hook"
	KeyStage      = "stage"
	KeyEvent      = "event"
	KeyDurationMS = "duration_ms"
	KeyAssets     = "assets"
	KeyDocuments  = "documents"
	KeyOutput     = "output"
	KeyRunID      = "run_id"
	KeyError      = "error"
	KeyMethod     = "method"
	KeyStatus     = "status"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func Hook(point string) slog.Attr     { return slog.String(KeyHook, point) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Event(kind string) slog.Attr     { return slog.String(KeyEvent, kind) }
func Assets(n int) slog.Attr          { return slog.Int(KeyAssets, n) }
func Documents(n int) slog.Attr       { return slog.Int(KeyDocuments, n) }
func Output(dir string) slog.Attr     { return slog.String(KeyOutput, dir) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }

// Since is DurationMS measured from start.
func Since(start time.Time) slog.Attr {
	return DurationMS(float64(time.Since(start).Microseconds()) / 1000.0)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
