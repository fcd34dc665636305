// Package logfields holds canonical log field name constants to avoid drift
// across packages.
package logfields

import "log/slog"

const (
	KeyPhase       = "phase"
	KeyPackage     = "package"
	KeyLocale      = "locale"
	KeyDomain      = "domain"
	KeyPath        = "path"
	KeyRoot        = "root"
	KeyRunID       = "run_id"
	KeyDurationMS  = "duration_ms"
	KeyFingerprint = "fingerprint"
	KeyCommand     = "command"
	KeyFormat      = "format"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Phase(name string) slog.Attr     { return slog.String(KeyPhase, name) }
func Package(name string) slog.Attr   { return slog.String(KeyPackage, name) }
func Locale(code string) slog.Attr    { return slog.String(KeyLocale, code) }
func Domain(name string) slog.Attr    { return slog.String(KeyDomain, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Root(r string) slog.Attr         { return slog.String(KeyRoot, r) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Fingerprint(fp string) slog.Attr { return slog.String(KeyFingerprint, fp) }
func Command(name string) slog.Attr   { return slog.String(KeyCommand, name) }
func Format(f string) slog.Attr       { return slog.String(KeyFormat, f) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
