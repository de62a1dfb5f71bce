package logging

import (
	"errors"
	"log/slog"
	"time"
)

type Attr = slog.Attr

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// ItemID tags a record with the article it concerns.
func ItemID(id string) Attr { return slog.String(FieldItemID, id) }

// Transition records an edge as "from -> to".
func Transition(from, to string) Attr {
	return slog.String("transition", from+" -> "+to)
}

type kindClassifier interface {
	ErrorKind() string
}

// ErrorKindOf returns the classification carried by err, or "" when err (or
// anything it wraps) does not classify itself.
func ErrorKindOf(err error) string {
	var classified kindClassifier
	if errors.As(err, &classified) {
		return classified.ErrorKind()
	}
	return ""
}

// Args converts attrs into the variadic form slog methods accept.
func Args(attrs ...Attr) []any {
	args := make([]any, len(attrs))
	for i := range attrs {
		args[i] = attrs[i]
	}
	return args
}

// NewComponentLogger creates a logger with a standardized component attribute.
// If logger is nil, a no-op logger is used as the base.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// HasAttrKey returns true if any attribute in attrs has the given key.
func HasAttrKey(attrs []Attr, key string) bool {
	for _, a := range attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}

// WarnWithContext logs a warning carrying event_type, error_hint and impact.
// Missing fields get defaults, and error_kind is lifted from a classified
// error attr.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withOperatorFields(attrs, eventType)
	if !HasAttrKey(attrs, FieldImpact) {
		attrs = append(attrs, String(FieldImpact, "article workflow continued; review the affected item"))
	}
	logger.Warn(msg, Args(attrs...)...)
}

// ErrorWithContext logs an error carrying event_type and error_hint, plus
// error_kind when the error attr is classified.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	logger.Error(msg, Args(withOperatorFields(attrs, eventType)...)...)
}

func withOperatorFields(attrs []Attr, eventType string) []Attr {
	if !HasAttrKey(attrs, FieldEventType) {
		attrs = append(attrs, String(FieldEventType, eventType))
	}
	if !HasAttrKey(attrs, FieldErrorHint) {
		attrs = append(attrs, String(FieldErrorHint, "run copydesk doctor and check the log file"))
	}
	if !HasAttrKey(attrs, FieldErrorKind) {
		for _, a := range attrs {
			if a.Key != "error" {
				continue
			}
			if err, ok := a.Value.Any().(error); ok {
				if kind := ErrorKindOf(err); kind != "" {
					attrs = append(attrs, String(FieldErrorKind, kind))
				}
			}
			break
		}
	}
	return attrs
}
