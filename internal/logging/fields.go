package logging

import "log/slog"

// Common field names for consistent logging across components.
const (
	FieldComponent = "component"
	FieldEventID   = "event_id"
	FieldBatchID   = "batch_id"
	FieldKey       = "key"
	FieldCount     = "count"
	FieldError     = "error"
)

// Component returns a slog attribute identifying a subsystem.
func Component(name string) slog.Attr {
	return slog.String(FieldComponent, name)
}

// EventID returns a slog attribute for an event ID.
func EventID(id string) slog.Attr {
	return slog.String(FieldEventID, id)
}

// BatchID returns a slog attribute for an archive batch ID.
func BatchID(id int64) slog.Attr {
	return slog.Int64(FieldBatchID, id)
}

// Key returns a slog attribute for a correlation key.
func Key(key string) slog.Attr {
	return slog.String(FieldKey, key)
}

// Count returns a slog attribute for an event or batch count.
func Count(n int) slog.Attr {
	return slog.Int(FieldCount, n)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
