package cpr

import (
	"fmt"
	"io"
	"log/slog"
)

// Redacted is what every generic rendering of a Record produces.
// It holds no digits, so it can never contain a field value.
const Redacted = "XXXXXX-XXXX"

// RedactedDisplay returns the constant placeholder for r.
func RedactedDisplay(Record) string {
	return Redacted
}

// String implements fmt.Stringer.
func (Record) String() string { return Redacted }

// GoString implements fmt.GoStringer so %#v does not dump fields.
func (Record) GoString() string { return Redacted }

// Format implements fmt.Formatter. Every verb and flag, %d and %+v included,
// renders the placeholder.
func (Record) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, Redacted)
}

// LogValue implements slog.LogValuer.
func (Record) LogValue() slog.Value {
	return slog.StringValue(Redacted)
}

// MarshalText implements encoding.TextMarshaler; encoding/json uses it too.
func (Record) MarshalText() ([]byte, error) {
	return []byte(Redacted), nil
}
