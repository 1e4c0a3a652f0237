// Package record decodes the raw JSON records the PayPal REST API
// returns into structured values. Records keep their original bytes;
// field groups are decoded lazily so callers only pay for (and only
// need to have requested) the fields they read.
package record

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind identifies which PayPal resource a raw record came from.
type Kind string

// Record kinds.
const (
	KindTransaction  Kind = "transaction"
	KindSubscription Kind = "subscription"
)

// Record is a decoded PayPal record of any kind.
type Record interface {
	// RecordID returns the record's own identifier.
	RecordID() (string, error)
	// Raw returns the record's original JSON bytes.
	Raw() json.RawMessage
}

// Decode decodes a raw API record of the given kind.
func Decode(raw json.RawMessage, kind Kind) (Record, error) {
	switch kind {
	case KindTransaction:
		return DecodeTransaction(raw)
	case KindSubscription:
		return DecodeSubscription(raw)
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
}

// KindForID infers a record's kind from PayPal's ID conventions:
// subscription IDs carry an "I-" prefix, transaction IDs do not.
func KindForID(id string) Kind {
	if strings.HasPrefix(strings.ToUpper(id), "I-") {
		return KindSubscription
	}
	return KindTransaction
}

// timestampLayouts covers the ISO 8601 shapes PayPal emits. The API is
// not consistent: reporting endpoints use offsets without a colon
// ("+0000") while billing endpoints use RFC 3339.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO 8601 timestamp in any of the forms the
// API (or a user on the command line) produces. Timestamps without an
// offset are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
