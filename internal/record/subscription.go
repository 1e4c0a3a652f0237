package record

import (
	"encoding/json"
	"time"
)

// Subscription wraps one raw record from the billing subscriptions
// endpoint.
type Subscription struct {
	fields map[string]json.RawMessage
	raw    json.RawMessage
}

// DecodeSubscription decodes a raw subscription record.
func DecodeSubscription(raw json.RawMessage) (*Subscription, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &DecodeError{Path: "subscription", Err: err}
	}
	return &Subscription{
		fields: fields,
		raw:    append(json.RawMessage(nil), raw...),
	}, nil
}

// Raw returns the record's original JSON bytes.
func (s *Subscription) Raw() json.RawMessage { return s.raw }

// RecordID implements Record.
func (s *Subscription) RecordID() (string, error) { return s.ID() }

// ID returns the subscription's identifier.
func (s *Subscription) ID() (string, error) {
	return s.stringField("id")
}

// SubscriptionStatus returns the subscription's lifecycle status, for
// example ACTIVE or CANCELLED.
func (s *Subscription) SubscriptionStatus() (string, error) {
	return s.stringField("status")
}

// PlanID returns the identifier of the billing plan the subscriber is
// on.
func (s *Subscription) PlanID() (string, error) {
	return s.stringField("plan_id")
}

// StartTime returns when the subscription began.
func (s *Subscription) StartTime() (time.Time, error) {
	raw, err := s.stringField("start_time")
	if err != nil {
		return time.Time{}, err
	}
	ts, err := ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, &DecodeError{Path: "start_time", Err: err}
	}
	return ts, nil
}

func (s *Subscription) stringField(key string) (string, error) {
	raw, ok := s.fields[key]
	if !ok {
		return "", &DecodeError{Path: key, Err: ErrAbsent}
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", &DecodeError{Path: key, Err: err}
	}
	return v, nil
}
