package record

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the single-letter status code the reporting API
// attaches to every transaction.
type TransactionStatus string

// Transaction status codes.
const (
	StatusDenied            TransactionStatus = "D"
	StatusPartiallyRefunded TransactionStatus = "F"
	StatusPending           TransactionStatus = "P"
	StatusSuccessful        TransactionStatus = "S"
	StatusReversed          TransactionStatus = "V"
)

var statusDescriptions = map[TransactionStatus]string{
	StatusDenied:            "Denied",
	StatusPartiallyRefunded: "Partially Refunded",
	StatusPending:           "Pending",
	StatusSuccessful:        "Successful",
	StatusReversed:          "Reversed",
}

// Description returns the human-readable meaning of the status code.
func (s TransactionStatus) Description() string {
	if d, ok := statusDescriptions[s]; ok {
		return d
	}
	return string(s)
}

// CartItem is one line item from a transaction's cart field group.
type CartItem struct {
	Code        string
	Name        string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   Amount
	TotalPrice  Amount
}

// Transaction wraps one raw record from the transactions reporting
// endpoint. Accessors decode on demand; reading a field group the
// original query did not request returns a *MissingFieldError.
type Transaction struct {
	groups map[string]json.RawMessage
	raw    json.RawMessage
}

// DecodeTransaction decodes a raw reporting record.
func DecodeTransaction(raw json.RawMessage) (*Transaction, error) {
	var groups map[string]json.RawMessage
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, &DecodeError{Path: "transaction", Err: err}
	}
	return &Transaction{
		groups: groups,
		raw:    append(json.RawMessage(nil), raw...),
	}, nil
}

// TransactionID extracts just the identifier from a raw reporting
// record, without decoding anything else. Records that carry no
// identifier yield an empty string.
func TransactionID(raw json.RawMessage) (string, error) {
	var probe struct {
		TransactionInfo struct {
			TransactionID string `json:"transaction_id"`
		} `json:"transaction_info"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", &DecodeError{Path: "transaction_info.transaction_id", Err: err}
	}
	return probe.TransactionInfo.TransactionID, nil
}

// Raw returns the record's original JSON bytes.
func (t *Transaction) Raw() json.RawMessage { return t.raw }

// RecordID implements Record.
func (t *Transaction) RecordID() (string, error) { return t.TransactionID() }

// Group returns the raw JSON of one field group and whether the record
// contains it.
func (t *Transaction) Group(name string) (json.RawMessage, bool) {
	raw, ok := t.groups[name]
	return raw, ok
}

// TransactionID returns the record's identifier.
func (t *Transaction) TransactionID() (string, error) {
	return t.stringLeaf("transaction_info", "transaction_id")
}

// Status returns the transaction's status code.
func (t *Transaction) Status() (TransactionStatus, error) {
	s, err := t.stringLeaf("transaction_info", "transaction_status")
	if err != nil {
		return "", err
	}
	status := TransactionStatus(s)
	if _, ok := statusDescriptions[status]; !ok {
		return "", &DecodeError{
			Path: "transaction_info.transaction_status",
			Err:  fmt.Errorf("unknown status code %q", s),
		}
	}
	return status, nil
}

// Amount returns the transaction's gross amount.
func (t *Transaction) Amount() (Amount, error) {
	return t.amountLeaf("transaction_info", "transaction_amount")
}

// FeeAmount returns the PayPal fee, or nil when the record carries none.
func (t *Transaction) FeeAmount() (*Amount, error) {
	fields, err := t.group("transaction_info")
	if err != nil {
		return nil, err
	}
	raw, ok := fields["fee_amount"]
	if !ok {
		return nil, nil
	}
	var a Amount
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, &DecodeError{Path: "transaction_info.fee_amount", Err: err}
	}
	return &a, nil
}

// InitiationDate returns when the transaction was started.
func (t *Transaction) InitiationDate() (time.Time, error) {
	return t.timeLeaf("transaction_info", "transaction_initiation_date")
}

// UpdatedDate returns when the transaction last changed.
func (t *Transaction) UpdatedDate() (time.Time, error) {
	return t.timeLeaf("transaction_info", "transaction_updated_date")
}

// TransactionSubject returns the transaction's free-text subject, empty
// when the record has none.
func (t *Transaction) TransactionSubject() (string, error) {
	fields, err := t.group("transaction_info")
	if err != nil {
		return "", err
	}
	raw, ok := fields["transaction_subject"]
	if !ok {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &DecodeError{Path: "transaction_info.transaction_subject", Err: err}
	}
	return s, nil
}

// PayerEmail returns the payer's email address.
func (t *Transaction) PayerEmail() (string, error) {
	return t.stringLeaf("payer_info", "email_address")
}

// PayerFullName returns the payer's full name as PayPal displays it.
func (t *Transaction) PayerFullName() (string, error) {
	raw, err := t.leaf("payer_info", "payer_name")
	if err != nil {
		return "", err
	}
	var name struct {
		AlternateFullName string `json:"alternate_full_name"`
	}
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", &DecodeError{Path: "payer_info.payer_name", Err: err}
	}
	if name.AlternateFullName == "" {
		return "", &DecodeError{Path: "payer_info.payer_name.alternate_full_name", Err: ErrAbsent}
	}
	return name.AlternateFullName, nil
}

// CartItems returns the cart's line items. Items the API reports
// without an amount are dropped; quantities default to one, and a
// missing unit price is derived from the total.
func (t *Transaction) CartItems() ([]CartItem, error) {
	fields, err := t.group("cart_info")
	if err != nil {
		return nil, err
	}
	rawItems, ok := fields["item_details"]
	if !ok {
		return nil, nil
	}
	var sources []cartItemJSON
	if err := json.Unmarshal(rawItems, &sources); err != nil {
		return nil, &DecodeError{Path: "cart_info.item_details", Err: err}
	}
	items := make([]CartItem, 0, len(sources))
	for _, src := range sources {
		if src.ItemAmount == nil {
			continue
		}
		items = append(items, src.toCartItem())
	}
	return items, nil
}

type cartItemJSON struct {
	ItemQuantity    *decimal.Decimal `json:"item_quantity"`
	ItemUnitPrice   *Amount          `json:"item_unit_price"`
	ItemAmount      *Amount          `json:"item_amount"`
	ItemCode        string           `json:"item_code"`
	ItemName        string           `json:"item_name"`
	ItemDescription string           `json:"item_description"`
}

func (c cartItemJSON) toCartItem() CartItem {
	quantity := decimal.NewFromInt(1)
	if c.ItemQuantity != nil && !c.ItemQuantity.IsZero() {
		quantity = *c.ItemQuantity
	}
	unit := *c.ItemAmount
	if c.ItemUnitPrice != nil {
		unit = *c.ItemUnitPrice
	} else {
		unit.Value = c.ItemAmount.Value.Div(quantity)
	}
	return CartItem{
		Code:        c.ItemCode,
		Name:        c.ItemName,
		Description: c.ItemDescription,
		Quantity:    quantity,
		UnitPrice:   unit,
		TotalPrice:  *c.ItemAmount,
	}
}

func (t *Transaction) group(name string) (map[string]json.RawMessage, error) {
	raw, ok := t.groups[name]
	if !ok {
		return nil, &MissingFieldError{Field: name}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &DecodeError{Path: name, Err: err}
	}
	return fields, nil
}

func (t *Transaction) leaf(group, key string) (json.RawMessage, error) {
	fields, err := t.group(group)
	if err != nil {
		return nil, err
	}
	raw, ok := fields[key]
	if !ok {
		return nil, &DecodeError{Path: group + "." + key, Err: ErrAbsent}
	}
	return raw, nil
}

func (t *Transaction) stringLeaf(group, key string) (string, error) {
	raw, err := t.leaf(group, key)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &DecodeError{Path: group + "." + key, Err: err}
	}
	return s, nil
}

func (t *Transaction) timeLeaf(group, key string) (time.Time, error) {
	s, err := t.stringLeaf(group, key)
	if err != nil {
		return time.Time{}, err
	}
	ts, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, &DecodeError{Path: group + "." + key, Err: err}
	}
	return ts, nil
}

func (t *Transaction) amountLeaf(group, key string) (Amount, error) {
	raw, err := t.leaf(group, key)
	if err != nil {
		return Amount{}, err
	}
	var a Amount
	if err := json.Unmarshal(raw, &a); err != nil {
		return Amount{}, &DecodeError{Path: group + "." + key, Err: err}
	}
	return a, nil
}
