package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/brettcs/paypal-rest/internal/paypal"
	"github.com/brettcs/paypal-rest/internal/record"
)

// transactionDumpOrder fixes the group order of transaction dumps so the
// most useful groups come out first. Plain maps would be sorted
// alphabetically on marshal.
var transactionDumpOrder = []struct {
	field paypal.TransactionFields
	group string
}{
	{paypal.FieldShipping, "shipping_info"},
	{paypal.FieldPayer, "payer_info"},
	{paypal.FieldTransaction, "transaction_info"},
	{paypal.FieldCart, "cart_info"},
	{paypal.FieldStore, "store_info"},
	{paypal.FieldAuction, "auction_info"},
	{paypal.FieldIncentive, "incentive_info"},
}

// SummarizeTransaction writes a one-line header for txn followed by its
// cart contents, one aligned row per item. The header is tab-separated
// so long listings stay easy to scan and grep.
func SummarizeTransaction(w io.Writer, txn *record.Transaction) error {
	id, err := txn.TransactionID()
	if err != nil {
		return err
	}
	updated, err := txn.UpdatedDate()
	if err != nil {
		return err
	}
	status, err := txn.Status()
	if err != nil {
		return err
	}
	header := fmt.Sprintf("%s\t%s\t%s",
		updated.UTC().Format("2006-01-02 15:04"),
		id,
		StatusStyle(status).Render(status.Description()),
	)
	payer, err := summarizePayer(txn)
	if err != nil {
		return err
	}
	if payer != "" {
		header += "\t" + payer
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	rows, err := cartRows(txn)
	if err != nil {
		return err
	}
	var nameLen, totalLen int
	for _, row := range rows {
		nameLen = max(nameLen, utf8.RuneCountInString(row.name))
		totalLen = max(totalLen, utf8.RuneCountInString(row.total))
	}
	for _, row := range rows {
		_, err := fmt.Fprintf(w, "  %*s │ %*s%s\n", nameLen, row.name, totalLen, row.total, row.unit)
		if err != nil {
			return err
		}
	}
	return nil
}

// summarizePayer renders the "name (email)" header segment, or an empty
// string when the record does not identify the payer.
func summarizePayer(txn *record.Transaction) (string, error) {
	name, err := txn.PayerFullName()
	if record.IsAbsent(err) {
		return "", nil
	} else if err != nil {
		return "", err
	}
	email, err := txn.PayerEmail()
	if record.IsAbsent(err) {
		return "", nil
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (%s)", name, email), nil
}

type cartRow struct {
	name  string
	total string
	unit  string
}

// cartRows flattens the cart into printable rows. Records without cart
// details get a single row for the gross amount, and the PayPal fee is
// appended as its own row when the record carries one.
func cartRows(txn *record.Transaction) ([]cartRow, error) {
	items, err := txn.CartItems()
	if err != nil && !record.IsAbsent(err) {
		return nil, err
	}
	if len(items) == 0 {
		name, err := txn.TransactionSubject()
		if err != nil && !record.IsAbsent(err) {
			return nil, err
		}
		if name == "" {
			name = "Gross Amount"
		}
		amount, err := txn.Amount()
		if err != nil {
			return nil, err
		}
		items = []record.CartItem{{
			Name:       name,
			Quantity:   decimal.NewFromInt(1),
			UnitPrice:  amount,
			TotalPrice: amount,
		}}
	}
	fee, err := txn.FeeAmount()
	if err != nil && !record.IsAbsent(err) {
		return nil, err
	}
	if fee != nil {
		items = append(items, record.CartItem{
			Name:       "PayPal Fee",
			Quantity:   decimal.NewFromInt(1),
			UnitPrice:  *fee,
			TotalPrice: *fee,
		})
	}

	one := decimal.NewFromInt(1)
	rows := make([]cartRow, 0, len(items))
	for _, item := range items {
		row := cartRow{name: itemName(item), total: item.TotalPrice.String()}
		if !item.Quantity.Equal(one) {
			row.unit = fmt.Sprintf(" (%s @ %s)", item.Quantity, item.UnitPrice)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func itemName(item record.CartItem) string {
	switch {
	case item.Name != "":
		return item.Name
	case item.Description != "":
		return item.Description
	case item.Code != "":
		return item.Code
	default:
		return "Unknown Item"
	}
}

// DumpTransaction writes txn to w as a YAML document containing the
// requested field groups, in transactionDumpOrder. Requested groups the
// record does not carry are skipped.
func DumpTransaction(w io.Writer, txn *record.Transaction, fields paypal.TransactionFields) error {
	doc := yaml.Node{Kind: yaml.MappingNode}
	for _, entry := range transactionDumpOrder {
		if fields&entry.field == 0 {
			continue
		}
		raw, ok := txn.Group(entry.group)
		if !ok {
			continue
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("decoding %s: %w", entry.group, err)
		}
		var node yaml.Node
		if err := node.Encode(value); err != nil {
			return fmt.Errorf("encoding %s: %w", entry.group, err)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: entry.group},
			&node,
		)
	}
	return encodeYAML(w, &doc)
}

// DumpSubscription writes sub to w as a YAML document with sorted keys.
func DumpSubscription(w io.Writer, sub *record.Subscription) error {
	var value map[string]any
	if err := json.Unmarshal(sub.Raw(), &value); err != nil {
		return fmt.Errorf("decoding subscription: %w", err)
	}
	return encodeYAML(w, value)
}

// encodeYAML writes a single document without a document separator, so
// dumping several records in a row concatenates cleanly.
func encodeYAML(w io.Writer, value any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return err
	}
	return enc.Close()
}
