package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/brettcs/paypal-rest/internal/cli"
	"github.com/brettcs/paypal-rest/internal/config"
	"github.com/brettcs/paypal-rest/internal/paypal"
	"github.com/brettcs/paypal-rest/internal/record"
)

func runQuery(cmd *cobra.Command, args []string) error {
	begin, err := parseTimeFlag("begin", beginArg)
	if err != nil {
		return err
	}
	end, err := parseTimeFlag("end", endArg)
	if err != nil {
		return err
	}
	if end.IsZero() {
		end = time.Now().UTC()
	}

	txnFields, err := combineTransactionFields(txnFieldArgs)
	if err != nil {
		return err
	}
	subFields, err := combineSubscriptionFields(subFieldArgs)
	if err != nil {
		return err
	}

	creds, err := config.Credentials(viper.GetViper(), configSection)
	if err != nil {
		return err
	}
	client, err := paypal.New(creds)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if len(args) == 0 {
		return listTransactions(ctx, client, begin, end, txnFields)
	}
	return lookupRecords(ctx, client, args, begin, end, txnFields, subFields)
}

// listTransactions summarizes every transaction in the date range to
// stdout, oldest first.
func listTransactions(ctx context.Context, client *paypal.Client, begin, end time.Time, fields paypal.TransactionFields) error {
	if begin.IsZero() {
		begin = end.Add(-24 * time.Hour)
	}
	// The summary always needs the core transaction group.
	fields |= paypal.FieldTransaction

	iter, err := client.ListTransactions(ctx, begin, end, paypal.WithListFields(fields))
	if err != nil {
		return err
	}
	count := 0
	for iter.Next() {
		if err := cli.SummarizeTransaction(os.Stdout, iter.Transaction()); err != nil {
			return err
		}
		count++
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if count == 0 {
		fmt.Fprintln(os.Stderr, cli.FormatWarning(fmt.Sprintf("No transactions between %s and %s",
			begin.UTC().Format("2006-01-02 15:04"), end.UTC().Format("2006-01-02 15:04"))))
	}
	return nil
}

// lookupRecords fetches each ID and dumps it to stdout as YAML.
// Subscription IDs hit the billing API directly; anything else is
// searched for in transaction history.
func lookupRecords(ctx context.Context, client *paypal.Client, ids []string, begin, end time.Time, txnFields paypal.TransactionFields, subFields paypal.SubscriptionFields) error {
	for _, id := range ids {
		id = strings.ToUpper(id)
		switch record.KindForID(id) {
		case record.KindSubscription:
			sub, err := client.GetSubscription(ctx, id, subFields)
			if err != nil {
				return err
			}
			if err := cli.DumpSubscription(os.Stdout, sub); err != nil {
				return err
			}
		default:
			txn, err := findTransaction(ctx, client, id, begin, end, txnFields)
			if err != nil {
				return err
			}
			if err := cli.DumpTransaction(os.Stdout, txn, txnFields); err != nil {
				return err
			}
		}
	}
	return nil
}

// findTransaction runs the windowed history search, drawing progress to
// stderr when it is a terminal.
func findTransaction(ctx context.Context, client *paypal.Client, id string, begin, end time.Time, fields paypal.TransactionFields) (*record.Transaction, error) {
	opts := []paypal.SearchOption{
		paypal.WithSearchEnd(end),
		paypal.WithSearchFields(fields),
	}
	if !begin.IsZero() {
		opts = append(opts, paypal.WithSearchStart(begin))
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		progress := cli.NewSearchProgress(os.Stderr, id)
		defer progress.Done()
		opts = append(opts, paypal.WithScanProgress(progress.Update))
	}
	return client.FindTransaction(ctx, id, opts...)
}

func parseTimeFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := record.ParseTimestamp(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s value: %w", name, err)
	}
	return t, nil
}

// combineTransactionFields ORs the parsed flag values together, or
// returns every field group when none were given.
func combineTransactionFields(names []string) (paypal.TransactionFields, error) {
	if len(names) == 0 {
		return paypal.AllTransactionFields, nil
	}
	var fields paypal.TransactionFields
	for _, name := range names {
		f, err := paypal.ParseTransactionFields(name)
		if err != nil {
			return 0, err
		}
		fields |= f
	}
	return fields, nil
}

func combineSubscriptionFields(names []string) (paypal.SubscriptionFields, error) {
	if len(names) == 0 {
		return paypal.AllSubscriptionFields, nil
	}
	var fields paypal.SubscriptionFields
	for _, name := range names {
		f, err := paypal.ParseSubscriptionFields(name)
		if err != nil {
			return 0, err
		}
		fields |= f
	}
	return fields, nil
}
