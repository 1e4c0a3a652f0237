package paypal

import (
	"fmt"
	"strings"
)

// TransactionFields selects which field groups the reporting API
// attaches to each transaction record.
type TransactionFields uint

// Transaction field groups, in the order the API parameter lists them.
const (
	FieldTransaction TransactionFields = 1 << iota
	FieldPayer
	FieldShipping
	FieldAuction
	FieldCart
	FieldIncentive
	FieldStore
)

// AllTransactionFields requests every field group.
const AllTransactionFields = FieldTransaction | FieldPayer | FieldShipping |
	FieldAuction | FieldCart | FieldIncentive | FieldStore

var transactionFieldNames = []struct {
	name string
	flag TransactionFields
}{
	{"transaction", FieldTransaction},
	{"payer", FieldPayer},
	{"shipping", FieldShipping},
	{"auction", FieldAuction},
	{"cart", FieldCart},
	{"incentive", FieldIncentive},
	{"store", FieldStore},
}

// paramValue renders the set as the reporting API's fields parameter.
// Each group carries the _info suffix the endpoint uses.
func (f TransactionFields) paramValue() string {
	parts := make([]string, 0, len(transactionFieldNames))
	for _, e := range transactionFieldNames {
		if f&e.flag != 0 {
			parts = append(parts, e.name+"_info")
		}
	}
	return strings.Join(parts, ",")
}

// String names the selected groups, "all" when every group is set.
func (f TransactionFields) String() string {
	if f == AllTransactionFields {
		return "all"
	}
	parts := make([]string, 0, len(transactionFieldNames))
	for _, e := range transactionFieldNames {
		if f&e.flag != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, ",")
}

// ParseTransactionFields resolves one field-name argument, matched
// case-insensitively; "all" selects every group.
func ParseTransactionFields(arg string) (TransactionFields, error) {
	name := strings.ToLower(strings.TrimSpace(arg))
	if name == "all" {
		return AllTransactionFields, nil
	}
	for _, e := range transactionFieldNames {
		if e.name == name {
			return e.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown transaction field %q", arg)
}

// TransactionFieldChoices lists the arguments ParseTransactionFields
// accepts.
func TransactionFieldChoices() []string {
	choices := make([]string, 0, len(transactionFieldNames)+1)
	for _, e := range transactionFieldNames {
		choices = append(choices, e.name)
	}
	return append(choices, "all")
}

// SubscriptionFields selects which optional blocks the subscriptions
// API embeds in a record.
type SubscriptionFields uint

// Subscription field blocks.
const (
	FieldLastFailedPayment SubscriptionFields = 1 << iota
	FieldPlan
)

// AllSubscriptionFields requests every optional block.
const AllSubscriptionFields = FieldLastFailedPayment | FieldPlan

var subscriptionFieldNames = []struct {
	name string
	flag SubscriptionFields
}{
	{"last_failed_payment", FieldLastFailedPayment},
	{"plan", FieldPlan},
}

// paramValue renders the set as the subscriptions API's fields
// parameter. Unlike the reporting endpoint, block names are used as-is.
func (f SubscriptionFields) paramValue() string {
	parts := make([]string, 0, len(subscriptionFieldNames))
	for _, e := range subscriptionFieldNames {
		if f&e.flag != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, ",")
}

// String names the selected blocks, "all" when every block is set.
func (f SubscriptionFields) String() string {
	if f == AllSubscriptionFields {
		return "all"
	}
	parts := make([]string, 0, len(subscriptionFieldNames))
	for _, e := range subscriptionFieldNames {
		if f&e.flag != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, ",")
}

// ParseSubscriptionFields resolves one field-name argument, matched
// case-insensitively; "all" selects every block.
func ParseSubscriptionFields(arg string) (SubscriptionFields, error) {
	name := strings.ToLower(strings.TrimSpace(arg))
	if name == "all" {
		return AllSubscriptionFields, nil
	}
	for _, e := range subscriptionFieldNames {
		if e.name == name {
			return e.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown subscription field %q", arg)
}

// SubscriptionFieldChoices lists the arguments ParseSubscriptionFields
// accepts.
func SubscriptionFieldChoices() []string {
	choices := make([]string, 0, len(subscriptionFieldNames)+1)
	for _, e := range subscriptionFieldNames {
		choices = append(choices, e.name)
	}
	return append(choices, "all")
}
