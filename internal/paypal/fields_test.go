package paypal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionFields_ParamValue(t *testing.T) {
	tests := []struct {
		name   string
		fields TransactionFields
		want   string
	}{
		{
			name:   "single group",
			fields: FieldTransaction,
			want:   "transaction_info",
		},
		{
			name:   "declaration order regardless of combination order",
			fields: FieldCart | FieldPayer,
			want:   "payer_info,cart_info",
		},
		{
			name:   "all groups",
			fields: AllTransactionFields,
			want:   "transaction_info,payer_info,shipping_info,auction_info,cart_info,incentive_info,store_info",
		},
		{
			name:   "none",
			fields: 0,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fields.paramValue())
		})
	}
}

func TestParseTransactionFields(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    TransactionFields
		wantErr bool
	}{
		{name: "plain name", arg: "payer", want: FieldPayer},
		{name: "case insensitive", arg: "CART", want: FieldCart},
		{name: "padded", arg: " store ", want: FieldStore},
		{name: "all", arg: "all", want: AllTransactionFields},
		{name: "unknown", arg: "refunds", wantErr: true},
		{name: "empty", arg: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTransactionFields(tt.arg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown transaction field")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransactionFields_String(t *testing.T) {
	assert.Equal(t, "all", AllTransactionFields.String())
	assert.Equal(t, "transaction,cart", (FieldTransaction | FieldCart).String())
}

func TestTransactionFieldChoices(t *testing.T) {
	choices := TransactionFieldChoices()
	assert.Equal(t, []string{
		"transaction", "payer", "shipping", "auction", "cart", "incentive", "store", "all",
	}, choices)
}

func TestSubscriptionFields_ParamValue(t *testing.T) {
	assert.Equal(t, "last_failed_payment,plan", AllSubscriptionFields.paramValue())
	assert.Equal(t, "plan", FieldPlan.paramValue())
	assert.Equal(t, "last_failed_payment", FieldLastFailedPayment.paramValue())
}

func TestParseSubscriptionFields(t *testing.T) {
	got, err := ParseSubscriptionFields("plan")
	require.NoError(t, err)
	assert.Equal(t, FieldPlan, got)

	got, err = ParseSubscriptionFields("ALL")
	require.NoError(t, err)
	assert.Equal(t, AllSubscriptionFields, got)

	_, err = ParseSubscriptionFields("invoices")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown subscription field")
}

func TestSubscriptionFieldChoices(t *testing.T) {
	assert.Equal(t, []string{"last_failed_payment", "plan", "all"}, SubscriptionFieldChoices())
}
