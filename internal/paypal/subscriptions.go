package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/brettcs/paypal-rest/internal/record"
)

const subscriptionsPath = "/v1/billing/subscriptions"

// GetSubscription fetches one billing subscription by ID. The billing
// API looks records up by ID directly, so unlike transactions no window
// search is needed. A zero fields value requests every optional block.
func (c *Client) GetSubscription(ctx context.Context, id string, fields SubscriptionFields) (*record.Subscription, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if id == "" {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if fields == 0 {
		fields = AllSubscriptionFields
	}

	params := url.Values{}
	params.Set("fields", fields.paramValue())

	body, err := c.getBody(ctx, subscriptionsPath+"/"+url.PathEscape(id), params)
	if err != nil {
		return nil, err
	}
	return record.DecodeSubscription(json.RawMessage(body))
}
