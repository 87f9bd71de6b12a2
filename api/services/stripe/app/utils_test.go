package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"
)

func Test_ExtractReferences(t *testing.T) {
	cases := []struct {
		name         string
		raw          string
		subscription string
		customer     string
	}{
		{"plain ids", `{"subscription":"sub_1","customer":"cus_1"}`, "sub_1", "cus_1"},
		{"expanded", `{"subscription":{"id":"sub_2"},"customer":{"id":"cus_2","email":"a@b.c"}}`, "sub_2", "cus_2"},
		{"nulls", `{"subscription":null,"customer":null}`, "", ""},
		{"absent", `{"id":"cs_1","amount_total":1200}`, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub, cus, err := extractReferences([]byte(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, tc.subscription, sub)
			assert.Equal(t, tc.customer, cus)
		})
	}
}

func Test_ExtractReferences_NotAnObject(t *testing.T) {
	_, _, err := extractReferences([]byte(`["sub_1"]`))
	assert.Error(t, err)
}

func Test_LineItemPriceIDs_MissingFieldsAreEmpty(t *testing.T) {
	cs := stripe.CheckoutSession{LineItems: &stripe.LineItemList{Data: []*stripe.LineItem{
		{Price: &stripe.Price{ID: "price_basic"}},
		{},
		nil,
	}}}
	assert.Equal(t, []string{"price_basic", "", ""}, lineItemPriceIDs(cs))
	assert.Nil(t, lineItemPriceIDs(stripe.CheckoutSession{}))
}

func Test_SubscriptionItemPriceIDs(t *testing.T) {
	sub := stripe.Subscription{Items: &stripe.SubscriptionItemList{Data: []*stripe.SubscriptionItem{
		{Price: &stripe.Price{ID: "price_pro"}},
		{},
	}}}
	assert.Equal(t, []string{"price_pro", ""}, subscriptionItemPriceIDs(sub))
}

func Test_NilSafeAccessors(t *testing.T) {
	assert.Equal(t, "", customerIDOf(nil))
	assert.Equal(t, "", subscriptionIDOf(nil))
	assert.Equal(t, "", priceIDOf(nil))
	assert.Equal(t, "cus_1", customerIDOf(&stripe.Customer{ID: "cus_1"}))
}
