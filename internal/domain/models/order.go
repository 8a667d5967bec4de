package models

import "github.com/shopspring/decimal"

// Order is the host's view of a placed order, as far as the payment method cares
type Order struct {
	ID         string          `json:"id"`
	StoreScope int             `json:"store_scope"`
	OrderTotal decimal.Decimal `json:"order_total"`
	Status     PaymentStatus   `json:"payment_status"`
}

// CartItem is one line of a shopping cart
type CartItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
