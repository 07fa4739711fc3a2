package order

import "time"

type Bucket string

const (
	BucketUnpaid           Bucket = "unpaid"
	BucketAwaitingDelivery Bucket = "awaiting_delivery"
	BucketCompleted        Bucket = "completed"
)

type Address struct {
	FullName   string `json:"full_name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// PaymentResult is the already-verified confirmation payload from the
// payment collaborator. It is stored verbatim, never validated here.
type PaymentResult struct {
	ExternalID string `json:"external_id"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	PayerEmail string `json:"payer_email"`
}

// OrderItem snapshots a product at order time. Later product price
// changes never touch existing orders.
type OrderItem struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID              int64          `json:"id"`
	UserID          int64          `json:"user_id"`
	Items           []OrderItem    `json:"items"`
	ShippingAddress Address        `json:"shipping_address"`
	PaymentMethod   string         `json:"payment_method"`
	ItemsPrice      float64        `json:"items_price"`
	ShippingPrice   float64        `json:"shipping_price"`
	TaxPrice        float64        `json:"tax_price"`
	TotalPrice      float64        `json:"total_price"`
	IsPaid          bool           `json:"is_paid"`
	PaidAt          *time.Time     `json:"paid_at,omitempty"`
	PaymentResult   *PaymentResult `json:"payment_result,omitempty"`
	IsDelivered     bool           `json:"is_delivered"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (o *Order) InBucket(b Bucket) bool {
	switch b {
	case BucketUnpaid:
		return !o.IsPaid
	case BucketAwaitingDelivery:
		return o.IsPaid && !o.IsDelivered
	case BucketCompleted:
		return o.IsPaid && o.IsDelivered
	default:
		return false
	}
}

type ItemInput struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// CreateOrderInput is the client-submitted cart. Prices and totals are
// trusted as given.
type CreateOrderInput struct {
	UserID          int64       `json:"-"`
	Items           []ItemInput `json:"items"`
	ShippingAddress Address     `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
	ItemsPrice      float64     `json:"items_price"`
	ShippingPrice   float64     `json:"shipping_price"`
	TaxPrice        float64     `json:"tax_price"`
	TotalPrice      float64     `json:"total_price"`
}
