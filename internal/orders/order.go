package orders

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghartak/ghartak-backend/pkg/enums"
	pkgerrors "github.com/ghartak/ghartak-backend/pkg/errors"
)

// LineItem is one cart entry frozen into the order at creation. The cart is a
// snapshot, never a live reference; nothing rewrites it afterwards.
type LineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	VendorID  string          `json:"vendorId"`
	Category  string          `json:"category,omitempty"`
	Image     string          `json:"image,omitempty"`
}

// Subtotal returns price * quantity for the line.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Address is the delivery destination captured at checkout.
type Address struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Street  string `json:"street"`
	Area    string `json:"area,omitempty"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

// PaymentDetails is stamped exactly once, when online verification succeeds.
type PaymentDetails struct {
	RazorpayOrderID   string    `json:"razorpay_order_id"`
	RazorpayPaymentID string    `json:"razorpay_payment_id"`
	RazorpaySignature string    `json:"razorpay_signature"`
	PaidAt            time.Time `json:"paidAt"`
}

// Order is the central entity, stored as one JSON document per order under
// "order:<orderId>". OrderID, Cart, Address, PaymentMethod and TotalAmount
// are immutable after creation; only Status, PaymentStatus, PaymentDetails
// and UpdatedAt may change.
type Order struct {
	OrderID        string              `json:"orderId"`
	UserID         string              `json:"userId,omitempty"`
	Cart           []LineItem          `json:"cart"`
	Address        Address             `json:"address"`
	PaymentMethod  enums.PaymentMethod `json:"paymentMethod"`
	TotalAmount    decimal.Decimal     `json:"totalAmount"`
	Status         enums.OrderStatus   `json:"status"`
	PaymentStatus  enums.PaymentStatus `json:"paymentStatus"`
	PaymentDetails *PaymentDetails     `json:"paymentDetails,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// Validate rejects malformed documents at the store boundary so undefined
// fields never propagate into the read side.
func (o *Order) Validate() error {
	if o == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "order document is nil")
	}
	switch {
	case o.OrderID == "":
		return pkgerrors.New(pkgerrors.CodeInternal, "order document missing orderId")
	case len(o.Cart) == 0:
		return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("order %s has empty cart", o.OrderID))
	case !o.PaymentMethod.IsValid():
		return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("order %s has invalid payment method %q", o.OrderID, o.PaymentMethod))
	case !o.Status.IsValid():
		return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("order %s has invalid status %q", o.OrderID, o.Status))
	case !o.PaymentStatus.IsValid():
		return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("order %s has invalid payment status %q", o.OrderID, o.PaymentStatus))
	case o.CreatedAt.IsZero():
		return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("order %s missing createdAt", o.OrderID))
	}
	return nil
}

const orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewOrderID generates an "ORD-<millis>-<random>" identifier. The random
// suffix makes ids created within the same millisecond distinct.
func NewOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), randomSuffix(7))
}

func randomSuffix(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is unusable anyway.
		panic(fmt.Sprintf("reading random bytes: %v", err))
	}
	for i, b := range buf {
		buf[i] = orderIDAlphabet[int(b)%len(orderIDAlphabet)]
	}
	return string(buf)
}
