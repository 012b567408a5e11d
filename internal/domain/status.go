package domain

import "fmt"

// PaymentState is the payment dimension of a document's progress.
type PaymentState uint8

const (
	PaymentUnpaid PaymentState = iota
	PaymentPartial
	PaymentFull
)

func (s PaymentState) String() string {
	switch s {
	case PaymentUnpaid:
		return "unpaid"
	case PaymentPartial:
		return "partial"
	case PaymentFull:
		return "full"
	default:
		return fmt.Sprintf("PaymentState(%d)", uint8(s))
	}
}

// FulfillmentState is the goods received (or delivered) dimension of a document's progress.
type FulfillmentState uint8

const (
	FulfillmentNone FulfillmentState = iota
	FulfillmentPartial
	FulfillmentFull
)

func (s FulfillmentState) String() string {
	switch s {
	case FulfillmentNone:
		return "none"
	case FulfillmentPartial:
		return "partial"
	case FulfillmentFull:
		return "full"
	default:
		return fmt.Sprintf("FulfillmentState(%d)", uint8(s))
	}
}

// Status is the composite lifecycle label of a purchase bill or sales invoice.
type Status string

const (
	StatusDraft                          Status = "draft"
	StatusPaid                           Status = "paid"
	StatusPartiallyPaid                  Status = "partially_paid"
	StatusReceived                       Status = "received"
	StatusPartiallyReceived              Status = "partially_received"
	StatusPaidReceived                   Status = "paid_received"
	StatusPaidPartiallyReceived          Status = "paid_partially_received"
	StatusPartiallyPaidReceived          Status = "partially_paid_received"
	StatusPartiallyPaidPartiallyReceived Status = "partially_paid_partially_received"
	StatusCancelled                      Status = "cancelled"
)

// statusTable maps payment × fulfillment to a composite status. Every cell is set.
var statusTable = [3][3]Status{
	PaymentUnpaid: {
		FulfillmentNone:    StatusDraft,
		FulfillmentPartial: StatusPartiallyReceived,
		FulfillmentFull:    StatusReceived,
	},
	PaymentPartial: {
		FulfillmentNone:    StatusPartiallyPaid,
		FulfillmentPartial: StatusPartiallyPaidPartiallyReceived,
		FulfillmentFull:    StatusPartiallyPaidReceived,
	},
	PaymentFull: {
		FulfillmentNone:    StatusPaid,
		FulfillmentPartial: StatusPaidPartiallyReceived,
		FulfillmentFull:    StatusPaidReceived,
	},
}

var statusLabels = map[Status]string{
	StatusDraft:                          "Draft",
	StatusPaid:                           "Paid",
	StatusPartiallyPaid:                  "Partially Paid",
	StatusReceived:                       "Received",
	StatusPartiallyReceived:              "Partially Received",
	StatusPaidReceived:                   "Paid & Received",
	StatusPaidPartiallyReceived:          "Paid & Partially Received",
	StatusPartiallyPaidReceived:          "Partially Paid & Received",
	StatusPartiallyPaidPartiallyReceived: "Partially Paid & Partially Received",
	StatusCancelled:                      "Cancelled",
}

// Statuses returns every status in display order.
func Statuses() []Status {
	return []Status{
		StatusDraft,
		StatusPartiallyPaid,
		StatusPaid,
		StatusPartiallyReceived,
		StatusReceived,
		StatusPartiallyPaidPartiallyReceived,
		StatusPartiallyPaidReceived,
		StatusPaidPartiallyReceived,
		StatusPaidReceived,
		StatusCancelled,
	}
}

// IsValid checks if the status is one of the defined labels.
func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human readable label.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// ItemProgress is the ordered and received quantity of one line item.
type ItemProgress struct {
	Ordered  int64
	Received int64
}

// StatusInput carries everything Classify looks at.
type StatusInput struct {
	TotalAmount int64
	AmountPaid  int64
	Items       []ItemProgress
	IsCancelled bool
}

// Validate rejects negative amounts and quantities, items received beyond
// their order and ordered quantities summing past MaxQuantity.
func (in StatusInput) Validate() error {
	if in.TotalAmount < 0 || in.AmountPaid < 0 {
		return ErrNegativeAmount
	}

	var ordered int64
	for i, item := range in.Items {
		if item.Ordered < 0 || item.Received < 0 {
			return fmt.Errorf("%w: item %d", ErrNegativeQuantity, i)
		}
		if item.Received > item.Ordered {
			return fmt.Errorf("%w: item %d received %d of %d", ErrOverReceived, i, item.Received, item.Ordered)
		}
		// received <= ordered per item, so bounding ordered bounds both sums.
		if item.Ordered > MaxQuantity-ordered {
			return fmt.Errorf("%w: maximum is %d per document", ErrQuantityTooLarge, MaxQuantity)
		}
		ordered += item.Ordered
	}

	return nil
}

// ClassifyPayment places amountPaid against totalAmount. Overpayment counts as full.
func ClassifyPayment(totalAmount, amountPaid int64) PaymentState {
	switch {
	case amountPaid <= 0:
		return PaymentUnpaid
	case totalAmount > 0 && amountPaid >= totalAmount:
		return PaymentFull
	default:
		return PaymentPartial
	}
}

// ClassifyFulfillment compares total received against total ordered quantity.
// items are expected to pass StatusInput.Validate.
func ClassifyFulfillment(items []ItemProgress) FulfillmentState {
	var ordered, received int64
	for _, item := range items {
		ordered += item.Ordered
		received += item.Received
	}

	switch {
	case received <= 0:
		return FulfillmentNone
	case ordered > 0 && received >= ordered:
		return FulfillmentFull
	default:
		return FulfillmentPartial
	}
}

// CompositeStatus looks up the label for a payment and fulfillment pair.
func CompositeStatus(p PaymentState, f FulfillmentState) (Status, error) {
	if p > PaymentFull || f > FulfillmentFull {
		return "", fmt.Errorf("%w: %s × %s", ErrUnknownState, p, f)
	}
	return statusTable[p][f], nil
}

// Classify derives the document status. Cancellation wins before any other
// field is looked at; otherwise the input must validate.
func Classify(in StatusInput) (Status, error) {
	if in.IsCancelled {
		return StatusCancelled, nil
	}

	if err := in.Validate(); err != nil {
		return "", err
	}

	return CompositeStatus(
		ClassifyPayment(in.TotalAmount, in.AmountPaid),
		ClassifyFulfillment(in.Items),
	)
}
