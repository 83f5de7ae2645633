package models

// PointsPackage is a purchasable bundle of points.
type PointsPackage struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Points      int64  `json:"points"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// CheckoutRequest is the body of POST /api/payments/checkout.
type CheckoutRequest struct {
	PackageID string `json:"packageId"`
}

// CheckoutSession is a created Stripe checkout session.
type CheckoutSession struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// CheckoutOrder is everything the payment provider needs to open a
// checkout session for one package.
type CheckoutOrder struct {
	UserID    int64
	Email     string
	Package   PointsPackage
	ReturnURL string
	CancelURL string
}

// StripeEvent is the envelope of a Stripe webhook event.
type StripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object StripeCheckoutSession `json:"object"`
	} `json:"data"`
}

// StripeCheckoutSession is the subset of a checkout.session object used to
// credit points.
type StripeCheckoutSession struct {
	ID                string            `json:"id"`
	PaymentStatus     string            `json:"payment_status"`
	ClientReferenceID string            `json:"client_reference_id"`
	Metadata          map[string]string `json:"metadata"`
}
