package order

type OutcomeKind int

const (
	OutcomeRedirect OutcomeKind = iota
	OutcomeConfirmed
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRedirect:
		return "redirect"
	case OutcomeConfirmed:
		return "confirmed"
	default:
		return "failed"
	}
}

// Outcome is the single result of one submission attempt.
type Outcome struct {
	Kind    OutcomeKind
	URL     string
	OrderID string
	Err     error
}

// Redirect sends the visitor to the provider's payment page (or, in demo
// mode, the static confirmation page).
func Redirect(url, orderID string) Outcome {
	return Outcome{Kind: OutcomeRedirect, URL: url, OrderID: orderID}
}

// Confirmed means the order was accepted and confirmation arrives out of band.
func Confirmed(orderID string) Outcome {
	return Outcome{Kind: OutcomeConfirmed, OrderID: orderID}
}

func Failed(err error) Outcome {
	return Outcome{Kind: OutcomeFailed, Err: err}
}

// Reason describes a failure; it is empty for successful outcomes.
func (o Outcome) Reason() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}
