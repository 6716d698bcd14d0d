package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"visionstore/error_messages"
	"visionstore/order"
	"visionstore/selection"
)

type checkoutRequest struct {
	ProductID string                `json:"productId"`
	Size      string                `json:"size"`
	Color     string                `json:"color"`
	Variant   string                `json:"variant"`
	Quantity  *order.Quantity       `json:"quantity"`
	Market    string                `json:"market"`
	Shipping  order.ShippingAddress `json:"shipping"`
}

type fallbackView struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Mailto  string `json:"mailto"`
}

type checkoutResponse struct {
	State    string        `json:"state"`
	Outcome  string        `json:"outcome"`
	URL      string        `json:"url,omitempty"`
	OrderID  string        `json:"orderId,omitempty"`
	Fallback *fallbackView `json:"fallback,omitempty"`
}

// submitCheckout rebuilds the visitor's selection and runs one attempt.
func (h *Handler) submitCheckout(w http.ResponseWriter, r *http.Request) {
	var in checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err), h.logger)
		return
	}

	p, err := h.catalog.Product(in.ProductID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	sel := selection.New(p)
	if in.Size != "" {
		sel.Size = in.Size
	}
	if in.Color != "" {
		sel.Color = in.Color
	}
	if in.Variant != "" {
		sel.Variant = in.Variant
	}
	if in.Quantity != nil {
		sel.SetQuantity(int(*in.Quantity))
	}
	if m := strings.TrimSpace(in.Market); m != "" {
		sel.SetMarket(order.Market(strings.ToUpper(m)))
	}
	sel.SetShipping(in.Shipping)

	attempt, err := h.checkout.Submit(r.Context(), sel)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	resp := checkoutResponse{
		State:   attempt.State.String(),
		Outcome: attempt.Outcome.Kind.String(),
		URL:     attempt.Outcome.URL,
		OrderID: attempt.Outcome.OrderID,
	}
	if msg := attempt.Fallback; msg != nil {
		resp.Fallback = &fallbackView{To: msg.To, Subject: msg.Subject, Body: msg.Body, Mailto: msg.MailtoURL()}
	}
	setCSRFHeader(w, r)
	writeJSON(w, http.StatusOK, resp)
}

type createOrderResponse struct {
	OrderID    string `json:"orderId"`
	PaymentURL string `json:"paymentUrl,omitempty"`
}

// createOrder is the thin provider proxy used by storefronts that build the
// order document themselves. Errors use a flat {"error": ...} body.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	var in order.Request
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}
	if strings.TrimSpace(in.SKU) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing SKU"})
		return
	}

	req := order.Build(in.SKU, int(in.Quantity), in.Market, in.Shipping, in.Metadata)
	out := h.checkout.Send(r.Context(), req)

	switch out.Kind {
	case order.OutcomeRedirect:
		writeJSON(w, http.StatusOK, createOrderResponse{OrderID: out.OrderID, PaymentURL: out.URL})
		return
	case order.OutcomeConfirmed:
		writeJSON(w, http.StatusOK, createOrderResponse{OrderID: out.OrderID})
		return
	}

	var perr *error_messages.ProviderError
	switch {
	case errors.As(out.Err, &perr) && perr.Status > 0:
		writeJSON(w, perr.Status, map[string]string{"error": perr.Body})
	case errors.Is(out.Err, error_messages.ErrCircuitOpen):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": out.Reason()})
	default:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": out.Reason()})
	}
}
