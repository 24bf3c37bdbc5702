package api

import (
	"errors"
	"net/http"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/pkg/httputil"
	"github.com/ignite/newsletter/internal/service/subscription"
)

// maxFormBytes caps the signup form body.
const maxFormBytes = 64 << 10

// SubscriptionHandler serves the signup form.
type SubscriptionHandler struct {
	svc Registrar
	rs  *httputil.Responder
}

// NewSubscriptionHandler creates a handler backed by svc.
func NewSubscriptionHandler(svc Registrar, rs *httputil.Responder) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc, rs: rs}
}

// HandleSubscribe registers a subscriber from a URL-encoded form with
// fields name and email. Responds 200 on success, 400 with the validation
// reason, or 500 with a generic message.
//
//	POST /subscriptions
func (h *SubscriptionHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.rs.BadRequest(w, "invalid form body", "invalid_form")
		return
	}

	_, err := h.svc.Register(r.Context(), subscription.RawSubmission{
		Email: r.PostForm.Get("email"),
		Name:  r.PostForm.Get("name"),
	})

	switch subscription.Classify(err) {
	case subscription.OutcomeRegistered:
		w.WriteHeader(http.StatusOK)
	case subscription.OutcomeRejected:
		var verr *domain.ValidationError
		errors.As(err, &verr)
		h.rs.BadRequest(w, verr.Error(), string(verr.Reason))
	default:
		h.rs.InternalError(w, r, err)
	}
}
