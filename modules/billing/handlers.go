package billing

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/wickandflame/wickandflame/core"
	"github.com/wickandflame/wickandflame/pkg/subscription"
)

// Stripe webhook payloads are small; cap the body to keep a hostile sender
// from streaming gigabytes into memory.
const maxWebhookBody = 64 << 10

type usageStatResponse struct {
	Current    int64   `json:"current"`
	Limit      int64   `json:"limit"`
	Percentage float64 `json:"percentage"`
}

type subscriptionResponse struct {
	Plan                 subscription.Plan                           `json:"plan"`
	Status               subscription.Status                         `json:"status"`
	Features             []subscription.Feature                      `json:"features"`
	Limits               map[subscription.Resource]int64             `json:"limits"`
	Usage                map[subscription.Resource]usageStatResponse `json:"usage"`
	StripeSubscriptionID string                                      `json:"stripe_subscription_id,omitempty"`
	CurrentPeriodEnd     *time.Time                                  `json:"stripe_current_period_end,omitempty"`
}

type upgradeRequest struct {
	Plan         subscription.Plan         `json:"plan"`
	BillingCycle subscription.BillingCycle `json:"billing_cycle"`
}

type upgradeResponse struct {
	CheckoutURL  string               `json:"checkout_url,omitempty"`
	Message      string               `json:"message,omitempty"`
	Subscription *subscriptionSummary `json:"subscription,omitempty"`
}

type subscriptionSummary struct {
	Plan   subscription.Plan   `json:"plan"`
	Status subscription.Status `json:"status"`
}

func (m *Module) getSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := subscription.UserIDFromContext(r.Context())
	if !ok {
		core.Error(w, core.ErrUnauthorized)
		return
	}

	report, err := m.ents.Resolve(r.Context(), userID)
	if err != nil {
		if errors.Is(err, subscription.ErrBusinessNotFound) || errors.Is(err, subscription.ErrSubscriptionNotFound) {
			core.Error(w, core.ErrNotFound)
			return
		}
		core.Error(w, err)
		return
	}

	resp := subscriptionResponse{
		Plan:     report.Plan,
		Status:   report.Status,
		Features: report.Spec.Features,
		Limits:   report.Spec.Limits,
		Usage:    make(map[subscription.Resource]usageStatResponse, len(report.Usage)),
	}
	if resp.Features == nil {
		resp.Features = []subscription.Feature{}
	}
	for res, stat := range report.Usage {
		resp.Usage[res] = usageStatResponse{
			Current:    stat.Current,
			Limit:      stat.Limit,
			Percentage: stat.Percentage,
		}
	}
	if report.Subscription != nil {
		resp.StripeSubscriptionID = report.Subscription.ProviderSubscriptionID
		resp.CurrentPeriodEnd = report.Subscription.CurrentPeriodEnd
	}

	core.JSON(w, http.StatusOK, resp)
}

func (m *Module) upgrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := subscription.UserIDFromContext(r.Context())
	if !ok {
		core.Error(w, core.ErrUnauthorized)
		return
	}

	var req upgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.Error(w, core.ErrBadRequest)
		return
	}

	result, err := m.svc.Upgrade(r.Context(), userID, req.Plan, req.BillingCycle)
	if err != nil {
		switch {
		case errors.Is(err, subscription.ErrUnknownPlan),
			errors.Is(err, subscription.ErrInvalidBillingCycle),
			errors.Is(err, subscription.ErrFreePlanUpgrade):
			core.Error(w, core.ErrBadRequest)
		case errors.Is(err, subscription.ErrBusinessNotFound),
			errors.Is(err, subscription.ErrSubscriptionNotFound):
			core.Error(w, core.ErrNotFound)
		default:
			core.Error(w, err)
		}
		return
	}

	if result.CheckoutURL != "" {
		core.JSON(w, http.StatusOK, upgradeResponse{CheckoutURL: result.CheckoutURL})
		return
	}
	core.JSON(w, http.StatusOK, upgradeResponse{
		Message: "plan updated",
		Subscription: &subscriptionSummary{
			Plan:   result.Subscription.Plan,
			Status: result.Subscription.Status,
		},
	})
}

func (m *Module) cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := subscription.UserIDFromContext(r.Context())
	if !ok {
		core.Error(w, core.ErrUnauthorized)
		return
	}

	sub, err := m.svc.Cancel(r.Context(), userID)
	if err != nil {
		if errors.Is(err, subscription.ErrBusinessNotFound) || errors.Is(err, subscription.ErrSubscriptionNotFound) {
			core.Error(w, core.ErrNotFound)
			return
		}
		core.Error(w, err)
		return
	}

	core.JSON(w, http.StatusOK, upgradeResponse{
		Message: "subscription canceled",
		Subscription: &subscriptionSummary{
			Plan:   sub.Plan,
			Status: sub.Status,
		},
	})
}

// webhook receives Stripe event deliveries. The only failure surfaced to
// Stripe is a bad signature; application-level failures are logged inside
// the service and acknowledged with 200 so Stripe does not redeliver an
// event that will fail the same way again.
func (m *Module) webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		core.Error(w, core.ErrBadRequest)
		return
	}

	if err := m.svc.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		core.Error(w, core.ErrBadRequest)
		return
	}

	core.JSON(w, http.StatusOK, map[string]bool{"received": true})
}
