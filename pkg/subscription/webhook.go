package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wickandflame/wickandflame/pkg/email"
)

// HandleWebhook verifies and applies one provider webhook delivery.
//
// The contract with the provider is deliberately lopsided: a non-nil return
// means the signature did not verify and the HTTP layer must answer 400.
// Everything after successful verification, including per-event application
// failures, returns nil so the provider gets 200 and never redelivers. Each
// event applies absolute state, so a dropped delivery is repaired by the
// next event for the same subscription rather than by retries.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			return err
		}
		// Verified but undecodable. Acknowledge; retrying the same bytes
		// cannot succeed.
		s.log.ErrorContext(ctx, "webhook event malformed", slog.Any("error", err))
		return nil
	}

	if err := s.applyEvent(ctx, event); err != nil {
		s.log.ErrorContext(ctx, "webhook event not applied",
			slog.String("event_id", event.ID),
			slog.String("event_type", string(event.Type)),
			slog.Any("error", err))
	}
	return nil
}

func (s *Service) applyEvent(ctx context.Context, event *Event) error {
	switch event.Type {
	case EventCheckoutCompleted:
		return s.applyCheckoutCompleted(ctx, event)
	case EventSubscriptionUpdated:
		return s.applySubscriptionUpdated(ctx, event)
	case EventSubscriptionDeleted:
		return s.applySubscriptionDeleted(ctx, event)
	case EventInvoicePaid:
		return s.applyInvoicePaid(ctx, event)
	case EventInvoicePaymentFailed:
		return s.applyInvoicePaymentFailed(ctx, event)
	default:
		s.log.DebugContext(ctx, "ignoring webhook event", slog.String("event_id", event.ID))
		return nil
	}
}

// applyCheckoutCompleted finishes the two-phase upgrade: the metadata set on
// the checkout session points back to the local business, and the event
// carries the provider subscription the payment created.
func (s *Service) applyCheckoutCompleted(ctx context.Context, event *Event) error {
	businessID, plan, err := checkoutMetadata(event.Metadata)
	if err != nil {
		return err
	}
	if !s.catalog.Has(plan) {
		return fmt.Errorf("%w: %q", ErrUnknownPlan, plan)
	}

	sub, err := s.subs.ByBusinessID(ctx, businessID)
	if err != nil {
		return err
	}

	sub.Plan = plan
	sub.Status = StatusActive
	if event.CustomerID != "" {
		sub.ProviderCustomerID = event.CustomerID
	}
	sub.ProviderSubscriptionID = event.SubscriptionID

	// The session event does not carry the price or period end; pull the
	// full subscription so the row is complete from the start.
	if event.SubscriptionID != "" {
		if provSub, err := s.provider.GetSubscription(ctx, event.SubscriptionID); err == nil {
			sub.ProviderPriceID = provSub.PriceID
			sub.CurrentPeriodEnd = provSub.CurrentPeriodEnd
			if status, ok := NormalizeProviderStatus(provSub.Status); ok {
				sub.Status = status
			}
		} else {
			s.log.ErrorContext(ctx, "failed to fetch subscription after checkout",
				slog.String("subscription_id", event.SubscriptionID),
				slog.Any("error", err))
		}
	}

	sub.UpdatedAt = time.Now()
	if err := s.subs.Save(ctx, sub); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "checkout completed",
		slog.String("business_id", businessID.String()),
		slog.String("plan", string(plan)))
	return nil
}

// applySubscriptionUpdated overwrites local state with the event's absolute
// snapshot. Status strings outside the recognized set leave the stored
// status untouched rather than persisting provider free-form text.
func (s *Service) applySubscriptionUpdated(ctx context.Context, event *Event) error {
	sub, err := s.findByEvent(ctx, event)
	if err != nil {
		return err
	}

	// The row may have been matched through business_id metadata before
	// checkout confirmation stored the provider ID; adopt it here so later
	// events match directly.
	if event.SubscriptionID != "" {
		sub.ProviderSubscriptionID = event.SubscriptionID
	}

	if status, ok := NormalizeProviderStatus(event.ProviderStatus); ok {
		sub.Status = status
	} else if event.ProviderStatus != "" {
		s.log.InfoContext(ctx, "unrecognized provider status, keeping stored value",
			slog.String("provider_status", event.ProviderStatus),
			slog.String("business_id", sub.BusinessID.String()))
	}

	if event.PriceID != "" {
		sub.ProviderPriceID = event.PriceID
		if plan, ok := s.prices.PlanForPrice(event.PriceID); ok {
			sub.Plan = plan
		}
	}
	if event.CurrentPeriodEnd != nil {
		sub.CurrentPeriodEnd = event.CurrentPeriodEnd
	}

	sub.UpdatedAt = time.Now()
	return s.subs.Save(ctx, sub)
}

// applySubscriptionDeleted drops the business to the free plan and clears
// every provider identifier. Replaying the event finds the identifiers
// already cleared and writes the same row again.
func (s *Service) applySubscriptionDeleted(ctx context.Context, event *Event) error {
	sub, err := s.findByEvent(ctx, event)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			// Replay after the row was already cleared. Nothing to do.
			return nil
		}
		return err
	}

	sub.ClearProvider()
	sub.Status = StatusCanceled
	sub.UpdatedAt = time.Now()
	if err := s.subs.Save(ctx, sub); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "subscription ended by provider",
		slog.String("business_id", sub.BusinessID.String()))
	return nil
}

// applyInvoicePaid clears a past_due flag after a successful retry payment.
func (s *Service) applyInvoicePaid(ctx context.Context, event *Event) error {
	if event.SubscriptionID == "" {
		// One-off invoices have no subscription and nothing to reconcile.
		return nil
	}
	sub, err := s.subs.ByProviderSubscriptionID(ctx, event.SubscriptionID)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			return nil
		}
		return err
	}
	if sub.Status == StatusActive {
		return nil
	}

	sub.Status = StatusActive
	sub.UpdatedAt = time.Now()
	return s.subs.Save(ctx, sub)
}

// applyInvoicePaymentFailed marks the subscription past_due and sends a
// dunning notice. The plan and its limits are untouched; access narrows only
// when the provider gives up and deletes the subscription.
func (s *Service) applyInvoicePaymentFailed(ctx context.Context, event *Event) error {
	if event.SubscriptionID == "" {
		return nil
	}
	sub, err := s.subs.ByProviderSubscriptionID(ctx, event.SubscriptionID)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			return nil
		}
		return err
	}

	sub.Status = StatusPastDue
	sub.UpdatedAt = time.Now()
	if err := s.subs.Save(ctx, sub); err != nil {
		return err
	}

	s.sendPaymentFailedEmail(ctx, sub)
	return nil
}

func (s *Service) sendPaymentFailedEmail(ctx context.Context, sub *Subscription) {
	if s.mailer == nil {
		return
	}
	biz, err := s.businesses.ByID(ctx, sub.BusinessID)
	if err != nil || biz.Email == "" {
		return
	}

	err = s.mailer.SendEmail(ctx, email.SendEmailParams{
		SendTo:  biz.Email,
		Subject: "Payment failed for your Wick & Flame subscription",
		BodyHTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>We could not charge your card for the <strong>%s</strong> plan. "+
				"Please update your payment method to keep your subscription active.</p>",
			biz.Name, sub.Plan),
		Tag: "payment-failed",
	})
	if err != nil {
		s.log.ErrorContext(ctx, "failed to send payment failure notice",
			slog.String("business_id", sub.BusinessID.String()),
			slog.Any("error", err))
	}
}

// findByEvent locates the local subscription for a subscription.* event,
// preferring the provider subscription ID and falling back to business_id
// metadata when the ID is not yet stored locally.
func (s *Service) findByEvent(ctx context.Context, event *Event) (*Subscription, error) {
	if event.SubscriptionID != "" {
		sub, err := s.subs.ByProviderSubscriptionID(ctx, event.SubscriptionID)
		if err == nil {
			return sub, nil
		}
		if !errors.Is(err, ErrSubscriptionNotFound) {
			return nil, err
		}
	}

	rawID, ok := event.Metadata[MetadataBusinessID]
	if !ok || rawID == "" {
		return nil, fmt.Errorf("%w: no subscription for event %s", ErrSubscriptionNotFound, event.ID)
	}
	businessID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad business_id %q", ErrMissingMetadata, rawID)
	}
	return s.subs.ByBusinessID(ctx, businessID)
}

func checkoutMetadata(metadata map[string]string) (uuid.UUID, Plan, error) {
	rawID, ok := metadata[MetadataBusinessID]
	if !ok || rawID == "" {
		return uuid.Nil, "", fmt.Errorf("%w: business_id", ErrMissingMetadata)
	}
	businessID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: bad business_id %q", ErrMissingMetadata, rawID)
	}

	rawPlan, ok := metadata[MetadataPlan]
	if !ok || rawPlan == "" {
		return uuid.Nil, "", fmt.Errorf("%w: plan", ErrMissingMetadata)
	}
	return businessID, Plan(rawPlan), nil
}
