package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/sajilocms/sajilocms-go/internal/domain/model"
	"github.com/sajilocms/sajilocms-go/internal/ports"
)

// BillingServiceOptions groups dependencies for BillingService.
type BillingServiceOptions struct {
	Client ports.JSONDoer        // Required: authenticated transport
	Cache  ports.CredentialCache // Required: holds the pending-payment marker
	Logger *slog.Logger          // Optional
}

// BillingService handles appointment bills and the hosted checkout handoff.
// Before redirecting to checkout it writes a pending-payment marker to the
// durable cache so the flow survives the round trip through the payment
// provider.
type BillingService struct {
	client ports.JSONDoer
	cache  ports.CredentialCache
	logger *slog.Logger
}

// NewBillingService constructs a new BillingService.
func NewBillingService(opts BillingServiceOptions) *BillingService {
	if opts.Client == nil {
		panic("service: BillingServiceOptions.Client is required")
	}
	if opts.Cache == nil {
		panic("service: BillingServiceOptions.Cache is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &BillingService{client: opts.Client, cache: opts.Cache, logger: logger}
}

// Bills returns the caller's bills.
func (s *BillingService) Bills(ctx context.Context) ([]model.Bill, error) {
	var out []model.Bill
	if err := s.client.GetJSON(ctx, "/appointment/bills/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Bill retrieves one bill.
func (s *BillingService) Bill(ctx context.Context, id string) (model.Bill, error) {
	var out model.Bill
	err := s.client.GetJSON(ctx, fmt.Sprintf("/appointment/bills/%s/", url.PathEscape(id)), &out)
	return out, err
}

// StartCheckout creates a hosted checkout session for a bill and records the
// pending-payment marker. The caller redirects the user to the returned URL.
func (s *BillingService) StartCheckout(ctx context.Context, billID string) (model.CheckoutSession, error) {
	body := struct {
		BillID string `json:"bill_id"`
	}{BillID: billID}

	var session model.CheckoutSession
	if err := s.client.PostJSON(ctx, "/appointment/stripe/create-checkout/", body, &session); err != nil {
		return model.CheckoutSession{}, err
	}

	marker, err := json.Marshal(model.PendingPayment{
		BillID:    billID,
		SessionID: session.SessionID,
		StartedAt: time.Now().UTC(),
	})
	if err == nil {
		err = s.cache.Set(ctx, ports.CacheKeyPendingPayment, string(marker))
	}
	if err != nil {
		// The checkout still proceeds; resumption just loses its shortcut.
		s.logger.WarnContext(ctx, "failed recording pending payment marker", "error", err, "bill_id", billID)
	}
	return session, nil
}

// ConfirmPayment asks the backend to verify the session with the payment
// provider and mark the bill paid, then drops the pending marker.
func (s *BillingService) ConfirmPayment(ctx context.Context, billID string) (model.Bill, error) {
	var out model.Bill
	if err := s.client.PostJSON(ctx, fmt.Sprintf("/appointment/stripe/confirm-payment/%s/", url.PathEscape(billID)), nil, &out); err != nil {
		return model.Bill{}, err
	}
	s.clearPending(ctx)
	return out, nil
}

// PendingPayment returns the resumption marker, if one survives. Malformed
// markers are dropped and reported as absent.
func (s *BillingService) PendingPayment(ctx context.Context) (model.PendingPayment, bool) {
	raw, err := s.cache.Get(ctx, ports.CacheKeyPendingPayment)
	if err != nil {
		return model.PendingPayment{}, false
	}
	var marker model.PendingPayment
	if err := json.Unmarshal([]byte(raw), &marker); err != nil {
		s.clearPending(ctx)
		return model.PendingPayment{}, false
	}
	return marker, true
}

// AbandonCheckout drops the pending-payment marker after a cancel redirect.
func (s *BillingService) AbandonCheckout(ctx context.Context) {
	s.clearPending(ctx)
}

func (s *BillingService) clearPending(ctx context.Context) {
	if err := s.cache.Delete(ctx, ports.CacheKeyPendingPayment); err != nil && err != ports.ErrNotFound {
		s.logger.WarnContext(ctx, "failed clearing pending payment marker", "error", err)
	}
}
