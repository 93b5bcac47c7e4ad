package service

import (
	"context"
	"fmt"

	"github.com/sajilocms/sajilocms-go/internal/domain/model"
	"github.com/sajilocms/sajilocms-go/internal/ports"
)

// PharmacyServiceOptions groups dependencies for PharmacyService.
type PharmacyServiceOptions struct {
	Client ports.JSONDoer // Required: authenticated transport
}

// PharmacyService covers the medicine catalog, orders and stock.
type PharmacyService struct {
	client ports.JSONDoer
}

// NewPharmacyService constructs a new PharmacyService.
func NewPharmacyService(opts PharmacyServiceOptions) *PharmacyService {
	if opts.Client == nil {
		panic("service: PharmacyServiceOptions.Client is required")
	}
	return &PharmacyService{client: opts.Client}
}

// Medicines returns the catalog.
func (s *PharmacyService) Medicines(ctx context.Context) ([]model.Medicine, error) {
	var out []model.Medicine
	if err := s.client.GetJSON(ctx, "/api/pharmacy/medicines/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Medicine retrieves one catalog entry.
func (s *PharmacyService) Medicine(ctx context.Context, id int64) (model.Medicine, error) {
	var out model.Medicine
	err := s.client.GetJSON(ctx, fmt.Sprintf("/api/pharmacy/medicines/%d/", id), &out)
	return out, err
}

// CreateMedicine adds a catalog entry.
func (s *PharmacyService) CreateMedicine(ctx context.Context, m model.Medicine) (model.Medicine, error) {
	var out model.Medicine
	err := s.client.PostJSON(ctx, "/api/pharmacy/medicines/", m, &out)
	return out, err
}

// UpdateMedicine replaces a catalog entry.
func (s *PharmacyService) UpdateMedicine(ctx context.Context, id int64, m model.Medicine) (model.Medicine, error) {
	var out model.Medicine
	err := s.client.PutJSON(ctx, fmt.Sprintf("/api/pharmacy/medicines/%d/", id), m, &out)
	return out, err
}

// DeleteMedicine removes a catalog entry.
func (s *PharmacyService) DeleteMedicine(ctx context.Context, id int64) error {
	return s.client.DeleteJSON(ctx, fmt.Sprintf("/api/pharmacy/medicines/%d/", id))
}

// Orders returns the caller's orders (all orders for pharmacists).
func (s *PharmacyService) Orders(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	if err := s.client.GetJSON(ctx, "/api/pharmacy/orders/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateOrder places a medicine order.
func (s *PharmacyService) CreateOrder(ctx context.Context, items []model.OrderItem) (model.Order, error) {
	body := struct {
		Items []model.OrderItem `json:"medicines"`
	}{Items: items}

	var out model.Order
	err := s.client.PostJSON(ctx, "/api/pharmacy/orders/", body, &out)
	return out, err
}

// FulfillOrder marks an order fulfilled and decrements stock server-side.
func (s *PharmacyService) FulfillOrder(ctx context.Context, orderID int64) (model.Order, error) {
	var out model.Order
	err := s.client.PostJSON(ctx, fmt.Sprintf("/api/pharmacy/orders/%d/fulfill/", orderID), nil, &out)
	return out, err
}

// AddStock records incoming stock for a medicine.
func (s *PharmacyService) AddStock(ctx context.Context, medicineID int64, quantity int, reason string) (model.StockTransaction, error) {
	body := struct {
		MedicineID int64  `json:"medicine"`
		Quantity   int    `json:"quantity"`
		Reason     string `json:"reason,omitempty"`
	}{MedicineID: medicineID, Quantity: quantity, Reason: reason}

	var out model.StockTransaction
	err := s.client.PostJSON(ctx, "/api/pharmacy/add-stock/", body, &out)
	return out, err
}

// StockReport returns the stock overview including low and expired items.
func (s *PharmacyService) StockReport(ctx context.Context) (model.StockReport, error) {
	var out model.StockReport
	err := s.client.GetJSON(ctx, "/api/pharmacy/reports/stock/", &out)
	return out, err
}
