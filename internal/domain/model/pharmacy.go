package model

import "time"

// Medicine is a pharmacy catalog entry with stock tracking.
type Medicine struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	GenericName       string    `json:"generic_name,omitempty"`
	Description       string    `json:"description,omitempty"`
	Manufacturer      string    `json:"manufacturer"`
	ManufactureDate   string    `json:"manufacture_date"`
	ExpirationDate    string    `json:"expiration_date"`
	Price             string    `json:"price"`
	StockQuantity     int       `json:"stock_quantity"`
	LowStockThreshold int       `json:"low_stock_threshold,omitempty"`
	Category          string    `json:"category,omitempty"`
	Barcode           string    `json:"barcode,omitempty"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}

// OrderStatus values for pharmacy orders.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderFulfilled OrderStatus = "FULFILLED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// OrderItem is one medicine line on an order.
type OrderItem struct {
	MedicineID int64  `json:"medicine"`
	Name       string `json:"medicine_name,omitempty"`
	Quantity   int    `json:"quantity"`
}

// Order is a patient's medicine order, fulfilled by a pharmacist.
type Order struct {
	ID        int64       `json:"id"`
	PatientID *int64      `json:"patient,omitempty"`
	Status    OrderStatus `json:"status"`
	Items     []OrderItem `json:"medicines,omitempty"`
	CreatedAt time.Time   `json:"created_at,omitempty"`
	UpdatedAt time.Time   `json:"updated_at,omitempty"`
}

// StockTransaction records stock moving in or out of the pharmacy.
type StockTransaction struct {
	ID              int64     `json:"id"`
	MedicineID      int64     `json:"medicine"`
	TransactionType string    `json:"transaction_type"` // IN or OUT
	Quantity        int       `json:"quantity"`
	Reason          string    `json:"reason,omitempty"`
	PerformedBy     *int64    `json:"performed_by,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

// StockReport is the pharmacist's stock overview.
type StockReport struct {
	TotalMedicines int        `json:"total_medicines"`
	LowStock       []Medicine `json:"low_stock,omitempty"`
	Expired        []Medicine `json:"expired,omitempty"`
}
