package model

import "time"

type TransactionType string

// Wire values kept compatible with existing data files.
const (
	TxIn  TransactionType = "IN"
	TxOut TransactionType = "OUT"
)

// Transaction records a single stock movement. Transactions are immutable
// once recorded; there is no update or delete.
type Transaction struct {
	ID        string          `json:"transaction_id"`
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	Type      TransactionType `json:"transaction_type" validate:"required,oneof=IN OUT"`
	Timestamp time.Time       `json:"timestamp"`
	User      string          `json:"user,omitempty"`
	Note      string          `json:"note,omitempty"`
}
