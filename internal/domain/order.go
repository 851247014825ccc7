package domain

import "time"

// Estados válidos de una orden.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// ValidOrderStatus valida transiciones de estado permitidas por admin.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID            string     `json:"id"`
	OrderNumber   string     `json:"order_number"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	CustomerID    string     `json:"customer_id"`
	Items         []CartItem `json:"items"`
	TotalAmount   float64    `json:"total_amount"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"payment_method"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`

	// Datos del cliente resueltos contra users al listar para admin.
	UserFullName string `json:"user_full_name,omitempty"`
	UserPhone    string `json:"user_phone,omitempty"`
	UserEmail    string `json:"user_email,omitempty"`
}
