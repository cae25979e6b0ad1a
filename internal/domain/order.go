package domain

import "time"

type OrderStatus string

const (
	StatusPendente           OrderStatus = "pendente"
	StatusConfirmado         OrderStatus = "confirmado"
	StatusPreparando         OrderStatus = "preparando"
	StatusPronto             OrderStatus = "pronto"
	StatusAceitoEntregador   OrderStatus = "aceito_entregador"
	StatusCaminhoRestaurante OrderStatus = "caminho_restaurante"
	StatusChegouRestaurante  OrderStatus = "chegou_restaurante"
	StatusPedidoRetirado     OrderStatus = "pedido_retirado"
	StatusCaminhoCliente     OrderStatus = "caminho_cliente"
	StatusChegouCliente      OrderStatus = "chegou_cliente"
	StatusEntregue           OrderStatus = "entregue"
	StatusCancelado          OrderStatus = "cancelado"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentFailed   PaymentStatus = "failed"
)

type Order struct {
	ID               int64         `json:"id"`
	ClientID         int64         `json:"client_id"`
	RestaurantID     int64         `json:"restaurant_id"`
	CourierID        *int64        `json:"courier_id,omitempty"`
	Status           OrderStatus   `json:"status"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	TotalAmount      float64       `json:"total_amount"`
	DeliveryFee      float64       `json:"delivery_fee"`
	EstimatedMinutes int           `json:"estimated_minutes"`
	DeliveryAddress  string        `json:"delivery_address"`
	Notes            string        `json:"notes,omitempty"`
	ConfirmationCode string        `json:"confirmation_code,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	Items            []OrderItem   `json:"items,omitempty"`
}

// OrderItem is a snapshot taken at checkout: name and price are copied from
// the product and never updated afterwards.
type OrderItem struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Notes       string  `json:"notes,omitempty"`
}

type OrderEvent struct {
	Type         string      `json:"type"`
	OrderID      int64       `json:"order_id"`
	RestaurantID int64       `json:"restaurant_id"`
	CourierID    *int64      `json:"courier_id,omitempty"`
	Status       OrderStatus `json:"status"`
	Timestamp    time.Time   `json:"timestamp"`
}
