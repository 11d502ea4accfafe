package constants

// OrderStatus is the canonical status for rows in orders.
type OrderStatus string

// Stable values (store these exact strings in DB).
const (
	OrderStatusPending    OrderStatus = "pending"    // created by the payment webhook, waiting for the pipeline
	OrderStatusProcessing OrderStatus = "processing" // pipeline started
	OrderStatusCompleted  OrderStatus = "completed"  // terminal; all languages translated and delivered
)
