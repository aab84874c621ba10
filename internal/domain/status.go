package domain

import "strings"

// Order status labels. The admin panel allows any status to be set from any
// other; only the label itself is validated.
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

var orderStatusLabels = map[string]string{
	OrderStatusPending:   "รอดำเนินการ",
	OrderStatusShipped:   "จัดส่งแล้ว",
	OrderStatusDelivered: "ถึงปลายทางแล้ว",
	OrderStatusCompleted: "เสร็จสมบูรณ์",
	OrderStatusCancelled: "ยกเลิก",
}

// OrderStatusLabel returns a human-readable label for an order status.
func OrderStatusLabel(status string) string {
	if label, ok := orderStatusLabels[strings.ToLower(status)]; ok {
		return label
	}

	return orderStatusLabels[OrderStatusPending]
}

// ParseOrderStatus normalizes a status string and reports whether it is one
// of the known labels.
func ParseOrderStatus(status string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(status))
	_, ok := orderStatusLabels[normalized]

	return normalized, ok
}
