// Package shipping holds the small pieces of Shiprocket-specific
// logic the rest of the system depends on: courier status mapping and
// pickup-location naming rules. The HTTP client itself lives outside
// this core.
package shipping

import "strings"

// Shiprocket rejects pickup location names longer than 36 characters.
const maxPickupNameLen = 36

// PickupLocationName normalizes a store name into an acceptable
// pickup location identifier.
func PickupLocationName(name string) string {
	name = strings.TrimSpace(name)
	if len(name) <= maxPickupNameLen {
		return name
	}
	return strings.TrimSpace(name[:maxPickupNameLen])
}

// Order statuses owned by the order workflow.
const (
	StatusProcessing     = "processing"
	StatusShipped        = "shipped"
	StatusInTransit      = "in_transit"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
	StatusReturned       = "returned"
)

// courierStatus maps Shiprocket tracking statuses onto the order
// workflow's states. Unknown statuses keep the order in processing so
// a new courier state never strands an order in a bogus status.
var courierStatus = map[string]string{
	"PICKUP SCHEDULED":           StatusProcessing,
	"PICKUP GENERATED":           StatusProcessing,
	"PICKED UP":                  StatusShipped,
	"SHIPPED":                    StatusShipped,
	"IN TRANSIT":                 StatusInTransit,
	"REACHED AT DESTINATION HUB": StatusInTransit,
	"OUT FOR DELIVERY":           StatusOutForDelivery,
	"DELIVERED":                  StatusDelivered,
	"CANCELLED":                  StatusCancelled,
	"RTO INITIATED":              StatusReturned,
	"RTO DELIVERED":              StatusReturned,
}

func OrderStatus(shiprocketStatus string) string {
	status, ok := courierStatus[strings.ToUpper(strings.TrimSpace(shiprocketStatus))]
	if !ok {
		return StatusProcessing
	}
	return status
}
