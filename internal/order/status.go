package order

import (
	"fmt"
	"hash/fnv"
	"time"
)

type Status string

const (
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
)

func (s Status) String() string {
	return string(s)
}

const (
	// shipAfter and deliverAfter are the elapsed-time thresholds the status
	// sequence advances through.
	shipAfter    = 48 * time.Hour
	deliverAfter = 120 * time.Hour

	// deliveryEstimate is added to createdAt when the tracking fields are
	// first assigned.
	deliveryEstimate = 5 * 24 * time.Hour
)

// DeriveStatus computes an order's delivery status purely from its creation
// time and the supplied clock reading. Same inputs, same answer; because it
// depends only on the elapsed interval it is monotonic in now.
func DeriveStatus(createdAt, now time.Time) Status {
	elapsed := now.Sub(createdAt)
	switch {
	case elapsed >= deliverAfter:
		return StatusDelivered
	case elapsed >= shipAfter:
		return StatusShipped
	default:
		return StatusProcessing
	}
}

// AtLeast reports whether s has reached stage in the
// processing → shipped → delivered sequence.
func (s Status) AtLeast(stage Status) bool {
	return s.rank() >= stage.rank()
}

func (s Status) rank() int {
	switch s {
	case StatusShipped:
		return 1
	case StatusDelivered:
		return 2
	default:
		return 0
	}
}

// TrackingNumberFor derives a stable carrier-style tracking number from the
// order id. Deterministic so the number assigned at first derivation can be
// re-derived but never differs.
func TrackingNumberFor(orderID string) string {
	h := fnv.New64a()
	h.Write([]byte(orderID))
	return fmt.Sprintf("TRK-%012d", h.Sum64()%1_000_000_000_000)
}

// EstimatedDeliveryFor is createdAt plus the fixed delivery window.
func EstimatedDeliveryFor(createdAt time.Time) time.Time {
	return createdAt.Add(deliveryEstimate)
}
