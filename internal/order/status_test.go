package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var createdAt = time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

func TestDeriveStatus_Thresholds(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    Status
	}{
		{"just created", 0, StatusProcessing},
		{"under 48h", 47*time.Hour + 59*time.Minute, StatusProcessing},
		{"exactly 48h", 48 * time.Hour, StatusShipped},
		{"under 120h", 119 * time.Hour, StatusShipped},
		{"exactly 120h", 120 * time.Hour, StatusDelivered},
		{"weeks later", 30 * 24 * time.Hour, StatusDelivered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(createdAt, createdAt.Add(tt.elapsed)))
		})
	}
}

func TestDeriveStatus_Idempotent(t *testing.T) {
	now := createdAt.Add(72 * time.Hour)
	first := DeriveStatus(createdAt, now)
	second := DeriveStatus(createdAt, now)
	assert.Equal(t, first, second)
}

func TestDeriveStatus_MonotonicInNow(t *testing.T) {
	prev := DeriveStatus(createdAt, createdAt)
	for h := 0; h <= 200; h++ {
		cur := DeriveStatus(createdAt, createdAt.Add(time.Duration(h)*time.Hour))
		assert.True(t, cur.AtLeast(prev), "status regressed from %s to %s at +%dh", prev, cur, h)
		prev = cur
	}
}

func TestTrackingNumberFor_Deterministic(t *testing.T) {
	a := TrackingNumberFor("ORD-ABC123")
	b := TrackingNumberFor("ORD-ABC123")
	assert.Equal(t, a, b)
	assert.Regexp(t, `^TRK-\d{12}$`, a)

	assert.NotEqual(t, a, TrackingNumberFor("ORD-XYZ789"))
}

func TestEstimatedDeliveryFor(t *testing.T) {
	assert.Equal(t, createdAt.Add(5*24*time.Hour), EstimatedDeliveryFor(createdAt))
}
