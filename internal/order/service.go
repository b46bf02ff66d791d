package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/apper-canvas/shopstreamweb-sub000/internal/cart"
	"github.com/apper-canvas/shopstreamweb-sub000/internal/errs"
	"github.com/apper-canvas/shopstreamweb-sub000/internal/kv"
)

// Notifier is told about placed orders. Publish failures never fail order
// creation; the consumer defines this interface, not the Kafka implementation.
type Notifier interface {
	OrderPlaced(ctx context.Context, o *Order) error
}

// Service creates immutable order records and serves reads with the status
// derived at read time. cache and notifier may be nil.
type Service struct {
	blobs    kv.Store
	cache    Cache
	notifier Notifier
	now      func() time.Time
	sfg      singleflight.Group // Prevents cache stampede on order reads
}

func NewService(blobs kv.Store, cache Cache, notifier Notifier) *Service {
	return &Service{
		blobs:    blobs,
		cache:    cache,
		notifier: notifier,
		now:      time.Now,
	}
}

func newOrderID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "ORD-" + suffix[:12]
}

// Create snapshots the cart lines by value, recomputes the totals from that
// snapshot, masks the card input and persists the order in one step. Nothing
// is visible to readers unless every step succeeded.
func (s *Service) Create(ctx context.Context, lines []cart.Line, shipping ShippingInfo, card CardInput) (string, error) {
	if len(lines) == 0 {
		return "", errs.Precondition("empty cart")
	}

	snapshot := make([]cart.Line, len(lines))
	copy(snapshot, lines)

	if shipping.Country == "" {
		shipping.Country = DefaultCountry
	}

	subtotal := cart.SubtotalOf(snapshot)
	tax := cart.TaxOf(subtotal)

	o := &Order{
		ID:        newOrderID(),
		CreatedAt: s.now(),
		Lines:     snapshot,
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     subtotal + tax,
		Shipping:  shipping,
		Payment:   maskCard(card),
	}

	if err := s.persist(ctx, o); err != nil {
		return "", err
	}

	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, o); err != nil {
			log.Printf("order placed notification failed for %s: %v", o.ID, err)
		}
	}

	return o.ID, nil
}

// Get loads the persisted record and attaches the currently derived status.
// The first read that finds the order shipped assigns the tracking fields and
// writes them back once; the stored lines and amounts are never touched.
func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	status := DeriveStatus(o.CreatedAt, s.now())
	if status.AtLeast(StatusShipped) && o.TrackingNumber == "" {
		o = s.assignTracking(ctx, o)
	}

	return &View{Order: *o, Status: status}, nil
}

// load reads an order through the cache, collapsing concurrent misses for
// the same id with singleflight.
func (s *Service) load(ctx context.Context, id string) (*Order, error) {
	v, err, _ := s.sfg.Do(id, func() (interface{}, error) {
		if s.cache != nil {
			o, errCache := s.cache.Get(ctx, id)
			if errCache == nil {
				return o, nil
			}
			if !errors.Is(errCache, ErrCacheMiss) {
				log.Printf("order cache get error: %v", errCache)
			}
		}

		data, errGet := s.blobs.Get(ctx, orderKey(id))
		if errGet != nil {
			if errors.Is(errGet, kv.ErrKeyNotFound) {
				return nil, errs.ErrNotFound
			}
			return nil, errs.Persistence("load order", errGet)
		}

		var o Order
		if e2 := json.Unmarshal(data, &o); e2 != nil {
			return nil, fmt.Errorf("unmarshal order %s: %w", id, e2)
		}

		if s.cache != nil {
			// The goroutine gets its own copy: the loaded record may gain
			// tracking fields while the cache write is still serializing.
			cp := o
			go func() {
				if errSet := s.cache.Set(context.Background(), id, &cp); errSet != nil {
					log.Printf("order cache set error: %v", errSet)
				}
			}()
		}

		return &o, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Order), nil
}

// assignTracking derives the tracking fields from the order id and caches
// them on the record. It works on a copy: the loaded record may still be
// shared with an in-flight cache write. The fields are deterministic, so a
// failed write-back only delays the persist to a later read; the values
// never change.
func (s *Service) assignTracking(ctx context.Context, o *Order) *Order {
	cp := *o
	cp.TrackingNumber = TrackingNumberFor(cp.ID)
	eta := EstimatedDeliveryFor(cp.CreatedAt)
	cp.EstimatedDelivery = &eta

	if err := s.persist(ctx, &cp); err != nil {
		log.Printf("failed to store tracking fields for %s: %v", cp.ID, err)
		return &cp
	}
	s.invalidateCache(cp.ID)
	return &cp
}

func (s *Service) persist(ctx context.Context, o *Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	if e2 := s.blobs.Set(ctx, orderKey(o.ID), data); e2 != nil {
		return errs.Persistence("save order", e2)
	}
	return nil
}

func (s *Service) invalidateCache(id string) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, id); err != nil {
		log.Printf("order cache invalidate error: %v", err)
	}
}
