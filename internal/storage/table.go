package storage

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/pauljones0/dealflow-hub/internal/models"
)

// Latency is the artificial pause applied before every store operation
// resolves. A zero Latency resolves immediately.
type Latency struct {
	Min time.Duration
	Max time.Duration
}

// Fixed returns a Latency that always waits d.
func Fixed(d time.Duration) Latency {
	return Latency{Min: d, Max: d}
}

func (l Latency) next() time.Duration {
	d := l.Min
	if l.Max > l.Min {
		d += rand.N(l.Max - l.Min + 1)
	}
	return d
}

// wait blocks for the configured latency. A cancelled context aborts the
// operation before it touches any record.
func (l Latency) wait(ctx context.Context) error {
	d := l.next()
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// CheckFunc validates a record before it is committed. The validator's
// ValidateStruct method satisfies it.
type CheckFunc func(v interface{}) error

// Option configures a store.
type Option func(*options)

type options struct {
	latency Latency
	now     func() time.Time
	check   CheckFunc
}

func WithLatency(l Latency) Option {
	return func(o *options) { o.latency = l }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithCheck installs a validation hook run on every created or updated record.
func WithCheck(fn CheckFunc) Option {
	return func(o *options) { o.check = fn }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// table is an ordered, id-keyed collection. Every mutation is a single
// read-modify-write under mu, performed on a copy that is committed only
// after the check hook accepts it.
type table[T any] struct {
	mu     sync.Mutex
	items  []T
	entity string
	id     func(*T) int64
	setID  func(*T, int64)
	clone  func(T) T
	opts   options
}

func (t *table[T]) seed(items []T) {
	t.items = make([]T, 0, len(items))
	for _, it := range items {
		t.items = append(t.items, t.clone(it))
	}
}

func (t *table[T]) indexOf(id int64) int {
	for i := range t.items {
		if t.id(&t.items[i]) == id {
			return i
		}
	}
	return -1
}

func (t *table[T]) nextID() int64 {
	var max int64
	for i := range t.items {
		if id := t.id(&t.items[i]); id > max {
			max = id
		}
	}
	return max + 1
}

func (t *table[T]) validate(item T) error {
	if t.opts.check == nil {
		return nil
	}
	return t.opts.check(item)
}

func (t *table[T]) list(ctx context.Context, keep func(*T) bool) ([]T, error) {
	if err := t.opts.latency.wait(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]T, 0, len(t.items))
	for i := range t.items {
		if keep == nil || keep(&t.items[i]) {
			out = append(out, t.clone(t.items[i]))
		}
	}
	return out, nil
}

func (t *table[T]) get(ctx context.Context, id int64) (T, error) {
	var zero T
	if err := t.opts.latency.wait(ctx); err != nil {
		return zero, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return zero, models.NotFound(t.entity, id)
	}
	return t.clone(t.items[i]), nil
}

func (t *table[T]) insert(ctx context.Context, item T, init func(*T)) (T, error) {
	var zero T
	if err := t.opts.latency.wait(ctx); err != nil {
		return zero, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	rec := t.clone(item)
	t.setID(&rec, t.nextID())
	if init != nil {
		init(&rec)
	}
	if err := t.validate(rec); err != nil {
		return zero, err
	}
	t.items = append(t.items, rec)
	return t.clone(rec), nil
}

// mutate applies fn to a copy of record id and commits it. The id is pinned
// regardless of what fn does.
func (t *table[T]) mutate(ctx context.Context, id int64, fn func(*T) error) (T, error) {
	var zero T
	if err := t.opts.latency.wait(ctx); err != nil {
		return zero, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return zero, models.NotFound(t.entity, id)
	}
	rec := t.clone(t.items[i])
	if err := fn(&rec); err != nil {
		return zero, err
	}
	t.setID(&rec, id)
	if err := t.validate(rec); err != nil {
		return zero, err
	}
	t.items[i] = rec
	return t.clone(rec), nil
}

func (t *table[T]) remove(ctx context.Context, id int64) (T, error) {
	var zero T
	if err := t.opts.latency.wait(ctx); err != nil {
		return zero, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return zero, models.NotFound(t.entity, id)
	}
	removed := t.items[i]
	t.items = append(t.items[:i], t.items[i+1:]...)
	return removed, nil
}

func (t *table[T]) removeWhere(ctx context.Context, match func(*T) bool) ([]T, error) {
	if err := t.opts.latency.wait(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var removed []T
	kept := t.items[:0]
	for _, it := range t.items {
		if match(&it) {
			removed = append(removed, it)
			continue
		}
		kept = append(kept, it)
	}
	var zero T
	for i := len(kept); i < len(t.items); i++ {
		t.items[i] = zero
	}
	t.items = kept
	return removed, nil
}
