// Package state holds the tri-state controller shared by every long-running
// feed, search and chat operation.
package state

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"BiasFeed/internal/aggregate"
	"BiasFeed/internal/domain"
	"BiasFeed/internal/logging"
	"BiasFeed/internal/ports"
)

var (
	// ErrSuperseded is returned when a newer operation (or clear) was issued
	// before this one completed. Its result was dropped.
	ErrSuperseded = errors.New("state: result superseded by a newer operation")
	// ErrLoading is returned by LoadMore while a replace-type operation is in flight.
	ErrLoading = errors.New("state: replace operation in flight")
)

// Status is the tri-state view of a State.
type Status int

const (
	StatusReady Status = iota
	StatusPending
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFailed:
		return "failed"
	default:
		return "ready"
	}
}

// State is a snapshot of one controller. In the failed status Items still holds
// the last known value so ClearError can restore it.
type State[T any] struct {
	Loading     bool
	Items       []T
	Err         error
	TotalCount  int
	Covered     []string
	CurrentBias float64
}

// Status derives pending/ready/failed.
func (s State[T]) Status() Status {
	switch {
	case s.Loading:
		return StatusPending
	case s.Err != nil:
		return StatusFailed
	default:
		return StatusReady
	}
}

// ErrorMessage is the human-readable failure description, empty when not failed.
func (s State[T]) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// Result is what an operation hands back to the machine.
type Result[T any] struct {
	Items      []T
	TotalCount int
	Covered    []string
	Bias       float64
	// OnApply runs under the machine's lock when the result is applied, never
	// for superseded or failed results. It must not call back into the machine.
	OnApply func()
}

// Machine guards one State. Operations may run concurrently; results are
// applied only if no newer replace-type operation was issued meanwhile.
type Machine[T aggregate.Keyed] struct {
	mu        sync.Mutex
	name      string
	initial   State[T]
	state     State[T]
	seq       uint64
	replacing bool
	extending int
	listeners map[int]func(State[T])
	nextID    int
	sink      ports.EventSink
}

// New builds a machine in the empty ready state.
func New[T aggregate.Keyed](name string, bias float64, sink ports.EventSink) *Machine[T] {
	initial := State[T]{Items: []T{}, CurrentBias: domain.NormalizeBias(bias)}
	return &Machine[T]{
		name:      name,
		initial:   initial,
		state:     cloneState(initial),
		listeners: map[int]func(State[T]){},
		sink:      logging.OrNop(sink),
	}
}

// Snapshot returns a copy of the current state.
func (m *Machine[T]) Snapshot() State[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneState(m.state)
}

// Subscribe registers fn for every transition; the returned func unsubscribes.
func (m *Machine[T]) Subscribe(fn func(State[T])) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// Replace enters pending, runs op, and swaps the whole collection on success or
// fails with op's error. Only the latest issued Replace may apply its result.
func (m *Machine[T]) Replace(ctx context.Context, op func(context.Context) (Result[T], error)) (State[T], error) {
	m.mu.Lock()
	m.seq++
	ticket := m.seq
	m.replacing = true
	m.extending = 0
	m.state.Err = nil
	m.state.Loading = true
	m.record(ctx, "state.pending", ticket)
	m.commitLocked()

	res, err := op(ctx)

	m.mu.Lock()
	if ticket != m.seq {
		snap := cloneState(m.state)
		m.record(ctx, "state.superseded", ticket)
		m.mu.Unlock()
		return snap, ErrSuperseded
	}
	m.replacing = false
	if err != nil {
		m.state.Err = err
		m.state.Loading = m.extending > 0
		m.record(ctx, "state.failed", ticket, slog.String("error", err.Error()))
		snap := m.commitLocked()
		return snap, err
	}

	items := res.Items
	if items == nil {
		items = []T{}
	}
	m.state = State[T]{
		Items:       items,
		TotalCount:  totalOf(res.TotalCount, len(items)),
		Covered:     normalizeSet(res.Covered),
		CurrentBias: domain.NormalizeBias(res.Bias),
		Loading:     m.extending > 0,
	}
	if res.OnApply != nil {
		res.OnApply()
	}
	m.record(ctx, "state.ready", ticket, slog.Int("items", len(items)))
	return m.commitLocked(), nil
}

// LoadMore runs op without a pending transition and merges its items after the
// current ones, skipping known identities. On failure the state is untouched.
func (m *Machine[T]) LoadMore(ctx context.Context, op func(context.Context, State[T]) (Result[T], error)) (State[T], error) {
	m.mu.Lock()
	if m.replacing {
		snap := cloneState(m.state)
		m.mu.Unlock()
		return snap, ErrLoading
	}
	ticket := m.seq
	current := cloneState(m.state)
	m.mu.Unlock()

	res, err := op(ctx, current)

	m.mu.Lock()
	if err != nil {
		snap := cloneState(m.state)
		m.record(ctx, "state.load_more_failed", ticket, slog.String("error", err.Error()))
		m.mu.Unlock()
		return snap, err
	}
	if ticket != m.seq {
		snap := cloneState(m.state)
		m.record(ctx, "state.superseded", ticket)
		m.mu.Unlock()
		return snap, ErrSuperseded
	}

	before := len(m.state.Items)
	m.state.Items = aggregate.Merge(m.state.Items, res.Items)
	added := len(m.state.Items) - before
	if res.TotalCount > 0 {
		m.state.TotalCount = res.TotalCount
	} else {
		m.state.TotalCount += added
	}
	m.state.Covered = normalizeSet(append(m.state.Covered, res.Covered...))
	if res.OnApply != nil {
		res.OnApply()
	}
	m.record(ctx, "state.ready", ticket, slog.Int("items", len(m.state.Items)), slog.Int("added", added))
	return m.commitLocked(), nil
}

// Push appends items synchronously, skipping known identities.
func (m *Machine[T]) Push(items ...T) State[T] {
	m.mu.Lock()
	before := len(m.state.Items)
	m.state.Items = aggregate.Merge(m.state.Items, items)
	m.state.TotalCount += len(m.state.Items) - before
	return m.commitLocked()
}

// Extend enters pending, runs op, and appends its items on success. On failure
// the machine fails but keeps every item it already had.
func (m *Machine[T]) Extend(ctx context.Context, op func(context.Context) ([]T, error)) (State[T], error) {
	m.mu.Lock()
	ticket := m.seq
	m.extending++
	m.state.Err = nil
	m.state.Loading = true
	m.record(ctx, "state.pending", ticket)
	m.commitLocked()

	items, err := op(ctx)

	m.mu.Lock()
	if ticket != m.seq {
		snap := cloneState(m.state)
		m.record(ctx, "state.superseded", ticket)
		m.mu.Unlock()
		return snap, ErrSuperseded
	}
	m.extending--
	m.state.Loading = m.replacing || m.extending > 0
	if err != nil {
		m.state.Err = err
		m.record(ctx, "state.failed", ticket, slog.String("error", err.Error()))
		return m.commitLocked(), err
	}
	before := len(m.state.Items)
	m.state.Items = aggregate.Merge(m.state.Items, items)
	m.state.TotalCount += len(m.state.Items) - before
	m.record(ctx, "state.ready", ticket, slog.Int("items", len(m.state.Items)))
	return m.commitLocked(), nil
}

// Clear resets to the initial empty ready state and drops every in-flight result.
func (m *Machine[T]) Clear() State[T] {
	m.mu.Lock()
	m.seq++
	m.replacing = false
	m.extending = 0
	m.state = cloneState(m.initial)
	return m.commitLocked()
}

// ClearError turns a failed state back into ready with its last known items.
func (m *Machine[T]) ClearError() State[T] {
	m.mu.Lock()
	if m.state.Status() != StatusFailed {
		snap := cloneState(m.state)
		m.mu.Unlock()
		return snap
	}
	m.state.Err = nil
	return m.commitLocked()
}

// commitLocked releases the lock and notifies listeners; callers must hold m.mu.
func (m *Machine[T]) commitLocked() State[T] {
	snap := cloneState(m.state)
	listeners := make([]func(State[T]), 0, len(m.listeners))
	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		listeners = append(listeners, m.listeners[id])
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(cloneState(snap))
	}
	return snap
}

func (m *Machine[T]) record(ctx context.Context, event string, ticket uint64, attrs ...slog.Attr) {
	base := []slog.Attr{slog.String("machine", m.name), slog.Uint64("seq", ticket)}
	m.sink.Record(ctx, event, append(base, attrs...)...)
}

func cloneState[T any](s State[T]) State[T] {
	out := s
	out.Items = make([]T, len(s.Items))
	copy(out.Items, s.Items)
	if s.Covered != nil {
		out.Covered = make([]string, len(s.Covered))
		copy(out.Covered, s.Covered)
	}
	return out
}

func totalOf(reported, n int) int {
	if reported > 0 {
		return reported
	}
	return n
}

// normalizeSet dedups and sorts a covered-topics list.
func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
