package main

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gregoryjjb/ringd/circularbuffer"
	"gregoryjjb/ringd/circularlist"
	"gregoryjjb/ringd/pubsub"
)

var rlog zerolog.Logger

func init() {
	rlog = log.With().Str("component", "ring").Logger()
}

var (
	ErrRingNotFound = errors.New("ring not found")
	ErrRingExists   = errors.New("ring already exists")
)

var ringNameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func ValidateRingName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: ring name cannot be blank", ErrValidation)
	}
	if !ringNameRegex.MatchString(name) {
		return fmt.Errorf("%w: ring name %q may only contain letters, digits, '_', '.' and '-'", ErrValidation, name)
	}
	return nil
}

type RingOp string

const (
	OpPushFront RingOp = "push_front"
	OpPushBack  RingOp = "push_back"
	OpPopFront  RingOp = "pop_front"
	OpRotate    RingOp = "rotate"
)

type RingEvent struct {
	Ring  string    `json:"ring"`
	Op    RingOp    `json:"op"`
	Item  string    `json:"item,omitempty"`
	Front string    `json:"front,omitempty"`
	Size  int       `json:"size"`
	At    time.Time `json:"at"`
}

// Ring is a named rotation queue. All access to the underlying list goes
// through mu, including full traversals.
type Ring struct {
	name       string
	autoRotate bool

	mu   sync.RWMutex
	list circularlist.CircularList[string]

	ps      *pubsub.Pubsub[RingEvent]
	history *circularbuffer.CircularBuffer[RingEvent]
}

func NewRing(name string, historySize int) *Ring {
	return &Ring{
		name:    name,
		ps:      pubsub.New[RingEvent](),
		history: circularbuffer.New[RingEvent](historySize),
	}
}

func (r *Ring) Name() string {
	return r.name
}

func (r *Ring) AutoRotate() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.autoRotate
}

func (r *Ring) SetAutoRotate(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.autoRotate = v
}

func validateItem(item string) error {
	if strings.TrimSpace(item) == "" {
		return fmt.Errorf("%w: item cannot be blank", ErrValidation)
	}
	return nil
}

func (r *Ring) PushFront(item string) error {
	if err := validateItem(item); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.list.AddFirst(item); err != nil {
		return err
	}
	r.emit(OpPushFront, item)
	return nil
}

func (r *Ring) PushBack(item string) error {
	if err := validateItem(item); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.list.AddLast(item); err != nil {
		return err
	}
	r.emit(OpPushBack, item)
	return nil
}

func (r *Ring) PopFront() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, err := r.list.RemoveFirst()
	if err != nil {
		return "", fmt.Errorf("ring %q: %w", r.name, err)
	}
	r.emit(OpPopFront, item)
	return item, nil
}

// Rotate advances the ring and returns the new front.
func (r *Ring) Rotate() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.list.Rotate(); err != nil {
		return "", fmt.Errorf("ring %q: %w", r.name, err)
	}
	front, _ := r.list.First()
	r.emit(OpRotate, "")
	return front, nil
}

func (r *Ring) Front() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, err := r.list.First()
	if err != nil {
		return "", fmt.Errorf("ring %q: %w", r.name, err)
	}
	return item, nil
}

func (r *Ring) Back() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, err := r.list.Last()
	if err != nil {
		return "", fmt.Errorf("ring %q: %w", r.name, err)
	}
	return item, nil
}

func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.list.Size()
}

// Items copies the ring front to back.
func (r *Ring) Items() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.list.Slice()
}

func (r *Ring) Render() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.list.String()
}

// Equal compares both rings front to back.
func (r *Ring) Equal(other *Ring) bool {
	if r == other {
		return true
	}

	// Lock in name order so two concurrent opposite comparisons can't deadlock.
	first, second := r, other
	if second.name < first.name {
		first, second = second, first
	}
	first.mu.RLock()
	defer first.mu.RUnlock()
	second.mu.RLock()
	defer second.mu.RUnlock()

	return circularlist.Equal(&r.list, &other.list)
}

func (r *Ring) History() []RingEvent {
	return r.history.Snapshot()
}

func (r *Ring) Subscribe() (func(), <-chan RingEvent) {
	handle, ch := r.ps.Subscribe()
	return func() {
		r.ps.Unsubscribe(handle)
	}, ch
}

// close drops all subscribers. The ring itself stays usable.
func (r *Ring) close() {
	r.ps.Close()
}

// emit must be called with mu held.
func (r *Ring) emit(op RingOp, item string) {
	ev := RingEvent{
		Ring: r.name,
		Op:   op,
		Item: item,
		Size: r.list.Size(),
		At:   time.Now(),
	}
	if front, err := r.list.First(); err == nil {
		ev.Front = front
	}

	rlog.Debug().
		Str("ring", r.name).
		Str("op", string(op)).
		Str("item", item).
		Int("size", ev.Size).
		Msg("Ring mutated")

	r.history.Push(ev)
	r.ps.Publish(ev)
}

//////////////////
// Ring registry

type RingSet struct {
	historySize int

	mu    sync.RWMutex
	rings map[string]*Ring
}

func NewRingSet(historySize int) *RingSet {
	return &RingSet{
		historySize: historySize,
		rings:       make(map[string]*Ring),
	}
}

// NewRingSetFromConfig creates every ring seeded in the config.
func NewRingSetFromConfig(config *Config) (*RingSet, error) {
	rs := NewRingSet(config.HistorySize())
	for _, seed := range config.Rings() {
		ring, err := rs.Create(seed.Name)
		if err != nil {
			return nil, err
		}
		ring.SetAutoRotate(seed.AutoRotate)
		for _, item := range seed.Items {
			if err := ring.PushBack(item); err != nil {
				return nil, fmt.Errorf("seed ring %q: %w", seed.Name, err)
			}
		}
		rlog.Info().
			Str("ring", seed.Name).
			Int("size", ring.Len()).
			Bool("auto_rotate", seed.AutoRotate).
			Msg("Seeded ring")
	}
	return rs, nil
}

func (rs *RingSet) Create(name string) (*Ring, error) {
	if err := ValidateRingName(name); err != nil {
		return nil, err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	if _, ok := rs.rings[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrRingExists, name)
	}
	ring := NewRing(name, rs.historySize)
	rs.rings[name] = ring
	return ring, nil
}

func (rs *RingSet) Get(name string) (*Ring, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	ring, ok := rs.rings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRingNotFound, name)
	}
	return ring, nil
}

func (rs *RingSet) Delete(name string) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	ring, ok := rs.rings[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrRingNotFound, name)
	}
	delete(rs.rings, name)
	ring.close()
	return nil
}

// Names lists rings alphabetically.
func (rs *RingSet) Names() []string {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	names := make([]string, 0, len(rs.rings))
	for name := range rs.rings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (rs *RingSet) each(fn func(*Ring)) {
	rs.mu.RLock()
	rings := make([]*Ring, 0, len(rs.rings))
	for _, ring := range rs.rings {
		rings = append(rings, ring)
	}
	rs.mu.RUnlock()

	for _, ring := range rings {
		fn(ring)
	}
}
