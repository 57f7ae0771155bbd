// Package timer collects per-iteration samples for named timer slots and
// summarises them: outlier pruning, means and flop-normalised throughput.
package timer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrUnknownSlot    = errors.New("unknown timer slot")
	ErrAlreadyRunning = errors.New("timer slot already running")
	ErrNotRunning     = errors.New("timer slot not running")
)

// Kind distinguishes host wall-clock timers from device timers.
type Kind int

const (
	Host Kind = iota
	Device
)

func (k Kind) String() string {
	if k == Device {
		return "GPU"
	}
	return "CPU"
}

// Syncer blocks until all submitted device work completed.
type Syncer interface {
	Sync(ctx context.Context) error
}

type slot struct {
	label   string
	group   int
	samples []float64 // nanoseconds
	started time.Time
	running bool
}

// Timer records durations for a set of slots. A device timer synchronises
// with the device before reading the clock on Start and Stop, so queued
// work is attributed to the interval that submitted it.
type Timer struct {
	kind      Kind
	syncer    Syncer
	slots     []*slot
	reserve   int
	normalize bool
	now       func() time.Time
}

// NewHost returns a wall-clock timer.
func NewHost() *Timer {
	return &Timer{kind: Host, now: time.Now}
}

// NewDevice returns a timer that brackets each interval with s.Sync.
func NewDevice(s Syncer) *Timer {
	return &Timer{kind: Device, syncer: s, now: time.Now}
}

// Kind returns the timer kind.
func (t *Timer) Kind() Kind {
	return t.kind
}

// Reserve preallocates room for slots timers of samples iterations each.
func (t *Timer) Reserve(slots, samples int) {
	t.reserve = samples
	if cap(t.slots) < slots {
		grown := make([]*slot, len(t.slots), slots)
		copy(grown, t.slots)
		t.slots = grown
	}
	for _, s := range t.slots {
		if cap(s.samples) < samples {
			s.samples = append(make([]float64, 0, samples), s.samples...)
		}
	}
}

// SetNormalize selects whether Print reports flop-normalised throughput.
func (t *Timer) SetNormalize(normalize bool) {
	t.normalize = normalize
}

// UniqueID returns the id of the slot with label and group, registering it
// on first use.
func (t *Timer) UniqueID(label string, group int) int {
	for id, s := range t.slots {
		if s.label == label && s.group == group {
			return id
		}
	}
	t.slots = append(t.slots, &slot{
		label:   label,
		group:   group,
		samples: make([]float64, 0, t.reserve),
	})
	return len(t.slots) - 1
}

// Start opens an interval on slot id.
func (t *Timer) Start(id int) error {
	s, err := t.slot(id)
	if err != nil {
		return err
	}
	if s.running {
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, s.label)
	}
	if err := t.sync(); err != nil {
		return err
	}
	s.running = true
	s.started = t.now()
	return nil
}

// Stop closes the interval on slot id and records its duration.
func (t *Timer) Stop(id int) error {
	s, err := t.slot(id)
	if err != nil {
		return err
	}
	if !s.running {
		return fmt.Errorf("%w: %s", ErrNotRunning, s.label)
	}
	if err := t.sync(); err != nil {
		return err
	}
	s.running = false
	s.samples = append(s.samples, float64(t.now().Sub(s.started).Nanoseconds()))
	return nil
}

// Samples returns a copy of the recorded durations of slot id.
func (t *Timer) Samples(id int) []time.Duration {
	s, err := t.slot(id)
	if err != nil {
		return nil
	}
	out := make([]time.Duration, len(s.samples))
	for i, ns := range s.samples {
		out[i] = time.Duration(ns)
	}
	return out
}

// MeanNs returns the mean sample of slot id in nanoseconds, or 0.
func (t *Timer) MeanNs(id int) float64 {
	s, err := t.slot(id)
	if err != nil || len(s.samples) == 0 {
		return 0
	}
	return stat.Mean(s.samples, nil)
}

// PruneOutliers drops, from every slot, samples farther than multiplier
// standard deviations from the slot mean. It returns the number dropped.
func (t *Timer) PruneOutliers(multiplier float64) int {
	dropped := 0
	for _, s := range t.slots {
		if len(s.samples) < 2 {
			continue
		}
		mean, std := stat.MeanStdDev(s.samples, nil)
		limit := multiplier * std
		kept := s.samples[:0]
		for _, x := range s.samples {
			if x-mean > limit || mean-x > limit {
				dropped++
				continue
			}
			kept = append(kept, x)
		}
		s.samples = kept
	}
	return dropped
}

// Print writes one line per slot: sample count, mean time and, when
// normalising, flops divided by the mean time in the given unit.
func (t *Timer) Print(w io.Writer, flops uint64, unit string) error {
	for id, s := range t.slots {
		mean := t.MeanNs(id)
		line := fmt.Sprintf("%s %s: %d samples, mean %s", t.kind, s.label, len(s.samples),
			time.Duration(mean).String())
		if t.normalize && mean > 0 {
			// flops per nanosecond is GFlop/s
			line += fmt.Sprintf(", %.4f %s", float64(flops)/mean, unit)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Reset discards all samples, keeping registered slots.
func (t *Timer) Reset() {
	for _, s := range t.slots {
		s.samples = s.samples[:0]
		s.running = false
	}
}

func (t *Timer) slot(id int) (*slot, error) {
	if id < 0 || id >= len(t.slots) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSlot, id)
	}
	return t.slots[id], nil
}

func (t *Timer) sync() error {
	if t.syncer == nil {
		return nil
	}
	return t.syncer.Sync(context.Background())
}

// Set is the device/host timer pair a benchmark records into.
type Set struct {
	Device *Timer
	Host   *Timer
}

// NewSet returns a device timer synchronised through s and a host timer.
func NewSet(s Syncer) *Set {
	return &Set{Device: NewDevice(s), Host: NewHost()}
}
