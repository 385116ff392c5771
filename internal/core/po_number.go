package core

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// PONumberPrefix is the literal that starts every PO number.
const PONumberPrefix = "CIT"

// poDateLayout renders the MMDDYY part of a PO number.
const poDateLayout = "010206"

var poNumberPattern = regexp.MustCompile(`^` + PONumberPrefix + `([0-9]{6})-([1-9][0-9]*)$`)

// FormatPONumber builds CIT<MMDDYY>-<seq> for the calendar day of t.
func FormatPONumber(t time.Time, seq int64) string {
	return fmt.Sprintf("%s%s-%d", PONumberPrefix, t.Format(poDateLayout), seq)
}

// PONumberDayPrefix returns the part of a PO number shared by every order
// of t's calendar day, dash included.
func PONumberDayPrefix(t time.Time) string {
	return PONumberPrefix + t.Format(poDateLayout) + "-"
}

// ParsePONumber splits a PO number into its MMDDYY part and sequence.
func ParsePONumber(number string) (string, int64, error) {
	m := poNumberPattern.FindStringSubmatch(number)
	if m == nil {
		return "", 0, fmt.Errorf("malformed PO number %q", number)
	}
	seq, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("PO number %q: %w", number, err)
	}
	return m[1], seq, nil
}

// NextPONumberSuffix derives the next sequence from a day's existing PO
// numbers. Suffixes are compared as integers, so "-10" ranks above "-9".
// Numbers whose suffix does not parse are ignored.
func NextPONumberSuffix(existing []string) int64 {
	var highest int64
	for _, n := range existing {
		i := strings.LastIndex(n, "-")
		if i < 0 {
			continue
		}
		seq, err := strconv.ParseInt(n[i+1:], 10, 64)
		if err != nil || seq < 0 {
			continue
		}
		if seq > highest {
			highest = seq
		}
	}
	return highest + 1
}

// DayCounter hands out a strictly increasing sequence per calendar day,
// starting at 1. Implementations must be safe for concurrent use: two calls
// for the same day never return the same value.
type DayCounter interface {
	Next(ctx context.Context, day time.Time) (int64, error)
}

// Allocator mints PO numbers from a DayCounter. The day is taken from the
// clock in the allocator's location, never from caller input.
type Allocator struct {
	counter DayCounter
	loc     *time.Location
	now     func() time.Time
}

// NewAllocator constructs an Allocator. A nil loc means time.Local and a nil
// now means time.Now.
func NewAllocator(counter DayCounter, loc *time.Location, now func() time.Time) *Allocator {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Allocator{counter: counter, loc: loc, now: now}
}

// Allocate returns a fresh PO number together with the issue time it was
// derived from.
func (a *Allocator) Allocate(ctx context.Context) (string, time.Time, error) {
	issued := a.now().In(a.loc)
	seq, err := a.counter.Next(ctx, issued)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("allocate PO number: %w", err)
	}
	return FormatPONumber(issued, seq), issued, nil
}

// MemoryDayCounter is an in-process DayCounter. Its state is lost on exit.
type MemoryDayCounter struct {
	mu   sync.Mutex
	last map[string]int64
}

// NewMemoryDayCounter returns an empty counter.
func NewMemoryDayCounter() *MemoryDayCounter {
	return &MemoryDayCounter{last: make(map[string]int64)}
}

// Seed makes the next value for day be n+1, unless the counter has already
// gone past n.
func (c *MemoryDayCounter) Seed(day time.Time, n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := day.Format("2006-01-02")
	if c.last[key] < n {
		c.last[key] = n
	}
}

func (c *MemoryDayCounter) Next(_ context.Context, day time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := day.Format("2006-01-02")
	c.last[key]++
	return c.last[key], nil
}
