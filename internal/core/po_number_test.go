package core_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"po-generator/internal/core"
)

func TestFormatPONumber(t *testing.T) {
	day := time.Date(2025, 3, 7, 23, 59, 0, 0, time.UTC)
	if got := core.FormatPONumber(day, 1); got != "CIT030725-1" {
		t.Errorf("expected CIT030725-1, got %s", got)
	}
	if got := core.FormatPONumber(day, 12); got != "CIT030725-12" {
		t.Errorf("expected CIT030725-12, got %s", got)
	}
}

func TestParsePONumber(t *testing.T) {
	day, seq, err := core.ParsePONumber("CIT121524-10")
	if err != nil {
		t.Fatalf("ParsePONumber: %v", err)
	}
	if day != "121524" || seq != 10 {
		t.Errorf("expected (121524, 10), got (%s, %d)", day, seq)
	}

	for _, bad := range []string{"", "CIT121524", "CIT12152-1", "XYZ121524-1", "CIT121524-01", "CIT121524-0", "CIT121524-a"} {
		if _, _, err := core.ParsePONumber(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestNextPONumberSuffix(t *testing.T) {
	cases := []struct {
		name     string
		existing []string
		want     int64
	}{
		{"empty day", nil, 1},
		{"single", []string{"CIT030725-1"}, 2},
		{"numeric not lexicographic", []string{"CIT030725-9", "CIT030725-10", "CIT030725-2"}, 11},
		{"garbage ignored", []string{"CIT030725-x", "nonsense", "CIT030725-3"}, 4},
		{"only garbage", []string{"CIT030725-"}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := core.NextPONumberSuffix(tc.existing); got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func TestAllocator_SequencesWithinDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	clock := &fakeClock{t: time.Date(2025, 3, 7, 9, 0, 0, 0, ny)}
	alloc := core.NewAllocator(core.NewMemoryDayCounter(), ny, clock.Now)

	ctx := context.Background()
	for i := 1; i <= 12; i++ {
		number, issued, err := alloc.Allocate(ctx)
		if err != nil {
			t.Fatalf("Allocate #%d: %v", i, err)
		}
		want := fmt.Sprintf("CIT030725-%d", i)
		if number != want {
			t.Errorf("expected %s, got %s", want, number)
		}
		if issued.Location() != ny {
			t.Errorf("expected issue time in %s, got %s", ny, issued.Location())
		}
		clock.Set(clock.Now().Add(time.Minute))
	}
}

func TestAllocator_RollsOverAtLocalMidnight(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 23:59 in New York is already the next day in UTC.
	clock := &fakeClock{t: time.Date(2025, 3, 7, 23, 59, 0, 0, ny)}
	alloc := core.NewAllocator(core.NewMemoryDayCounter(), ny, clock.Now)
	ctx := context.Background()

	first, _, _ := alloc.Allocate(ctx)
	second, _, _ := alloc.Allocate(ctx)
	if first != "CIT030725-1" || second != "CIT030725-2" {
		t.Fatalf("expected CIT030725-1 and -2, got %s and %s", first, second)
	}

	clock.Set(time.Date(2025, 3, 8, 0, 0, 1, 0, ny))
	next, _, err := alloc.Allocate(ctx)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if next != "CIT030825-1" {
		t.Errorf("expected CIT030825-1 after midnight, got %s", next)
	}
}

func TestAllocator_ConcurrentAllocationsAreDistinct(t *testing.T) {
	day := time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)
	alloc := core.NewAllocator(core.NewMemoryDayCounter(), time.UTC, func() time.Time { return day })

	const n = 200
	var wg sync.WaitGroup
	results := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, _, err := alloc.Allocate(context.Background())
			if err != nil {
				t.Errorf("Allocate: %v", err)
				return
			}
			results <- number
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, n)
	for number := range results {
		if seen[number] {
			t.Fatalf("duplicate PO number %s", number)
		}
		seen[number] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d numbers, got %d", n, len(seen))
	}
	for i := 1; i <= n; i++ {
		if !seen[fmt.Sprintf("CIT030725-%d", i)] {
			t.Errorf("missing suffix %d", i)
		}
	}
}

func TestMemoryDayCounter_Seed(t *testing.T) {
	c := core.NewMemoryDayCounter()
	day := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	c.Seed(day, 9)
	c.Seed(day, 4)

	next, _ := c.Next(context.Background(), day)
	if next != 10 {
		t.Errorf("expected 10 after seeding 9, got %d", next)
	}
	other, _ := c.Next(context.Background(), day.AddDate(0, 0, 1))
	if other != 1 {
		t.Errorf("expected a fresh day to start at 1, got %d", other)
	}
}

type failingCounter struct{}

func (failingCounter) Next(context.Context, time.Time) (int64, error) {
	return 0, fmt.Errorf("counter offline")
}

func TestAllocator_PropagatesCounterError(t *testing.T) {
	alloc := core.NewAllocator(failingCounter{}, time.UTC, nil)
	if _, _, err := alloc.Allocate(context.Background()); err == nil {
		t.Fatal("expected error from failing counter")
	}
}
