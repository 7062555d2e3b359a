package poller

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fetchStep struct {
	ids []uint
	err error
}

func newTestPoller(notified *[]int) (*Poller, *[]fetchStep, *int) {
	steps := &[]fetchStep{}
	cursor := new(int)
	p := New(time.Second, func(ctx context.Context) ([]uint, error) {
		s := (*steps)[*cursor]
		*cursor++
		return s.ids, s.err
	}, func(count int) {
		*notified = append(*notified, count)
	})
	p.SetLogf(func(string, ...interface{}) {})
	return p, steps, cursor
}

func TestColdStartDoesNotNotify(t *testing.T) {
	var notified []int
	p, steps, _ := newTestPoller(&notified)
	*steps = []fetchStep{{ids: []uint{1, 2}}}

	p.tick(context.Background())

	if len(notified) != 0 {
		t.Fatalf("cold start produced notifications: %v", notified)
	}
	if len(p.seen) != 2 {
		t.Fatalf("seen set not primed, got %d entries", len(p.seen))
	}
}

func TestNewItemsAggregateIntoOneNotification(t *testing.T) {
	var notified []int
	p, steps, _ := newTestPoller(&notified)
	*steps = []fetchStep{
		{ids: []uint{1, 2}},
		{ids: []uint{1, 2, 3, 4}},
	}

	p.tick(context.Background())
	p.tick(context.Background())

	if len(notified) != 1 || notified[0] != 2 {
		t.Fatalf("want one notification of 2, got %v", notified)
	}
}

func TestUnchangedListStaysSilent(t *testing.T) {
	var notified []int
	p, steps, _ := newTestPoller(&notified)
	*steps = []fetchStep{
		{ids: []uint{1, 2}},
		{ids: []uint{1, 2}},
		{ids: []uint{2}}, // deletion is not news either
	}

	for i := 0; i < 3; i++ {
		p.tick(context.Background())
	}

	if len(notified) != 0 {
		t.Fatalf("unexpected notifications: %v", notified)
	}
}

func TestSeenSetIsReplacedNotMerged(t *testing.T) {
	var notified []int
	p, steps, _ := newTestPoller(&notified)
	*steps = []fetchStep{
		{ids: []uint{1, 2}},
		{ids: []uint{3}},    // 1 and 2 gone, 3 new
		{ids: []uint{1, 3}}, // 1 returns: it left the set, so it counts again
	}

	for i := 0; i < 3; i++ {
		p.tick(context.Background())
	}

	if len(notified) != 2 || notified[0] != 1 || notified[1] != 1 {
		t.Fatalf("want [1 1], got %v", notified)
	}
}

func TestFailedTickLeavesSeenUntouched(t *testing.T) {
	var notified []int
	p, steps, _ := newTestPoller(&notified)
	*steps = []fetchStep{
		{ids: []uint{1, 2}},
		{err: errors.New("backend down")},
		{ids: []uint{1, 2, 3}},
	}

	for i := 0; i < 3; i++ {
		p.tick(context.Background())
	}

	// Only the genuinely new item after recovery, no false burst.
	if len(notified) != 1 || notified[0] != 1 {
		t.Fatalf("want [1], got %v", notified)
	}
}

func TestErrorBeforePrimeKeepsColdStart(t *testing.T) {
	var notified []int
	p, steps, _ := newTestPoller(&notified)
	*steps = []fetchStep{
		{err: errors.New("backend down")},
		{ids: []uint{1, 2}}, // first successful fetch still only primes
		{ids: []uint{1, 2, 3}},
	}

	for i := 0; i < 3; i++ {
		p.tick(context.Background())
	}

	if len(notified) != 1 || notified[0] != 1 {
		t.Fatalf("want [1], got %v", notified)
	}
}

func TestRunStopsOnSessionEnd(t *testing.T) {
	done := make(chan struct{})
	p := New(10*time.Millisecond, func(ctx context.Context) ([]uint, error) {
		return nil, nil
	}, func(int) {})
	p.SetLogf(func(string, ...interface{}) {})

	finished := make(chan struct{})
	go func() {
		p.Run(context.Background(), done)
		close(finished)
	}()

	close(done)
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after session end")
	}
}
