package debounce

import (
	"sync"
	"testing"
	"time"
)

func TestOnlyLatestValueSurvives(t *testing.T) {
	var mu sync.Mutex
	var got []int
	d := New(40*time.Millisecond, func(v int) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	})
	defer d.Stop()

	for i := 1; i <= 5; i++ {
		d.Set(i)
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(120 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("expected exactly one emit, got %v", got)
	}
	if got[0] != 5 {
		t.Errorf("expected final value 5, got %d", got[0])
	}
}

func TestEachUpdateRestartsTheWindow(t *testing.T) {
	var mu sync.Mutex
	emitted := false
	d := New(50*time.Millisecond, func(int) {
		mu.Lock()
		emitted = true
		mu.Unlock()
	})
	defer d.Stop()

	d.Set(1)
	time.Sleep(30 * time.Millisecond)
	d.Set(2)
	time.Sleep(30 * time.Millisecond)

	mu.Lock()
	early := emitted
	mu.Unlock()
	if early {
		t.Errorf("value emitted before it was stable for the full delay")
	}

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if !emitted {
		t.Errorf("value never emitted after settling")
	}
}

func TestStopCancelsPendingEmit(t *testing.T) {
	var mu sync.Mutex
	emitted := false
	d := New(30*time.Millisecond, func(int) {
		mu.Lock()
		emitted = true
		mu.Unlock()
	})

	d.Set(1)
	d.Stop()
	time.Sleep(80 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if emitted {
		t.Errorf("emit fired after Stop")
	}
}

func TestSetAfterStopIsIgnored(t *testing.T) {
	d := New(10*time.Millisecond, func(int) {
		t.Errorf("emit fired after Stop")
	})
	d.Stop()
	d.Set(1)
	time.Sleep(40 * time.Millisecond)
}
