package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_DeduplicatesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var executions atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		val, err, _ := g.Do("fixtures", func() (any, error) {
			executions.Add(1)
			<-release
			return "payload", nil
		})
		if err != nil {
			t.Errorf("leader: %v", err)
		}
		if val != "payload" {
			t.Errorf("leader got %v", val)
		}
	}()

	// Wait for the leader to enter the loader before starting followers
	// so they all join the in-flight call.
	for executions.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	const followers = 7
	var sharedCount atomic.Int32
	for i := 0; i < followers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			val, err, wasShared := g.Do("fixtures", func() (any, error) {
				executions.Add(1)
				return "payload", nil
			})
			if err != nil {
				t.Errorf("follower %d: %v", idx, err)
			}
			if val != "payload" {
				t.Errorf("follower %d got %v", idx, val)
			}
			if wasShared {
				sharedCount.Add(1)
			}
		}(i)
	}

	// Let the followers pile up on the blocked call before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := executions.Load(); got > 2 {
		t.Fatalf("expected at most 2 executions, got %d", got)
	}
	if sharedCount.Load() == 0 {
		t.Fatal("expected at least one shared result")
	}
}

func TestSingleFlight_PropagatesError(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	wantErr := errors.New("upstream down")

	_, err, shared := g.Do("broken", func() (any, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
	if shared {
		t.Fatal("solo call reported as shared")
	}
}

func TestSingleFlight_IndependentKeys(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var executions atomic.Int32

	for _, key := range []string{"a", "b"} {
		val, err, _ := g.Do(key, func() (any, error) {
			executions.Add(1)
			return key, nil
		})
		if err != nil {
			t.Fatalf("key %q: %v", key, err)
		}
		if val != key {
			t.Fatalf("key %q got %v", key, val)
		}
	}
	if got := executions.Load(); got != 2 {
		t.Fatalf("expected 2 executions, got %d", got)
	}
}
