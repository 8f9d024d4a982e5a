package watcher

import (
	"slices"
	"sync"
	"testing"
	"testing/synctest"
	"time"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		var fired []string
		d := newDebouncer(100*time.Millisecond, func(path string) {
			mu.Lock()
			defer mu.Unlock()
			fired = append(fired, path)
		})

		// Three rapid triggers within the quiet period fire once.
		d.trigger("a.css")
		time.Sleep(50 * time.Millisecond)
		d.trigger("a.css")
		time.Sleep(50 * time.Millisecond)
		d.trigger("a.css")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		if !slices.Equal(fired, []string{"a.css"}) {
			t.Fatalf("expected one coalesced event, got %v", fired)
		}
	})
}

func TestDebouncer_PathsAreIndependent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		fired := map[string]int{}
		d := newDebouncer(100*time.Millisecond, func(path string) {
			mu.Lock()
			defer mu.Unlock()
			fired[path]++
		})

		d.trigger("a.css")
		d.trigger("b.svg")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		if fired["a.css"] != 1 || fired["b.svg"] != 1 {
			t.Fatalf("expected one event per path, got %v", fired)
		}
	})
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		count := 0
		d := newDebouncer(100*time.Millisecond, func(string) {
			mu.Lock()
			defer mu.Unlock()
			count++
		})

		d.trigger("a.css")
		d.stop()

		time.Sleep(200 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		if count != 0 {
			t.Fatalf("expected no events after stop, got %d", count)
		}
	})
}
