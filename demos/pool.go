package demos

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/octoberswimmer/console"
)

// fixedPool runs four tasks with at most two in flight. Workers append from
// their own goroutines.
func fixedPool(log console.Log) error {
	log.Append("=== bounded worker pool (limit 2) ===")

	var running, peak atomic.Int32
	var g errgroup.Group
	g.SetLimit(2)

	for i := 1; i <= 4; i++ {
		id := i
		log.Appendf("  -> submit task %d", id)
		g.Go(func() error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			log.Appendf("  <- task %d done", id)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Appendf("peak concurrency: %d", peak.Load())
	return nil
}

// serialPool runs tasks on a single worker, so they complete in submission
// order.
func serialPool(log console.Log) error {
	log.Append("=== serial executor ===")

	var g errgroup.Group
	g.SetLimit(1)
	for i := 1; i <= 3; i++ {
		id := i
		g.Go(func() error {
			log.Appendf("  write file %d", id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Append("all writes ran one after another")
	return nil
}

// scheduled runs a periodic task five times.
func scheduled(log console.Log) error {
	log.Append("=== periodic task ===")

	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()

	var g errgroup.Group
	g.Go(func() error {
		for round := 1; round <= 5; round++ {
			<-ticker.C
			log.Append(fmt.Sprintf("  tick %d", round))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	log.Append("stopped after 5 rounds")
	return nil
}

// Saturation policies for a full pool.
const (
	policyAbort         = "abort"
	policyCallerRuns    = "callerRuns"
	policyDiscard       = "discard"
	policyDiscardOldest = "discardOldest"
)

// rejectionPolicies submits six tasks to two workers with a queue of two and
// shows what each policy does with the overflow.
func rejectionPolicies(log console.Log) error {
	for _, policy := range []string{policyAbort, policyCallerRuns, policyDiscard, policyDiscardOldest} {
		log.Appendf("=== policy %s ===", policy)
		done, err := saturate(log, policy)
		if err != nil {
			return err
		}
		log.Appendf("completed: %v", done)
	}
	return nil
}

func saturate(log console.Log, policy string) ([]int, error) {
	const workers, capacity, tasks = 2, 2, 6

	var (
		g     errgroup.Group
		mu    sync.Mutex
		done  []int
		queue []int
	)
	finish := func(id int) {
		mu.Lock()
		defer mu.Unlock()
		done = append(done, id)
	}

	// Workers hold their slot until every task has been submitted.
	release := make(chan struct{})
	g.SetLimit(workers)

	for id := 1; id <= tasks; id++ {
		if g.TryGo(func() error {
			<-release
			finish(id)
			return nil
		}) {
			log.Appendf("  task %d started", id)
			continue
		}
		if len(queue) < capacity {
			queue = append(queue, id)
			log.Appendf("  task %d queued", id)
			continue
		}

		switch policy {
		case policyAbort:
			log.Appendf("  task %d rejected: pool saturated", id)
		case policyCallerRuns:
			log.Appendf("  task %d runs on the submitter", id)
			finish(id)
		case policyDiscard:
			log.Appendf("  task %d discarded", id)
		case policyDiscardOldest:
			log.Appendf("  task %d evicted for task %d", queue[0], id)
			queue = append(queue[1:], id)
		default:
			return nil, fmt.Errorf("unknown policy %q", policy)
		}
	}

	close(release)
	for _, id := range queue {
		g.Go(func() error {
			finish(id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Ints(done)
	return done, nil
}
