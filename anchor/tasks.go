package anchor

import (
	"sync"
	"sync/atomic"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/traverse"
)

// chunkPositions is the number of window start positions per task. Long
// sequences are split so that workers stay busy and per-task buffers stay
// small.
const chunkPositions = 1 << 16

// task is a run of window start positions [from, to) on one sequence.
type task struct {
	seq      int
	from, to int
}

// makeTasks splits every sequence of length at least windowSize into tasks.
// Tasks are ordered by sequence, then by position.
func makeTasks(sizes []int, windowSize int) []task {
	var tasks []task
	for i, size := range sizes {
		n := size - windowSize + 1
		for from := 0; from < n; from += chunkPositions {
			to := from + chunkPositions
			if to > n {
				to = n
			}
			tasks = append(tasks, task{seq: i, from: from, to: to})
		}
	}
	return tasks
}

// runTasks calls fn(i) for i in [0, n) from the given number of goroutines.
// Each goroutine pulls the next unclaimed index until none is left, so
// uneven tasks balance out. The first error stops further tasks from
// starting and is returned. If fn panics, the panic is re-raised on the
// calling goroutine after every worker has stopped.
func runTasks(workers, n int, fn func(i int) error) error {
	if workers > n {
		workers = n
	}
	if workers < 1 {
		return nil
	}
	var (
		next      int64 = -1
		stop      int32
		panicOnce sync.Once
		panicVal  interface{}
	)
	err := traverse.Each(workers, func(int) (err error) {
		defer func() {
			if r := recover(); r != nil {
				panicOnce.Do(func() { panicVal = r })
				atomic.StoreInt32(&stop, 1)
				err = errors.E("anchor: worker panicked")
			}
		}()
		for atomic.LoadInt32(&stop) == 0 {
			i := int(atomic.AddInt64(&next, 1))
			if i >= n {
				return nil
			}
			if err := fn(i); err != nil {
				atomic.StoreInt32(&stop, 1)
				return err
			}
		}
		return nil
	})
	if panicVal != nil {
		panic(panicVal)
	}
	return err
}
