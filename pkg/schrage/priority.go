package schrage

import (
	"cmp"
	"container/heap"

	"github.com/wmbr/proc-opt/pkg/jobs"
)

// ComparePriority orders jobs by scheduling priority: the larger cooldown time
// wins, the larger processing time breaks ties. It returns a positive number
// when a outranks b, a negative number when b outranks a, and 0 otherwise.
func ComparePriority(a, b jobs.Job) int {
	if c := cmp.Compare(a.CooldownTime, b.CooldownTime); c != 0 {
		return c
	}
	return cmp.Compare(a.ProcessingTime, b.ProcessingTime)
}

// candidate is a released job waiting for the machine. index is the job's
// position in release order; job may carry a reduced processing time.
type candidate struct {
	job   jobs.Job
	index int
}

// readyQueue implements heap.Interface. The top is the highest-priority
// candidate; equal priorities go to the lower index.
type readyQueue []candidate

func (q readyQueue) Len() int { return len(q) }

func (q readyQueue) Less(i, j int) bool {
	if c := ComparePriority(q[i].job, q[j].job); c != 0 {
		return c > 0
	}
	return q[i].index < q[j].index
}

func (q readyQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

// Push is called by heap.Push; use push instead.
func (q *readyQueue) Push(x any) { *q = append(*q, x.(candidate)) }

// Pop is called by heap.Pop; use pop instead.
func (q *readyQueue) Pop() any {
	old := *q
	n := len(old)
	c := old[n-1]
	*q = old[:n-1]
	return c
}

func (q *readyQueue) push(c candidate) { heap.Push(q, c) }

func (q *readyQueue) pop() candidate { return heap.Pop(q).(candidate) }
