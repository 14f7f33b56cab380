package schrage

import (
	"cmp"
	"slices"

	"github.com/wmbr/proc-opt/pkg/jobs"
)

// byRelease returns a copy of js stable-sorted by ascending delivery time.
func byRelease(js []jobs.Job) jobs.JobList {
	sorted := slices.Clone(js)
	slices.SortStableFunc(sorted, func(a, b jobs.Job) int {
		return cmp.Compare(a.DeliveryTime, b.DeliveryTime)
	})
	return sorted
}

// Schrage orders js for non-preemptive execution on a single machine.
// Whenever the machine is free it starts the highest-priority released job
// (see ComparePriority); when nothing is released it waits for the next
// release. The result is a permutation of js. Runs in O(n log n).
func Schrage(js []jobs.Job) jobs.JobList {
	sorted := byRelease(js)
	ready := make(readyQueue, 0, len(sorted))
	order := make(jobs.JobList, 0, len(sorted))

	var t uint64
	next := 0
	for next < len(sorted) || ready.Len() > 0 {
		for next < len(sorted) && uint64(sorted[next].DeliveryTime) <= t {
			ready.push(candidate{job: sorted[next], index: next})
			next++
		}
		if ready.Len() == 0 {
			t = uint64(sorted[next].DeliveryTime)
			continue
		}
		c := ready.pop()
		order = append(order, c.job)
		t += uint64(c.job.ProcessingTime)
	}
	return order
}

// SchragePreemptive builds an optimal preemptive schedule for js.
//
// Jobs of the result are js sorted by delivery time; timetable entries index
// into that order. The running job is interrupted whenever another job is
// released before it completes, so the newcomer can contend for the machine;
// the interrupted job returns to the pool with its remaining processing time.
// Runs in O(n log n).
func SchragePreemptive(js []jobs.Job) jobs.JobSchedule {
	sorted := byRelease(js)
	ready := make(readyQueue, 0, len(sorted))
	var timetable []jobs.Entry

	var t uint64
	next := 0
	for next < len(sorted) || ready.Len() > 0 {
		for next < len(sorted) && uint64(sorted[next].DeliveryTime) <= t {
			ready.push(candidate{job: sorted[next], index: next})
			next++
		}
		if ready.Len() == 0 {
			t = uint64(sorted[next].DeliveryTime)
			continue
		}

		c := ready.pop()
		if n := len(timetable); n == 0 || timetable[n-1].Index != c.index {
			timetable = append(timetable, jobs.Entry{Time: t, Index: c.index})
		}
		t += uint64(c.job.ProcessingTime)

		if next < len(sorted) {
			if release := uint64(sorted[next].DeliveryTime); release < t {
				c.job.ProcessingTime = uint32(t - release)
				ready.push(c)
				t = release
			}
		}
	}

	return jobs.JobSchedule{
		Jobs:      sorted,
		Timetable: timetable,
	}
}
