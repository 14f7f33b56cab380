package jobs

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Job is a single unit of work for a one-machine schedule.
//
// Jobs are plain values: two jobs with equal fields are equal.
type Job struct {
	DeliveryTime   uint32 `yaml:"r"` // earliest start (r)
	ProcessingTime uint32 `yaml:"p"` // machine occupation (p)
	CooldownTime   uint32 `yaml:"q"` // tail after processing (q)
}

// New creates a Job from its release, processing and cooldown times.
func New(deliveryTime, processingTime, cooldownTime uint32) Job {
	return Job{
		DeliveryTime:   deliveryTime,
		ProcessingTime: processingTime,
		CooldownTime:   cooldownTime,
	}
}

// TotalTime returns r + p + q.
func (j Job) TotalTime() uint64 {
	return uint64(j.DeliveryTime) + uint64(j.ProcessingTime) + uint64(j.CooldownTime)
}

// String implements fmt.Stringer.
func (j Job) String() string {
	return fmt.Sprintf("(%d, %d, %d)", j.DeliveryTime, j.ProcessingTime, j.CooldownTime)
}

// JobList is an ordered job sequence. The position of a job is the order in
// which it is loaded onto the machine and run to completion.
type JobList []Job

// String renders one job per line.
func (l JobList) String() string {
	var b strings.Builder
	for _, j := range l {
		b.WriteString(j.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// SortedByDeliveryTime returns a copy sorted by ascending delivery time.
func (l JobList) SortedByDeliveryTime() JobList {
	return l.sortedBy(func(j Job) uint32 { return j.DeliveryTime })
}

// SortedByProcessingTime returns a copy sorted by ascending processing time.
func (l JobList) SortedByProcessingTime() JobList {
	return l.sortedBy(func(j Job) uint32 { return j.ProcessingTime })
}

// SortedByCooldownTime returns a copy sorted by ascending cooldown time.
func (l JobList) SortedByCooldownTime() JobList {
	return l.sortedBy(func(j Job) uint32 { return j.CooldownTime })
}

func (l JobList) sortedBy(key func(Job) uint32) JobList {
	out := slices.Clone(l)
	slices.SortStableFunc(out, func(a, b Job) int { return cmp.Compare(key(a), key(b)) })
	return out
}

// Makespan returns the completion instant of the last job, cooldown
// included, when the jobs run without interruption in list order.
// An empty list has makespan 0.
func (l JobList) Makespan() uint64 {
	var makespan, s uint64
	for _, j := range l {
		if r := uint64(j.DeliveryTime); r > s {
			// machine idles until the job is released
			s = r + uint64(j.ProcessingTime)
		} else {
			s += uint64(j.ProcessingTime)
		}
		makespan = max(makespan, s+uint64(j.CooldownTime))
	}
	return makespan
}
