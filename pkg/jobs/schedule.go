package jobs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSchedule is wrapped by every error returned from JobSchedule.Validate.
var ErrInvalidSchedule = errors.New("invalid schedule")

// Entry marks that Jobs[Index] starts or resumes execution at Time.
type Entry struct {
	Time  uint64 `yaml:"time"`
	Index int    `yaml:"job"`
}

// Interval is a stretch of uninterrupted execution of Jobs[Index].
type Interval struct {
	Index int    `yaml:"job"`
	Start uint64 `yaml:"start"`
	End   uint64 `yaml:"end"`
}

// JobSchedule is a single-machine schedule with possible preemptions.
//
// Between two timetable entries the machine executes the job named by the
// earlier entry until that job runs out of processing time; a job named by
// several entries was preempted in between. Times are non-decreasing and two
// entries share a time only when the earlier one belongs to a job with no
// processing left.
type JobSchedule struct {
	Jobs      JobList `yaml:"jobs"`
	Timetable []Entry `yaml:"timetable"`
}

// String renders the jobs followed by the timetable.
func (s JobSchedule) String() string {
	var b strings.Builder
	for i, j := range s.Jobs {
		fmt.Fprintf(&b, "%d: %s\n", i, j)
	}
	for _, e := range s.Timetable {
		fmt.Fprintf(&b, "t=%d -> %d\n", e.Time, e.Index)
	}
	return b.String()
}

func (s JobSchedule) remaining() []uint64 {
	rem := make([]uint64, len(s.Jobs))
	for i, j := range s.Jobs {
		rem[i] = uint64(j.ProcessingTime)
	}
	return rem
}

// Makespan returns the completion instant of the last job, cooldown
// included. The schedule must index only into Jobs (see Validate).
// An empty timetable has makespan 0.
func (s JobSchedule) Makespan() uint64 {
	if len(s.Timetable) == 0 {
		return 0
	}
	rem := s.remaining()
	var makespan uint64
	prev := s.Timetable[0]
	for _, e := range s.Timetable[1:] {
		// completion of prev as if it were never preempted again
		makespan = max(makespan, prev.Time+rem[prev.Index]+uint64(s.Jobs[prev.Index].CooldownTime))
		rem[prev.Index] -= min(rem[prev.Index], e.Time-prev.Time)
		prev = e
	}
	return max(makespan, prev.Time+rem[prev.Index]+uint64(s.Jobs[prev.Index].CooldownTime))
}

// Intervals expands the timetable into execution intervals, one per entry.
// The last entry of every job runs until the job's processing is exhausted,
// so an interval may end before the next entry starts (idle machine).
func (s JobSchedule) Intervals() []Interval {
	rem := s.remaining()
	out := make([]Interval, 0, len(s.Timetable))
	for k, e := range s.Timetable {
		run := rem[e.Index]
		if k+1 < len(s.Timetable) {
			run = min(run, s.Timetable[k+1].Time-e.Time)
		}
		rem[e.Index] -= run
		out = append(out, Interval{Index: e.Index, Start: e.Time, End: e.Time + run})
	}
	return out
}

// Validate checks that the timetable describes a feasible, complete
// execution of Jobs.
func (s JobSchedule) Validate() error {
	if (len(s.Jobs) == 0) != (len(s.Timetable) == 0) {
		return fmt.Errorf("%w: %d jobs but %d timetable entries", ErrInvalidSchedule, len(s.Jobs), len(s.Timetable))
	}
	seen := make([]bool, len(s.Jobs))
	for k, e := range s.Timetable {
		if e.Index < 0 || e.Index >= len(s.Jobs) {
			return fmt.Errorf("%w: entry %d references job %d of %d", ErrInvalidSchedule, k, e.Index, len(s.Jobs))
		}
		if e.Time < uint64(s.Jobs[e.Index].DeliveryTime) {
			return fmt.Errorf("%w: job %d starts at %d before delivery time %d",
				ErrInvalidSchedule, e.Index, e.Time, s.Jobs[e.Index].DeliveryTime)
		}
		if k > 0 {
			prev := s.Timetable[k-1]
			if e.Time < prev.Time {
				return fmt.Errorf("%w: entry %d at %d precedes entry %d at %d", ErrInvalidSchedule, k, e.Time, k-1, prev.Time)
			}
			if e.Index == prev.Index {
				return fmt.Errorf("%w: entry %d repeats job %d", ErrInvalidSchedule, k, e.Index)
			}
		}
		seen[e.Index] = true
	}

	rem := s.remaining()
	for _, iv := range s.Intervals() {
		rem[iv.Index] -= iv.End - iv.Start
	}
	for i := range s.Jobs {
		if !seen[i] {
			return fmt.Errorf("%w: job %d never runs", ErrInvalidSchedule, i)
		}
		if rem[i] != 0 {
			return fmt.Errorf("%w: job %d left with %d units of processing", ErrInvalidSchedule, i, rem[i])
		}
	}
	return nil
}
