// Package jobs models jobs for the single-machine 1|r_j,q_j|C_max problem and
// evaluates the schedules built from them.
//
// A Job carries three times: delivery (release) time r, processing time p and
// cooldown (tail) time q. Schedules come in two shapes:
//
//   - JobList: jobs run to completion, one after another, in list order.
//   - JobSchedule: a timetable of start/resume events that may preempt jobs.
//
// Both expose Makespan, the instant at which the last job finishes its
// cooldown. Job fields are uint32 and every clock is uint64, so makespan
// arithmetic cannot overflow.
package jobs
