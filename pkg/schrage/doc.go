// Package schrage implements Schrage's algorithm for 1|r_j,q_j|C_max, with and
// without preemption.
//
// Both schedulers repeatedly pick, among the jobs already released, the one
// with the largest cooldown time (larger processing time breaks ties, then the
// earlier release position). Without preemption this is a heuristic; with
// preemption the resulting makespan is optimal.
//
//	order := schrage.Schrage(js)            // jobs.JobList
//	sched := schrage.SchragePreemptive(js)  // jobs.JobSchedule
//	fmt.Println(order.Makespan(), sched.Makespan())
package schrage
