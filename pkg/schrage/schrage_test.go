package schrage_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wmbr/proc-opt/pkg/jobs"
	"github.com/wmbr/proc-opt/pkg/schrage"
)

func TestComparePriority(t *testing.T) {
	tests := []struct {
		name string
		a, b jobs.Job
		sign int
	}{
		{"larger cooldown wins", jobs.New(0, 1, 10), jobs.New(0, 50, 9), 1},
		{"smaller cooldown loses", jobs.New(0, 50, 9), jobs.New(0, 1, 10), -1},
		{"processing time breaks ties", jobs.New(99, 7, 10), jobs.New(0, 6, 10), 1},
		{"delivery time is ignored", jobs.New(5, 7, 10), jobs.New(0, 7, 10), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schrage.ComparePriority(tt.a, tt.b)
			switch {
			case tt.sign > 0:
				assert.Positive(t, got)
			case tt.sign < 0:
				assert.Negative(t, got)
			default:
				assert.Zero(t, got)
			}
		})
	}
}

func TestSchrage(t *testing.T) {
	tests := []struct {
		name     string
		input    []jobs.Job
		expected jobs.JobList
		makespan uint64
	}{
		{
			name: "seven jobs",
			input: []jobs.Job{
				jobs.New(10, 5, 7),  // 1
				jobs.New(13, 6, 26), // 2
				jobs.New(11, 7, 24), // 3
				jobs.New(20, 4, 21), // 4
				jobs.New(30, 3, 8),  // 5
				jobs.New(0, 6, 17),  // 6
				jobs.New(30, 2, 0),  // 7
			},
			expected: jobs.JobList{
				jobs.New(0, 6, 17),  // 6
				jobs.New(10, 5, 7),  // 1
				jobs.New(13, 6, 26), // 2
				jobs.New(11, 7, 24), // 3
				jobs.New(20, 4, 21), // 4
				jobs.New(30, 3, 8),  // 5
				jobs.New(30, 2, 0),  // 7
			},
			makespan: 53,
		},
		{
			name: "six jobs",
			input: []jobs.Job{
				jobs.New(1, 5, 9), // 1
				jobs.New(4, 5, 4), // 2
				jobs.New(1, 4, 6), // 3
				jobs.New(7, 3, 3), // 4
				jobs.New(3, 6, 8), // 5
				jobs.New(4, 7, 1), // 6
			},
			expected: jobs.JobList{
				jobs.New(1, 5, 9), // 1
				jobs.New(3, 6, 8), // 5
				jobs.New(1, 4, 6), // 3
				jobs.New(4, 5, 4), // 2
				jobs.New(7, 3, 3), // 4
				jobs.New(4, 7, 1), // 6
			},
			makespan: 32,
		},
		{
			name: "twenty jobs",
			input: []jobs.Job{
				jobs.New(162, 52, 241), // 1
				jobs.New(103, 68, 470), // 2
				jobs.New(39, 38, 340),  // 3
				jobs.New(394, 34, 400), // 4
				jobs.New(15, 86, 700),  // 5
				jobs.New(144, 73, 536), // 6
				jobs.New(51, 52, 403),  // 7
				jobs.New(233, 68, 23),  // 8
				jobs.New(183, 17, 641), // 9
				jobs.New(728, 18, 640), // 10
				jobs.New(667, 80, 92),  // 11
				jobs.New(57, 21, 76),   // 12
				jobs.New(35, 37, 386),  // 13
				jobs.New(567, 71, 618), // 14
				jobs.New(226, 5, 629),  // 15
				jobs.New(162, 80, 575), // 16
				jobs.New(588, 45, 632), // 17
				jobs.New(556, 23, 79),  // 18
				jobs.New(715, 8, 93),   // 19
				jobs.New(598, 45, 200), // 20
			},
			expected: jobs.JobList{
				jobs.New(15, 86, 700),  // 5
				jobs.New(51, 52, 403),  // 7
				jobs.New(144, 73, 536), // 6
				jobs.New(183, 17, 641), // 9
				jobs.New(226, 5, 629),  // 15
				jobs.New(162, 80, 575), // 16
				jobs.New(103, 68, 470), // 2
				jobs.New(394, 34, 400), // 4
				jobs.New(35, 37, 386),  // 13
				jobs.New(39, 38, 340),  // 3
				jobs.New(162, 52, 241), // 1
				jobs.New(556, 23, 79),  // 18
				jobs.New(567, 71, 618), // 14
				jobs.New(588, 45, 632), // 17
				jobs.New(598, 45, 200), // 20
				jobs.New(728, 18, 640), // 10
				jobs.New(715, 8, 93),   // 19
				jobs.New(667, 80, 92),  // 11
				jobs.New(57, 21, 76),   // 12
				jobs.New(233, 68, 23),  // 8
			},
			makespan: 1399,
		},
		{
			name: "ten jobs with a cooldown tie",
			input: []jobs.Job{
				jobs.New(52, 1, 56),   // 1
				jobs.New(70, 4, 93),   // 2
				jobs.New(112, 22, 79), // 3
				jobs.New(5, 14, 125),  // 4
				jobs.New(8, 16, 114),  // 5
				jobs.New(71, 7, 71),   // 6
				jobs.New(90, 2, 13),   // 7
				jobs.New(2, 20, 88),   // 8
				jobs.New(52, 20, 56),  // 9
				jobs.New(9, 28, 94),   // 10
			},
			expected: jobs.JobList{
				jobs.New(2, 20, 88),   // 8
				jobs.New(5, 14, 125),  // 4
				jobs.New(8, 16, 114),  // 5
				jobs.New(9, 28, 94),   // 10
				jobs.New(70, 4, 93),   // 2
				jobs.New(71, 7, 71),   // 6
				jobs.New(52, 20, 56),  // 9
				jobs.New(52, 1, 56),   // 1
				jobs.New(112, 22, 79), // 3
				jobs.New(90, 2, 13),   // 7
			},
			makespan: 213,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := schrage.Schrage(tt.input)
			assert.Equal(t, tt.expected, result)
			assert.Equal(t, tt.makespan, result.Makespan())
		})
	}

	t.Run("input is untouched", func(t *testing.T) {
		input := []jobs.Job{jobs.New(5, 1, 1), jobs.New(0, 1, 1)}
		_ = schrage.Schrage(input)
		assert.Equal(t, []jobs.Job{jobs.New(5, 1, 1), jobs.New(0, 1, 1)}, input)
	})

	t.Run("identical priorities keep release order", func(t *testing.T) {
		input := []jobs.Job{jobs.New(2, 3, 5), jobs.New(1, 3, 5), jobs.New(0, 4, 0)}
		expected := jobs.JobList{jobs.New(0, 4, 0), jobs.New(1, 3, 5), jobs.New(2, 3, 5)}
		assert.Equal(t, expected, schrage.Schrage(input))
	})
}

func TestSchragePreemptive(t *testing.T) {
	t.Run("preempted job resumes", func(t *testing.T) {
		input := []jobs.Job{
			jobs.New(0, 27, 78),
			jobs.New(140, 7, 67),
			jobs.New(14, 36, 54),
			jobs.New(133, 76, 5),
		}
		expected := jobs.JobSchedule{
			Jobs: jobs.JobList{
				jobs.New(0, 27, 78),  // 0
				jobs.New(14, 36, 54), // 1
				jobs.New(133, 76, 5), // 2
				jobs.New(140, 7, 67), // 3
			},
			Timetable: []jobs.Entry{
				{Time: 0, Index: 0},
				{Time: 27, Index: 1},
				{Time: 133, Index: 2},
				{Time: 140, Index: 3}, // preempting job 2
				{Time: 147, Index: 2}, // continue job 2
			},
		}
		result := schrage.SchragePreemptive(input)
		assert.Equal(t, expected, result)
		assert.Equal(t, uint64(221), result.Makespan())
		require.NoError(t, result.Validate())
	})

	tests := []struct {
		name     string
		input    []jobs.Job
		makespan uint64
	}{
		{
			// below the best non-preemptive order (50): jobs released at 11, 13
			// and 20 need 17 units of work and at least 21 units of cooldown
			name: "seven jobs hit the preemptive lower bound",
			input: []jobs.Job{
				jobs.New(10, 5, 7),
				jobs.New(13, 6, 26),
				jobs.New(11, 7, 24),
				jobs.New(20, 4, 21),
				jobs.New(30, 3, 8),
				jobs.New(0, 6, 17),
				jobs.New(30, 2, 0),
			},
			makespan: 49,
		},
		{
			name: "fifty jobs",
			input: []jobs.Job{
				jobs.New(8, 68, 984),
				jobs.New(747, 60, 1241),
				jobs.New(811, 78, 56),
				jobs.New(1760, 58, 1558),
				jobs.New(860, 16, 319),
				jobs.New(1549, 28, 927),
				jobs.New(1010, 96, 749),
				jobs.New(738, 37, 844),
				jobs.New(599, 20, 1170),
				jobs.New(446, 53, 1509),
				jobs.New(1363, 36, 19),
				jobs.New(1277, 14, 685),
				jobs.New(1574, 98, 1472),
				jobs.New(1886, 3, 1571),
				jobs.New(591, 21, 1587),
				jobs.New(714, 25, 1490),
				jobs.New(1881, 43, 1647),
				jobs.New(983, 62, 514),
				jobs.New(858, 8, 1215),
				jobs.New(634, 7, 587),
				jobs.New(784, 14, 1897),
				jobs.New(1893, 22, 1878),
				jobs.New(308, 89, 1039),
				jobs.New(1892, 91, 1815),
				jobs.New(1024, 75, 1602),
				jobs.New(1467, 59, 378),
				jobs.New(1830, 3, 1173),
				jobs.New(167, 25, 702),
				jobs.New(357, 3, 416),
				jobs.New(1739, 68, 71),
				jobs.New(1810, 58, 1220),
				jobs.New(453, 62, 393),
				jobs.New(462, 60, 22),
				jobs.New(332, 25, 1512),
				jobs.New(845, 96, 1176),
				jobs.New(522, 80, 513),
				jobs.New(1110, 61, 1854),
				jobs.New(484, 32, 570),
				jobs.New(545, 91, 274),
				jobs.New(64, 67, 74),
				jobs.New(90, 9, 1423),
				jobs.New(1013, 67, 1567),
				jobs.New(1509, 86, 878),
				jobs.New(238, 12, 285),
				jobs.New(1226, 23, 1767),
				jobs.New(83, 35, 22),
				jobs.New(626, 97, 63),
				jobs.New(6, 24, 707),
				jobs.New(507, 31, 1294),
				jobs.New(638, 98, 1528),
			},
			makespan: 3820,
		},
		{
			name: "twenty jobs",
			input: []jobs.Job{
				jobs.New(162, 52, 241),
				jobs.New(103, 68, 470),
				jobs.New(39, 38, 340),
				jobs.New(394, 34, 400),
				jobs.New(15, 86, 700),
				jobs.New(144, 73, 536),
				jobs.New(51, 52, 403),
				jobs.New(233, 68, 23),
				jobs.New(183, 17, 641),
				jobs.New(728, 18, 640),
				jobs.New(667, 80, 92),
				jobs.New(57, 21, 76),
				jobs.New(35, 37, 386),
				jobs.New(567, 71, 618),
				jobs.New(226, 5, 629),
				jobs.New(162, 80, 575),
				jobs.New(588, 45, 632),
				jobs.New(556, 23, 79),
				jobs.New(715, 8, 93),
				jobs.New(598, 45, 200),
			},
			makespan: 1386,
		},
		{
			name: "ten jobs",
			input: []jobs.Job{
				jobs.New(219, 5, 276),
				jobs.New(84, 13, 103),
				jobs.New(336, 35, 146),
				jobs.New(271, 62, 264),
				jobs.New(120, 33, 303),
				jobs.New(299, 14, 328),
				jobs.New(106, 46, 91),
				jobs.New(181, 93, 97),
				jobs.New(263, 13, 168),
				jobs.New(79, 60, 235),
			},
			makespan: 641,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := schrage.SchragePreemptive(tt.input)
			require.NoError(t, result.Validate())
			assert.Equal(t, tt.makespan, result.Makespan())
		})
	}

	t.Run("zero processing jobs get an entry", func(t *testing.T) {
		result := schrage.SchragePreemptive([]jobs.Job{jobs.New(0, 0, 100), jobs.New(0, 5, 1)})
		expected := []jobs.Entry{{Time: 0, Index: 0}, {Time: 0, Index: 1}}
		assert.Equal(t, expected, result.Timetable)
		assert.Equal(t, uint64(100), result.Makespan())
		require.NoError(t, result.Validate())
	})
}

func TestEmptyInput(t *testing.T) {
	order := schrage.Schrage(nil)
	assert.Empty(t, order)
	assert.Equal(t, uint64(0), order.Makespan())

	sched := schrage.SchragePreemptive([]jobs.Job{})
	assert.Empty(t, sched.Jobs)
	assert.Empty(t, sched.Timetable)
	assert.Equal(t, uint64(0), sched.Makespan())
}

func randomJobs(rng *rand.Rand) []jobs.Job {
	n := rng.IntN(12)
	js := make([]jobs.Job, n)
	for i := range js {
		js[i] = jobs.New(uint32(rng.IntN(60)), uint32(rng.IntN(15)), uint32(rng.IntN(40)))
	}
	return js
}

// permutations calls fn with every ordering of js.
func permutations(js []jobs.Job, k int, fn func([]jobs.Job)) {
	if k == len(js) {
		fn(js)
		return
	}
	for i := k; i < len(js); i++ {
		js[k], js[i] = js[i], js[k]
		permutations(js, k+1, fn)
		js[k], js[i] = js[i], js[k]
	}
}

func TestSchedulerProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for round := 0; round < 300; round++ {
		input := randomJobs(rng)

		order := schrage.Schrage(input)
		sched := schrage.SchragePreemptive(input)

		// permutation
		require.ElementsMatch(t, input, order, "round %d", round)
		require.ElementsMatch(t, input, sched.Jobs, "round %d", round)

		// no job starts before its delivery time
		var clock uint64
		for _, j := range order {
			start := max(clock, uint64(j.DeliveryTime))
			require.GreaterOrEqual(t, start, uint64(j.DeliveryTime))
			clock = start + uint64(j.ProcessingTime)
		}
		for _, e := range sched.Timetable {
			require.GreaterOrEqual(t, e.Time, uint64(sched.Jobs[e.Index].DeliveryTime), "round %d", round)
		}

		// conservation
		worked := make([]uint64, len(sched.Jobs))
		for _, iv := range sched.Intervals() {
			worked[iv.Index] += iv.End - iv.Start
		}
		for i, j := range sched.Jobs {
			require.Equal(t, uint64(j.ProcessingTime), worked[i], "round %d job %d", round, i)
		}
		require.NoError(t, sched.Validate(), "round %d", round)
		require.Equal(t, len(input) == 0, len(sched.Timetable) == 0)

		// dominance
		require.LessOrEqual(t, sched.Makespan(), order.Makespan(), "round %d", round)
		require.LessOrEqual(t, sched.Makespan(), jobs.JobList(input).Makespan(), "round %d", round)
	}
}

func TestPreemptiveIsLowerBound(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for round := 0; round < 40; round++ {
		input := randomJobs(rng)
		if len(input) > 6 {
			input = input[:6]
		}
		bound := schrage.SchragePreemptive(input).Makespan()

		best := ^uint64(0)
		if len(input) == 0 {
			best = 0
		}
		permutations(append([]jobs.Job(nil), input...), 0, func(p []jobs.Job) {
			best = min(best, jobs.JobList(p).Makespan())
		})
		require.LessOrEqual(t, bound, best, "round %d: %v", round, input)
	}
}

func TestSchragePreemptive_SevenJobsBelowBestSequence(t *testing.T) {
	input := []jobs.Job{
		jobs.New(10, 5, 7),
		jobs.New(13, 6, 26),
		jobs.New(11, 7, 24),
		jobs.New(20, 4, 21),
		jobs.New(30, 3, 8),
		jobs.New(0, 6, 17),
		jobs.New(30, 2, 0),
	}

	// best order without preemption
	sequence := jobs.JobList{
		jobs.New(0, 6, 17),
		jobs.New(11, 7, 24),
		jobs.New(13, 6, 26),
		jobs.New(20, 4, 21),
		jobs.New(10, 5, 7),
		jobs.New(30, 3, 8),
		jobs.New(30, 2, 0),
	}
	require.Equal(t, uint64(50), sequence.Makespan())

	best := ^uint64(0)
	permutations(append([]jobs.Job(nil), input...), 0, func(p []jobs.Job) {
		best = min(best, jobs.JobList(p).Makespan())
	})
	assert.Equal(t, uint64(50), best)

	preemptive := schrage.SchragePreemptive(input).Makespan()
	assert.Equal(t, uint64(49), preemptive)
	assert.LessOrEqual(t, preemptive, sequence.Makespan())
}
