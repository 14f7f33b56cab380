// Package report renders solver results for people (text) and for tools (YAML).
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/wmbr/proc-opt/internal/shared"
	"github.com/wmbr/proc-opt/internal/solver"
	"github.com/wmbr/proc-opt/pkg/jobs"
)

// Format of the rendered report.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// Report is the rendered view of one solver result.
type Report struct {
	Instance   string          `yaml:"instance"`
	Jobs       int             `yaml:"jobs"`
	Natural    uint64          `yaml:"natural_makespan"`
	Schrage    *SequenceReport `yaml:"schrage,omitempty"`
	Preemptive *ScheduleReport `yaml:"preemptive,omitempty"`
}

// SequenceReport describes a non-preemptive order.
type SequenceReport struct {
	Makespan uint64     `yaml:"makespan"`
	Order    []jobs.Job `yaml:"order"`
}

// ScheduleReport describes a preemptive schedule.
type ScheduleReport struct {
	Makespan  uint64          `yaml:"makespan"`
	Jobs      []jobs.Job      `yaml:"jobs"`
	Timetable []jobs.Entry    `yaml:"timetable"`
	Intervals []jobs.Interval `yaml:"intervals"`
}

// Build converts a solver result.
func Build(r solver.Result) Report {
	rep := Report{
		Instance: r.Instance.Name,
		Jobs:     len(r.Instance.Jobs),
		Natural:  r.Natural,
	}
	if r.Schrage != nil {
		rep.Schrage = &SequenceReport{
			Makespan: r.Schrage.Makespan,
			Order:    r.Schrage.Order,
		}
	}
	if r.Preemptive != nil {
		s := r.Preemptive.Schedule
		rep.Preemptive = &ScheduleReport{
			Makespan:  r.Preemptive.Makespan,
			Jobs:      s.Jobs,
			Timetable: s.Timetable,
			Intervals: s.Intervals(),
		}
	}
	return rep
}

// Write renders reports to w.
func Write(w io.Writer, format Format, reports ...Report) error {
	switch format {
	case FormatText:
		return writeText(w, reports)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return shared.MarkKind(shared.Wrap(err, "encode yaml report"), shared.KindInternal)
		}
		if err := enc.Close(); err != nil {
			return shared.MarkKind(shared.Wrap(err, "close yaml report"), shared.KindInternal)
		}
		return nil
	default:
		return shared.Validationf("unknown report format %q", format)
	}
}

func writeText(w io.Writer, reports []Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	for k, rep := range reports {
		if k > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "instance %s: %d jobs, natural order C_max %d\n", rep.Instance, rep.Jobs, rep.Natural)

		if s := rep.Schrage; s != nil {
			fmt.Fprintf(tw, "schrage C_max %d\n", s.Makespan)
			fmt.Fprintln(tw, "pos\tr\tp\tq\t")
			for i, j := range s.Order {
				fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t\n", i+1, j.DeliveryTime, j.ProcessingTime, j.CooldownTime)
			}
		}

		if p := rep.Preemptive; p != nil {
			fmt.Fprintf(tw, "preemptive C_max %d\n", p.Makespan)
			fmt.Fprintln(tw, "job\tstart\tend\tr\tp\tq\t")
			for _, iv := range p.Intervals {
				j := p.Jobs[iv.Index]
				fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t\n",
					iv.Index, iv.Start, iv.End, j.DeliveryTime, j.ProcessingTime, j.CooldownTime)
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return shared.MarkKind(shared.Wrap(err, "write text report"), shared.KindInternal)
	}
	return nil
}
