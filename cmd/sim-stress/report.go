package main

import (
	"io"
	"runtime"
	"text/template"
	"time"
)

type Report struct {
	// Configuration
	Duration       time.Duration
	FixedStep      float64
	Entities       int
	ComponentKinds int
	Systems        int

	// Loop results
	TotalTicks   uint64
	TotalSteps   uint64
	DroppedSteps uint64
	TotalTime    time.Duration
	StepTime     Stats
	UpdateTime   time.Duration
	RenderTime   time.Duration

	// Population churn
	FinalEntities int
	Deaths        int
	Expiries      int
	SnapshotBytes int
	RestoreTime   time.Duration

	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Simulation Stress Report

## Run Configuration
- **Run Duration:** {{.Duration}}
- **Fixed Step:** {{.FixedStep}}s
- **Initial Entities:** {{.Entities}}
- **Component Kinds:** {{.ComponentKinds}}
- **Systems:** {{.Systems}}

## Loop Results
- **Host Ticks:** {{.TotalTicks}}
- **Logic Steps:** {{.TotalSteps}}
- **Dropped Steps:** {{.DroppedSteps}}
- **Total Test Time:** {{.TotalTime}}
- **Step Time:**
  - **Avg:** {{.StepTime.Avg}}
  - **Min:** {{.StepTime.Min}}
  - **Max:** {{.StepTime.Max}}
- **Cumulative Update Time:** {{.UpdateTime}}
- **Cumulative Render Time:** {{.RenderTime}}

## Population
- **Final Entities:** {{.FinalEntities}}
- **Deaths:** {{.Deaths}}
- **Expiries:** {{.Expiries}}
- **Snapshot Size:** {{.SnapshotBytes}} bytes
- **Restore Time:** {{.RestoreTime}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
