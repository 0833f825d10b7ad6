package dispatch

import (
	"time"

	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

// ComputeStats derives dashboard statistics from a hospital's alert slice.
// It is a pure fold over the alert stream: there are no independently
// mutable counters, so the stats cannot drift from the queue.
func ComputeStats(alerts []*types.Alert, now time.Time) types.DashboardStats {
	stats := types.DashboardStats{
		DeptLoad: []types.DeptLoad{},
	}

	var waitTotal time.Duration
	var waiting int
	deptCounts := make(map[string]int)
	deptOrder := make([]string, 0)

	for _, a := range alerts {
		switch a.TriageLevel {
		case types.RiskHigh:
			stats.Queue.High++
		case types.RiskMedium:
			stats.Queue.Medium++
		case types.RiskLow:
			stats.Queue.Low++
		}
		stats.Queue.Total++

		if a.Status != types.AlertResolved {
			waitTotal += now.Sub(a.Timestamp)
			waiting++
		}

		if a.Analysis != nil && a.Analysis.Department.Primary != "" {
			dept := a.Analysis.Department.Primary
			if _, seen := deptCounts[dept]; !seen {
				deptOrder = append(deptOrder, dept)
			}
			deptCounts[dept]++
		}
	}

	if waiting > 0 {
		stats.Queue.AvgWait = waitTotal.Minutes() / float64(waiting)
	}

	for _, dept := range deptOrder {
		capacity := deptCounts[dept] * 100 / stats.Queue.Total
		stats.DeptLoad = append(stats.DeptLoad, types.DeptLoad{
			Name:     dept,
			Capacity: capacity,
		})
	}

	return stats
}
