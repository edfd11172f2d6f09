// Package aggregate computes dashboard KPIs over a project collection.
// Computation is pure and deterministic so identical inputs always produce
// identical summaries.
package aggregate

import (
	"math"

	"bluecarbon/internal/project"
)

// Summary holds the dashboard KPI set for one project collection.
type Summary struct {
	Total         int
	ApprovedCount int
	RejectedCount int
	PendingCount  int
	TotalCredits  float64
	TotalRevenue  float64
	ApprovalRate  float64
}

// Compute derives the KPI summary for a collection. Projects without scores
// contribute zero to the credit and revenue totals. Revenue prefers the
// registry's precomputed figure and falls back to credits times the
// configured token price; the total is rounded to the nearest whole currency
// unit. The approval rate is a whole-number percentage of all projects, zero
// for an empty collection.
func Compute(projects []project.Project, settings project.Settings) Summary {
	var s Summary
	s.Total = len(projects)

	for _, p := range projects {
		switch p.Status {
		case project.StatusApproved:
			s.ApprovedCount++
		case project.StatusRejected:
			s.RejectedCount++
		case project.StatusSubmitted, project.StatusUnderReview:
			s.PendingCount++
		}

		credits := 0.0
		if p.CarbonCredits != nil {
			credits = *p.CarbonCredits
		}
		s.TotalCredits += credits

		switch {
		case p.PotentialRevenue != nil:
			s.TotalRevenue += *p.PotentialRevenue
		default:
			s.TotalRevenue += credits * settings.TokenPriceUSD
		}
	}

	s.TotalRevenue = math.Round(s.TotalRevenue)
	if s.Total > 0 {
		s.ApprovalRate = math.Round(100 * float64(s.ApprovedCount) / float64(s.Total))
	}
	return s
}
