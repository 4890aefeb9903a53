package services

import (
	"fmt"
	"sort"
	"strings"

	"bess-tracker/models"
	"bess-tracker/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes the end-of-run analytics over the merged record set.
func (s *InsightService) Generate(records []*models.ProjectRecord) *models.RunReport {
	report := &models.RunReport{
		Summary:          BuildSummary(records, "", ""),
		ProjectsByRegion: make(map[string]int),
	}

	if len(records) == 0 {
		return report
	}

	sources := make(map[string]struct{})
	var withCapacity []*models.ProjectRecord

	for _, r := range records {
		if r.Region != "" {
			report.ProjectsByRegion[r.Region]++
		}
		if r.CapacityMWNumeric != nil {
			withCapacity = append(withCapacity, r)
		}
		// Merged rows carry "A; B" source lists; count each origin once.
		for _, src := range strings.Split(r.Source, ";") {
			if name := strings.TrimSpace(src); name != "" {
				sources[name] = struct{}{}
			}
		}
	}
	report.SourceCount = len(sources)

	// Top 5 by capacity
	sort.Slice(withCapacity, func(i, j int) bool {
		return *withCapacity[i].CapacityMWNumeric > *withCapacity[j].CapacityMWNumeric
	})
	if len(withCapacity) > 5 {
		report.LargestProjects = withCapacity[:5]
	} else {
		report.LargestProjects = withCapacity
	}

	return report
}

func (s *InsightService) Print(r *models.RunReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)
	sum := r.Summary

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🔋 UK BESS PROJECT TRACKER — RUN REPORT\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Projects (deduplicated) : \033[1m%d\033[0m\n", sum.TotalProjects)
	fmt.Printf("  Distinct sources        : \033[1m%d\033[0m\n", r.SourceCount)
	fmt.Printf("  Total capacity          : \033[1;32m%.1f MW\033[0m\n", sum.TotalMW)
	fmt.Println()

	// Pipeline by status
	fmt.Printf("\033[1;33m  Pipeline by Status\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Planned         : \033[1m%d\033[0m\n", sum.CountPlanned)
	fmt.Printf("  Consented       : \033[1m%d\033[0m\n", sum.CountConsented)
	fmt.Printf("  In-construction : \033[1m%d\033[0m\n", sum.CountInConstruction)
	fmt.Printf("  Operational     : \033[1m%d\033[0m\n", sum.CountOperational)
	fmt.Println()

	// Investment opportunity
	fmt.Printf("\033[1;33m  Investment Opportunity\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Early-stage development    : \033[1m%d\033[0m\n", sum.CountEarlyStageDevelopment)
	fmt.Printf("  Construction / finance     : \033[1m%d\033[0m\n", sum.CountConstructionFinance)
	fmt.Printf("  M&A / offtake / operations : \033[1m%d\033[0m\n", sum.CountMAOfftake)
	fmt.Println()

	// Largest projects
	fmt.Printf("\033[1;33m  Top 5 Largest Projects\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.LargestProjects) == 0 {
		fmt.Printf("  No capacity data\n")
	} else {
		for i, p := range r.LargestProjects {
			fmt.Printf("  \033[1m%d.\033[0m %-40s \033[1;32m%.1f MW\033[0m\n",
				i+1, truncate(p.SiteName, 38), *p.CapacityMWNumeric)
		}
	}
	fmt.Println()

	// Projects by region
	fmt.Printf("\033[1;33m  Projects by Region\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.ProjectsByRegion) == 0 {
		fmt.Printf("  No region data\n")
	} else {
		type regionCount struct {
			region string
			count  int
		}
		var regions []regionCount
		for region, cnt := range r.ProjectsByRegion {
			regions = append(regions, regionCount{region, cnt})
		}
		sort.Slice(regions, func(i, j int) bool {
			if regions[i].count != regions[j].count {
				return regions[i].count > regions[j].count
			}
			return regions[i].region < regions[j].region
		})
		if len(regions) > 10 {
			regions = regions[:10]
		}
		for _, rc := range regions {
			bar := strings.Repeat("█", rc.count)
			fmt.Printf("  %-30s %s (%d)\n", truncate(rc.region, 28), bar, rc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
