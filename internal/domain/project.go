package domain

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ProjectSummary counts the tasks filed under one project name.
type ProjectSummary struct {
	Name      string
	Total     int
	Pending   int
	Completed int
}

// SummarizeProjects groups listable tasks by project and orders the result
// by a locale-aware comparison of the names.
func SummarizeProjects(tasks []Task) []ProjectSummary {
	byName := make(map[string]*ProjectSummary)
	for _, t := range tasks {
		if !t.Listable() {
			continue
		}

		summary, ok := byName[t.ProjectName]
		if !ok {
			summary = &ProjectSummary{Name: t.ProjectName}
			byName[t.ProjectName] = summary
		}

		summary.Total++
		if t.Status == StatusCompleted {
			summary.Completed++
		} else {
			summary.Pending++
		}
	}

	summaries := make([]ProjectSummary, 0, len(byName))
	for _, s := range byName {
		summaries = append(summaries, *s)
	}

	// Collators keep internal buffers, so each call gets its own.
	collator := collate.New(language.English)
	sort.Slice(summaries, func(i, j int) bool {
		if c := collator.CompareString(summaries[i].Name, summaries[j].Name); c != 0 {
			return c < 0
		}
		return summaries[i].Name < summaries[j].Name
	})

	return summaries
}
