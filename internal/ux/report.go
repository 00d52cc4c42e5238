package ux

import (
	"fmt"

	"github.com/rimtours/toursync/internal/report"
)

// RenderReport prints the catalog audit grouped by issue kind.
func RenderReport(r *report.Report) {
	fmt.Printf("%sTours:%s  %d (%d linked)\n", Bold, Reset, r.Tours, r.Linked)

	if r.Clean() {
		fmt.Printf("%s✓ no issues found%s\n\n", Green, Reset)
		return
	}

	byKind := map[string][]report.Issue{}
	for _, issue := range r.Issues {
		byKind[issue.Kind] = append(byKind[issue.Kind], issue)
	}

	for _, kind := range []string{report.KindNoSlug, report.KindNotLinked, report.KindUnclassified, report.KindDayGap} {
		issues := byKind[kind]
		if len(issues) == 0 {
			continue
		}
		fmt.Printf("\n%s%s%s (%d)\n", Bold, kind, Reset, len(issues))
		for _, issue := range issues {
			name := issue.Slug
			if name == "" {
				name = issue.Title
			}
			fmt.Printf("  %s!%s %-40s %s%s%s\n", Yellow, Reset, name, Dim, issue.Detail, Reset)
		}
	}
	fmt.Printf("\n%s✗ %d issues%s\n\n", Red, len(r.Issues), Reset)
}
