// Package ux renders human-facing terminal output for sync runs.
package ux

import (
	"fmt"
	"time"

	"github.com/rimtours/toursync/internal/sync"
)

// ANSI color helpers
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// RunHeader prints a banner for one sync run.
func RunHeader(op string, dryRun bool) {
	mode := ""
	if dryRun {
		mode = fmt.Sprintf(" %s(dry run)%s", Yellow, Reset)
	}
	fmt.Printf("\n%s[%s]%s %s══ %s ══%s%s\n", Dim, timestamp(), Reset, Cyan, op, Reset, mode)
}

// TourLine prints one per-tour result line:
//
//	+ created   ^ prepended   ~ updated   - skipped   ! error
func TourLine(r sync.Result) {
	var symbol, color string
	switch r.Action {
	case sync.ActionCreated:
		symbol, color = "+", Green
	case sync.ActionPrepended:
		symbol, color = "^", Green
	case sync.ActionUpdated:
		symbol, color = "~", Cyan
	case sync.ActionSkipped:
		symbol, color = "-", Dim
	default:
		symbol, color = "!", Red
	}

	detail := ""
	switch {
	case r.Err != nil:
		detail = fmt.Sprintf(" %s%v%s", Red, r.Err, Reset)
	case r.Reason != "":
		detail = fmt.Sprintf(" %s(%s)%s", Dim, r.Reason, Reset)
	case r.Fields > 0 || r.Days > 0:
		detail = fmt.Sprintf(" %s(%d fields, %d days)%s", Dim, r.Fields, r.Days, Reset)
	}
	plan := ""
	if r.Planned {
		plan = fmt.Sprintf(" %swould%s", Yellow, Reset)
	}
	fmt.Printf("  %s%s%s%s %-40s%s\n", color, symbol, Reset, plan, r.Slug, detail)
}

// RunSummary prints the run totals and the outcome line.
func RunSummary(sum *sync.Summary) {
	fmt.Printf("\n%sCreated:%s %d  %sPrepended:%s %d  %sUpdated:%s %d  %sSkipped:%s %d  %sFailed:%s %d\n",
		Bold, Reset, sum.Created,
		Bold, Reset, sum.Prepended,
		Bold, Reset, sum.Updated,
		Bold, Reset, sum.Skipped,
		Bold, Reset, sum.Failed)
	if sum.BackupHandle != "" {
		fmt.Printf("%sBackup:%s %s\n", Bold, Reset, sum.BackupHandle)
	}
	if sum.Failures() {
		fmt.Printf("%s✗ run finished with failures%s\n\n", Red, Reset)
	} else {
		fmt.Printf("%s✓ run complete%s\n\n", Green, Reset)
	}
}
