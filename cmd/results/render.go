package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/noah-isme/stc-api/internal/results"
)

func renderGroups(out io.Writer, groups []results.Group, search string) {
	if len(groups) == 0 {
		if strings.TrimSpace(search) != "" {
			fmt.Fprintf(out, "No results match %q\n", search)
			return
		}
		fmt.Fprintln(out, "No results yet")
		return
	}

	for _, group := range groups {
		fmt.Fprintf(out, "%s (%d)\n", group.TestName, group.Count)
		for _, result := range group.Results {
			fmt.Fprintf(out, "  %-8s %-24s %s/%s  %5.1f%%  %-2s  %s\n",
				result.ID,
				result.StudentName,
				formatMarks(result.Obtained),
				formatMarks(result.Total),
				result.Percent,
				result.Grade,
				result.Color,
			)
		}
		fmt.Fprintln(out)
	}
}

func renderDetail(out io.Writer, result results.Result) {
	fmt.Fprintf(out, "Student:    %s\n", result.StudentName)
	fmt.Fprintf(out, "Test:       %s\n", result.TestName)
	fmt.Fprintf(out, "Marks:      %s / %s\n", formatMarks(result.Obtained), formatMarks(result.Total))
	fmt.Fprintf(out, "Percent:    %.1f%%\n", result.Percent)
	fmt.Fprintf(out, "Grade:      %s (%s)\n", result.Grade, result.Color)
	fmt.Fprintf(out, "Submitted:  %s\n", result.SubmittedAt.Format(time.RFC1123))
	fmt.Fprintf(out, "Reason:     %s\n", result.SubmissionReason)
	if result.ViolationReason != "" {
		fmt.Fprintf(out, "Violation:  %s\n", result.ViolationReason)
	}
	fmt.Fprintf(out, "\nPerformance Analysis\n%s\n", result.Analysis)
}

func formatMarks(value float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", value), "0"), ".")
}
