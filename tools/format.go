package tools

import (
	"fmt"
	"strings"

	"github.com/lexandro/resourcewatch/monitor"
	"github.com/lexandro/resourcewatch/resource"
	"github.com/lexandro/resourcewatch/search"
)

// FormatSearchResults formats find-in-files results as human-readable text.
// Groups matches by resource with line numbers.
func FormatSearchResults(results search.Results) string {
	var builder strings.Builder

	if len(results.Files) == 0 {
		builder.WriteString("No matches found.")
	} else {
		builder.WriteString(fmt.Sprintf("Found %d matches in %d files:\n\n", results.TotalMatches, results.TotalFiles))

		for i, file := range results.Files {
			if i > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(fmt.Sprintf("── %s ──\n", file.RelativePath))

			for _, match := range file.Matches {
				builder.WriteString(fmt.Sprintf("  %d: %s\n", match.LineNumber, match.Display))
			}
		}
	}

	if results.ReachedMaxResults {
		builder.WriteString(fmt.Sprintf("\n(result limit reached after %d matches)", results.TotalMatches))
	}
	if results.WasCancelled {
		builder.WriteString("\n(search cancelled, results are partial)")
	}

	return builder.String()
}

// FormatResourceKeys formats a resource listing. total is the number of
// matching resources before truncation.
func FormatResourceKeys(keys []resource.Key, total int) string {
	if len(keys) == 0 {
		return "No resources matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d resources:\n\n", total))
	for _, key := range keys {
		builder.WriteString(string(key))
		builder.WriteString("\n")
	}
	if total > len(keys) {
		builder.WriteString(fmt.Sprintf("... %d more\n", total-len(keys)))
	}
	return builder.String()
}

// FormatChanges formats recorded notifications, one per line, oldest first.
func FormatChanges(entries []ChangeEntry, dropped int) string {
	if len(entries) == 0 {
		return "No changes recorded."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%d changes:\n\n", len(entries)))
	for _, entry := range entries {
		builder.WriteString(fmt.Sprintf("  %s  %s\n", entry.Time.Format("15:04:05.000"), formatEvent(entry.Event)))
	}
	if dropped > 0 {
		builder.WriteString(fmt.Sprintf("\n(%d older changes were dropped)\n", dropped))
	}
	return builder.String()
}

func formatEvent(event monitor.Event) string {
	switch event.Kind {
	case monitor.Renamed:
		return fmt.Sprintf("%-17s %s -> %s", event.Kind, event.OldKey, event.Key)
	case monitor.ResourcesChanged:
		return event.Kind.String()
	default:
		return fmt.Sprintf("%-17s %s", event.Kind, event.Key)
	}
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
