package export

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"ghstats/models"
)

// GenerateMarkdown renders the activity report: one section per repository
// with any messages, most active repositories first, commits listed oldest
// to newest. With fullMessage the body is included under each bullet;
// otherwise only the title line appears.
func GenerateMarkdown(repoStats map[string]*models.RepoStats, window models.ActivityWindow, fullMessage bool) string {
	var md strings.Builder
	fmt.Fprintf(&md, "# GitHub Activity Report (%s to %s)\n\n",
		window.Since.Format(dateLayout), window.Until.Format(dateLayout))

	names := make([]string, 0, len(repoStats))
	for name := range repoStats {
		if len(repoStats[name].Messages) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	sort.SliceStable(names, func(i, j int) bool {
		return len(repoStats[names[i]].Messages) > len(repoStats[names[j]].Messages)
	})

	for _, name := range names {
		fmt.Fprintf(&md, "## %s\n\n", name)

		messages := make([]models.CommitRecord, len(repoStats[name].Messages))
		copy(messages, repoStats[name].Messages)
		sort.SliceStable(messages, func(i, j int) bool {
			return messages[i].Timestamp.Before(messages[j].Timestamp)
		})

		for _, record := range messages {
			fmt.Fprintf(&md, "- [%s] %s\n", record.Day().Format(dateLayout), record.MessageTitle)
			if fullMessage && record.MessageBody != "" {
				for _, line := range strings.Split(record.MessageBody, "\n") {
					fmt.Fprintf(&md, "  %s\n", line)
				}
			}
		}
		md.WriteString("\n")
	}

	return md.String()
}

// WriteExportFile writes content to path, or to the default
// gh_stats_export_<since>_<until>.md name when path is empty. Returns the
// filename written.
func WriteExportFile(content string, window models.ActivityWindow, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("gh_stats_export_%s_%s.md",
			window.Since.Format(dateLayout), window.Until.Format(dateLayout))
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}
