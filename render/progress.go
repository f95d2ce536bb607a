package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"ghstats/discovery"
)

const progressBarWidth = 20

var progressMu sync.Mutex

// Progress writes an in-place progress line for the scan. Safe for
// concurrent workers; lines overwrite each other via carriage return.
func Progress(done, total int, repo, status string) {
	progressMu.Lock()
	defer progressMu.Unlock()

	filled := 0
	percent := 0
	if total > 0 {
		filled = progressBarWidth * done / total
		percent = 100 * done / total
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)

	display := repo
	if len(display) > 33 {
		display = display[:30] + "..."
	}
	fmt.Fprintf(os.Stderr, "\r%s %3d%% │ %-35s %s\033[K",
		cyan("["+bar+"]"), percent, display, status)
}

// ProgressDone finishes the progress line with a check mark.
func ProgressDone(message string) {
	progressMu.Lock()
	defer progressMu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%s %s\033[K\n", green("[✔]"), message)
}

// PromptChoice is the terminal ChoiceProvider for the historical fallback
// tier. It explains the coverage gap and reads one answer from in.
func PromptChoice(in io.Reader, out io.Writer) discovery.ChoiceProvider {
	reader := bufio.NewReader(in)
	return func(ctx discovery.PromptContext) discovery.Choice {
		fmt.Fprintf(out, "\n%s Time range goes back %d days; recent-activity events cover ~%d.\n",
			yellow("[WARN]"), ctx.DaysBack, discovery.FallbackThresholdDays)
		fmt.Fprintf(out, "Older activity needs a fallback scan beyond the %d repos found so far.\n", ctx.KnownRepos)
		fmt.Fprintf(out, "%s", bold("Scan older repos? [a]ll, [number], [d]eepsearch, or [Enter] to skip: "))

		line, err := reader.ReadString('\n')
		if err != nil {
			return discovery.Choice{Kind: discovery.ChoiceSkip}
		}
		answer := strings.ToLower(strings.TrimSpace(line))

		switch {
		case answer == "a" || answer == "all":
			fmt.Fprintln(out, " -> Scanning ALL remaining repositories.")
			return discovery.Choice{Kind: discovery.ChoiceAll}
		case answer == "d" || answer == "deepsearch":
			fmt.Fprintf(out, "\n%s Deep search uses the Search API: stricter rate limits, capped results.\n",
				yellow("[RATE LIMIT WARNING]"))
			return discovery.Choice{Kind: discovery.ChoiceDeepSearch}
		default:
			if n, err := strconv.Atoi(answer); err == nil && n > 0 {
				fmt.Fprintf(out, " -> Scanning top %d remaining repositories.\n", n)
				return discovery.Choice{Kind: discovery.ChoiceLimit, Limit: n}
			}
			fmt.Fprintln(out, " -> Skipping fallback scan.")
			return discovery.Choice{Kind: discovery.ChoiceSkip}
		}
	}
}
