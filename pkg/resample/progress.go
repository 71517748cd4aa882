package resample

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressCallback is a function that reports progress during resampling.
// completed and total count x-planes of the target grid.
type ProgressCallback func(completed, total int)

// ProgressBar returns a ProgressCallback that draws a progress bar on w,
// rewriting the same line until the last plane is done
func ProgressBar(w io.Writer) ProgressCallback {
	start := time.Now()
	return func(completed, total int) {
		if total <= 0 {
			return
		}
		percentage := float64(completed) / float64(total) * 100

		// Create a visual progress bar
		const width = 40
		numBars := int(percentage / 100 * width)
		var bar strings.Builder
		bar.WriteString("[")
		for i := 0; i < width; i++ {
			switch {
			case i < numBars:
				bar.WriteString("█")
			case i == numBars:
				bar.WriteString("▓")
			default:
				bar.WriteString("░")
			}
		}
		bar.WriteString("]")

		remaining := "?"
		if completed > 0 {
			elapsed := time.Since(start)
			perPlane := elapsed / time.Duration(completed)
			remaining = (perPlane * time.Duration(total-completed)).Round(100 * time.Millisecond).String()
		}

		fmt.Fprintf(w, "\r%s %.0f %% (%d/%d) [%s remaining]", bar.String(), percentage, completed, total, remaining)
		if completed >= total {
			fmt.Fprintln(w)
		}
	}
}
