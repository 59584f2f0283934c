package output

import (
	"fmt"
	"strings"

	"github.com/swoopdl/swoop/internal/utils"
)

const progressBarWidth = 30

// ProgressBar paints a fixed-width bar for a completion percentage.
func ProgressBar(percentage float64) string {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	filled := int(percentage / 100 * progressBarWidth)
	bar := "[" + strings.Repeat("=", filled)
	if filled < progressBarWidth {
		bar += ">" + strings.Repeat(" ", progressBarWidth-filled-1)
	}
	bar += "]"
	return barStyle.Render(bar)
}

// ProgressLine renders a single-line transfer status. A zero total
// means the size is unknown, so the bar and percentage are omitted.
func ProgressLine(downloaded, total int64, percentage, bytesPerSecond float64) string {
	if total <= 0 {
		return fmt.Sprintf("%s %s @ %s",
			barStyle.Render("[ downloading... ]"),
			utils.FormatBytes(uint64(downloaded)),
			utils.FormatSpeed(bytesPerSecond))
	}
	return fmt.Sprintf("%s %5.1f%% (%s/%s) @ %s",
		ProgressBar(percentage),
		percentage,
		utils.FormatBytes(uint64(downloaded)),
		utils.FormatBytes(uint64(total)),
		utils.FormatSpeed(bytesPerSecond))
}
