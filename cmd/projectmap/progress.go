package main

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// ProgressConfig determines if and how progress should be displayed.
type ProgressConfig struct {
	Enabled bool
	Writer  io.Writer
	NoColor bool
}

// NewProgressConfig disables progress when --json/-q is set or stderr
// isn't a TTY, matching the teacher's cmd/cie/progress.go.
func NewProgressConfig(g GlobalFlags) ProgressConfig {
	enabled := !g.Quiet && isatty.IsTerminal(os.Stderr.Fd())
	return ProgressConfig{Enabled: enabled, Writer: os.Stderr, NoColor: g.NoColor}
}

// NewProgressBar returns nil when progress is disabled; use barAdd/barFinish
// below to increment or close it without a nil check at every call site.
func NewProgressBar(cfg ProgressConfig, total int64, description string) *progressbar.ProgressBar {
	if !cfg.Enabled {
		return nil
	}
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(cfg.Writer),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(!cfg.NoColor),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// barAdd is a nil-safe increment, since most call sites run under both
// --json (nil bar) and TTY (real bar) without branching.
func barAdd(bar *progressbar.ProgressBar, n int) {
	if bar != nil {
		_ = bar.Add(n)
	}
}

func barFinish(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}
