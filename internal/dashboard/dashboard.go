package dashboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gookit/color"

	"github.com/angeloszaimis/stackwatch/internal/aggregate"
	"github.com/angeloszaimis/stackwatch/internal/scheduler"
)

// ANSI clear-screen plus cursor home, so every cycle repaints in place.
const clearScreen = "\033[2J\033[H"

// Dashboard renders the latest health snapshot as a table on out.
type Dashboard struct {
	out      io.Writer
	interval time.Duration
	logger   *slog.Logger
}

func New(out io.Writer, interval time.Duration, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		out:      out,
		interval: interval,
		logger:   logger,
	}
}

// Run repaints on every applied cycle until the context is cancelled.
func (d *Dashboard) Run(ctx context.Context, sched *scheduler.Scheduler) {
	statuses, firstLoad := sched.Snapshot()
	d.Render(statuses, firstLoad)

	for {
		select {
		case <-ctx.Done():
			d.logger.Debug("Dashboard stopped")
			return

		case <-sched.Updates():
			statuses, firstLoad := sched.Snapshot()
			d.Render(statuses, firstLoad)
		}
	}
}

// Render paints the full table: one row per service, in spec order.
func (d *Dashboard) Render(statuses []aggregate.Status, firstLoad bool) {
	fmt.Fprint(d.out, clearScreen)
	fmt.Fprintf(d.out, "stackwatch — refreshing every %s\n\n", d.interval)

	if firstLoad {
		fmt.Fprintln(d.out, "  waiting for first probe cycle...")
	} else {
		fmt.Fprintf(d.out, "  %-20s %-6s %-12s %s\n", "SERVICE", "STATE", "STATUS", "LATENCY")
		for _, st := range statuses {
			fmt.Fprintf(d.out, "  %s\n", renderRow(st))
		}
	}

	fmt.Fprintln(d.out, "\npress q to quit")
}

func renderRow(st aggregate.Status) string {
	plain := "DOWN"
	paint := color.Red
	if st.OK {
		plain = "UP"
		paint = color.Green
	}
	// Escape codes are invisible to %-6s padding, so pad the plain
	//name before coloring it.
	state := paint.Sprint(plain) + strings.Repeat(" ", 6-len(plain))

	statusCol := "unreachable"
	latencyCol := "-"
	if st.Reachable() {
		statusCol = fmt.Sprintf("%d", st.StatusCode)
		latencyCol = fmt.Sprintf("%dms", st.Latency.Milliseconds())
	}

	return fmt.Sprintf("%-20s %s %-12s %s", st.ID, state, statusCol, latencyCol)
}
