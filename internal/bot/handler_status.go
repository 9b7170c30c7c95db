package bot

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	tele "gopkg.in/telebot.v3"
)

// handleStatus reports the analysis log plus process diagnostics.
func (b *Bot) handleStatus(c tele.Context) error {
	total, err := b.db.Total()
	if err != nil {
		return fmt.Errorf("status: total: %w", err)
	}
	counts, err := b.db.Counts()
	if err != nil {
		return fmt.Errorf("status: counts: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Analyses: %d\n", total)
	for _, kind := range []string{"gps", "promo", "error", "empty"} {
		if n := counts[kind]; n > 0 {
			fmt.Fprintf(&sb, "  • %s: %d\n", kind, n)
		}
	}

	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := p.MemoryInfo(); err == nil {
			fmt.Fprintf(&sb, "🧠 RSS: %.1f MB\n", float64(mem.RSS)/1024/1024)
		}
		if cpu, err := p.CPUPercent(); err == nil {
			fmt.Fprintf(&sb, "⚙️ CPU: %.1f%%\n", cpu)
		}
		if created, err := p.CreateTime(); err == nil {
			up := time.Since(time.UnixMilli(created)).Round(time.Second)
			fmt.Fprintf(&sb, "⏱ Uptime: %s", up)
		}
	}

	return c.Send(sb.String())
}
