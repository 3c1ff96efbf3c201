package stats

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
)

// Visualizer 统计数据可视化器
type Visualizer struct {
	db  *Database
	out io.Writer
}

// NewVisualizer 创建可视化器
func NewVisualizer(db *Database, out io.Writer) *Visualizer {
	return &Visualizer{db: db, out: out}
}

// ShowOverview 显示总览
func (v *Visualizer) ShowOverview() {
	stats := v.db.GetStats()

	// 标题
	title := color.New(color.FgCyan, color.Bold)
	title.Fprintln(v.out, "📊 分割统计总览")
	title.Fprintln(v.out, strings.Repeat("=", 50))

	fmt.Fprintln(v.out)
	v.printSection("🎯 总体统计", [][]string{
		{"运行次数", formatNumber(stats.TotalRuns)},
		{"字符总数", formatNumber(stats.TotalCharacters)},
		{"分片总数", formatNumber(stats.TotalChunks)},
		{"失败次数", formatNumber(stats.TotalErrors)},
		{"正则回退", formatNumber(stats.TotalFallbacks)},
		{"累计耗时", formatDuration(stats.TotalDuration)},
		{"创建时间", formatTime(stats.CreatedAt)},
		{"最后更新", formatTime(stats.LastUpdated)},
	})
}

// ShowModeStats 显示分割模式统计
func (v *Visualizer) ShowModeStats() {
	stats := v.db.GetStats()

	title := color.New(color.FgMagenta, color.Bold)
	title.Fprintln(v.out, "✂️  分割模式统计")
	title.Fprintln(v.out, strings.Repeat("=", 50))

	if len(stats.ModeStats) == 0 {
		fmt.Fprintln(v.out, "暂无模式统计数据。")
		return
	}

	// 按运行次数排序
	modes := make([]*ModeStats, 0, len(stats.ModeStats))
	for _, ms := range stats.ModeStats {
		modes = append(modes, ms)
	}
	sort.Slice(modes, func(i, j int) bool {
		if modes[i].RunCount == modes[j].RunCount {
			return modes[i].Mode < modes[j].Mode
		}
		return modes[i].RunCount > modes[j].RunCount
	})

	fmt.Fprintln(v.out)
	for i, ms := range modes {
		if i > 0 {
			fmt.Fprintln(v.out)
		}

		successRate := float64(ms.RunCount-ms.ErrorCount) / float64(ms.RunCount) * 100

		v.printSection(fmt.Sprintf("🔀 %s", ms.Mode), [][]string{
			{"运行次数", formatNumber(ms.RunCount)},
			{"字符总数", formatNumber(ms.CharacterCount)},
			{"分片总数", formatNumber(ms.ChunkCount)},
			{"平均分片长度", fmt.Sprintf("%.1f", ms.AverageChunkLength)},
			{"成功率", fmt.Sprintf("%.1f%%", successRate)},
			{"平均耗时", formatDuration(ms.AverageDuration)},
			{"最后使用", formatTime(ms.LastUsed)},
		})
	}
}

// ShowRecentRuns 显示最近的运行记录
func (v *Visualizer) ShowRecentRuns(limit int) {
	records := v.db.GetRecentRuns(limit)

	title := color.New(color.FgBlue, color.Bold)
	title.Fprintf(v.out, "🕒 最近运行 (%d)\n", len(records))
	title.Fprintln(v.out, strings.Repeat("=", 50))

	if len(records) == 0 {
		fmt.Fprintln(v.out, "暂无运行记录。")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(v.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"", "时间", "文件", "模式", "编码", "字符", "分片", "耗时"})

	for _, record := range records {
		status := "✅"
		if record.Failed() {
			status = "❌"
		} else if record.Fallback {
			status = "⚠️"
		}

		t.AppendRow(table.Row{
			status,
			formatTime(record.Timestamp),
			runewidth.Truncate(filepath.Base(record.File), 40, "..."),
			record.Mode,
			record.Encoding,
			formatNumber(int64(record.Characters)),
			record.Chunks,
			formatDuration(record.Duration),
		})
	}
	t.Render()

	errorColor := color.New(color.FgRed)
	for _, record := range records {
		if record.ErrorMessage != "" {
			errorColor.Fprintf(v.out, "  ❌ %s: %s\n", record.File, record.ErrorMessage)
		}
	}
}

// printSection 打印一个统计部分
func (v *Visualizer) printSection(title string, data [][]string) {
	sectionColor := color.New(color.FgYellow, color.Bold)
	sectionColor.Fprintf(v.out, "%s\n", title)

	// 计算最大标签宽度
	maxLabelWidth := 0
	for _, row := range data {
		if w := runewidth.StringWidth(row[0]); w > maxLabelWidth {
			maxLabelWidth = w
		}
	}

	labelColor := color.New(color.FgCyan)
	valueColor := color.New(color.FgWhite, color.Bold)
	for _, row := range data {
		label := "  " + runewidth.FillRight(row[0], maxLabelWidth)
		labelColor.Fprintf(v.out, "%s: ", label)
		valueColor.Fprintln(v.out, row[1])
	}
}

// formatNumber 格式化数字（千分位）
func formatNumber(n int64) string {
	return humanize.Comma(n)
}

// formatDuration 格式化持续时间
func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d.Nanoseconds())/1e6)
	}

	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}

	return fmt.Sprintf("%.1fh", d.Hours())
}

// formatTime 格式化时间
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}

	now := time.Now()
	if t.Year() == now.Year() && t.Month() == now.Month() && t.Day() == now.Day() {
		return t.Format("15:04:05")
	}

	if t.Year() == now.Year() {
		return t.Format("Jan 02 15:04")
	}

	return t.Format("2006-01-02 15:04")
}
