package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/nerdneilsfield/go-text-splitter/internal/config"
	"github.com/nerdneilsfield/go-text-splitter/internal/logger"
	"github.com/nerdneilsfield/go-text-splitter/internal/stats"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// statsOptions stats 命令的标志
type statsOptions struct {
	recent int
	export string
	reset  bool
}

// newStatsCommand 创建 stats 命令
func newStatsCommand(root *rootOptions) *cobra.Command {
	opts := &statsOptions{}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "查看分割运行统计",
		Long: `查看分割运行统计，包括:
- 总体统计
- 按分割模式统计
- 最近的运行记录

示例:
  # 显示全部统计
  splitter stats

  # 显示最近 20 次运行
  splitter stats --recent 20

  # 导出为 JSON
  splitter stats --export stats.json

  # 清空统计
  splitter stats --reset`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatsCommand(cmd, root, opts)
		},
	}

	statsCmd.Flags().IntVar(&opts.recent, "recent", 10, "显示最近的运行次数")
	statsCmd.Flags().StringVar(&opts.export, "export", "", "导出统计到文件 (JSON)")
	statsCmd.Flags().BoolVar(&opts.reset, "reset", false, "清空全部统计")

	return statsCmd
}

// runStatsCommand 执行 stats 命令
func runStatsCommand(cmd *cobra.Command, root *rootOptions, opts *statsOptions) error {
	log := logger.NewLogger(root.debug)
	defer func() {
		_ = log.Sync()
	}()

	// 加载配置
	cfg, err := config.LoadConfig(root.cfgFile)
	if err != nil {
		log.Warn("failed to load config, using defaults", zap.Error(err))
		cfg = config.NewDefaultConfig()
	}

	db, err := stats.NewDatabase(cfg.StatsPath, log)
	if err != nil {
		return fmt.Errorf("failed to initialize statistics database: %w", err)
	}

	out := cmd.OutOrStdout()
	success := color.New(color.FgGreen)

	if opts.reset {
		if err := db.Reset(); err != nil {
			return err
		}
		success.Fprintf(out, "✅ 统计已清空: %s\n", db.Path())
		return nil
	}

	if opts.export != "" {
		if err := db.Export(opts.export); err != nil {
			return err
		}
		success.Fprintf(out, "✅ 统计已导出到 %s\n", opts.export)
		return nil
	}

	visualizer := stats.NewVisualizer(db, out)
	visualizer.ShowOverview()
	fmt.Fprintln(out)
	visualizer.ShowModeStats()
	fmt.Fprintln(out)
	visualizer.ShowRecentRuns(opts.recent)
	return nil
}
