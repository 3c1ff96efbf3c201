package cli

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nerdneilsfield/go-text-splitter/internal/config"
	"github.com/spf13/cobra"
)

// newPresetsCommand 列出预设文件中的预设
func newPresetsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "列出预设文件中的分割预设",
		Long: `列出 --presets 指定的 TOML 文件中的分割预设。预设文件格式:

  [[preset]]
  name = "chapters"
  mode = "separator"
  separator = "第.+章"

  [[preset]]
  name = "short"
  mode = "length"
  chunk_size = 4000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.presetsFile == "" {
				return fmt.Errorf("--presets file is required")
			}
			presets, err := config.LoadPresets(opts.presetsFile)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.SetTitle(fmt.Sprintf("预设  数量: %d", len(presets.Presets)))
			t.AppendHeader(table.Row{"名称", "模式", "字数", "分隔符", "字面", "编码"})
			for _, p := range presets.Presets {
				size := ""
				if p.ChunkSize > 0 {
					size = fmt.Sprint(p.ChunkSize)
				}
				literal := ""
				if p.Literal != nil {
					literal = strconv.FormatBool(*p.Literal)
				}
				t.AppendRow(table.Row{p.Name, p.Mode, size, p.Separator, literal, p.Encoding})
			}
			t.Render()
			return nil
		},
	}
}
