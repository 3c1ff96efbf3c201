package cli

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nerdneilsfield/go-text-splitter/internal/document"
	"github.com/spf13/cobra"
)

// newEncodingsCommand 列出支持的编码
func newEncodingsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "encodings",
		Short: "列出支持的文件编码",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"名称", "说明", "别名"})
			t.AppendRow(table.Row{document.EncodingAuto, "自动检测", ""})
			for _, e := range document.Encodings() {
				t.AppendRow(table.Row{e.Name, e.Label, strings.Join(e.Aliases, ", ")})
			}
			t.Render()
		},
	}
}
