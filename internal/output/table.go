package output

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"
	"github.com/nerdneilsfield/go-text-splitter/pkg/splitter"
)

// TableOptions 分片列表渲染选项
type TableOptions struct {
	PreviewLength int // 预览字符数
	PreviewWidth  int // 预览列的显示宽度
}

// DefaultTableOptions 默认渲染选项
func DefaultTableOptions() TableOptions {
	return TableOptions{PreviewLength: 500, PreviewWidth: 60}
}

// RenderChunks 渲染分片列表：序号、长度、预览
func RenderChunks(w io.Writer, res *splitter.Result, opts TableOptions) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle(fmt.Sprintf("输出分片列表  数量: %d", res.Len()))
	tw.AppendHeader(table.Row{"#", "长度", "区间", "预览"})

	for _, c := range res.Chunks {
		preview := flatten(Preview(c.Content, opts.PreviewLength))
		if opts.PreviewWidth > 0 {
			preview = runewidth.Truncate(preview, opts.PreviewWidth, "…")
		}
		tw.AppendRow(table.Row{
			fmt.Sprintf("%02d", c.Index+1),
			humanize.Comma(int64(c.Length)),
			fmt.Sprintf("%d-%d", c.Start, c.End),
			preview,
		})
	}

	if res.Fallback {
		tw.AppendFooter(table.Row{"", "", "", "正则无效或超时，已按字面分隔符分割（分隔符未保留）"})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	tw.SetStyle(table.StyleLight)
	tw.Render()
}
