package cli

import (
	"fmt"
	"strings"

	"github.com/nerdneilsfield/go-text-splitter/internal/config"
	"github.com/nerdneilsfield/go-text-splitter/internal/document"
	"github.com/nerdneilsfield/go-text-splitter/internal/output"
	"github.com/spf13/cobra"
)

// rootOptions 命令行标志
type rootOptions struct {
	cfgFile     string
	presetsFile string
	presetName  string
	debug       bool

	mode      string
	size      int
	separator string
	literal   bool
	encoding  string
	header    string
	outDir    string
	copyIndex int
	preview   int
	noStats   bool

	clipboard output.Clipboard
}

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	return newRootCommand(version, commit, buildDate, output.SystemClipboard())
}

func newRootCommand(version, commit, buildDate string, cb output.Clipboard) *cobra.Command {
	opts := &rootOptions{clipboard: cb}

	rootCmd := &cobra.Command{
		Use:   "splitter [flags] file...",
		Short: "超长文本分割工具，按长度或分隔符把文本切成有序分片",
		Long: `超长文本分割工具，把一段长文本切成有序的分片，便于逐片粘贴到有输入长度限制的对话框中。

分割模式:
  - length: 按长度分割，在上限前 500 个字符内寻找换行或句末标点作为断点
  - separator: 按分隔符分割，默认按正则解释，分隔符保留在下一个分片开头

每个分片带有头部 ">>> 当前分片 {current} / {total} <<<"，可用 --header 自定义。
文件名为 "-" 时从标准输入读取。`,
		Example: `  splitter novel.txt
  splitter --size 8000 --out-dir parts novel.txt
  splitter --mode separator --separator "第.+章" --copy 2 novel.txt
  splitter --encoding gbk --preset chapters a.txt b.txt`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd, opts, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "配置文件路径 (默认 $HOME/.splitter.yaml)")
	pf.StringVar(&opts.presetsFile, "presets", "", "预设文件路径 (TOML)")
	pf.BoolVar(&opts.debug, "debug", false, "启用调试日志")

	f := rootCmd.Flags()
	f.StringVarP(&opts.mode, "mode", "m", "length", "分割模式 (length, separator)")
	f.IntVarP(&opts.size, "size", "s", config.DefaultChunkSize, "单片字数限制 (推荐 1000-50000)")
	f.StringVar(&opts.separator, "separator", "", "分隔符，默认按正则解释")
	f.BoolVar(&opts.literal, "literal", false, "分隔符按字面子串解释")
	f.StringVarP(&opts.encoding, "encoding", "e", document.DefaultEncoding, "文件编码，auto 为自动检测")
	f.StringVar(&opts.header, "header", "", "分片头部模板，支持 {current} 和 {total}")
	f.StringVarP(&opts.outDir, "out-dir", "o", "", "把分片写入该目录")
	f.IntVar(&opts.copyIndex, "copy", 0, "复制第 N 个分片（含头部）到剪贴板")
	f.IntVar(&opts.preview, "preview", 500, "每个分片预览的字符数")
	f.StringVar(&opts.presetName, "preset", "", "使用预设文件中的命名预设")
	f.BoolVar(&opts.noStats, "no-stats", false, "不记录运行统计")

	rootCmd.AddCommand(newEncodingsCommand())
	rootCmd.AddCommand(newPresetsCommand(opts))
	rootCmd.AddCommand(newStatsCommand(opts))

	return rootCmd
}

// resolveConfig 加载配置，依次应用预设和显式指定的标志
func resolveConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.cfgFile)
	if err != nil {
		return nil, err
	}

	if opts.presetName != "" {
		preset, err := findPreset(opts.presetsFile, opts.presetName)
		if err != nil {
			return nil, err
		}
		cfg.ApplyPreset(preset)
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.SplitMode = opts.mode
	}
	if flags.Changed("size") {
		cfg.ChunkSize = opts.size
	}
	if flags.Changed("separator") {
		cfg.Separator = opts.separator
	}
	if flags.Changed("literal") {
		cfg.SeparatorLiteral = opts.literal
	}
	if flags.Changed("encoding") {
		cfg.Encoding = opts.encoding
	}
	if flags.Changed("header") {
		cfg.HeaderTemplate = unescape(opts.header)
	}
	if flags.Changed("out-dir") {
		cfg.OutputDir = opts.outDir
	}
	if flags.Changed("preview") {
		cfg.PreviewLength = opts.preview
	}
	if opts.debug {
		cfg.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findPreset 从预设文件中查找预设，找不到时给出相近名称
func findPreset(path, name string) (config.Preset, error) {
	if path == "" {
		return config.Preset{}, fmt.Errorf("--preset requires --presets file")
	}
	presets, err := config.LoadPresets(path)
	if err != nil {
		return config.Preset{}, err
	}
	preset, ok := presets.Find(name)
	if ok {
		return preset, nil
	}
	if suggestions := document.Suggest(name, presets.Names()); len(suggestions) > 0 {
		return config.Preset{}, fmt.Errorf("unknown preset %q (did you mean: %s?)", name, strings.Join(suggestions, ", "))
	}
	return config.Preset{}, fmt.Errorf("unknown preset %q", name)
}

// unescape 处理命令行中常见的转义序列
func unescape(s string) string {
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(s)
}

func logLevel(cfg *config.Config) string {
	if cfg.Debug {
		return "debug"
	}
	return cfg.LogLevel
}
