package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/nerdneilsfield/go-text-splitter/internal/config"
	"github.com/nerdneilsfield/go-text-splitter/internal/document"
	"github.com/nerdneilsfield/go-text-splitter/internal/logger"
	"github.com/nerdneilsfield/go-text-splitter/internal/output"
	"github.com/nerdneilsfield/go-text-splitter/internal/stats"
	"github.com/nerdneilsfield/go-text-splitter/pkg/splitter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// splitJob 单个输入文件的处理结果
type splitJob struct {
	path     string
	doc      *document.Document
	result   *splitter.Result
	duration time.Duration
	err      error
}

func (j *splitJob) run(engine *splitter.Engine, policy splitter.Policy, encoding string) {
	start := time.Now()
	defer func() {
		j.duration = time.Since(start)
	}()

	j.doc, j.err = document.ReadFile(j.path, encoding)
	if j.err != nil {
		return
	}
	j.result, j.err = engine.Split(j.doc.Content, policy)
}

// record 转换为运行记录
func (j *splitJob) record(policy splitter.Policy) *stats.RunRecord {
	rec := &stats.RunRecord{
		File:     j.path,
		Mode:     string(policy.Mode()),
		Duration: j.duration,
		Status:   stats.StatusCompleted,
	}
	if j.doc != nil {
		rec.Encoding = j.doc.Encoding
		rec.Characters = j.doc.CharCount()
	}
	if j.result != nil {
		rec.Chunks = j.result.Len()
		rec.Fallback = j.result.Fallback
	}
	if j.err != nil {
		rec.Status = stats.StatusFailed
		rec.ErrorMessage = j.err.Error()
	}
	return rec
}

// runSplit 读取并分割全部输入文件，文件之间并行处理，按输入顺序输出
func runSplit(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	log := logger.NewLoggerWithLevel(logLevel(cfg))
	defer func() {
		_ = log.Sync()
	}()

	if opts.copyIndex != 0 && len(args) > 1 {
		return fmt.Errorf("--copy requires a single input file, got %d", len(args))
	}

	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	warn := color.New(color.FgYellow)
	if policy.Mode() == splitter.ModeLength && !cfg.ChunkSizeInRecommendedRange() {
		warn.Fprintf(out, "⚠️  分片大小 %d 超出推荐范围 [%d, %d]\n",
			cfg.ChunkSize, config.MinRecommendedChunkSize, config.MaxRecommendedChunkSize)
	}

	engine := splitter.New(
		splitter.WithLogger(log),
		splitter.WithRegexTimeout(cfg.RegexTimeout),
	)

	log.Debug("开始分割",
		zap.Int("files", len(args)),
		zap.String("mode", string(policy.Mode())),
		zap.Int("concurrency", cfg.Concurrency))

	jobs := make([]*splitJob, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.Concurrency)
	for i, path := range args {
		job := &splitJob{path: path}
		jobs[i] = job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				job.err = err
				return nil
			}
			job.run(engine, policy, cfg.Encoding)
			return nil
		})
	}
	_ = g.Wait()

	db := openStats(cfg, opts, log)

	failed := 0
	for _, job := range jobs {
		if job.err == nil {
			job.err = presentJob(out, job, cfg, opts, log)
		}
		if job.err != nil {
			failed++
			color.New(color.FgRed).Fprintf(out, "❌ %s: %v\n", job.path, job.err)
			log.Error("分割失败", zap.String("file", job.path), zap.Error(job.err))
		}

		if db != nil {
			if err := db.AddRunRecord(job.record(policy)); err != nil {
				log.Warn("记录运行统计失败", zap.Error(err))
			}
		}
	}

	if failed > 0 {
		if len(jobs) == 1 {
			return jobs[0].err
		}
		return fmt.Errorf("%d of %d files failed", failed, len(jobs))
	}
	return nil
}

// presentJob 输出文档摘要和分片列表，并按需写入文件或复制到剪贴板
func presentJob(out io.Writer, job *splitJob, cfg *config.Config, opts *rootOptions, log *zap.Logger) error {
	doc, res := job.doc, job.result

	title := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgCyan)
	title.Fprintf(out, "📄 %s\n", doc.Summary())
	label.Fprintf(out, "   编码: %s  类型: %s  模式: %s  耗时: %s\n",
		doc.Encoding, doc.Kind, res.Mode, job.duration.Round(time.Microsecond))

	output.RenderChunks(out, res, output.TableOptions{
		PreviewLength: cfg.PreviewLength,
		PreviewWidth:  output.DefaultTableOptions().PreviewWidth,
	})

	success := color.New(color.FgGreen)
	if cfg.OutputDir != "" {
		writer := output.NewWriter(cfg.OutputDir, cfg.HeaderTemplate, log)
		paths, err := writer.WriteAll(doc.BaseName, res.Chunks)
		if err != nil {
			return err
		}
		success.Fprintf(out, "✅ 已写入 %d 个文件到 %s\n", len(paths), cfg.OutputDir)
	}

	if opts.copyIndex != 0 {
		content, err := output.CopyChunk(opts.clipboard, cfg.HeaderTemplate, res.Chunks, opts.copyIndex-1)
		switch {
		case errors.Is(err, output.ErrClipboardUnavailable):
			color.New(color.FgYellow).Fprintf(out, "⚠️  剪贴板不可用，分片 %d 内容如下:\n", opts.copyIndex)
			fmt.Fprintln(out, content)
		case err != nil:
			return err
		default:
			success.Fprintf(out, "✅ 已复制分片 %d / %d 到剪贴板\n", opts.copyIndex, res.Len())
		}
	}

	fmt.Fprintln(out)
	return nil
}

// openStats 打开运行统计数据库，失败时只记录警告
func openStats(cfg *config.Config, opts *rootOptions, log *zap.Logger) *stats.Database {
	if opts.noStats {
		return nil
	}
	db, err := stats.NewDatabase(cfg.StatsPath, log)
	if err != nil {
		log.Warn("无法打开统计数据库", zap.String("path", cfg.StatsPath), zap.Error(err))
		return nil
	}
	return db
}
