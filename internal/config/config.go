package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nerdneilsfield/go-text-splitter/pkg/splitter"
	"github.com/spf13/viper"
)

// Config 保存分割工具的所有配置
type Config struct {
	SplitMode        string        `mapstructure:"split_mode"`        // length 或 separator
	ChunkSize        int           `mapstructure:"chunk_size"`        // 单片字数限制
	Separator        string        `mapstructure:"separator"`         // 分隔符（默认按正则解释）
	SeparatorLiteral bool          `mapstructure:"separator_literal"` // 分隔符按字面子串解释
	Encoding         string        `mapstructure:"encoding"`          // 文件编码，auto 为自动检测
	HeaderTemplate   string        `mapstructure:"header_template"`   // 分片头部模板
	OutputDir        string        `mapstructure:"output_dir"`        // 分片文件输出目录，为空时不写文件
	RegexTimeout     time.Duration `mapstructure:"regex_timeout"`     // 单次正则匹配超时
	PreviewLength    int           `mapstructure:"preview_length"`    // 预览字符数
	Debug            bool          `mapstructure:"debug"`
	LogLevel         string        `mapstructure:"log_level"`
	StatsPath        string        `mapstructure:"stats_path"` // 运行统计文件
	Concurrency      int           `mapstructure:"concurrency"` // 多文件并行数
}

// 分片大小的推荐范围
const (
	MinRecommendedChunkSize = 1000
	MaxRecommendedChunkSize = 50000
	DefaultChunkSize        = 15000
)

// NewDefaultConfig 创建一个新的默认配置
func NewDefaultConfig() *Config {
	return &Config{
		SplitMode:      string(splitter.ModeLength),
		ChunkSize:      DefaultChunkSize,
		Encoding:       "utf-8",
		HeaderTemplate: splitter.DefaultHeaderTemplate,
		RegexTimeout:   splitter.DefaultRegexTimeout,
		PreviewLength:  500,
		LogLevel:       "info",
		StatsPath:      defaultStatsPath(),
		Concurrency:    4,
	}
}

// setDefaults 设置 viper 默认值
func setDefaults(v *viper.Viper) {
	d := NewDefaultConfig()
	v.SetDefault("split_mode", d.SplitMode)
	v.SetDefault("chunk_size", d.ChunkSize)
	v.SetDefault("separator", d.Separator)
	v.SetDefault("separator_literal", d.SeparatorLiteral)
	v.SetDefault("encoding", d.Encoding)
	v.SetDefault("header_template", d.HeaderTemplate)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("regex_timeout", d.RegexTimeout)
	v.SetDefault("preview_length", d.PreviewLength)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("stats_path", d.StatsPath)
	v.SetDefault("concurrency", d.Concurrency)
}

// LoadConfig 加载配置：默认值 < 配置文件 < 环境变量（SPLITTER_ 前缀）
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// 设置默认值
	setDefaults(v)

	// 如果配置路径已指定，则直接使用
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".splitter")
		v.SetConfigType("yaml")
	}

	// 读取环境变量
	v.SetEnvPrefix("SPLITTER")
	v.AutomaticEnv()

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		// 如果找不到配置文件，则使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.StatsPath == "" {
		config.StatsPath = defaultStatsPath()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}

	return &config, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	mode, err := splitter.ParseMode(c.SplitMode)
	if err != nil {
		return err
	}
	if mode == splitter.ModeLength && c.ChunkSize < 1 {
		return fmt.Errorf("%w: chunk_size must be at least 1, got %d", splitter.ErrInvalidPolicy, c.ChunkSize)
	}
	if c.PreviewLength < 0 {
		return fmt.Errorf("preview_length must not be negative, got %d", c.PreviewLength)
	}
	return nil
}

// ChunkSizeInRecommendedRange 分片大小是否在推荐范围 [1000, 50000] 内
func (c *Config) ChunkSizeInRecommendedRange() bool {
	return c.ChunkSize >= MinRecommendedChunkSize && c.ChunkSize <= MaxRecommendedChunkSize
}

// Policy 根据配置构造分割策略
func (c *Config) Policy() (splitter.Policy, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch splitter.Mode(c.SplitMode) {
	case splitter.ModeSeparator:
		return splitter.SeparatorPolicy{Pattern: c.Separator, IsRegex: !c.SeparatorLiteral}, nil
	default:
		return splitter.LengthPolicy{MaxChunkSize: c.ChunkSize}, nil
	}
}

// ApplyPreset 用预设覆盖分割相关配置
func (c *Config) ApplyPreset(p Preset) {
	if p.Mode != "" {
		c.SplitMode = p.Mode
	}
	if p.ChunkSize > 0 {
		c.ChunkSize = p.ChunkSize
	}
	if p.Separator != "" {
		c.Separator = p.Separator
	}
	if p.Literal != nil {
		c.SeparatorLiteral = *p.Literal
	}
	if p.Header != nil {
		c.HeaderTemplate = *p.Header
	}
	if p.Encoding != "" {
		c.Encoding = p.Encoding
	}
}

// defaultStatsPath 获取默认统计文件路径
func defaultStatsPath() string {
	// 优先使用系统缓存目录
	cacheDir, err := os.UserCacheDir()
	if err == nil {
		return filepath.Join(cacheDir, "splitter", "stats.json")
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(homeDir, ".splitter", "stats.json")
	}

	// 最后的兜底方案
	return "./.splitter-stats.json"
}
