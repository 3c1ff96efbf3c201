package stats

import "time"

// StatisticsDB 分割运行统计
type StatisticsDB struct {
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`

	// 总体统计
	TotalRuns       int64         `json:"total_runs"`
	TotalCharacters int64         `json:"total_characters"`
	TotalChunks     int64         `json:"total_chunks"`
	TotalErrors     int64         `json:"total_errors"`
	TotalFallbacks  int64         `json:"total_fallbacks"`
	TotalDuration   time.Duration `json:"total_duration"`

	// 按分割模式统计
	ModeStats map[string]*ModeStats `json:"mode_stats"`

	// 最近的运行记录
	RecentRuns []*RunRecord `json:"recent_runs"`
}

// ModeStats 单个分割模式的统计
type ModeStats struct {
	Mode               string        `json:"mode"`
	RunCount           int64         `json:"run_count"`
	CharacterCount     int64         `json:"character_count"`
	ChunkCount         int64         `json:"chunk_count"`
	ErrorCount         int64         `json:"error_count"`
	AverageChunkLength float64       `json:"average_chunk_length"`
	AverageDuration    time.Duration `json:"average_duration"`
	LastUsed           time.Time     `json:"last_used"`
}

// 运行状态
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunRecord 一次分割运行
type RunRecord struct {
	ID           string        `json:"id"`
	Timestamp    time.Time     `json:"timestamp"`
	File         string        `json:"file"`
	Mode         string        `json:"mode"`
	Encoding     string        `json:"encoding"`
	Characters   int           `json:"characters"`
	Chunks       int           `json:"chunks"`
	Fallback     bool          `json:"fallback"`
	Duration     time.Duration `json:"duration"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// Failed 是否失败
func (r *RunRecord) Failed() bool {
	return r.Status == StatusFailed
}
