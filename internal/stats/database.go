package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	StatsDBVersion   = "1.0.0"
	MaxRecentRecords = 100
)

// Database 统计数据库
type Database struct {
	filePath string
	data     *StatisticsDB
	mutex    sync.RWMutex
	logger   *zap.Logger
}

// NewDatabase 创建统计数据库
func NewDatabase(filePath string, logger *zap.Logger) (*Database, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db := &Database{
		filePath: filePath,
		logger:   logger,
	}

	// 确保目录存在
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create stats directory: %w", err)
	}

	// 加载或创建数据
	if err := db.load(); err != nil {
		return nil, fmt.Errorf("failed to load stats database: %w", err)
	}

	return db, nil
}

func newStatisticsDB() *StatisticsDB {
	now := time.Now()
	return &StatisticsDB{
		Version:     StatsDBVersion,
		CreatedAt:   now,
		LastUpdated: now,
		ModeStats:   make(map[string]*ModeStats),
		RecentRuns:  make([]*RunRecord, 0),
	}
}

// load 加载统计数据
func (db *Database) load() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	// 检查文件是否存在
	if _, err := os.Stat(db.filePath); os.IsNotExist(err) {
		db.data = newStatisticsDB()
		return db.saveUnsafe()
	}

	data, err := os.ReadFile(db.filePath)
	if err != nil {
		return fmt.Errorf("failed to read stats file: %w", err)
	}

	var statsDB StatisticsDB
	if err := json.Unmarshal(data, &statsDB); err != nil {
		return fmt.Errorf("failed to parse stats file: %w", err)
	}

	// 初始化可能为 nil 的字段
	if statsDB.ModeStats == nil {
		statsDB.ModeStats = make(map[string]*ModeStats)
	}
	if statsDB.RecentRuns == nil {
		statsDB.RecentRuns = make([]*RunRecord, 0)
	}

	db.data = &statsDB
	db.logger.Debug("loaded statistics database",
		zap.String("version", statsDB.Version),
		zap.Time("created_at", statsDB.CreatedAt),
		zap.Int64("total_runs", statsDB.TotalRuns))

	return nil
}

// Path 统计文件路径
func (db *Database) Path() string {
	return db.filePath
}

// Save 保存统计数据
func (db *Database) Save() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	return db.saveUnsafe()
}

// saveUnsafe 不安全的保存（需要已持有锁）
func (db *Database) saveUnsafe() error {
	db.data.LastUpdated = time.Now()

	data, err := json.MarshalIndent(db.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats data: %w", err)
	}

	// 原子写入
	tempFile := db.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp stats file: %w", err)
	}

	if err := os.Rename(tempFile, db.filePath); err != nil {
		return fmt.Errorf("failed to rename stats file: %w", err)
	}

	return nil
}

// AddRunRecord 添加运行记录，缺少 ID 或时间时自动补全
func (db *Database) AddRunRecord(record *RunRecord) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if record.Status == "" {
		record.Status = StatusCompleted
	}

	// 更新总体统计
	db.data.TotalRuns++
	db.data.TotalCharacters += int64(record.Characters)
	db.data.TotalChunks += int64(record.Chunks)
	db.data.TotalDuration += record.Duration
	if record.Failed() {
		db.data.TotalErrors++
	}
	if record.Fallback {
		db.data.TotalFallbacks++
	}

	// 更新模式统计
	ms, exists := db.data.ModeStats[record.Mode]
	if !exists {
		ms = &ModeStats{Mode: record.Mode}
		db.data.ModeStats[record.Mode] = ms
	}

	ms.RunCount++
	ms.CharacterCount += int64(record.Characters)
	ms.ChunkCount += int64(record.Chunks)
	ms.LastUsed = record.Timestamp
	if record.Failed() {
		ms.ErrorCount++
	}
	if ms.ChunkCount > 0 {
		ms.AverageChunkLength = float64(ms.CharacterCount) / float64(ms.ChunkCount)
	}

	// 计算平均持续时间
	totalDuration := time.Duration(int64(ms.AverageDuration) * (ms.RunCount - 1))
	ms.AverageDuration = (totalDuration + record.Duration) / time.Duration(ms.RunCount)

	// 添加到最近记录
	db.data.RecentRuns = append(db.data.RecentRuns, record)

	// 保持最近记录数量限制
	if len(db.data.RecentRuns) > MaxRecentRecords {
		sort.SliceStable(db.data.RecentRuns, func(i, j int) bool {
			return db.data.RecentRuns[i].Timestamp.After(db.data.RecentRuns[j].Timestamp)
		})
		db.data.RecentRuns = db.data.RecentRuns[:MaxRecentRecords]
	}

	return db.saveUnsafe()
}

// GetStats 获取统计数据（只读副本）
func (db *Database) GetStats() *StatisticsDB {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	// 创建深拷贝
	data, _ := json.Marshal(db.data)
	var snapshot StatisticsDB
	_ = json.Unmarshal(data, &snapshot)

	return &snapshot
}

// GetRecentRuns 获取最近的运行记录（最新的在前）
func (db *Database) GetRecentRuns(limit int) []*RunRecord {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	if limit <= 0 || limit > len(db.data.RecentRuns) {
		limit = len(db.data.RecentRuns)
	}

	sorted := make([]*RunRecord, len(db.data.RecentRuns))
	copy(sorted, db.data.RecentRuns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	return sorted[:limit]
}

// Reset 清空全部统计
func (db *Database) Reset() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.data = newStatisticsDB()
	return db.saveUnsafe()
}

// Export 导出统计数据为 JSON 文件
func (db *Database) Export(path string) error {
	data, err := json.MarshalIndent(db.GetStats(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats data: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to export stats: %w", err)
	}
	return nil
}
