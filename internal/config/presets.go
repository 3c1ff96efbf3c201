package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Preset 命名的分割策略预设
type Preset struct {
	Name      string  `toml:"name"`
	Mode      string  `toml:"mode"`
	ChunkSize int     `toml:"chunk_size"`
	Separator string  `toml:"separator"`
	Literal   *bool   `toml:"literal"` // nil 表示沿用当前分隔符解释方式
	Header    *string `toml:"header"` // nil 表示沿用当前头部模板
	Encoding  string  `toml:"encoding"`
}

// PresetFile 预设文件
type PresetFile struct {
	Presets []Preset `toml:"preset"`
}

// Names 全部预设名称
func (f *PresetFile) Names() []string {
	names := make([]string, len(f.Presets))
	for i, p := range f.Presets {
		names[i] = p.Name
	}
	return names
}

// Find 按名称查找预设
func (f *PresetFile) Find(name string) (Preset, bool) {
	for _, p := range f.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// LoadPresets 加载 TOML 预设文件
func LoadPresets(path string) (*PresetFile, error) {
	// check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("presets file not found: %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}

	presets := &PresetFile{}
	if err := toml.Unmarshal(content, presets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal presets: %w", err)
	}

	seen := make(map[string]bool, len(presets.Presets))
	for i, p := range presets.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("preset #%d is missing name", i+1)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate preset name: %s", p.Name)
		}
		seen[p.Name] = true
	}
	return presets, nil
}
