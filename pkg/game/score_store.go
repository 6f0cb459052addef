package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// BestScoreStore 最高分持久化接口
type BestScoreStore interface {
	LoadBestScore() (int, error)
	SaveBestScore(score int) error
}

// bestScoreRecord 最高分存档格式
type bestScoreRecord struct {
	BestScore int `yaml:"bestScore"`
}

// 存储路径常量
const (
	recordsObject     = "records"
	bestScoreProperty = "BestScore"
)

// GdataScoreStore 基于 gdata 的最高分存储
type GdataScoreStore struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存）
	memory       int
}

// NewGdataScoreStore 创建最高分存储
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存）
func NewGdataScoreStore(gdataManager *gdata.Manager) *GdataScoreStore {
	return &GdataScoreStore{gdataManager: gdataManager}
}

// LoadBestScore 读取最高分，没有存档时返回 0
func (s *GdataScoreStore) LoadBestScore() (int, error) {
	if s.gdataManager == nil {
		return s.memory, nil
	}

	if !s.gdataManager.ObjectPropExists(recordsObject, bestScoreProperty) {
		return 0, nil
	}

	data, err := s.gdataManager.LoadObjectProp(recordsObject, bestScoreProperty)
	if err != nil {
		return 0, fmt.Errorf("failed to load best score: %w", err)
	}

	var record bestScoreRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return 0, fmt.Errorf("failed to unmarshal best score: %w", err)
	}
	if record.BestScore < 0 {
		return 0, fmt.Errorf("corrupted best score record: %d", record.BestScore)
	}
	return record.BestScore, nil
}

// SaveBestScore 保存最高分
func (s *GdataScoreStore) SaveBestScore(score int) error {
	if s.gdataManager == nil {
		s.memory = score
		return nil
	}

	data, err := yaml.Marshal(&bestScoreRecord{BestScore: score})
	if err != nil {
		return fmt.Errorf("failed to marshal best score: %w", err)
	}
	if err := s.gdataManager.SaveObjectProp(recordsObject, bestScoreProperty, data); err != nil {
		return fmt.Errorf("failed to save best score: %w", err)
	}

	log.Printf("[ScoreStore] Best score saved: %d", score)
	return nil
}

// MemoryScoreStore 内存最高分存储（测试、无头模拟）
type MemoryScoreStore struct {
	Best  int
	Saves int // SaveBestScore 被调用的次数
}

func (m *MemoryScoreStore) LoadBestScore() (int, error) {
	return m.Best, nil
}

func (m *MemoryScoreStore) SaveBestScore(score int) error {
	m.Best = score
	m.Saves++
	return nil
}
