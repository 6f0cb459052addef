package config

import (
	"fmt"

	"github.com/gonewx/bubblesky/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// GameplayConfigPath 玩法参数的嵌入路径
const GameplayConfigPath = "data/gameplay.yaml"

// ScreenConfig 逻辑屏幕尺寸（竖屏手机）
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PlayAreaConfig 游戏区布局，所有比例相对屏幕或游戏区尺寸
type PlayAreaConfig struct {
	WidthRatio         float64 `yaml:"widthRatio"`
	HeightRatio        float64 `yaml:"heightRatio"`
	CenterOffsetRatio  float64 `yaml:"centerOffsetRatio"`
	CeilingHeightRatio float64 `yaml:"ceilingHeightRatio"`
	CeilingDepthRatio  float64 `yaml:"ceilingDepthRatio"`
	CeilingSpanRatio   float64 `yaml:"ceilingSpanRatio"`
	PadRangeRatio      float64 `yaml:"padRangeRatio"`
	PadOffset          float64 `yaml:"padOffset"`
}

// PhysicsConfig 物理世界参数
type PhysicsConfig struct {
	Gravity         float64 `yaml:"gravity"`   // 向上的重力加速度（px/s²）
	TimeScale       float64 `yaml:"timeScale"` // 物理模拟速度倍率
	LinearDamping   float64 `yaml:"linearDamping"`
	WallRestitution float64 `yaml:"wallRestitution"`
	WallFriction    float64 `yaml:"wallFriction"`
	SubSteps        int     `yaml:"subSteps"`
}

// LaunchConfig 发射参数
type LaunchConfig struct {
	BaseVelocity     float64 `yaml:"baseVelocity"`
	HorizontalJitter float64 `yaml:"horizontalJitter"`
	AngularJitter    float64 `yaml:"angularJitter"`
	SpawnDelay       float64 `yaml:"spawnDelay"` // 发射后多久生成下一个泡泡（秒）
}

// MergeConfig 合并与连锁参数
type MergeConfig struct {
	ChainCheckDelay float64 `yaml:"chainCheckDelay"` // 新泡泡连锁检测的延迟（秒）
	ChainEpsilon    float64 `yaml:"chainEpsilon"`    // 连锁检测的接触余量
	ImpactThreshold float64 `yaml:"impactThreshold"` // 触发形变效果的相对速度
	ImpactCooldown  float64 `yaml:"impactCooldown"`
	ScatterX        float64 `yaml:"scatterX"`
	ScatterY        float64 `yaml:"scatterY"`
	ScatterAngular  float64 `yaml:"scatterAngular"`
}

// OverlapConfig 重叠修正参数
type OverlapConfig struct {
	AllowedSlack      float64 `yaml:"allowedSlack"`
	SeverityThreshold float64 `yaml:"severityThreshold"`
	PushFactor        float64 `yaml:"pushFactor"`
	Interval          float64 `yaml:"interval"` // 两次修正之间的间隔（秒）
}

// GameOverConfig 游戏结束判定参数
type GameOverConfig struct {
	GracePeriod float64 `yaml:"gracePeriod"` // 泡泡越线后的宽限时间（秒）
}

// ScoreConfig 计分参数
type ScoreConfig struct {
	PerTier    int     `yaml:"perTier"`    // 合并基础分 = 等级 * PerTier
	ChainBonus int     `yaml:"chainBonus"` // 连锁合并额外奖励
	MegaBonus  int     `yaml:"megaBonus"`  // 最大等级湮灭奖励
	TimeTick   float64 `yaml:"timeTick"`   // 游戏时间计时器周期（秒）
}

// GameplayConfig 玩法参数配置文件结构
type GameplayConfig struct {
	Screen   ScreenConfig   `yaml:"screen"`
	PlayArea PlayAreaConfig `yaml:"playArea"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Launch   LaunchConfig   `yaml:"launch"`
	Merge    MergeConfig    `yaml:"merge"`
	Overlap  OverlapConfig  `yaml:"overlap"`
	GameOver GameOverConfig `yaml:"gameOver"`
	Score    ScoreConfig    `yaml:"score"`
}

// DefaultGameplayConfig 返回与 data/gameplay.yaml 一致的默认参数
func DefaultGameplayConfig() *GameplayConfig {
	return &GameplayConfig{
		Screen: ScreenConfig{Width: 390, Height: 844},
		PlayArea: PlayAreaConfig{
			WidthRatio:         0.77,
			HeightRatio:        0.8,
			CenterOffsetRatio:  0.05,
			CeilingHeightRatio: 0.85,
			CeilingDepthRatio:  0.08,
			CeilingSpanRatio:   0.48,
			PadRangeRatio:      0.4,
			PadOffset:          50,
		},
		Physics: PhysicsConfig{
			Gravity:         750,
			TimeScale:       0.6,
			LinearDamping:   0.7,
			WallRestitution: 0.2,
			WallFriction:    0.3,
			SubSteps:        4,
		},
		Launch: LaunchConfig{
			BaseVelocity:     420,
			HorizontalJitter: 50,
			AngularJitter:    0.5,
			SpawnDelay:       0.5,
		},
		Merge: MergeConfig{
			ChainCheckDelay: 0.1,
			ChainEpsilon:    5,
			ImpactThreshold: 100,
			ImpactCooldown:  0.3,
			ScatterX:        20,
			ScatterY:        10,
			ScatterAngular:  0.3,
		},
		Overlap: OverlapConfig{
			AllowedSlack:      5,
			SeverityThreshold: 15,
			PushFactor:        2,
			Interval:          0.15,
		},
		GameOver: GameOverConfig{GracePeriod: 2},
		Score: ScoreConfig{
			PerTier:    10,
			ChainBonus: 50,
			MegaBonus:  1000,
			TimeTick:   1,
		},
	}
}

// LoadGameplayConfig 从嵌入的 YAML 文件加载玩法参数
// 文件中缺失的字段保留默认值
func LoadGameplayConfig(filePath string) (*GameplayConfig, error) {
	data, err := embedded.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read gameplay config %s: %w", filePath, err)
	}

	cfg, err := ParseGameplayConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid gameplay config in %s: %w", filePath, err)
	}
	return cfg, nil
}

// ParseGameplayConfig 在默认值基础上解析 YAML 并校验
func ParseGameplayConfig(data []byte) (*GameplayConfig, error) {
	cfg := DefaultGameplayConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse gameplay YAML: %w", err)
	}
	if err := validateGameplayConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateGameplayConfig 验证玩法参数
func validateGameplayConfig(cfg *GameplayConfig) error {
	if cfg.Screen.Width <= 0 || cfg.Screen.Height <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", cfg.Screen.Width, cfg.Screen.Height)
	}

	pa := cfg.PlayArea
	if pa.WidthRatio <= 0 || pa.WidthRatio > 1 || pa.HeightRatio <= 0 || pa.HeightRatio > 1 {
		return fmt.Errorf("playArea ratios must be in (0, 1], got %v x %v", pa.WidthRatio, pa.HeightRatio)
	}
	if pa.PadRangeRatio < 0 || pa.PadRangeRatio > 0.5 {
		return fmt.Errorf("playArea.padRangeRatio must be in [0, 0.5], got %v", pa.PadRangeRatio)
	}

	if cfg.Physics.TimeScale <= 0 {
		return fmt.Errorf("physics.timeScale must be positive, got %v", cfg.Physics.TimeScale)
	}
	if cfg.Physics.SubSteps < 1 {
		return fmt.Errorf("physics.subSteps must be at least 1, got %d", cfg.Physics.SubSteps)
	}
	if cfg.Physics.LinearDamping < 0 {
		return fmt.Errorf("physics.linearDamping cannot be negative, got %v", cfg.Physics.LinearDamping)
	}

	if cfg.Launch.SpawnDelay < 0 || cfg.Merge.ChainCheckDelay < 0 {
		return fmt.Errorf("delays cannot be negative (spawnDelay=%v, chainCheckDelay=%v)",
			cfg.Launch.SpawnDelay, cfg.Merge.ChainCheckDelay)
	}
	if cfg.Overlap.Interval <= 0 {
		return fmt.Errorf("overlap.interval must be positive, got %v", cfg.Overlap.Interval)
	}
	if cfg.GameOver.GracePeriod <= 0 {
		return fmt.Errorf("gameOver.gracePeriod must be positive, got %v", cfg.GameOver.GracePeriod)
	}
	if cfg.Score.PerTier < 0 || cfg.Score.ChainBonus < 0 || cfg.Score.MegaBonus < 0 {
		return fmt.Errorf("score values cannot be negative")
	}
	if cfg.Score.TimeTick <= 0 {
		return fmt.Errorf("score.timeTick must be positive, got %v", cfg.Score.TimeTick)
	}
	return nil
}
