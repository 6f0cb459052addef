package config

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/gonewx/bubblesky/pkg/embedded"
	"github.com/gonewx/bubblesky/pkg/types"
	"gopkg.in/yaml.v3"
)

// BubbleTypesConfigPath 泡泡等级表的嵌入路径
const BubbleTypesConfigPath = "data/bubble_types.yaml"

// BubbleTypeConfig 单个泡泡等级的属性
type BubbleTypeConfig struct {
	Name               string  `yaml:"name"`               // 等级名称，如 "Tiny"
	Radius             float64 `yaml:"radius"`             // 等级基准半径
	Mass               float64 `yaml:"mass"`               // 质量
	LaunchWeight       int     `yaml:"launchWeight"`       // 发射权重（百分比），0 表示不可发射
	VelocityMultiplier float64 `yaml:"velocityMultiplier"` // 发射速度倍率，越大越慢
	Color              []uint8 `yaml:"color"`              // RGBA
}

// JitterRange 带随机扰动的物理参数
// 实际值 = Base + PerTier*等级 ± Jitter，并限制在 [Min, Max]
type JitterRange struct {
	Base    float64 `yaml:"base"`
	PerTier float64 `yaml:"perTier"`
	Jitter  float64 `yaml:"jitter"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
}

// BubbleTypesConfig 泡泡等级表配置文件结构
type BubbleTypesConfig struct {
	BodyRadiusScale float64            `yaml:"bodyRadiusScale"` // 刚体半径 = 基准半径 * scale
	Restitution     JitterRange        `yaml:"restitution"`
	Friction        JitterRange        `yaml:"friction"`
	Types           []BubbleTypeConfig `yaml:"types"` // 按等级顺序排列
}

// BubbleTable 按等级索引的只读泡泡属性表
type BubbleTable struct {
	cfg    BubbleTypesConfig
	byType map[types.BubbleType]BubbleTypeConfig
}

// DefaultBubbleTypesConfig 返回与 data/bubble_types.yaml 一致的默认等级表
func DefaultBubbleTypesConfig() BubbleTypesConfig {
	palette := [][]uint8{
		{0, 122, 255, 77},  // Tiny - 蓝
		{52, 199, 89, 77},  // Small - 绿
		{255, 204, 0, 77},  // Medium - 黄
		{255, 149, 0, 77},  // Large - 橙
		{255, 59, 48, 77},  // Huge - 红
		{175, 82, 222, 77}, // Giant - 紫
		{255, 45, 85, 77},  // Mega - 粉
		{50, 173, 230, 77}, // SuperBig - 青
		{0, 199, 190, 77},  // UltraBig - 薄荷
	}
	weights := []int{30, 30, 25, 10, 5, 0, 0, 0, 0}
	velocity := []float64{1.2, 1.1, 1.0, 0.9, 0.8, 0.8, 0.8, 0.8, 0.8}

	cfg := BubbleTypesConfig{
		BodyRadiusScale: 0.85,
		Restitution:     JitterRange{Base: 0.3, Jitter: 0.1, Min: 0.1, Max: 0.5},
		Friction:        JitterRange{Base: 0.3, PerTier: 0.05, Jitter: 0.05, Min: 0.1, Max: 0.6},
	}
	for i, t := range types.AllBubbleTypes() {
		cfg.Types = append(cfg.Types, BubbleTypeConfig{
			Name:               t.String(),
			Radius:             math.Round(float64(t)*10*1.17*100) / 100,
			Mass:               float64(t) * 0.5,
			LaunchWeight:       weights[i],
			VelocityMultiplier: velocity[i],
			Color:              palette[i],
		})
	}
	return cfg
}

// DefaultBubbleTable 返回默认等级表（不依赖嵌入资源，测试和无头工具使用）
func DefaultBubbleTable() *BubbleTable {
	table, err := NewBubbleTable(DefaultBubbleTypesConfig())
	if err != nil {
		// 默认表是代码常量，校验失败属于编程错误
		panic(fmt.Sprintf("default bubble table is invalid: %v", err))
	}
	return table
}

// LoadBubbleTable 从嵌入的 YAML 文件加载泡泡等级表
func LoadBubbleTable(filePath string) (*BubbleTable, error) {
	data, err := embedded.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read bubble types file %s: %w", filePath, err)
	}

	table, err := ParseBubbleTable(data)
	if err != nil {
		return nil, fmt.Errorf("invalid bubble types in %s: %w", filePath, err)
	}
	return table, nil
}

// ParseBubbleTable 解析并校验 YAML 格式的泡泡等级表
func ParseBubbleTable(data []byte) (*BubbleTable, error) {
	var cfg BubbleTypesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse bubble types YAML: %w", err)
	}
	return NewBubbleTable(cfg)
}

// NewBubbleTable 校验配置并建立等级索引
func NewBubbleTable(cfg BubbleTypesConfig) (*BubbleTable, error) {
	if err := validateBubbleTypes(&cfg); err != nil {
		return nil, err
	}

	table := &BubbleTable{
		cfg:    cfg,
		byType: make(map[types.BubbleType]BubbleTypeConfig, len(cfg.Types)),
	}
	for _, tc := range cfg.Types {
		t, _ := types.ParseBubbleType(tc.Name)
		table.byType[t] = tc
	}
	return table, nil
}

// validateBubbleTypes 验证等级表的完整性和合法性
func validateBubbleTypes(cfg *BubbleTypesConfig) error {
	if cfg.BodyRadiusScale <= 0 || cfg.BodyRadiusScale > 1 {
		return fmt.Errorf("bodyRadiusScale must be in (0, 1], got %v", cfg.BodyRadiusScale)
	}
	if err := validateJitter("restitution", cfg.Restitution); err != nil {
		return err
	}
	if err := validateJitter("friction", cfg.Friction); err != nil {
		return err
	}

	if len(cfg.Types) != int(types.MaxBubbleType) {
		return fmt.Errorf("expected %d bubble types, got %d", types.MaxBubbleType, len(cfg.Types))
	}

	seen := make(map[types.BubbleType]bool, len(cfg.Types))
	launchTotal := 0
	for i, tc := range cfg.Types {
		t, ok := types.ParseBubbleType(tc.Name)
		if !ok {
			return fmt.Errorf("unknown bubble type %q", tc.Name)
		}
		if seen[t] {
			return fmt.Errorf("bubble type %s defined twice", tc.Name)
		}
		seen[t] = true
		if int(t) != i+1 {
			return fmt.Errorf("bubble type %s out of order at position %d", tc.Name, i+1)
		}

		if tc.Radius <= 0 {
			return fmt.Errorf("bubble %s: radius must be positive, got %v", tc.Name, tc.Radius)
		}
		if tc.Mass <= 0 {
			return fmt.Errorf("bubble %s: mass must be positive, got %v", tc.Name, tc.Mass)
		}
		if tc.VelocityMultiplier <= 0 {
			return fmt.Errorf("bubble %s: velocityMultiplier must be positive, got %v", tc.Name, tc.VelocityMultiplier)
		}
		if tc.LaunchWeight < 0 {
			return fmt.Errorf("bubble %s: launchWeight cannot be negative, got %d", tc.Name, tc.LaunchWeight)
		}
		if tc.LaunchWeight > 0 && !t.IsLaunchable() {
			return fmt.Errorf("bubble %s: only %s..%s may be launched", tc.Name, types.BubbleTiny, types.MaxLaunchableBubbleType)
		}
		if len(tc.Color) != 4 {
			return fmt.Errorf("bubble %s: color must have 4 components, got %d", tc.Name, len(tc.Color))
		}
		launchTotal += tc.LaunchWeight
	}

	if launchTotal <= 0 {
		return fmt.Errorf("at least one launchable bubble type needs a positive launchWeight")
	}
	return nil
}

func validateJitter(name string, r JitterRange) error {
	if r.Jitter < 0 {
		return fmt.Errorf("%s.jitter cannot be negative, got %v", name, r.Jitter)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%s.min (%v) must not exceed %s.max (%v)", name, r.Min, name, r.Max)
	}
	return nil
}

// Get 返回指定等级的属性
func (bt *BubbleTable) Get(t types.BubbleType) (BubbleTypeConfig, bool) {
	tc, ok := bt.byType[t]
	return tc, ok
}

// Radius 等级表中的基准半径，无效等级返回 0
func (bt *BubbleTable) Radius(t types.BubbleType) float64 {
	return bt.byType[t].Radius
}

// BodyRadius 物理碰撞半径
// 绘制、连锁接触判定和重叠修正都使用这个半径，与刚体保持一致
func (bt *BubbleTable) BodyRadius(t types.BubbleType) float64 {
	return bt.byType[t].Radius * bt.cfg.BodyRadiusScale
}

// Mass 质量
func (bt *BubbleTable) Mass(t types.BubbleType) float64 {
	return bt.byType[t].Mass
}

// LaunchWeight 发射权重
func (bt *BubbleTable) LaunchWeight(t types.BubbleType) int {
	return bt.byType[t].LaunchWeight
}

// TotalLaunchWeight 所有可发射等级的权重之和
func (bt *BubbleTable) TotalLaunchWeight() int {
	total := 0
	for _, t := range types.LaunchableBubbleTypes() {
		total += bt.byType[t].LaunchWeight
	}
	return total
}

// VelocityMultiplier 发射速度倍率
func (bt *BubbleTable) VelocityMultiplier(t types.BubbleType) float64 {
	return bt.byType[t].VelocityMultiplier
}

// Color 等级对应的颜色
func (bt *BubbleTable) Color(t types.BubbleType) color.RGBA {
	c := bt.byType[t].Color
	if len(c) != 4 {
		return color.RGBA{R: 255, G: 255, B: 255, A: 77}
	}
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// Restitution 返回带随机扰动的弹性系数
// rng 由调用方注入，保证测试可复现
func (bt *BubbleTable) Restitution(t types.BubbleType, rng *rand.Rand) float64 {
	return jitter(bt.cfg.Restitution, t, rng)
}

// Friction 返回带随机扰动的摩擦系数
func (bt *BubbleTable) Friction(t types.BubbleType, rng *rand.Rand) float64 {
	return jitter(bt.cfg.Friction, t, rng)
}

func jitter(r JitterRange, t types.BubbleType, rng *rand.Rand) float64 {
	v := r.Base + r.PerTier*float64(t)
	if rng != nil && r.Jitter > 0 {
		v += (rng.Float64()*2 - 1) * r.Jitter
	}
	return math.Max(r.Min, math.Min(r.Max, v))
}
