// Package utils 提供输入、缓动和平台相关的通用工具
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// TapMaxDistance 按下到抬起移动距离不超过此值（像素）时视为点击
const TapMaxDistance = 10

// IsJustTouchedOrClicked 检查是否刚刚发生点击或触摸
// 返回是否点击以及点击位置
func IsJustTouchedOrClicked() (bool, int, int) {
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}

// IsSecondTouchJustPressed 检查是否在已有触摸的情况下刚刚按下第二根手指
func IsSecondTouchJustPressed() bool {
	justPressed := inpututil.AppendJustPressedTouchIDs(nil)
	if len(justPressed) == 0 {
		return false
	}
	return len(ebiten.AppendTouchIDs(nil)) >= 2
}

// Rect 屏幕上的矩形点击区域
type Rect struct {
	X, Y, W, H float64
}

// Contains 点是否落在区域内（含边界）
func (r Rect) Contains(x, y int) bool {
	fx, fy := float64(x), float64(y)
	return fx >= r.X && fx <= r.X+r.W && fy >= r.Y && fy <= r.Y+r.H
}

// ============================================================================
// 拖拽状态管理器 - 发射台的拖拽瞄准和松手发射
// ============================================================================

// DragState 拖拽状态
type DragState int

const (
	// DragStateNone 无拖拽
	DragStateNone DragState = iota
	// DragStateStarted 拖拽开始（刚按下）
	DragStateStarted
	// DragStateDragging 拖拽中（按住移动）
	DragStateDragging
	// DragStateEnded 拖拽结束（释放）
	DragStateEnded
)

// DragInfo 拖拽信息
type DragInfo struct {
	// State 当前拖拽状态
	State DragState
	// StartX, StartY 拖拽起始位置（屏幕坐标）
	StartX, StartY int
	// CurrentX, CurrentY 当前位置（屏幕坐标）
	CurrentX, CurrentY int
	// TouchID 当前跟踪的触摸ID（-1表示鼠标）
	TouchID ebiten.TouchID
	// IsTouchInput 是否为触摸输入（区分触摸和鼠标）
	IsTouchInput bool
}

// DragManager 拖拽管理器
// 跟踪第一根手指或鼠标左键的拖拽状态，后按下的手指不会打断当前拖拽
type DragManager struct {
	info DragInfo
}

// 全局拖拽管理器实例
var globalDragManager = NewDragManager()

// NewDragManager 创建处于空闲状态的拖拽管理器
func NewDragManager() *DragManager {
	return &DragManager{
		info: DragInfo{
			State:   DragStateNone,
			TouchID: -1,
		},
	}
}

// GetDragManager 获取全局拖拽管理器
func GetDragManager() *DragManager {
	return globalDragManager
}

// Update 更新拖拽状态（每帧调用一次）
func (dm *DragManager) Update() {
	currentTouchIDs := ebiten.AppendTouchIDs(nil)

	switch dm.info.State {
	case DragStateNone:
		dm.checkDragStart()

	case DragStateStarted:
		dm.info.State = DragStateDragging
		dm.updateCurrentPosition(currentTouchIDs)

	case DragStateDragging:
		if dm.checkDragEnd(currentTouchIDs) {
			dm.info.State = DragStateEnded
		} else {
			dm.updateCurrentPosition(currentTouchIDs)
		}

	case DragStateEnded:
		// 结束状态只持续一帧
		dm.Reset()
		dm.checkDragStart()
	}
}

// checkDragStart 检测拖拽开始，优先触摸
func (dm *DragManager) checkDragStart() {
	justPressedTouchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(justPressedTouchIDs) > 0 {
		touchID := justPressedTouchIDs[0]
		x, y := ebiten.TouchPosition(touchID)
		dm.begin(x, y, touchID, true)
		return
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		dm.begin(x, y, -1, false)
	}
}

func (dm *DragManager) begin(x, y int, touchID ebiten.TouchID, isTouch bool) {
	dm.info = DragInfo{
		State:        DragStateStarted,
		StartX:       x,
		StartY:       y,
		CurrentX:     x,
		CurrentY:     y,
		TouchID:      touchID,
		IsTouchInput: isTouch,
	}
}

// checkDragEnd 检测拖拽结束
func (dm *DragManager) checkDragEnd(currentTouchIDs []ebiten.TouchID) bool {
	if dm.info.IsTouchInput {
		for _, id := range currentTouchIDs {
			if id == dm.info.TouchID {
				return false
			}
		}
		return true
	}
	return !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

// updateCurrentPosition 更新当前位置
// 触摸抬起后 TouchPosition 返回 (0, 0)，因此只在触摸仍然存在时更新
func (dm *DragManager) updateCurrentPosition(currentTouchIDs []ebiten.TouchID) {
	if !dm.info.IsTouchInput {
		dm.info.CurrentX, dm.info.CurrentY = ebiten.CursorPosition()
		return
	}
	for _, id := range currentTouchIDs {
		if id == dm.info.TouchID {
			dm.info.CurrentX, dm.info.CurrentY = ebiten.TouchPosition(id)
			return
		}
	}
}

// Reset 重置拖拽状态
func (dm *DragManager) Reset() {
	dm.info = DragInfo{
		State:   DragStateNone,
		TouchID: -1,
	}
}

// GetState 获取当前拖拽状态
func (dm *DragManager) GetState() DragState {
	return dm.info.State
}

// GetInfo 获取完整拖拽信息
func (dm *DragManager) GetInfo() DragInfo {
	return dm.info
}

// IsActive 是否按下中（刚开始或拖拽中）
func (dm *DragManager) IsActive() bool {
	return dm.info.State == DragStateStarted || dm.info.State == DragStateDragging
}

// IsDragging 是否正在拖拽
func (dm *DragManager) IsDragging() bool {
	return dm.info.State == DragStateDragging
}

// JustStarted 是否刚开始拖拽（本帧）
func (dm *DragManager) JustStarted() bool {
	return dm.info.State == DragStateStarted
}

// JustEnded 是否刚结束拖拽（本帧）
func (dm *DragManager) JustEnded() bool {
	return dm.info.State == DragStateEnded
}

// IsTap 刚结束的拖拽是否几乎没有移动
func (dm *DragManager) IsTap() bool {
	if dm.info.State != DragStateEnded {
		return false
	}
	dx, dy := dm.GetDragDistance()
	return dx*dx+dy*dy <= TapMaxDistance*TapMaxDistance
}

// GetDragDistance 获取拖拽距离（从起点到当前位置）
func (dm *DragManager) GetDragDistance() (dx, dy int) {
	return dm.info.CurrentX - dm.info.StartX, dm.info.CurrentY - dm.info.StartY
}

// IsTouchDrag 是否为触摸拖拽
func (dm *DragManager) IsTouchDrag() bool {
	return dm.info.IsTouchInput
}
