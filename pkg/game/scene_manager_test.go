package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	updateCalled bool
	drawCalled   bool
	deltaTime    float64
	saved        int
}

func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

func (m *MockScene) SaveOnExit() bool {
	m.saved++
	return true
}

// TestNewSceneManager verifies that NewSceneManager creates a valid instance.
func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	if sm == nil {
		t.Fatal("NewSceneManager() returned nil")
	}
	if sm.GetCurrentScene() != nil {
		t.Error("Expected currentScene to be nil initially")
	}
}

// TestSceneManagerUpdateAndDraw verifies that calls reach the current scene.
func TestSceneManagerUpdateAndDraw(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	sm.Update(0.016)
	// 场景的 Draw 不使用 screen，这里传 nil 避免依赖图形环境
	sm.Draw(nil)

	if !mockScene.updateCalled {
		t.Error("Scene's Update method was not called")
	}
	if mockScene.deltaTime != 0.016 {
		t.Errorf("Expected deltaTime 0.016, got %.3f", mockScene.deltaTime)
	}
	if !mockScene.drawCalled {
		t.Error("Scene's Draw method was not called")
	}
}

// TestSceneManagerNoScene verifies that an empty manager is harmless.
func TestSceneManagerNoScene(t *testing.T) {
	sm := NewSceneManager()
	sm.Update(0.016)
	sm.Draw(nil)
	if !sm.SaveOnExit() {
		t.Error("SaveOnExit without a scene should report success")
	}
}

// TestSceneManagerSwitchBetweenScenes verifies switching between multiple scenes.
func TestSceneManagerSwitchBetweenScenes(t *testing.T) {
	sm := NewSceneManager()
	scene1 := &MockScene{}
	scene2 := &MockScene{}

	sm.SwitchTo(scene1)
	sm.Update(0.016)
	sm.SwitchTo(scene2)
	sm.Update(0.016)

	if !scene1.updateCalled || !scene2.updateCalled {
		t.Error("both scenes should have been updated once")
	}
	if sm.GetCurrentScene() != scene2 {
		t.Error("scene2 should be current")
	}
}

// TestSceneManagerReload 重新加载会保存旧场景并切换到新场景
func TestSceneManagerReload(t *testing.T) {
	sm := NewSceneManager()
	old := &MockScene{}
	sm.SwitchTo(old)

	// 未设置工厂时保持原场景
	sm.Reload()
	if sm.GetCurrentScene() != old {
		t.Fatal("Reload without factory must keep the current scene")
	}

	created := 0
	sm.SetSceneFactory(func() Scene {
		created++
		return &MockScene{}
	})
	sm.Reload()

	if created != 1 {
		t.Errorf("factory calls: got %d, want 1", created)
	}
	if old.saved != 1 {
		t.Errorf("old scene should be saved before reload, got %d", old.saved)
	}
	if sm.GetCurrentScene() == old {
		t.Error("Reload should switch to the new scene")
	}
}
