package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a visual scene driven by the frame loop.
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	// screen is the target image where the scene should be drawn.
	Draw(screen *ebiten.Image)
}

// Resizable 是一个可选接口，场景需要在画布尺寸变化时重新排版
type Resizable interface {
	// Resize 在画布尺寸（设备像素）变化时调用
	Resize(width, height int)
}

// Stoppable 是一个可选接口，用于在程序退出前停止动画
//
// 实现此接口的场景会在以下时机被调用 Stop()：
//   - 游戏窗口关闭
//   - 收到 SIGINT/SIGTERM
//
// Stop 必须可以重复调用。
type Stoppable interface {
	Stop()
}
