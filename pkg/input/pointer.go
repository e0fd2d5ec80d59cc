package input

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// PollPointer 获取当前指针位置（触摸或鼠标）
// 优先返回第一个触摸点，没有触摸时返回鼠标位置
func PollPointer() (float64, float64) {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return float64(x), float64(y)
	}

	x, y := ebiten.CursorPosition()
	return float64(x), float64(y)
}
