// Package input 把指针移动转换为水波调度器的输入
package input

import (
	"time"

	"github.com/decker502/waterfx/pkg/wave"
)

// DefaultHold 最后一次移动之后保持"移动中"状态的时长（约一帧）
const DefaultHold = 16667 * time.Microsecond

// Tracker 指针移动跟踪器
//
// 记录最后的指针位置以及是否仍在移动。每帧轮询一次指针，
// 位置变化即视为移动；超过 hold 没有新的移动后自动清除移动状态。
type Tracker struct {
	hold time.Duration

	width, height float64

	position   wave.Point
	last       wave.Point
	lastMotion time.Time
	moving     bool
	seen       bool
}

// NewTracker 创建跟踪器
// hold <= 0 时使用 DefaultHold
func NewTracker(hold time.Duration) *Tracker {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Tracker{hold: hold}
}

// SetBounds 设置画布尺寸（像素）
func (t *Tracker) SetBounds(width, height float64) {
	t.width = width
	t.height = height
}

// Hold 返回移动状态保持时长
func (t *Tracker) Hold() time.Duration {
	return t.hold
}

// Observe 记录一次指针采样
//
// 第一次采样只作为基准。之后位置变化且严格位于画布内部时记录为移动。
//
// 返回:
//   - bool: 本次采样是否被记录为移动
func (t *Tracker) Observe(x, y float64, now time.Time) bool {
	p := wave.Point{X: x, Y: y}
	if !t.seen {
		t.seen = true
		t.last = p
		return false
	}
	if p == t.last {
		return false
	}
	t.last = p

	if !t.inside(p) {
		return false
	}

	t.position = p
	t.lastMotion = now
	t.moving = true
	return true
}

// State 返回当前帧的调度器输入
func (t *Tracker) State(now time.Time) wave.Input {
	if t.moving && now.Sub(t.lastMotion) >= t.hold {
		t.moving = false
	}
	return wave.Input{Position: t.position, Activating: t.moving}
}

// Reset 清除移动状态和位置，可重复调用
func (t *Tracker) Reset() {
	t.moving = false
	t.seen = false
	t.position = wave.Point{}
	t.last = wave.Point{}
	t.lastMotion = time.Time{}
}

func (t *Tracker) inside(p wave.Point) bool {
	return p.X > 0 && p.Y > 0 && p.X < t.width && p.Y < t.height
}
