// Package wave 管理跟随指针的水波平面
//
// 固定 64 个平面组成环形缓冲区：指针移动时回收最旧的平面，
// 每帧所有活跃平面旋转、放大并淡出，直到透明度降到下限后休眠。
package wave

import "math"

const (
	// PlaneCount 环形缓冲区中的平面数量
	PlaneCount = 64

	// FloorAlpha 平面透明度下限，达到后平面休眠
	FloorAlpha = 0.002

	// TriggerScale 触发时的初始缩放
	TriggerScale = 0.256
	// TriggerAlpha 触发时的初始透明度
	TriggerAlpha = 0.192

	// RotationStep 每帧旋转增量（弧度）
	RotationStep = 0.02
	// ScaleDecay 和 ScaleGrowth: scale = scale*ScaleDecay + ScaleGrowth
	// 收敛于 ScaleGrowth / (1 - ScaleDecay) = 6
	ScaleDecay  = 0.982
	ScaleGrowth = 0.108
	// AlphaDecay 每帧透明度衰减系数
	AlphaDecay = 0.96
)

// Point 画布像素坐标
type Point struct {
	X, Y float64
}

// Input 每帧的指针输入
type Input struct {
	Position   Point
	Activating bool
}

// Instance 一个可见平面的快照，交给渲染器绘制
type Instance struct {
	Index       int
	Rotation    float64
	Translation Point
	Scale       float64
	Alpha       float64
}

// RandomSource 随机数来源，Float64 返回 [0, 1)
// *math/rand/v2.Rand 满足此接口
type RandomSource interface {
	Float64() float64
}

type plane struct {
	rotation    float64
	translation Point
	scale       float64
	alpha       float64
	active      bool
}

// Scheduler 水波平面调度器
// 非并发安全，只能在帧循环中调用
type Scheduler struct {
	planes [PlaneCount]plane
	cursor int
	rng    RandomSource
}

// NewScheduler 创建调度器，所有平面初始为休眠状态
//
// 参数:
//   - rng: 随机旋转角来源
//
// 返回:
//   - *Scheduler: 第一次触发会落在第 0 个平面上
func NewScheduler(rng RandomSource) *Scheduler {
	s := &Scheduler{rng: rng}
	s.Reset()
	return s
}

// Trigger 回收环形缓冲区中的下一个平面，重置为触发状态
func (s *Scheduler) Trigger() {
	s.cursor = (s.cursor + 1) % PlaneCount
	p := &s.planes[s.cursor]
	p.rotation = s.randomRotation()
	p.scale = TriggerScale
	p.alpha = TriggerAlpha
	p.active = true
}

// Advance 推进所有活跃平面一帧，返回本帧可见的平面
//
// 只有当前游标所在的平面会移动到 pos，其余平面停留在触发时的位置。
// 透明度在本帧降到下限的平面仍然输出一次，之后休眠。
func (s *Scheduler) Advance(pos Point) []Instance {
	var out []Instance
	for i := range s.planes {
		p := &s.planes[i]
		if !p.active {
			continue
		}

		if i == s.cursor {
			p.translation = pos
		}

		p.rotation += RotationStep
		p.scale = p.scale*ScaleDecay + ScaleGrowth
		p.alpha = math.Max(p.alpha*AlphaDecay, FloorAlpha)

		out = append(out, Instance{
			Index:       i,
			Rotation:    p.rotation,
			Translation: p.translation,
			Scale:       p.scale,
			Alpha:       p.alpha,
		})

		if p.alpha <= FloorAlpha {
			p.active = false
		}
	}
	return out
}

// Tick 处理一帧输入：指针移动时先触发一个新平面，然后推进所有平面
func (s *Scheduler) Tick(in Input) []Instance {
	if in.Activating {
		s.Trigger()
	}
	return s.Advance(in.Position)
}

// Reset 让所有平面休眠，游标回到初始位置
// 可重复调用；Stop 之后不会残留待处理的触发
func (s *Scheduler) Reset() {
	for i := range s.planes {
		s.planes[i] = plane{
			rotation: s.randomRotation(),
			scale:    TriggerScale,
			alpha:    FloorAlpha,
		}
	}
	s.cursor = PlaneCount - 1
}

// Stop 停止动画（Reset 的别名）
func (s *Scheduler) Stop() {
	s.Reset()
}

// Cursor 返回最近一次触发的平面索引
func (s *Scheduler) Cursor() int {
	return s.cursor
}

// ActiveCount 返回活跃平面数量
func (s *Scheduler) ActiveCount() int {
	n := 0
	for i := range s.planes {
		if s.planes[i].active {
			n++
		}
	}
	return n
}

// Plane 返回第 i 个平面的当前状态（不推进）
func (s *Scheduler) Plane(i int) (Instance, bool) {
	p := s.planes[i]
	return Instance{
		Index:       i,
		Rotation:    p.rotation,
		Translation: p.translation,
		Scale:       p.scale,
		Alpha:       p.alpha,
	}, p.active
}

func (s *Scheduler) randomRotation() float64 {
	if s.rng == nil {
		return 0
	}
	return s.rng.Float64() * 2 * math.Pi
}
