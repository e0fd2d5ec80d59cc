// Package render 使用 Ebitengine 绘制水波扰动文字效果
//
// 每帧的绘制分三层：
//   - 水波层：活跃平面的扰动贴图叠加成高度场
//   - 文本层：SDF 文本，只在排版变化时重绘
//   - 合成：背景和文本按高度场梯度偏移采样后输出
package render

import (
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/waterfx/pkg/font"
	"github.com/decker502/waterfx/pkg/wave"
)

// Options 渲染器资源和参数
type Options struct {
	Atlas  *ebiten.Image // 距离场图集
	Spread float64       // 距离场扩散半径
	Color  color.RGBA    // 文本颜色

	Plane     *ebiten.Image // 扰动贴图
	PlaneSize float64       // 平面边长

	Background *ebiten.Image // 背景图
	Force      float64       // 扰动强度
}

// Renderer 组合文本、水波和合成三个阶段
type Renderer struct {
	text       *TextRenderer
	waves      *WaveRenderer
	compositor *Compositor
	background *ebiten.Image

	waveLayer *ebiten.Image
	textLayer *ebiten.Image
	textDirty bool

	width, height int
}

// New 创建渲染器，编译着色器
func New(opts Options) (*Renderer, error) {
	text, err := NewTextRenderer(opts.Atlas, opts.Spread, opts.Color)
	if err != nil {
		return nil, err
	}
	compositor, err := NewCompositor(opts.Force)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		text:       text,
		waves:      NewWaveRenderer(opts.Plane, opts.PlaneSize),
		compositor: compositor,
		background: opts.Background,
	}, nil
}

// Resize 按画布尺寸重建各层，尺寸不变时不做任何事
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 || (width == r.width && height == r.height) {
		return
	}
	r.width, r.height = width, height

	if r.waveLayer != nil {
		r.waveLayer.Deallocate()
		r.textLayer.Deallocate()
	}
	r.waveLayer = ebiten.NewImage(width, height)
	r.textLayer = ebiten.NewImage(width, height)
	r.compositor.SetBackground(r.background, width, height)
	r.textDirty = true

	log.Printf("[Render] Layers resized to %dx%d", width, height)
}

// SetText 更新文本顶点，下一帧重绘文本层
func (r *Renderer) SetText(res font.Result) {
	r.text.SetLayout(res, r.width, r.height)
	r.textDirty = true
}

// Size 返回当前画布尺寸
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Draw 绘制一帧
func (r *Renderer) Draw(screen *ebiten.Image, planes []wave.Instance) {
	if r.waveLayer == nil {
		return
	}

	if r.textDirty {
		r.textLayer.Clear()
		r.text.Draw(r.textLayer)
		r.textDirty = false
	}

	r.waves.Draw(r.waveLayer, planes)
	r.compositor.Draw(screen, r.waveLayer, r.textLayer)
}
