package render

import (
	_ "embed"
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

//go:embed shaders/composite.kage
var compositeShaderSrc []byte

// Compositor 合成背景、水波高度场和文本层
//
// 高度场的梯度决定采样偏移，背景和文本按偏移采样后叠加输出到屏幕。
type Compositor struct {
	shader     *ebiten.Shader
	force      float64
	background *ebiten.Image
}

// NewCompositor 创建合成器
func NewCompositor(force float64) (*Compositor, error) {
	shader, err := ebiten.NewShader(compositeShaderSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to compile composite shader: %w", err)
	}
	return &Compositor{shader: shader, force: force}, nil
}

// SetBackground 设置画布尺寸的背景层，src 按 cover 方式缩放铺满
func (c *Compositor) SetBackground(src *ebiten.Image, width, height int) {
	if c.background != nil {
		c.background.Deallocate()
	}
	c.background = ebiten.NewImage(width, height)

	b := src.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM = CoverGeoM(b.Dx(), b.Dy(), width, height)
	op.Filter = ebiten.FilterLinear
	c.background.DrawImage(src, op)
}

// Draw 合成到 dst
// waves 和 text 必须与背景层尺寸相同
func (c *Compositor) Draw(dst, waves, text *ebiten.Image) {
	if c.background == nil {
		return
	}
	b := c.background.Bounds()
	w, h := b.Dx(), b.Dy()

	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = c.background
	op.Images[1] = waves
	op.Images[2] = text
	op.Uniforms = CompositeUniforms(c.force, w, h)
	dst.DrawRectShader(w, h, c.shader, op)
}

// CompositeUniforms 返回合成着色器参数
// 位移尺度和差分步长都随画布短边缩放，保证不同分辨率下效果一致
func CompositeUniforms(force float64, width, height int) map[string]any {
	short := float64(min(width, height))
	return map[string]any{
		"Force":     float32(force),
		"Amplitude": float32(short),
		"Step":      float32(math.Max(1, math.Round(short/128))),
	}
}

// CoverGeoM 计算把 srcW x srcH 的图按 cover 方式缩放并居中到 dstW x dstH 的矩阵
func CoverGeoM(srcW, srcH, dstW, dstH int) ebiten.GeoM {
	var g ebiten.GeoM
	if srcW <= 0 || srcH <= 0 {
		return g
	}
	s := math.Max(float64(dstW)/float64(srcW), float64(dstH)/float64(srcH))
	g.Scale(s, s)
	g.Translate((float64(dstW)-float64(srcW)*s)/2, (float64(dstH)-float64(srcH)*s)/2)
	return g
}
