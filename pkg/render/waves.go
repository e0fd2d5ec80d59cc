package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/waterfx/pkg/wave"
)

// WaveRenderer 把水波平面快照绘制到水波层
//
// 每个活跃平面绘制一次扰动贴图：以平面中心旋转、缩放后平移到指针位置，
// 透明度乘以平面 alpha，叠加混合累积成高度场。
type WaveRenderer struct {
	plane     *ebiten.Image
	planeSize float64
}

// NewWaveRenderer 创建水波渲染器
//
// 参数:
//   - plane: 扰动贴图
//   - planeSize: 平面在 scale=1 时的边长（像素）
func NewWaveRenderer(plane *ebiten.Image, planeSize float64) *WaveRenderer {
	return &WaveRenderer{plane: plane, planeSize: planeSize}
}

// Draw 清空 dst 并绘制所有平面
func (r *WaveRenderer) Draw(dst *ebiten.Image, planes []wave.Instance) {
	dst.Clear()

	b := r.plane.Bounds()
	for _, p := range planes {
		op := &ebiten.DrawImageOptions{}
		op.GeoM = PlaneGeoM(p, b.Dx(), b.Dy(), r.planeSize)
		op.ColorScale.ScaleAlpha(float32(p.Alpha))
		op.Blend = ebiten.BlendLighter
		op.Filter = ebiten.FilterLinear
		dst.DrawImage(r.plane, op)
	}
}

// PlaneGeoM 计算单个平面的变换矩阵
// 贴图中心对齐平面中心，先缩放到 planeSize*scale，再旋转，最后平移到 translation
func PlaneGeoM(p wave.Instance, imgW, imgH int, planeSize float64) ebiten.GeoM {
	var g ebiten.GeoM
	if imgW <= 0 || imgH <= 0 {
		return g
	}
	g.Translate(-float64(imgW)/2, -float64(imgH)/2)
	g.Scale(planeSize*p.Scale/float64(imgW), planeSize*p.Scale/float64(imgH))
	g.Rotate(p.Rotation)
	g.Translate(p.Translation.X, p.Translation.Y)
	return g
}
