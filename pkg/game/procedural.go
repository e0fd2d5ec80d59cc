package game

import (
	"image"
	"image/color"
	"math"
)

// 程序生成贴图的缓存键
const (
	GeneratedBackgroundKey = "generated:background"
	GeneratedDistortionKey = "generated:distortion"
)

// OceanImage 生成背景贴图：自上而下由浅到深的海水渐变，叠加细条纹
// 条纹让扰动在没有背景图时也清晰可见
//
// 参数:
//   - w, h: 贴图尺寸（像素），小于 1 时按 1 处理
//
// 返回:
//   - *image.RGBA: 不透明的背景贴图
func OceanImage(w, h int) *image.RGBA {
	w = max(w, 1)
	h = max(h, 1)
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	top := [3]float64{46, 134, 171}
	bottom := [3]float64{8, 38, 74}
	period := float64(max(min(w, h)/24, 4))

	for y := 0; y < h; y++ {
		t := float64(y) / float64(max(h-1, 1))
		for x := 0; x < w; x++ {
			stripe := 0.5 + 0.5*math.Sin(2*math.Pi*(float64(x)+0.5*float64(y))/period)
			shade := 0.9 + 0.1*stripe
			var c [3]uint8
			for i := range c {
				v := (top[i]*(1-t) + bottom[i]*t) * shade
				c[i] = uint8(math.Round(math.Min(v, 255)))
			}
			img.SetRGBA(x, y, color.RGBA{R: c[0], G: c[1], B: c[2], A: 255})
		}
	}
	return img
}

// DistortionMask 生成水波平面贴图：圆环高度场
//
// 圆环半径为边长的 0.36，宽度为边长的 0.12，强度按余弦平滑衰减，
// 并沿圆周按 cos(3θ) 起伏，使平面旋转可见。
// 像素是预乘的灰度值，合成着色器只读取 R 通道。
//
// 参数:
//   - size: 贴图边长（像素），小于 1 时按 1 处理
//
// 返回:
//   - *image.RGBA: 正方形贴图，边缘完全透明
func DistortionMask(size int) *image.RGBA {
	size = max(size, 1)
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	s := float64(size)
	radius := 0.36 * s
	halfWidth := 0.06 * s
	center := s / 2

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			d := math.Abs(math.Hypot(dx, dy)-radius) / halfWidth
			if d >= 1 {
				continue
			}
			lobe := 0.75 + 0.25*math.Cos(3*math.Atan2(dy, dx))
			v := uint8(math.Round(255 * lobe * (0.5 + 0.5*math.Cos(math.Pi*d))))
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: v})
		}
	}
	return img
}
