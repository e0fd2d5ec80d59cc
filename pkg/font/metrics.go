package font

import "math"

// DefaultSizeRatio 字号与画布宽度之比
const DefaultSizeRatio = 0.02 / 0.3

// Metrics 指定字号下的排版常量
//
// LineHeight 和 AscentScale 总是整数，保证基线落在像素边界上，
// 避免 SDF 字形在运行时重采样时出现闪烁。
type Metrics struct {
	UpScale     float64 // 大写字符缩放：size / CapHeight
	LowScale    float64 // 小写字符缩放：使 x 高度为整数像素
	AscentScale float64 // 上升高度（像素，整数）
	LineHeight  float64 // 行高（像素，整数）
	Size        float64 // 请求的字号（像素）
}

// ComputeMetrics 计算指定字号的排版常量
//
// 参数:
//   - g: 字体全局常量
//   - size: 目标字号（大写字母高度，像素）
//   - lineGap: 额外行距（像素），通常为 0
//
// 返回:
//   - Metrics: 对齐到像素网格的排版常量
func ComputeMetrics(g GlobalMetrics, size, lineGap float64) Metrics {
	// 大写字符使用 cap_height 对齐像素
	upScale := size / g.CapHeight

	// 小写字符单独缩放，让 "x" 的高度正好是整数像素
	lowScale := roundHalfUp(g.XHeight*upScale) / g.XHeight

	lineHeight := roundHalfUp((g.Ascent+g.Descent+g.LineGap)*upScale + lineGap)
	ascentScale := roundHalfUp(g.Ascent * upScale)

	return Metrics{
		UpScale:     upScale,
		LowScale:    lowScale,
		AscentScale: ascentScale,
		LineHeight:  lineHeight,
		Size:        size,
	}
}

// FontSize 根据画布宽度计算字号
// ratio <= 0 时使用 DefaultSizeRatio
func FontSize(canvasWidth int, ratio float64) float64 {
	if ratio <= 0 {
		ratio = DefaultSizeRatio
	}
	return roundHalfUp(float64(canvasWidth) * ratio)
}

// roundHalfUp 四舍五入，.5 总是向正无穷方向舍入
// 注意：math.Round 对负数的 .5 是远离零舍入
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
