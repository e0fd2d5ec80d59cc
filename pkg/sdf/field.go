package sdf

import (
	"image"
	"math"
)

// distanceField 把 alpha 覆盖图转换为有符号距离场
//
// 像素值 0.5 (128) 为轮廓，内部大于 0.5，外部小于 0.5。
// 距离超过 spread 的像素被截断为 0 或 255。
func distanceField(mask *image.Alpha, spread int) []byte {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, w*h)

	inside := func(x, y int) bool {
		return mask.Pix[y*mask.Stride+x] >= 128
	}

	limit := float64(spread)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			in := inside(x, y)
			nearest := limit + 0.5

			// 在 spread 半径内寻找最近的相反像素
			for dy := -spread; dy <= spread; dy++ {
				sy := y + dy
				if sy < 0 || sy >= h {
					continue
				}
				for dx := -spread; dx <= spread; dx++ {
					sx := x + dx
					if sx < 0 || sx >= w {
						continue
					}
					if inside(sx, sy) == in {
						continue
					}
					if d := math.Hypot(float64(dx), float64(dy)); d < nearest {
						nearest = d
					}
				}
			}

			// 像素中心到轮廓的距离约为到相反像素中心距离减半个像素
			d := math.Min(nearest-0.5, limit)
			if !in {
				d = -d
			}
			out[y*w+x] = distanceToByte(d, limit)
		}
	}
	return out
}

// distanceToByte 把 [-spread, spread] 的距离映射到 [0, 255]
func distanceToByte(d, spread float64) byte {
	v := 0.5 + d/(2*spread)
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return byte(math.Round(v * 255))
}
