package font

import (
	"math"
	"unicode/utf8"
)

const (
	// FloatsPerVertex 每个顶点的浮点数：x, y, u, v, scale
	FloatsPerVertex = 5
	// VerticesPerGlyph 每个字形两个三角形
	VerticesPerGlyph = 6
	// FloatsPerGlyph 每个字形占用的浮点数
	FloatsPerGlyph = FloatsPerVertex * VerticesPerGlyph

	// DefaultCapacity 默认顶点缓冲区容量（浮点数）
	DefaultCapacity = 300000
)

// Point 二维坐标（y 轴向上）
type Point struct {
	X, Y float64
}

// Rect 文本包围盒
// X, Y 为排版起点（左上角），Height 向下延伸
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Result 一次排版的结果
// 每次调用都会生成新的值，调用方独占
type Result struct {
	// Vertices 扁平顶点数组，每个字形 30 个浮点数
	Vertices []float32
	// VertexCount 顶点数量（len(Vertices) / 5）
	VertexCount int
	// Bounds 包围盒
	Bounds Rect
	// Origin 本次排版的起点
	Origin Point
	// Pen 排版结束时的笔位置
	Pen Point
}

// GlyphCount 返回结果中包含的字形数量
func (r Result) GlyphCount() int {
	return r.VertexCount / VerticesPerGlyph
}

// Quad 字形在屏幕上的矩形
type Quad struct {
	Left, Bottom, Right, Top float64
	Scale                    float64
	UV                       [4]float64
}

// Quad 返回第 i 个字形的矩形（从顶点数组还原）
func (r Result) Quad(i int) Quad {
	v := r.Vertices[i*FloatsPerGlyph : (i+1)*FloatsPerGlyph]
	// 顶点 0 = (l, t)，顶点 5 = (r, b)
	return Quad{
		Left:   float64(v[0]),
		Top:    float64(v[1]),
		Right:  float64(v[25]),
		Bottom: float64(v[26]),
		Scale:  float64(v[4]),
		UV:     [4]float64{float64(v[2]), float64(v[3]), float64(v[27]), float64(v[28])},
	}
}

// Layout 排版并居中文本
//
// 排版分两步：先从 origin 自然排版一次得到最终范围，
// 再以 (-pen.x/2, height/2) 为起点重新排版，使文本在原点处居中。
// 居中需要完整走完一遍之后才知道的尺寸，所以第二遍无法省略。
//
// 参数:
//   - text: 文本，'\n' 换行
//   - origin: 第一遍的起点
//   - m: 排版常量（见 ComputeMetrics）
//   - atlas: 字体图集，必须包含 '?'
//   - kerning: 字距表，可为 nil
//   - capacity: 顶点缓冲区容量（浮点数）
//
// 返回:
//   - Result: 居中后的排版结果
func Layout(text string, origin Point, m Metrics, atlas *Atlas, kerning KerningTable, capacity int) Result {
	j := layoutJob{text: text, metrics: m, atlas: atlas, kerning: kerning, capacity: capacity}
	return j.recenter(j.computeRaw(origin))
}

// LayoutRaw 从 origin 自然排版（不居中）
func LayoutRaw(text string, origin Point, m Metrics, atlas *Atlas, kerning KerningTable, capacity int) Result {
	j := layoutJob{text: text, metrics: m, atlas: atlas, kerning: kerning, capacity: capacity}
	return j.computeRaw(origin)
}

// CenterOrigin 返回使 raw 居中的第二遍起点
func CenterOrigin(raw Result) Point {
	return Point{X: -raw.Pen.X / 2, Y: raw.Bounds.Height / 2}
}

type layoutJob struct {
	text     string
	metrics  Metrics
	atlas    *Atlas
	kerning  KerningTable
	capacity int
}

func (j layoutJob) recenter(raw Result) Result {
	return j.computeRaw(CenterOrigin(raw))
}

func (j layoutJob) computeRaw(origin Point) Result {
	m := j.metrics
	pen := origin
	prev := ' '
	maxWidth := origin.X

	size := FloatsPerGlyph * utf8.RuneCountInString(j.text)
	if size > j.capacity {
		size = j.capacity
	}
	if size < 0 {
		size = 0
	}
	vertices := make([]float32, 0, size)

	for _, r := range j.text {
		// 剩余空间不足一个字形时静默截断
		if j.capacity-len(vertices) < FloatsPerGlyph {
			break
		}

		switch r {
		case '\n':
			maxWidth = math.Max(maxWidth, pen.X)
			pen.X = origin.X
			pen.Y -= m.LineHeight
			prev = ' '
			continue
		case ' ':
			pen.X += j.atlas.SpaceAdvance * m.UpScale
			prev = ' '
			continue
		}

		glyph, cur := j.atlas.Glyph(r)
		kern := j.kerning.Lookup(prev, cur)

		var q Quad
		q, pen.X = placeGlyph(pen, m, &j.atlas.GlobalMetrics, glyph, kern)
		vertices = appendQuad(vertices, q)
		prev = cur
	}

	// 最后一行也计入宽度
	maxWidth = math.Max(maxWidth, pen.X)

	return Result{
		Vertices:    vertices,
		VertexCount: len(vertices) / FloatsPerVertex,
		Bounds: Rect{
			X:      origin.X,
			Y:      origin.Y,
			Width:  maxWidth - origin.X,
			Height: origin.Y - pen.Y + m.LineHeight,
		},
		Origin: origin,
		Pen:    pen,
	}
}

// placeGlyph 计算字形矩形，返回矩形和前进后的笔 x 坐标
func placeGlyph(pen Point, m Metrics, g *GlobalMetrics, glyph Glyph, kern float64) (Quad, float64) {
	scale := m.UpScale
	if glyph.IsLowercase() {
		scale = m.LowScale
	}
	ratio := g.Aspect * scale

	bottom := (pen.Y - m.AscentScale) - (g.Descent+g.IY)*scale
	left := (glyph.BearingX+kern-g.IX)*ratio + pen.X

	q := Quad{
		Left:   left,
		Bottom: bottom,
		Right:  left + glyph.Width()*ratio,
		Top:    bottom + g.RowHeight*scale,
		Scale:  scale,
		UV:     glyph.Rect,
	}
	return q, pen.X + (glyph.AdvanceX+kern)*ratio
}

// appendQuad 追加两个三角形（6 个顶点）
func appendQuad(dst []float32, q Quad) []float32 {
	l, b := float32(q.Left), float32(q.Bottom)
	r, t := float32(q.Right), float32(q.Top)
	u0, v0 := float32(q.UV[0]), float32(q.UV[1])
	u1, v1 := float32(q.UV[2]), float32(q.UV[3])
	s := float32(q.Scale)

	return append(dst,
		l, t, u0, v0, s,
		r, t, u1, v0, s,
		l, b, u0, v1, s,

		l, b, u0, v1, s,
		r, t, u1, v0, s,
		r, b, u1, v1, s,
	)
}
