package font

import (
	"strings"
	"testing"
)

// newTestAtlas 创建测试用图集
// aspect=1、ix=iy=0，字形矩形宽度等于前进宽度，便于手算
func newTestAtlas() *Atlas {
	return &Atlas{
		GlobalMetrics: GlobalMetrics{
			CapHeight:    10,
			XHeight:      7,
			Ascent:       10,
			Descent:      2,
			LineGap:      0,
			SpaceAdvance: 4,
			Aspect:       1,
			IX:           0,
			IY:           0,
			RowHeight:    12,
		},
		Chars: map[rune]Glyph{
			'A': {Rect: [4]float64{0, 0, 8, 12}, BearingX: 0, AdvanceX: 8},
			'B': {Rect: [4]float64{8, 0, 15, 12}, BearingX: 0, AdvanceX: 7},
			'?': {Rect: [4]float64{15, 0, 21, 12}, BearingX: 0, AdvanceX: 6},
			'a': {Rect: [4]float64{21, 0, 27, 12}, BearingX: 0.5, AdvanceX: 6, Flags: FlagLowercase},
		},
	}
}

func unitMetrics() Metrics {
	return Metrics{UpScale: 1, LowScale: 1, AscentScale: 10, LineHeight: 12, Size: 10}
}

// TestLayoutRaw_AB 两个字形的完整排版示例
func TestLayoutRaw_AB(t *testing.T) {
	atlas := newTestAtlas()
	res := LayoutRaw("AB", Point{}, unitMetrics(), atlas, nil, DefaultCapacity)

	if len(res.Vertices) != 60 {
		t.Fatalf("expected 60 floats, got %d", len(res.Vertices))
	}
	if res.VertexCount != 12 {
		t.Errorf("expected 12 vertices, got %d", res.VertexCount)
	}
	if res.GlyphCount() != 2 {
		t.Errorf("expected 2 glyphs, got %d", res.GlyphCount())
	}

	want := Rect{X: 0, Y: 0, Width: 8 + 7, Height: 12}
	if res.Bounds != want {
		t.Errorf("bounds: got %+v, want %+v", res.Bounds, want)
	}

	a := res.Quad(0)
	if a.Left != 0 || a.Right != 8 || a.Bottom != -12 || a.Top != 0 {
		t.Errorf("glyph A quad: got %+v", a)
	}
	if a.UV != atlas.Chars['A'].Rect {
		t.Errorf("glyph A uv: got %v, want %v", a.UV, atlas.Chars['A'].Rect)
	}

	b := res.Quad(1)
	if b.Left != 8 || b.Right != 15 {
		t.Errorf("glyph B quad: got %+v", b)
	}
}

// TestLayoutRaw_VertexOrder 验证两个三角形的顶点顺序
func TestLayoutRaw_VertexOrder(t *testing.T) {
	res := LayoutRaw("A", Point{}, unitMetrics(), newTestAtlas(), nil, DefaultCapacity)

	want := []float32{
		0, 0, 0, 0, 1,
		8, 0, 8, 0, 1,
		0, -12, 0, 12, 1,

		0, -12, 0, 12, 1,
		8, 0, 8, 0, 1,
		8, -12, 8, 12, 1,
	}
	if len(res.Vertices) != len(want) {
		t.Fatalf("expected %d floats, got %d", len(want), len(res.Vertices))
	}
	for i := range want {
		if res.Vertices[i] != want[i] {
			t.Errorf("vertex float %d: got %v, want %v", i, res.Vertices[i], want[i])
		}
	}
}

func TestLayoutRaw_SpaceAndNewline(t *testing.T) {
	atlas := newTestAtlas()
	m := unitMetrics()

	t.Run("space advances pen without quad", func(t *testing.T) {
		res := LayoutRaw("A B", Point{}, m, atlas, nil, DefaultCapacity)
		if res.GlyphCount() != 2 {
			t.Fatalf("expected 2 glyphs, got %d", res.GlyphCount())
		}
		if got := res.Quad(1).Left; got != 12 {
			t.Errorf("B left: got %v, want 12", got)
		}
		if res.Bounds.Width != 19 {
			t.Errorf("width: got %v, want 19", res.Bounds.Width)
		}
	})

	t.Run("newline moves down one line", func(t *testing.T) {
		res := LayoutRaw("AA\nB", Point{}, m, atlas, nil, DefaultCapacity)
		if res.GlyphCount() != 3 {
			t.Fatalf("expected 3 glyphs, got %d", res.GlyphCount())
		}
		b := res.Quad(2)
		if b.Left != 0 || b.Bottom != -24 {
			t.Errorf("B quad after newline: got %+v", b)
		}
		// 第一行更宽
		if res.Bounds.Width != 16 {
			t.Errorf("width: got %v, want 16", res.Bounds.Width)
		}
		if res.Bounds.Height != 24 {
			t.Errorf("height: got %v, want 24", res.Bounds.Height)
		}
		if res.Pen.X != 7 {
			t.Errorf("final pen x: got %v, want 7", res.Pen.X)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		res := LayoutRaw("", Point{}, m, atlas, nil, DefaultCapacity)
		if res.VertexCount != 0 {
			t.Errorf("expected no vertices, got %d", res.VertexCount)
		}
		if res.Bounds != (Rect{Height: 12}) {
			t.Errorf("bounds: got %+v", res.Bounds)
		}
	})
}

func TestLayoutRaw_FallbackGlyph(t *testing.T) {
	atlas := newTestAtlas()
	atlas.Kerning = KerningTable{{Left: 'A', Right: '?'}: -1}

	res := LayoutRaw("AZ", Point{}, unitMetrics(), atlas, atlas.Kerning, DefaultCapacity)
	if res.GlyphCount() != 2 {
		t.Fatalf("expected 2 glyphs, got %d", res.GlyphCount())
	}

	q := res.Quad(1)
	if q.UV != atlas.Chars['?'].Rect {
		t.Errorf("unknown glyph should use '?': uv %v", q.UV)
	}
	// 替代字符参与字距查询
	if q.Left != 7 {
		t.Errorf("fallback glyph left: got %v, want 7", q.Left)
	}
}

func TestLayoutRaw_LowercaseScale(t *testing.T) {
	m := unitMetrics()
	m.LowScale = 2

	res := LayoutRaw("Aa", Point{}, m, newTestAtlas(), nil, DefaultCapacity)
	if got := res.Quad(0).Scale; got != 1 {
		t.Errorf("uppercase scale: got %v, want 1", got)
	}
	q := res.Quad(1)
	if q.Scale != 2 {
		t.Errorf("lowercase scale: got %v, want 2", q.Scale)
	}
	// left = bearing 0.5 * 2 + pen 8
	if q.Left != 9 {
		t.Errorf("lowercase left: got %v, want 9", q.Left)
	}
	if res.Pen.X != 8+12 {
		t.Errorf("pen x: got %v, want 20", res.Pen.X)
	}
}

// TestLayoutRaw_Kerning 字距使第二个字形左移 kern*aspect*scale
func TestLayoutRaw_Kerning(t *testing.T) {
	atlas := newTestAtlas()
	atlas.Aspect = 2

	m := unitMetrics()
	m.UpScale = 1.5

	kerning := KerningTable{{Left: 'A', Right: 'B'}: -0.5}

	plain := LayoutRaw("AB", Point{}, m, atlas, nil, DefaultCapacity)
	kerned := LayoutRaw("AB", Point{}, m, atlas, kerning, DefaultCapacity)

	shift := kerned.Quad(1).Left - plain.Quad(1).Left
	want := -0.5 * atlas.Aspect * m.UpScale
	if shift != want {
		t.Errorf("kerning shift: got %v, want %v", shift, want)
	}
	if kerned.Quad(0) != plain.Quad(0) {
		t.Error("first glyph should not be affected by kerning")
	}
}

func TestLayoutRaw_CapacityBound(t *testing.T) {
	atlas := newTestAtlas()
	texts := []string{"", "A", "AB", "A B\nBA", strings.Repeat("AB?a\n", 40), "ZZZZ"}
	capacities := []int{-1, 0, 29, 30, 59, 60, 61, 90, 1000, DefaultCapacity}

	for _, text := range texts {
		for _, capacity := range capacities {
			res := Layout(text, Point{}, unitMetrics(), atlas, nil, capacity)
			if len(res.Vertices) > capacity && len(res.Vertices) > 0 {
				t.Errorf("text %q capacity %d: emitted %d floats", text, capacity, len(res.Vertices))
			}
			if len(res.Vertices)%FloatsPerGlyph != 0 {
				t.Errorf("text %q capacity %d: partial glyph (%d floats)", text, capacity, len(res.Vertices))
			}
		}
	}

	// 容量正好放下两个字形
	if res := LayoutRaw("AB", Point{}, unitMetrics(), atlas, nil, 60); res.GlyphCount() != 2 {
		t.Errorf("capacity 60: expected 2 glyphs, got %d", res.GlyphCount())
	}
	if res := LayoutRaw("AB", Point{}, unitMetrics(), atlas, nil, 59); res.GlyphCount() != 1 {
		t.Errorf("capacity 59: expected 1 glyph, got %d", res.GlyphCount())
	}
}

func TestLayout_Deterministic(t *testing.T) {
	atlas := newTestAtlas()
	m := ComputeMetrics(atlas.GlobalMetrics, 23, 0)
	text := "AaB?\nB a A"

	first := Layout(text, Point{}, m, atlas, atlas.Kerning, DefaultCapacity)
	second := Layout(text, Point{}, m, atlas, atlas.Kerning, DefaultCapacity)

	if len(first.Vertices) != len(second.Vertices) {
		t.Fatalf("length differs: %d vs %d", len(first.Vertices), len(second.Vertices))
	}
	for i := range first.Vertices {
		if first.Vertices[i] != second.Vertices[i] {
			t.Fatalf("vertex float %d differs: %v vs %v", i, first.Vertices[i], second.Vertices[i])
		}
	}
	if first.Bounds != second.Bounds {
		t.Errorf("bounds differ: %+v vs %+v", first.Bounds, second.Bounds)
	}
}

// TestLayout_Centering 第二遍起点 = (-pen.x/2, height/2)
func TestLayout_Centering(t *testing.T) {
	atlas := newTestAtlas()
	m := unitMetrics()

	tests := []string{"AB", "A B", "AA\nB", "B\nAAA"}
	for _, text := range tests {
		raw := LayoutRaw(text, Point{}, m, atlas, nil, DefaultCapacity)
		centered := Layout(text, Point{}, m, atlas, nil, DefaultCapacity)

		if centered.Origin.X != -raw.Pen.X/2 {
			t.Errorf("%q: origin x got %v, want %v", text, centered.Origin.X, -raw.Pen.X/2)
		}
		if centered.Origin.Y != raw.Bounds.Height/2 {
			t.Errorf("%q: origin y got %v, want %v", text, centered.Origin.Y, raw.Bounds.Height/2)
		}
		if centered.Bounds.Width != raw.Bounds.Width || centered.Bounds.Height != raw.Bounds.Height {
			t.Errorf("%q: centering changed size: %+v vs %+v", text, centered.Bounds, raw.Bounds)
		}
	}

	// 单行文本水平居中于原点
	res := Layout("AB", Point{}, m, atlas, nil, DefaultCapacity)
	if left, right := res.Quad(0).Left, res.Quad(1).Right; left != -right {
		t.Errorf("single line not centered: left %v right %v", left, right)
	}
}
