// Package sdf 从 TrueType/OpenType 字体生成 SDF 字体图集
//
// 生成的 font.Atlas 与预制图集文件格式一致，可以直接交给排版引擎使用，
// 距离场图像为单通道灰度图，0.5 为字形轮廓。
package sdf

import (
	"fmt"
	"image"
	"log"
	"math"
	"runtime"
	"sort"
	"unicode"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/errgroup"

	"github.com/decker502/waterfx/pkg/font"
)

const (
	// DefaultSize 默认烘焙字号（像素）
	DefaultSize = 48
	// DefaultSpread 默认距离场范围（像素），同时作为字形单元的内边距
	DefaultSpread = 6
	// DefaultWidth 默认图集宽度
	DefaultWidth = 1024
	// cellGap 图集中相邻单元的间距
	cellGap = 1
)

// Options 烘焙参数
type Options struct {
	// Size 烘焙字号（像素/em）
	Size float64
	// Spread 距离场范围（像素）
	Spread int
	// Width 图集宽度（像素）
	Width int
	// Runes 字符集，为空时使用 DefaultCharset
	Runes []rune
}

// DefaultOptions 返回默认烘焙参数
func DefaultOptions() Options {
	return Options{
		Size:   DefaultSize,
		Spread: DefaultSpread,
		Width:  DefaultWidth,
	}
}

// DefaultCharset 可打印 ASCII 字符（不含空格）
func DefaultCharset() []rune {
	runes := make([]rune, 0, 94)
	for r := rune(33); r <= 126; r++ {
		runes = append(runes, r)
	}
	return runes
}

// DefaultFont 返回内置的 Go Bold 字体数据
func DefaultFont() []byte {
	return gobold.TTF
}

type glyphCell struct {
	r       rune
	mask    *image.Alpha
	field   []byte
	bearing int
	advance float64
}

// Bake 烘焙 SDF 字体图集
//
// 参数:
//   - ttf: 字体文件数据，为 nil 时使用 Go Bold
//   - opts: 烘焙参数，零值字段使用默认值
//
// 返回:
//   - *font.Atlas: 已验证的图集描述（始终包含 '?'）
//   - *image.Gray: 距离场图像
//   - error: 字体解析失败或字符集无法放入图集时返回错误
func Bake(ttf []byte, opts Options) (*font.Atlas, *image.Gray, error) {
	opts = withDefaults(opts)
	if ttf == nil {
		ttf = DefaultFont()
	}

	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    opts.Size,
		DPI:     72,
		Hinting: xfont.HintingNone,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	runes := charset(opts.Runes)
	pad := opts.Spread

	metrics := faceMetrics(face)
	ascent := int(math.Ceil(metrics.Ascent))
	descent := int(math.Ceil(metrics.Descent))
	rowHeight := ascent + descent + 2*pad

	// 光栅化（face 不能并发使用）
	var buf sfnt.Buffer
	cells := make([]*glyphCell, 0, len(runes))
	for _, r := range runes {
		idx, err := parsed.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			if r == font.FallbackRune {
				return nil, nil, font.ErrMissingFallback
			}
			log.Printf("[SDF] Warning: font has no glyph for %q, skipped", r)
			continue
		}
		cell, ok := rasterize(face, r, pad, ascent, rowHeight)
		if !ok {
			log.Printf("[SDF] Warning: failed to rasterize %q, skipped", r)
			continue
		}
		cells = append(cells, cell)
	}

	// 距离场计算彼此独立，可以并行
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, cell := range cells {
		g.Go(func() error {
			cell.field = distanceField(cell.mask, opts.Spread)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	packer := newShelfPacker(opts.Width, cellGap)
	type placed struct {
		cell *glyphCell
		x, y int
	}
	positions := make([]placed, 0, len(cells))
	for _, cell := range cells {
		b := cell.mask.Bounds()
		x, y, ok := packer.Allocate(b.Dx(), b.Dy())
		if !ok {
			return nil, nil, fmt.Errorf("glyph %q (%dpx) does not fit atlas width %d", cell.r, b.Dx(), opts.Width)
		}
		positions = append(positions, placed{cell: cell, x: x, y: y})
	}

	img := image.NewGray(image.Rect(0, 0, opts.Width, packer.Height()))
	atlas := &font.Atlas{
		GlobalMetrics: font.GlobalMetrics{
			CapHeight:    metrics.CapHeight,
			XHeight:      metrics.XHeight,
			Ascent:       metrics.Ascent,
			Descent:      float64(descent),
			LineGap:      metrics.LineGap,
			SpaceAdvance: metrics.SpaceAdvance,
			Aspect:       1,
			IX:           float64(pad),
			IY:           float64(pad),
			RowHeight:    float64(rowHeight),
		},
		Chars: make(map[rune]font.Glyph, len(positions)),
	}

	for _, p := range positions {
		b := p.cell.mask.Bounds()
		w, h := b.Dx(), b.Dy()
		for row := 0; row < h; row++ {
			copy(img.Pix[(p.y+row)*img.Stride+p.x:], p.cell.field[row*w:(row+1)*w])
		}

		var flags uint32
		if unicode.IsLower(p.cell.r) {
			flags |= font.FlagLowercase
		}
		atlas.Chars[p.cell.r] = font.Glyph{
			Rect:     [4]float64{float64(p.x), float64(p.y), float64(p.x + w), float64(p.y + h)},
			BearingX: float64(p.cell.bearing),
			AdvanceX: p.cell.advance,
			Flags:    flags,
		}
	}

	atlas.Kerning = kerningPairs(face, atlas.Runes())

	if err := atlas.Validate(); err != nil {
		return nil, nil, fmt.Errorf("baked atlas is invalid: %w", err)
	}
	log.Printf("[SDF] Baked %d glyphs (%dx%d, size %.0f, spread %d, %d kerning pairs)",
		len(atlas.Chars), img.Bounds().Dx(), img.Bounds().Dy(), opts.Size, opts.Spread, len(atlas.Kerning))
	return atlas, img, nil
}

func withDefaults(opts Options) Options {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Spread <= 0 {
		opts.Spread = DefaultSpread
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	return opts
}

// charset 去重排序，并保证包含 '?'，空格由 SpaceAdvance 处理
func charset(runes []rune) []rune {
	if len(runes) == 0 {
		runes = DefaultCharset()
	}
	seen := map[rune]bool{font.FallbackRune: true}
	out := []rune{font.FallbackRune}
	for _, r := range runes {
		if seen[r] || r == ' ' || r == '\n' || !unicode.IsPrint(r) {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// rasterize 把字形绘制到一个字形单元中
// 单元高度固定为 rowHeight，基线位于 pad+ascent 处，左右各留 pad
func rasterize(face xfont.Face, r rune, pad, ascent, rowHeight int) (*glyphCell, bool) {
	bounds, advance, ok := face.GlyphBounds(r)
	if !ok {
		return nil, false
	}

	minX := bounds.Min.X.Floor()
	maxX := bounds.Max.X.Ceil()
	if maxX < minX {
		maxX = minX
	}

	mask := image.NewAlpha(image.Rect(0, 0, maxX-minX+2*pad, rowHeight))
	drawer := &xfont.Drawer{
		Dst:  mask,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(pad-minX, pad+ascent),
	}
	drawer.DrawString(string(r))

	return &glyphCell{
		r:       r,
		mask:    mask,
		bearing: minX,
		advance: fixedToFloat64(advance),
	}, true
}

// bakedMetrics 烘焙字号下的全局度量（像素）
type bakedMetrics struct {
	Ascent, Descent, LineGap float64
	CapHeight, XHeight       float64
	SpaceAdvance             float64
}

func faceMetrics(face xfont.Face) bakedMetrics {
	fm := face.Metrics()
	m := bakedMetrics{
		Ascent:    fixedToFloat64(fm.Ascent),
		Descent:   fixedToFloat64(fm.Descent),
		CapHeight: fixedToFloat64(fm.CapHeight),
		XHeight:   fixedToFloat64(fm.XHeight),
	}
	m.LineGap = math.Max(fixedToFloat64(fm.Height)-m.Ascent-m.Descent, 0)

	// 旧版 OS/2 表没有 cap/x 高度，用 'H' 和 'x' 的字形高度代替
	if m.CapHeight <= 0 {
		m.CapHeight = inkHeight(face, 'H', m.Ascent)
	}
	if m.XHeight <= 0 {
		m.XHeight = inkHeight(face, 'x', m.CapHeight*0.7)
	}

	if adv, ok := face.GlyphAdvance(' '); ok {
		m.SpaceAdvance = fixedToFloat64(adv)
	}
	return m
}

func inkHeight(face xfont.Face, r rune, fallback float64) float64 {
	bounds, _, ok := face.GlyphBounds(r)
	if !ok || bounds.Min.Y >= 0 {
		return fallback
	}
	return -fixedToFloat64(bounds.Min.Y)
}

// kerningPairs 收集字符集内所有非零字距
func kerningPairs(face xfont.Face, runes []rune) font.KerningTable {
	var table font.KerningTable
	for _, left := range runes {
		for _, right := range runes {
			k := face.Kern(left, right)
			if k == 0 {
				continue
			}
			if table == nil {
				table = make(font.KerningTable)
			}
			table[font.KernPair{Left: left, Right: right}] = fixedToFloat64(k)
		}
	}
	return table
}

func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}
