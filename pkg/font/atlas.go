// Package font 实现 SDF 位图字体的排版核心
//
// 包含三部分：
//   - Atlas: 字体图集（全局度量 + 字符表 + 可选字距表）
//   - ComputeMetrics: 根据目标像素尺寸计算对齐到像素网格的排版常量
//   - Layout: 把字符串转换为字形四边形顶点并居中
//
// 本包是纯计算层：排版永远不会返回错误，未知字符回退到 '?'，
// 缓冲区不足时静默截断。
package font

import (
	"errors"
	"fmt"
)

// FlagLowercase 字形 flags 的第 0 位：小写字符，使用 LowScale 缩放
const FlagLowercase uint32 = 1

// FallbackRune 图集中必须存在的回退字符
const FallbackRune = '?'

// ErrMissingFallback 图集缺少 '?' 回退字形
var ErrMissingFallback = errors.New("font atlas has no '?' fallback glyph")

// GlobalMetrics 字体全局常量
// 所有长度都以图集像素为单位（与 Glyph.Rect 相同的坐标系）
type GlobalMetrics struct {
	CapHeight    float64 `yaml:"cap_height"`
	XHeight      float64 `yaml:"x_height"`
	Ascent       float64 `yaml:"ascent"`
	Descent      float64 `yaml:"descent"`
	LineGap      float64 `yaml:"line_gap"`
	SpaceAdvance float64 `yaml:"space_advance"`
	Aspect       float64 `yaml:"aspect"`
	IX           float64 `yaml:"ix"`
	IY           float64 `yaml:"iy"`
	RowHeight    float64 `yaml:"row_height"`
}

// Glyph 单个字形记录
type Glyph struct {
	// Rect 字形在图集中的矩形 (x0, y0, x1, y1)，y0 为上边
	Rect     [4]float64
	BearingX float64
	AdvanceX float64
	Flags    uint32
}

// IsLowercase 返回字形是否属于小写类
func (g Glyph) IsLowercase() bool {
	return g.Flags&FlagLowercase != 0
}

// Width 返回字形矩形宽度
func (g Glyph) Width() float64 {
	return g.Rect[2] - g.Rect[0]
}

// KernPair 相邻字符对
type KernPair struct {
	Left, Right rune
}

// KerningTable 字距调整表
// nil 表和缺失的字符对都视为 0
type KerningTable map[KernPair]float64

// Lookup 查询 (left, right) 的字距调整量
func (k KerningTable) Lookup(left, right rune) float64 {
	if k == nil {
		return 0
	}
	return k[KernPair{Left: left, Right: right}]
}

// Atlas 字体图集
// 加载后不可修改，可以在多个排版调用之间共享
type Atlas struct {
	GlobalMetrics
	Chars   map[rune]Glyph
	Kerning KerningTable
}

// Glyph 查找字符对应的字形
// 找不到时返回 '?' 字形，并返回实际使用的字符（用于字距查询）
func (a *Atlas) Glyph(r rune) (Glyph, rune) {
	if g, ok := a.Chars[r]; ok {
		return g, r
	}
	return a.Chars[FallbackRune], FallbackRune
}

// Validate 验证图集满足排版前提条件
//
// 检查项：
//   - 必须包含 '?' 回退字形
//   - CapHeight、XHeight、RowHeight、Aspect 必须为正数
//
// 返回:
//   - error: 验证失败时返回错误，成功返回 nil
func (a *Atlas) Validate() error {
	if _, ok := a.Chars[FallbackRune]; !ok {
		return ErrMissingFallback
	}
	if a.CapHeight <= 0 {
		return fmt.Errorf("cap_height must be positive, got %v", a.CapHeight)
	}
	if a.XHeight <= 0 {
		return fmt.Errorf("x_height must be positive, got %v", a.XHeight)
	}
	if a.RowHeight <= 0 {
		return fmt.Errorf("row_height must be positive, got %v", a.RowHeight)
	}
	if a.Aspect <= 0 {
		return fmt.Errorf("aspect must be positive, got %v", a.Aspect)
	}
	return nil
}
