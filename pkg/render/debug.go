package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// DebugInfo 调试信息叠加层的内容
type DebugInfo struct {
	TPS, FPS      float64
	Width, Height int
	ActivePlanes  int
	Glyphs        int
	Moving        bool
}

// Lines 返回叠加层显示的文本行
func (d DebugInfo) Lines() []string {
	return []string{
		fmt.Sprintf("TPS %.1f  FPS %.1f", d.TPS, d.FPS),
		fmt.Sprintf("canvas %dx%d", d.Width, d.Height),
		fmt.Sprintf("planes %d  glyphs %d", d.ActivePlanes, d.Glyphs),
		fmt.Sprintf("moving %v", d.Moving),
	}
}

// DrawDebug 在左上角绘制调试信息
func DrawDebug(dst *ebiten.Image, face *text.GoTextFace, info DebugInfo) {
	if face == nil {
		return
	}
	margin := face.Size / 2

	op := &text.DrawOptions{}
	op.GeoM.Translate(margin, margin)
	op.ColorScale.ScaleWithColor(color.RGBA{R: 255, G: 240, B: 120, A: 255})
	op.LineSpacing = face.Size * 1.3
	text.Draw(dst, strings.Join(info.Lines(), "\n"), face, op)
}
