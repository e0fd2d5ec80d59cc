package render

import (
	_ "embed"
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/waterfx/pkg/font"
)

//go:embed shaders/text.kage
var textShaderSrc []byte

// maxBatchVertices 单次绘制的最大顶点数（uint16 索引，6 的倍数）
const maxBatchVertices = 65532

// TextRenderer SDF 文本渲染器
//
// 持有图集贴图和一份转换好的顶点数据。排版结果只在尺寸或文本变化时更新，
// 每帧只需把顶点绘制到文本层。
type TextRenderer struct {
	shader *ebiten.Shader
	atlas  *ebiten.Image
	spread float64
	color  color.RGBA

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewTextRenderer 创建文本渲染器
//
// 参数:
//   - atlas: 距离场图集贴图
//   - spread: 距离场扩散半径（图集像素）
//   - clr: 文本颜色（非预乘）
//
// 返回:
//   - *TextRenderer: 渲染器
//   - error: 着色器编译失败时返回错误
func NewTextRenderer(atlas *ebiten.Image, spread float64, clr color.RGBA) (*TextRenderer, error) {
	shader, err := ebiten.NewShader(textShaderSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to compile text shader: %w", err)
	}
	return &TextRenderer{
		shader:  shader,
		atlas:   atlas,
		spread:  spread,
		color:   clr,
		indices: sequentialIndices(maxBatchVertices),
	}, nil
}

// SetLayout 把排版结果转换为画布像素坐标下的顶点
func (r *TextRenderer) SetLayout(res font.Result, width, height int) {
	r.vertices = BuildVertices(r.vertices[:0], res, width, height)
}

// VertexCount 返回当前顶点数量
func (r *TextRenderer) VertexCount() int {
	return len(r.vertices)
}

// Draw 把文本绘制到 dst（通常是清空后的文本层）
func (r *TextRenderer) Draw(dst *ebiten.Image) {
	if len(r.vertices) == 0 {
		return
	}

	op := &ebiten.DrawTrianglesShaderOptions{}
	op.Images[0] = r.atlas
	op.Uniforms = map[string]any{
		"Color":  premultiplied(r.color),
		"Spread": float32(r.spread),
	}

	for start := 0; start < len(r.vertices); start += maxBatchVertices {
		end := min(start+maxBatchVertices, len(r.vertices))
		dst.DrawTrianglesShader(r.vertices[start:end], r.indices[:end-start], r.shader, op)
	}
}

// Transform 返回排版坐标到画布像素坐标的平移量
// 排版坐标以文本中心为原点、y 轴向上；画布坐标原点在左上角、y 轴向下
func Transform(width, height int) (float64, float64) {
	return math.Round(float64(width) / 2), math.Round(float64(height) / 2)
}

// BuildVertices 把扁平顶点数组转换为 ebiten 顶点，追加到 dst
//
// 每个顶点 (x, y, u, v, scale) 映射为：
//   - DstX = cx + x，DstY = cy - y
//   - SrcX/SrcY = 图集像素坐标 (u, v)
//   - Custom0 = scale
func BuildVertices(dst []ebiten.Vertex, res font.Result, width, height int) []ebiten.Vertex {
	cx, cy := Transform(width, height)
	v := res.Vertices
	for i := 0; i+font.FloatsPerVertex <= len(v); i += font.FloatsPerVertex {
		dst = append(dst, ebiten.Vertex{
			DstX:    float32(cx) + v[i],
			DstY:    float32(cy) - v[i+1],
			SrcX:    v[i+2],
			SrcY:    v[i+3],
			ColorR:  1,
			ColorG:  1,
			ColorB:  1,
			ColorA:  1,
			Custom0: v[i+4],
		})
	}
	return dst
}

func sequentialIndices(n int) []uint16 {
	indices := make([]uint16, n)
	for i := range indices {
		indices[i] = uint16(i)
	}
	return indices
}

func premultiplied(c color.RGBA) []float32 {
	a := float32(c.A) / 255
	return []float32{
		float32(c.R) / 255 * a,
		float32(c.G) / 255 * a,
		float32(c.B) / 255 * a,
		a,
	}
}
