package font

import (
	"fmt"
	"log"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// atlasFile 图集描述文件格式
//
// 字段名与 SDF 字体工具导出的 JSON 一致（cap_height、chars、kern ...）。
// JSON 是 YAML 的子集，因此同一个解析器既能读取原始 JSON，也能读取 YAML。
type atlasFile struct {
	GlobalMetrics `yaml:",inline"`
	Chars         map[string]glyphFile `yaml:"chars"`
	Kern          map[string]float64   `yaml:"kern,omitempty"`
}

type glyphFile struct {
	Rect     []float64 `yaml:"rect,flow"`
	BearingX float64   `yaml:"bearing_x"`
	AdvanceX float64   `yaml:"advance_x"`
	Flags    uint32    `yaml:"flags"`
}

// LoadAtlas 从文件加载字体图集
//
// 参数:
//   - path: 图集描述文件路径（.json 或 .yaml）
//
// 返回:
//   - *Atlas: 验证通过的图集
//   - error: 读取、解析或验证失败时返回错误
func LoadAtlas(path string) (*Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font atlas: %w", err)
	}
	atlas, err := ParseAtlas(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return atlas, nil
}

// ParseAtlas 解析图集描述数据并验证
func ParseAtlas(data []byte) (*Atlas, error) {
	var file atlasFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse font atlas: %w", err)
	}

	atlas := &Atlas{
		GlobalMetrics: file.GlobalMetrics,
		Chars:         make(map[rune]Glyph, len(file.Chars)),
	}

	for key, g := range file.Chars {
		runes := []rune(key)
		if len(runes) != 1 {
			return nil, fmt.Errorf("invalid chars key %q: want exactly one character", key)
		}
		if len(g.Rect) != 4 {
			return nil, fmt.Errorf("glyph %q: rect has %d values, want 4", key, len(g.Rect))
		}
		atlas.Chars[runes[0]] = Glyph{
			Rect:     [4]float64{g.Rect[0], g.Rect[1], g.Rect[2], g.Rect[3]},
			BearingX: g.BearingX,
			AdvanceX: g.AdvanceX,
			Flags:    g.Flags,
		}
	}

	if len(file.Kern) > 0 {
		atlas.Kerning = make(KerningTable, len(file.Kern))
		for key, adjust := range file.Kern {
			runes := []rune(key)
			if len(runes) != 2 {
				log.Printf("[FontAtlas] Warning: skip kerning key %q (want 2 characters)", key)
				continue
			}
			atlas.Kerning[KernPair{Left: runes[0], Right: runes[1]}] = adjust
		}
	}

	if err := atlas.Validate(); err != nil {
		return nil, fmt.Errorf("invalid font atlas: %w", err)
	}
	return atlas, nil
}

// MarshalAtlas 把图集序列化为 YAML（字段名与 JSON 格式一致）
func MarshalAtlas(a *Atlas) ([]byte, error) {
	file := atlasFile{
		GlobalMetrics: a.GlobalMetrics,
		Chars:         make(map[string]glyphFile, len(a.Chars)),
	}
	for r, g := range a.Chars {
		file.Chars[string(r)] = glyphFile{
			Rect:     []float64{g.Rect[0], g.Rect[1], g.Rect[2], g.Rect[3]},
			BearingX: g.BearingX,
			AdvanceX: g.AdvanceX,
			Flags:    g.Flags,
		}
	}
	if len(a.Kerning) > 0 {
		file.Kern = make(map[string]float64, len(a.Kerning))
		for pair, adjust := range a.Kerning {
			file.Kern[string([]rune{pair.Left, pair.Right})] = adjust
		}
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal font atlas: %w", err)
	}
	return data, nil
}

// Runes 返回图集包含的全部字符（升序）
func (a *Atlas) Runes() []rune {
	runes := make([]rune, 0, len(a.Chars))
	for r := range a.Chars {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return runes
}
