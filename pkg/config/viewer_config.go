package config

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath 默认配置文件路径（嵌入资源）
const DefaultConfigPath = "data/config.yaml"

// ViewerConfig 水波文字查看器配置
//
// 配置文件位置: data/config.yaml
// 未出现在文件中的字段保持 DefaultViewerConfig 中的默认值。
type ViewerConfig struct {
	// Window 窗口配置
	Window WindowConfig `yaml:"window"`

	// Text 文本配置
	Text TextConfig `yaml:"text"`

	// Font 字体图集配置
	Font FontConfig `yaml:"font"`

	// Waves 水波配置
	Waves WavesConfig `yaml:"waves"`

	// Images 背景和扰动贴图
	Images ImagesConfig `yaml:"images"`

	// Input 指针输入配置
	Input InputConfig `yaml:"input"`
}

// WindowConfig 窗口配置
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// TextConfig 文本配置
type TextConfig struct {
	// Content 显示的文本，'\n' 换行
	Content string `yaml:"content"`

	// SizeRatio 字号与画布宽度之比
	SizeRatio float64 `yaml:"sizeRatio"`

	// LineGap 额外行距（像素）
	LineGap float64 `yaml:"lineGap"`

	// Color 文本颜色，"#RRGGBB" 或 "#RRGGBBAA"
	Color string `yaml:"color"`

	// BufferFloats 顶点缓冲区容量（浮点数），超出部分被截断
	BufferFloats int `yaml:"bufferFloats"`
}

// FontConfig 字体图集配置
//
// Atlas 和 Image 同时设置时加载预制图集，否则从 TTF（为空时使用内置 Go Bold）烘焙。
type FontConfig struct {
	Atlas    string  `yaml:"atlas"`
	Image    string  `yaml:"image"`
	TTF      string  `yaml:"ttf"`
	BakeSize float64 `yaml:"bakeSize"`
	Spread   int     `yaml:"spread"`
	Charset  string  `yaml:"charset"`
}

// WavesConfig 水波配置
type WavesConfig struct {
	// PlaneSize 水波平面边长（像素）
	PlaneSize int `yaml:"planeSize"`

	// Force 扰动强度
	Force float64 `yaml:"force"`
}

// ImagesConfig 贴图路径，为空时使用程序生成的贴图
type ImagesConfig struct {
	Background string `yaml:"background"`
	Distortion string `yaml:"distortion"`
}

// InputConfig 指针输入配置
type InputConfig struct {
	// DebounceMs 最后一次移动后保持移动状态的时长（毫秒）
	DebounceMs float64 `yaml:"debounceMs"`
}

// DefaultViewerConfig 返回默认配置
func DefaultViewerConfig() *ViewerConfig {
	return &ViewerConfig{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Water Distortion",
		},
		Text: TextConfig{
			Content:      "WATER DISTORTION",
			SizeRatio:    0.02 / 0.3,
			LineGap:      0,
			Color:        "#FFFFFF",
			BufferFloats: 300000,
		},
		Font: FontConfig{
			BakeSize: 48,
			Spread:   6,
		},
		Waves: WavesConfig{
			PlaneSize: 128,
			Force:     0.1,
		},
		Input: InputConfig{
			DebounceMs: 16.667,
		},
	}
}

// LoadViewerConfig 加载查看器配置
//
// 参数:
//   - path: 配置文件路径（如 "config.yaml"）
//
// 返回:
//   - *ViewerConfig: 加载并验证后的配置
//   - error: 加载失败时返回错误
func LoadViewerConfig(path string) (*ViewerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read viewer config: %w", err)
	}
	return ParseViewerConfig(data)
}

// ParseViewerConfig 解析 YAML 配置数据，缺省字段使用默认值
func ParseViewerConfig(data []byte) (*ViewerConfig, error) {
	config := DefaultViewerConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse viewer config: %w", err)
	}

	// 验证配置
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid viewer config: %w", err)
	}

	return config, nil
}

// Validate 验证配置的有效性
//
// 检查项：
//   - 窗口尺寸为正数
//   - 字号比例、缓冲区容量、平面尺寸为正数
//   - 扰动强度和防抖时长非负
//   - 颜色格式正确
//   - 预制图集的描述文件和图像必须成对出现
//
// 返回:
//   - error: 验证失败时返回错误，成功返回 nil
func (c *ViewerConfig) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Text.SizeRatio <= 0 {
		return fmt.Errorf("text.sizeRatio must be positive, got %v", c.Text.SizeRatio)
	}
	if c.Text.BufferFloats <= 0 {
		return fmt.Errorf("text.bufferFloats must be positive, got %d", c.Text.BufferFloats)
	}
	if _, err := ParseColor(c.Text.Color); err != nil {
		return fmt.Errorf("text.color: %w", err)
	}
	if (c.Font.Atlas == "") != (c.Font.Image == "") {
		return fmt.Errorf("font.atlas and font.image must be set together")
	}
	if c.Font.BakeSize <= 0 {
		return fmt.Errorf("font.bakeSize must be positive, got %v", c.Font.BakeSize)
	}
	if c.Font.Spread <= 0 {
		return fmt.Errorf("font.spread must be positive, got %d", c.Font.Spread)
	}
	if c.Waves.PlaneSize <= 0 {
		return fmt.Errorf("waves.planeSize must be positive, got %d", c.Waves.PlaneSize)
	}
	if c.Waves.Force < 0 {
		return fmt.Errorf("waves.force must be non-negative, got %v", c.Waves.Force)
	}
	if c.Input.DebounceMs < 0 {
		return fmt.Errorf("input.debounceMs must be non-negative, got %v", c.Input.DebounceMs)
	}
	return nil
}

// Debounce 返回指针防抖时长
func (c *ViewerConfig) Debounce() time.Duration {
	return time.Duration(math.Round(c.Input.DebounceMs * float64(time.Millisecond)))
}

// TextColor 返回解析后的文本颜色
// 配置已经验证过，解析失败时返回白色
func (c *ViewerConfig) TextColor() color.RGBA {
	clr, err := ParseColor(c.Text.Color)
	if err != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return clr
}

// ParseColor 解析 "#RRGGBB" 或 "#RRGGBBAA" 格式的颜色
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
