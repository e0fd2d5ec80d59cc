package scenes

import (
	"fmt"
	"image"
	"log"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/decker502/waterfx/pkg/config"
	"github.com/decker502/waterfx/pkg/font"
	"github.com/decker502/waterfx/pkg/game"
	"github.com/decker502/waterfx/pkg/input"
	"github.com/decker502/waterfx/pkg/render"
	"github.com/decker502/waterfx/pkg/wave"
)

// Renderer 场景使用的绘制接口，由 render.Renderer 实现
type Renderer interface {
	Resize(width, height int)
	SetText(res font.Result)
	Draw(screen *ebiten.Image, planes []wave.Instance)
}

// PointerFunc 返回当前指针位置（画布像素）
type PointerFunc func() (float64, float64)

// WaterScene 水波扰动文字场景
//
// 每个 tick：采样指针 → 更新跟踪器 → 调度器推进一步 → 保存平面快照。
// Draw 把快照和排版结果交给渲染器。画布尺寸变化时重新计算字号和排版。
type WaterScene struct {
	atlas    *font.Atlas
	renderer Renderer

	tracker   *input.Tracker
	scheduler *wave.Scheduler

	text      string
	sizeRatio float64
	lineGap   float64
	capacity  int

	planes []wave.Instance
	layout font.Result

	width, height int

	pointer PointerFunc
	clock   func() time.Time
}

// NewWaterScene 加载字体图集和贴图，创建场景
//
// 参数:
//   - rm: 资源管理器
//   - cfg: 查看器配置
//   - content: 显示的文本，为空时使用配置中的文本
//
// 返回:
//   - *WaterScene: 场景
//   - error: 图集加载或着色器编译失败时返回错误
func NewWaterScene(rm *game.ResourceManager, cfg *config.ViewerConfig, content string) (*WaterScene, error) {
	atlas, atlasImg, err := rm.LoadFontAtlas(cfg.Font)
	if err != nil {
		return nil, fmt.Errorf("failed to load font atlas: %w", err)
	}

	planeSize := cfg.Waves.PlaneSize
	plane := rm.LoadImageOr(cfg.Images.Distortion, game.GeneratedDistortionKey, func() image.Image {
		return game.DistortionMask(planeSize)
	})
	background := rm.LoadImageOr(cfg.Images.Background, game.GeneratedBackgroundKey, func() image.Image {
		return game.OceanImage(cfg.Window.Width, cfg.Window.Height)
	})

	renderer, err := render.New(render.Options{
		Atlas:      ebiten.NewImageFromImage(atlasImg),
		Spread:     atlas.IX,
		Color:      cfg.TextColor(),
		Plane:      plane,
		PlaneSize:  float64(planeSize),
		Background: background,
		Force:      cfg.Waves.Force,
	})
	if err != nil {
		return nil, err
	}

	if content == "" {
		content = cfg.Text.Content
	}

	scene := newWaterScene(atlas, renderer, cfg, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)))
	scene.SetText(content)
	return scene, nil
}

func newWaterScene(atlas *font.Atlas, renderer Renderer, cfg *config.ViewerConfig, rng wave.RandomSource) *WaterScene {
	return &WaterScene{
		atlas:     atlas,
		renderer:  renderer,
		tracker:   input.NewTracker(cfg.Debounce()),
		scheduler: wave.NewScheduler(rng),
		sizeRatio: cfg.Text.SizeRatio,
		lineGap:   cfg.Text.LineGap,
		capacity:  cfg.Text.BufferFloats,
		pointer:   input.PollPointer,
		clock:     time.Now,
	}
}

// SetText 设置显示的文本（NFC 规范化），已知画布尺寸时立即重新排版
func (s *WaterScene) SetText(content string) {
	s.text = norm.NFC.String(content)
	s.relayout()
}

// Text 返回当前文本
func (s *WaterScene) Text() string {
	return s.text
}

// Resize 实现 game.Resizable
func (s *WaterScene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	s.tracker.SetBounds(float64(width), float64(height))
	s.renderer.Resize(width, height)
	s.relayout()
}

func (s *WaterScene) relayout() {
	if s.width <= 0 || s.height <= 0 {
		return
	}
	size := font.FontSize(s.width, s.sizeRatio)
	m := font.ComputeMetrics(s.atlas.GlobalMetrics, size, s.lineGap)
	s.layout = font.Layout(s.text, font.Point{}, m, s.atlas, s.atlas.Kerning, s.capacity)
	s.renderer.SetText(s.layout)

	log.Printf("[WaterScene] Layout: size=%.0f glyphs=%d box=%.0fx%.0f",
		size, s.layout.GlyphCount(), s.layout.Bounds.Width, s.layout.Bounds.Height)
}

// Update 推进一个 tick
func (s *WaterScene) Update(deltaTime float64) {
	now := s.clock()
	x, y := s.pointer()
	s.tracker.Observe(x, y, now)
	s.planes = s.scheduler.Tick(s.tracker.State(now))
}

// Draw 绘制当前快照
func (s *WaterScene) Draw(screen *ebiten.Image) {
	s.renderer.Draw(screen, s.planes)
}

// Stop 实现 game.Stoppable：清除指针状态和所有水波
func (s *WaterScene) Stop() {
	s.tracker.Reset()
	s.scheduler.Stop()
	s.planes = nil
}

// Planes 返回最近一次 tick 的平面快照
func (s *WaterScene) Planes() []wave.Instance {
	return s.planes
}

// Layout 返回当前排版结果
func (s *WaterScene) Layout() font.Result {
	return s.layout
}

// DebugInfo 返回场景部分的调试信息
func (s *WaterScene) DebugInfo() render.DebugInfo {
	return render.DebugInfo{
		Width:        s.width,
		Height:       s.height,
		ActivePlanes: s.scheduler.ActiveCount(),
		Glyphs:       s.layout.GlyphCount(),
		Moving:       s.tracker.State(s.clock()).Activating,
	}
}
