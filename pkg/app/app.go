// Package app 提供水波文字查看器的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"log"
	"math"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/waterfx/pkg/config"
	"github.com/decker502/waterfx/pkg/game"
	"github.com/decker502/waterfx/pkg/platform"
	"github.com/decker502/waterfx/pkg/render"
	"github.com/decker502/waterfx/pkg/scenes"
)

// AppName gdata 存储使用的应用名
const AppName = "waterfx"

// debugFontSize 调试叠加层字号（逻辑像素）
const debugFontSize = 14

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 查看器配置文件路径，为空时使用嵌入的 data/config.yaml
	ConfigPath string
	// Text 覆盖显示的文本，为空时使用上次保存的文本或配置中的文本
	Text string
}

// App 是查看器的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager    *game.SceneManager
	resourceManager *game.ResourceManager
	settings        *game.SettingsManager
	scene           *scenes.WaterScene
	viewerConfig    *config.ViewerConfig
	verbose         bool

	stopped atomic.Bool
}

// NewApp 创建并初始化查看器应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	// 创建资源管理器
	resourceManager := game.NewResourceManager()

	// 加载查看器配置
	viewerConfig, err := loadViewerConfig(resourceManager, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}

	// 持久化设置，gdata 不可用时降级为内存设置
	if err := platform.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable: %v (settings will not persist)", err)
		gdataManager = nil
	}
	settings, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		return nil, fmt.Errorf("设置初始化失败: %w", err)
	}

	content := cfg.Text
	if content != "" {
		settings.SetText(content)
		if err := settings.Save(); err != nil {
			log.Printf("[App] Warning: failed to save settings: %v", err)
		}
	} else {
		content = settings.TextOr(viewerConfig.Text.Content)
	}

	scene, err := scenes.NewWaterScene(resourceManager, viewerConfig, content)
	if err != nil {
		return nil, fmt.Errorf("场景初始化失败: %w", err)
	}

	// 创建场景管理器
	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scene)

	// 移动端没有窗口，画布总是铺满屏幕
	if !platform.IsMobile() {
		ebiten.SetWindowSize(viewerConfig.Window.Width, viewerConfig.Window.Height)
		ebiten.SetWindowTitle(viewerConfig.Window.Title)
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		ebiten.SetFullscreen(settings.GetSettings().Fullscreen)
	}

	log.Printf("[App] Started with %q", scene.Text())

	return &App{
		sceneManager:    sceneManager,
		resourceManager: resourceManager,
		settings:        settings,
		scene:           scene,
		viewerConfig:    viewerConfig,
		verbose:         cfg.Verbose,
	}, nil
}

// loadViewerConfig 从指定文件加载配置；未指定时读取嵌入配置，嵌入配置也不存在时使用默认值
func loadViewerConfig(rm *game.ResourceManager, path string) (*config.ViewerConfig, error) {
	if path != "" {
		return config.LoadViewerConfig(path)
	}

	data, err := rm.ReadFile(config.DefaultConfigPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("[App] No %s, using defaults", config.DefaultConfigPath)
			return config.DefaultViewerConfig(), nil
		}
		return nil, err
	}
	return config.ParseViewerConfig(data)
}

// Stop 请求停止动画并退出
// 可以从任意 goroutine 重复调用，下一次 Update 返回 ebiten.Termination
func (a *App) Stop() {
	if a.stopped.CompareAndSwap(false, true) {
		log.Printf("[App] Stop requested")
	}
}

// Stopped 返回是否已请求停止
func (a *App) Stopped() bool {
	return a.stopped.Load()
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if a.stopped.Load() {
		a.sceneManager.Stop()
		return ebiten.Termination
	}

	// F11 切换全屏
	if !platform.IsMobile() && inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		a.settings.SetFullscreen(fullscreen)
		a.saveSettings()
	}

	// F3 切换调试信息
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		a.settings.SetShowDebug(!a.settings.GetSettings().ShowDebug)
		a.saveSettings()
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) saveSettings() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)

	if a.settings.GetSettings().ShowDebug {
		info := a.scene.DebugInfo()
		info.TPS = ebiten.ActualTPS()
		info.FPS = ebiten.ActualFPS()

		face, err := a.resourceManager.LoadFont("", debugFontSize*deviceScale())
		if err != nil {
			log.Printf("[App] Warning: debug font unavailable: %v", err)
			return
		}
		render.DrawDebug(screen, face, info)
	}
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	// 先填充黑色背景
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回画布尺寸（设备像素）
// 画布尺寸变化时通知场景重新排版
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := CanvasSize(outsideWidth, outsideHeight, deviceScale())
	a.sceneManager.Resize(w, h)
	return w, h
}

// CanvasSize 计算设备像素画布尺寸，宽高取偶数且至少为 2
func CanvasSize(outsideWidth, outsideHeight int, scale float64) (int, int) {
	if scale <= 0 {
		scale = 1
	}
	even := func(v int) int {
		return max(int(math.Round(float64(v)*scale/2))*2, 2)
	}
	return even(outsideWidth), even(outsideHeight)
}

func deviceScale() float64 {
	if m := ebiten.Monitor(); m != nil {
		return m.DeviceScaleFactor()
	}
	return 1
}

// Shutdown 在 RunGame 返回后调用：停止场景并保存设置
func (a *App) Shutdown() {
	a.Stop()
	a.sceneManager.Stop()
	a.saveSettings()
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
