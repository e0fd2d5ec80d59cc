// Package main 是水波文字查看器的桌面端入口
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	--config <path>   查看器配置文件（默认使用嵌入的 data/config.yaml）
//	--text <text>     显示的文本，\n 换行
//	--verbose         输出详细日志
//
// Controls:
//
//	移动鼠标或触摸  - 产生水波
//	F11             - 切换全屏
//	F3              - 显示/隐藏调试信息
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/waterfx/pkg/app"
	"github.com/decker502/waterfx/pkg/embedded"
)

var (
	configFlag  = flag.String("config", "", "Viewer config file (default: embedded data/config.yaml)")
	textFlag    = flag.String("text", "", "Text to display, use \\n for line breaks")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verboseFlag,
		ConfigPath: *configFlag,
		Text:       strings.ReplaceAll(*textFlag, `\n`, "\n"),
	})
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("初始化失败: %v", err)
	}

	// SIGINT/SIGTERM 停止动画，下一个 tick 退出游戏循环
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signals
		log.Printf("[Main] Received %v, stopping", sig)
		gameApp.Stop()
	}()

	if err := ebiten.RunGame(gameApp); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("运行失败: %v", err)
	}

	signal.Stop(signals)
	gameApp.Shutdown()
}
