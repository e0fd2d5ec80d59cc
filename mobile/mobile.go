//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译。
//
//	# Android
//	cp -r data mobile/ && ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.waterfx -o build/android/waterfx.aar -v ./mobile
//
//	# iOS (仅 macOS)
//	cp -r data mobile/ && ebitenmobile bind -target ios -tags mobile -o build/ios/WaterFX.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/waterfx/pkg/app"
	"github.com/decker502/waterfx/pkg/embedded"
)

// gameApp 当前运行的应用，供宿主在进入后台时停止动画
var gameApp *app.App

func init() {
	// 初始化嵌入资源
	embedded.Init(dataFS)

	a, err := app.NewApp(app.Config{Verbose: true})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	gameApp = a

	// 注册到 ebitenmobile
	mobile.SetGame(gameApp)
}

// Stop 停止动画并退出游戏循环，宿主在 Activity/ViewController 销毁时调用
func Stop() {
	if gameApp != nil {
		gameApp.Stop()
	}
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
