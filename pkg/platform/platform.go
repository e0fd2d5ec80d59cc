//go:build !mobile

// Package platform 提供桌面端和移动端的平台差异处理
package platform

import "os"

// EmulateMobileEnv 设置为 1 时在桌面端模拟移动模式（用于本地调试）
const EmulateMobileEnv = "WATERFX_MOBILE_EMULATE"

// IsMobile 检测当前是否在移动设备上运行
// 桌面端编译时返回 false，除非设置了 WATERFX_MOBILE_EMULATE=1
func IsMobile() bool {
	return os.Getenv(EmulateMobileEnv) == "1"
}
