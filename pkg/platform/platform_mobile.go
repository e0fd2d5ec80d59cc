//go:build mobile

// Package platform 提供桌面端和移动端的平台差异处理
package platform

// IsMobile 检测当前是否在移动设备上运行
// 移动端编译时返回 true
func IsMobile() bool {
	return true
}
