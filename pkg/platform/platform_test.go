//go:build !mobile

package platform

import "testing"

// TestIsMobile_Desktop 测试桌面端编译时 IsMobile() 的返回值
func TestIsMobile_Desktop(t *testing.T) {
	t.Setenv(EmulateMobileEnv, "")
	if IsMobile() {
		t.Error("IsMobile() should return false on desktop")
	}

	t.Setenv(EmulateMobileEnv, "1")
	if !IsMobile() {
		t.Errorf("IsMobile() should return true when %s=1", EmulateMobileEnv)
	}
}

func TestStorageDir_Desktop(t *testing.T) {
	if err := EnsureStorageDir(); err != nil {
		t.Errorf("EnsureStorageDir should be a no-op off Android, got %v", err)
	}
}
