//go:build !android

package utils

// EnsureStorageDir 确保最高分存档目录存在（非 Android 平台的空实现）
// gdata 在桌面和 iOS 上会自动创建存储目录
func EnsureStorageDir() error {
	return nil
}
