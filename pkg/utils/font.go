package utils

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// 界面字体使用 Go Regular，字体数据编译进二进制，不需要额外的资源文件
var (
	uiFontOnce   sync.Once
	uiFontSource *text.GoTextFaceSource
	uiFontErr    error

	uiFaceMu    sync.Mutex
	uiFaceCache = make(map[float64]*text.GoTextFace)
)

// LoadUIFont 返回指定字号的界面字体
// 字体源只解析一次，相同字号的 face 会被缓存
func LoadUIFont(size float64) (*text.GoTextFace, error) {
	uiFontOnce.Do(func() {
		uiFontSource, uiFontErr = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	})
	if uiFontErr != nil {
		return nil, fmt.Errorf("failed to create UI font source: %w", uiFontErr)
	}

	uiFaceMu.Lock()
	defer uiFaceMu.Unlock()

	if face, ok := uiFaceCache[size]; ok {
		return face, nil
	}
	face := &text.GoTextFace{
		Source:    uiFontSource,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	uiFaceCache[size] = face
	return face, nil
}
