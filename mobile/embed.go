//go:build mobile

// embed.go - 移动端资源嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// mobile/data 下的 YAML 与根目录 data/ 保持一致。
//
// 手动构建：
//
//	go build -tags mobile ./mobile
package mobile

import "embed"

//go:embed data/gameplay.yaml data/bubble_types.yaml
var dataFS embed.FS
