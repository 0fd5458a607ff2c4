//go:build mobile

// embed.go - 移动端资源嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// mobile/data/jump.yaml 是根目录 data/jump.yaml 的副本，修改配置时需同步。
package mobile

import "embed"

//go:embed data/jump.yaml
var dataFS embed.FS
