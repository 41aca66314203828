// 包 tzindex：多分辨率瓦片索引与叶子递归解码，按像素坐标给出时区名称
package tzindex

// TileKey 打包后的瓦片地址：level(3 bit) | y(14 bit) | x(14 bit)
// 约束：构建与查询必须使用同一打包规则，否则查询只会静默未命中
type TileKey uint32

const (
	tileCoordBits = 14
	tileCoordMask = 1<<tileCoordBits - 1
	levelShift    = 2 * tileCoordBits
)

// PackTileKey：按 (level%8)<<28 | (y%2^14)<<14 | (x%2^14) 打包，纯函数、无错误
func PackTileKey(level uint8, x, y uint16) TileKey {
	l := uint32(level) % 8
	return TileKey(l<<levelShift | (uint32(y)&tileCoordMask)<<tileCoordBits | uint32(x)&tileCoordMask)
}

func (k TileKey) Level() uint8 { return uint8(uint32(k) >> levelShift & 7) }
func (k TileKey) X() uint16 { return uint16(uint32(k) & tileCoordMask) }
func (k TileKey) Y() uint16 { return uint16(uint32(k) >> tileCoordBits & tileCoordMask) }
