package tzindex

import "sort"

// TileEntry 缩放级表中的一条记录
type TileEntry struct {
	Key  TileKey
	Leaf uint16
}

// 文档注释：单个分辨率的有序瓦片表
// 背景：每个分辨率独立一张表，键在表内唯一且升序，支持二分精确查找。
// 约束：构建后只读；不同分辨率之间的键无需唯一。
type ZoomLevel struct {
	level int
	tiles []TileEntry
}

func (z ZoomLevel) Level() int { return z.level }
func (z ZoomLevel) Len() int { return len(z.tiles) }

// Entry 返回第 i 条记录
func (z ZoomLevel) Entry(i int) TileEntry { return z.tiles[i] }

// Find：下界二分查找，仅当键完全相等时命中
func (z ZoomLevel) Find(key TileKey) (uint16, bool) {
	i := sort.Search(len(z.tiles), func(i int) bool { return z.tiles[i].Key >= key })
	if i < len(z.tiles) && z.tiles[i].Key == key {
		return z.tiles[i].Leaf, true
	}
	return 0, false
}

// TileSpan 返回该分辨率下一个瓦片覆盖的像素边长
func TileSpan(level int) int { return 8 << uint(level) }
