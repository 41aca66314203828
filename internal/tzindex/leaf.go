package tzindex

// OceanIndex 像素图中的保留叶子索引，表示该像素无时区（海洋）
const OceanIndex = 0xFFFF

// LeafKind 叶子记录类型，对应表中的标记字节
type LeafKind byte

const (
	KindStatic LeafKind = 'S'
	KindOneBit LeafKind = '2'
	KindPixmap LeafKind = 'P'
)

func (k LeafKind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindOneBit:
		return "one_bit"
	case KindPixmap:
		return "pixmap"
	}
	return "unknown"
}

// 文档注释：叶子记录（封闭的和类型）
// 背景：叶子按索引存放在同一个切片中并被大量瓦片与其他叶子复用；子引用一律为整数索引，不持有指针。
// 约束：仅 StaticZone、OneBitTile、Pixmap 三种实现；解析方使用穷举 type switch。
type Leaf interface {
	Kind() LeafKind
}

// StaticZone：终止叶子，整个寻址区域属于该时区
type StaticZone struct {
	Name string
}

// OneBitTile：8×8 子瓦片，每个像素用一位在两个子叶子间二选一
// 约束：Bits 的第 y*8+x 位（自最低位起）置位时选择 Children[1]
type OneBitTile struct {
	Children [2]uint16
	Bits     uint64
}

// Pixmap：8×8 子瓦片，每个像素直接保存子叶子索引；OceanIndex 表示海洋
type Pixmap struct {
	Grid [8][8]uint16
}

func (StaticZone) Kind() LeafKind { return KindStatic }
func (OneBitTile) Kind() LeafKind { return KindOneBit }
func (*Pixmap) Kind() LeafKind { return KindPixmap }

// Child 返回局部像素 (lx, ly) 选中的子叶子索引
func (t OneBitTile) Child(lx, ly int) uint16 {
	if t.Bits>>(uint(ly)*8+uint(lx))&1 != 0 {
		return t.Children[1]
	}
	return t.Children[0]
}

// At 返回局部像素 (lx, ly) 的子叶子索引，可能为 OceanIndex
func (p *Pixmap) At(lx, ly int) uint16 { return p.Grid[ly][lx] }
