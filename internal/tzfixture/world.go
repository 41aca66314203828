package tzfixture

import "tz-api/internal/tables"

// 文档注释：构建满足 tzcases 全部样例点的表集
// 约束：金边瓦片与 (0,0) 全海洋瓦片下方的第 0 级另放有干扰瓦片，正确的查询永远不会到达。
func World() *tables.Raw {
	b := NewBuilder()

	phnomPenh := b.Static("Asia/Phnom_Penh")
	b.TileAt(5, 9200, 2410, phnomPenh)
	b.TileAt(0, 9200, 2410, b.Static("Asia/Bangkok"))

	kras, yak := b.Static("Asia/Krasnoyarsk"), b.Static("Asia/Yakutsk")
	// 第 3..7 行选第二个子叶子
	b.TileAt(0, 9290, 530, b.OneBit(kras, yak, 0xFFFFFFFFFF000000))

	vin := b.Static("America/Indiana/Vincennes")
	mar := b.Static("America/Indiana/Marengo")
	tell := b.Static("America/Indiana/Tell_City")
	grid := Fill(vin)
	for x := 2; x < 8; x++ {
		grid[6][x] = mar
		grid[7][x] = tell
	}
	grid[0][0] = 0xFFFF
	// 经一位图叶子再分：第 0 列为 Marengo，其余为 Tell_City
	grid[0][7] = b.OneBit(mar, tell, 0xFEFEFEFEFEFEFEFE)
	b.TileAt(0, 2985, 1654, b.Pixmap(grid))

	b.TileAt(5, 3687, 1845, b.Static("Atlantic/Bermuda"))
	la := b.Static("America/Los_Angeles")
	b.TileAt(5, 1747, 1486, la)
	b.TileAt(3, 1842, 1670, la)

	b.TileAt(1, 2924, 2316, b.Static("America/Belize"))

	b.TileAt(0, 10597, 3961, b.Static("Australia/Sydney"))

	b.TileAt(4, 5760, 2880, b.Pixmap(Fill(0xFFFF)))
	b.TileAt(0, 5760, 2880, b.Static("Etc/GMT"))

	return b.Raw()
}
