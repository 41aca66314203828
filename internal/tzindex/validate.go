package tzindex

import "fmt"

// 文档注释：构建期一致性校验
// 背景：表是受信任的构建产物，但引用链是否终止无法由数据模型本身保证；在构建时一次性确认，查询期即可零开销。
// 约束：瓦片键严格升序；所有叶子索引有效（像素图中仅 OceanIndex 例外）；叶子引用图无环。
func (ix *Index) validate() error {
	n := len(ix.leaves)
	for _, zl := range ix.levels {
		for i, e := range zl.tiles {
			if i > 0 && zl.tiles[i-1].Key >= e.Key {
				return fmt.Errorf("zoom level %d entry %d key 0x%08x: %w", zl.level, i, uint32(e.Key), ErrUnsorted)
			}
			if int(e.Leaf) >= n {
				return fmt.Errorf("zoom level %d entry %d leaf %d: %w", zl.level, i, e.Leaf, ErrBadLeafIndex)
			}
		}
	}
	for i, l := range ix.leaves {
		for _, c := range children(l) {
			if int(c) >= n {
				return fmt.Errorf("leaf %d child %d: %w", i, c, ErrBadLeafIndex)
			}
		}
	}
	return ix.checkAcyclic()
}

// children 返回叶子引用的全部子索引（去掉 OceanIndex）
func children(l Leaf) []uint16 {
	switch l := l.(type) {
	case OneBitTile:
		return l.Children[:]
	case *Pixmap:
		out := make([]uint16, 0, 4)
		for _, row := range l.Grid {
			for _, c := range row {
				if c != OceanIndex {
					out = append(out, c)
				}
			}
		}
		return out
	}
	return nil
}

const (
	unvisited = iota
	visiting
	done
)

// checkAcyclic：迭代式三色 DFS，避免极长引用链导致的栈增长
func (ix *Index) checkAcyclic() error {
	state := make([]uint8, len(ix.leaves))
	type frame struct {
		leaf int
		kids []uint16
	}
	for root := range ix.leaves {
		if state[root] != unvisited {
			continue
		}
		stack := []frame{{leaf: root, kids: children(ix.leaves[root])}}
		state[root] = visiting
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if len(top.kids) == 0 {
				state[top.leaf] = done
				stack = stack[:len(stack)-1]
				continue
			}
			c := int(top.kids[0])
			top.kids = top.kids[1:]
			switch state[c] {
			case visiting:
				return fmt.Errorf("leaf %d -> %d: %w", top.leaf, c, ErrCycle)
			case unvisited:
				state[c] = visiting
				stack = append(stack, frame{leaf: c, kids: children(ix.leaves[c])})
			}
		}
	}
	return nil
}
