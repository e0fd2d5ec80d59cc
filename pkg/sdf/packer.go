package sdf

// shelfPacker 按行（shelf）排列矩形
//
// 从左到右放置，当前行放不下时在下方开新行，行高取该行最高的矩形。
// 高度不设上限，打包完成后由 Height 给出实际使用的高度。
type shelfPacker struct {
	width   int
	padding int
	shelves []shelf
}

type shelf struct {
	y      int
	height int
	x      int
}

func newShelfPacker(width, padding int) *shelfPacker {
	return &shelfPacker{width: width, padding: padding}
}

// Allocate 为 w×h 的矩形分配位置
// 宽度超过图集宽度时返回 false
func (p *shelfPacker) Allocate(w, h int) (x, y int, ok bool) {
	if w > p.width {
		return -1, -1, false
	}
	paddedW := w + p.padding

	for i := range p.shelves {
		s := &p.shelves[i]
		if s.x+w > p.width {
			continue
		}
		if h > s.height {
			// 只有最后一行可以增高
			if i != len(p.shelves)-1 {
				continue
			}
			s.height = h
		}
		x, y = s.x, s.y
		s.x += paddedW
		return x, y, true
	}

	newY := 0
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		newY = last.y + last.height + p.padding
	}
	p.shelves = append(p.shelves, shelf{y: newY, height: h, x: paddedW})
	return 0, newY, true
}

// Height 返回已使用的总高度
func (p *shelfPacker) Height() int {
	if len(p.shelves) == 0 {
		return 0
	}
	last := p.shelves[len(p.shelves)-1]
	return last.y + last.height
}
