package waterfall

// RowOffset counts frames modulo the waterfall height. It only ever moves
// forward by one and wraps from h-1 to 0.
type RowOffset struct {
	v, h int
}

func NewRowOffset(h int) *RowOffset {
	if h <= 0 {
		panic("bad waterfall height")
	}
	return &RowOffset{h: h}
}

func (r *RowOffset) Value() int { return r.v }

// Advance moves to the next offset and returns it.
func (r *RowOffset) Advance() int {
	r.v = NextOffset(r.v, r.h)
	return r.v
}

func NextOffset(offset, h int) int {
	if offset+1 >= h {
		return 0
	}
	return offset + 1
}
