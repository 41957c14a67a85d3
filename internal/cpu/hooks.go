package cpu

// Hook kind bitmask values, matching the Unicorn-style facade surface.
const (
	HookCode     = 4
	HookMemRead  = 1024
	HookMemWrite = 2048
)

// Access kind values passed to memory hook callbacks.
const (
	AccessRead  = 16
	AccessWrite = 17
)

// CodeHookFunc is invoked before an instruction at pc executes. length is
// the statically decoded instruction length in bytes.
type CodeHookFunc func(pc uint16, length int, userData any)

// MemHookFunc is invoked before a memory access. value carries the bytes
// being written (nil for reads).
type MemHookFunc func(access int, addr uint16, size int, value []byte, userData any)

// Hook describes one registered callback over a half-open address range
// [Begin, End). Kind may combine HookCode|HookMemRead|HookMemWrite.
type Hook struct {
	id       uint64
	Kind     int
	Begin    int
	End      int
	Code     CodeHookFunc
	Mem      MemHookFunc
	UserData any
}

func (h *Hook) covers(addr uint16) bool {
	return int(addr) >= h.Begin && int(addr) < h.End
}

// hookList is an ordered registration of hooks for one kind, with a fast
// path for the common case of every hook covering exactly one address with
// no duplicate addresses: an auxiliary address->hook map gives O(1) lookup.
// The first registration breaking that invariant discards the map and the
// list falls back to a linear scan.
type hookList struct {
	hooks     []*Hook
	fast      map[uint16]*Hook
	fastValid bool
}

func newHookList() *hookList {
	return &hookList{fast: make(map[uint16]*Hook), fastValid: true}
}

func (l *hookList) add(h *Hook) {
	l.hooks = append(l.hooks, h)
	if !l.fastValid {
		return
	}
	if h.End-h.Begin != 1 {
		l.fastValid = false
		l.fast = nil
		return
	}
	addr := uint16(h.Begin)
	if _, dup := l.fast[addr]; dup {
		l.fastValid = false
		l.fast = nil
		return
	}
	l.fast[addr] = h
}

func (l *hookList) remove(id uint64) {
	out := l.hooks[:0]
	for _, h := range l.hooks {
		if h.id != id {
			out = append(out, h)
		}
	}
	l.hooks = out
	// Removal never needs to invalidate the fast path; it only needs to be
	// rebuilt to drop the removed entry.
	if l.fastValid {
		l.fast = make(map[uint16]*Hook, len(l.hooks))
		for _, h := range l.hooks {
			l.fast[uint16(h.Begin)] = h
		}
	}
}

// at returns the hooks covering addr, in registration order.
func (l *hookList) at(addr uint16) []*Hook {
	if l.fastValid {
		if h, ok := l.fast[addr]; ok {
			return []*Hook{h}
		}
		return nil
	}
	var out []*Hook
	for _, h := range l.hooks {
		if h.covers(addr) {
			out = append(out, h)
		}
	}
	return out
}

// HookTable owns the three hook kinds and assigns opaque handles.
type HookTable struct {
	code      *hookList
	memRead   *hookList
	memWrite  *hookList
	nextID    uint64
	byHandle  map[uint64][]int // handle -> which kinds it was registered under, for Del
	kindLists map[int]*hookList
}

// NewHookTable returns an empty HookTable.
func NewHookTable() *HookTable {
	t := &HookTable{
		code:     newHookList(),
		memRead:  newHookList(),
		memWrite: newHookList(),
		byHandle: make(map[uint64][]int),
	}
	t.kindLists = map[int]*hookList{
		HookCode:     t.code,
		HookMemRead:  t.memRead,
		HookMemWrite: t.memWrite,
	}
	return t
}

// Add registers a hook over [begin, end) for the given kind bitmask and
// returns an opaque handle for later removal. end may be 0x10000 so a hook
// can cover the top byte of the address space.
func (t *HookTable) Add(kind, begin, end int, code CodeHookFunc, mem MemHookFunc, userData any) uint64 {
	t.nextID++
	id := t.nextID
	h := &Hook{id: id, Kind: kind, Begin: begin, End: end, Code: code, Mem: mem, UserData: userData}

	var kinds []int
	for bit, list := range t.kindLists {
		if kind&bit != 0 {
			list.add(h)
			kinds = append(kinds, bit)
		}
	}
	t.byHandle[id] = kinds
	return id
}

// Del unregisters a hook across whatever kinds it was installed under.
func (t *HookTable) Del(handle uint64) {
	for _, bit := range t.byHandle[handle] {
		t.kindLists[bit].remove(handle)
	}
	delete(t.byHandle, handle)
}

// FireCode invokes code hooks covering pc, in registration order.
func (t *HookTable) FireCode(pc uint16, length int) {
	for _, h := range t.code.at(pc) {
		if h.Code != nil {
			h.Code(pc, length, h.UserData)
		}
	}
}

// FireMemRead invokes read hooks covering any address in [addr, addr+size).
func (t *HookTable) FireMemRead(addr uint16, size int) {
	t.fireMemRange(t.memRead, AccessRead, addr, size, nil)
}

// FireMemWrite invokes write hooks for a single-byte write.
func (t *HookTable) FireMemWrite(addr uint16, size int, value byte) {
	t.fireMemRange(t.memWrite, AccessWrite, addr, size, []byte{value})
}

// FireMemWriteBulk invokes write hooks for a multi-byte write, slicing the
// value to each intersected sub-range.
func (t *HookTable) FireMemWriteBulk(addr uint16, size int, value []byte) {
	t.fireMemRange(t.memWrite, AccessWrite, addr, size, value)
}

// fireMemRange calls each hook once for the sub-range of [addr, addr+size)
// that it covers, passing the bounded start address, length, and (for
// writes) the sliced value.
func (t *HookTable) fireMemRange(list *hookList, access int, addr uint16, size int, value []byte) {
	if list.fastValid {
		for i := 0; i < size; i++ {
			a := addr + uint16(i)
			if h, ok := list.fast[a]; ok && h.Mem != nil {
				h.Mem(access, a, 1, sliceAt(value, i, 1), h.UserData)
			}
		}
		return
	}
	for _, h := range list.hooks {
		lo := int(addr)
		if h.Begin > lo {
			lo = h.Begin
		}
		hi := int(addr) + size
		if h.End < hi {
			hi = h.End
		}
		if lo >= hi {
			continue
		}
		if h.Mem != nil {
			h.Mem(access, uint16(lo), hi-lo, sliceAt(value, lo-int(addr), hi-lo), h.UserData)
		}
	}
}

func sliceAt(value []byte, off, n int) []byte {
	if value == nil {
		return nil
	}
	if off+n > len(value) {
		n = len(value) - off
	}
	if off < 0 || n <= 0 {
		return nil
	}
	return value[off : off+n]
}
