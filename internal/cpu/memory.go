package cpu

// MemSize is the size of the flat 6502 address space.
const MemSize = 0x10000

// Device is a mapped-region callback target. Offsets are region-local (the
// region's base has already been subtracted).
type Device interface {
	ReadByte(offset uint16) byte
	WriteByte(offset uint16, value byte)
}

// Region is a mapping over [Begin, End] (inclusive) redirecting reads and
// writes to a Device. When regions overlap, the last-registered region
// covering an address wins.
type Region struct {
	Begin, End uint16
	Device     Device
}

func (reg Region) contains(addr int) bool {
	return addr >= int(reg.Begin) && addr <= int(reg.End)
}

// Memory is the flat 64 KiB byte array overlaid by an ordered list of
// mapping regions, with hooks consulted on every byte access.
type Memory struct {
	bytes   [MemSize]byte
	regions []Region
	hooks   *HookTable
}

// NewMemory returns a Memory with no mapped regions.
func NewMemory() *Memory {
	return &Memory{}
}

// SetHooks installs the HookTable consulted before every byte read/write.
// Memory hooks fire strictly before the underlying access takes effect.
func (m *Memory) SetHooks(h *HookTable) {
	m.hooks = h
}

// Map registers a new region. Later calls take priority over earlier ones
// when ranges overlap.
func (m *Memory) Map(region Region) {
	m.regions = append(m.regions, region)
}

// regionFor returns the highest-priority region covering addr, or nil.
func (m *Memory) regionFor(addr int) *Region {
	for i := len(m.regions) - 1; i >= 0; i-- {
		if m.regions[i].contains(addr) {
			return &m.regions[i]
		}
	}
	return nil
}

// nextRegionAfter returns the region with the lowest Begin strictly greater
// than addr, or nil if none follows.
func (m *Memory) nextRegionAfter(addr int) *Region {
	var next *Region
	for i := range m.regions {
		if int(m.regions[i].Begin) > addr {
			if next == nil || m.regions[i].Begin < next.Begin {
				next = &m.regions[i]
			}
		}
	}
	return next
}

// ReadByte reads a single byte, consulting mapped regions and read hooks.
func (m *Memory) ReadByte(addr int) (byte, error) {
	if addr < 0 || addr > 0xFFFF {
		return 0, &ErrInvalidAddress{Address: addr}
	}
	if m.hooks != nil {
		m.hooks.FireMemRead(uint16(addr), 1)
	}
	if reg := m.regionFor(addr); reg != nil {
		return reg.Device.ReadByte(uint16(addr) - reg.Begin), nil
	}
	return m.bytes[addr], nil
}

// WriteByte writes a single byte, consulting mapped regions and write hooks.
func (m *Memory) WriteByte(addr int, value int) error {
	if addr < 0 || addr > 0xFFFF {
		return &ErrInvalidAddress{Address: addr}
	}
	if value < 0 || value > 0xFF {
		return &ErrValueOutOfRange{Value: value}
	}
	if m.hooks != nil {
		m.hooks.FireMemWrite(uint16(addr), 1, byte(value))
	}
	if reg := m.regionFor(addr); reg != nil {
		reg.Device.WriteByte(uint16(addr)-reg.Begin, byte(value))
		return nil
	}
	m.bytes[addr] = byte(value)
	return nil
}

// ReadBytes reads size bytes starting at addr, walking region boundaries.
// A request crossing 0x10000 fails.
func (m *Memory) ReadBytes(addr, size int) ([]byte, error) {
	if addr < 0 {
		return nil, &ErrInvalidAddress{Address: addr}
	}
	if addr+size > 0xFFFF+1 {
		return nil, &ErrInvalidAddress{Address: addr + size}
	}

	out := make([]byte, 0, size)
	for size > 0 {
		reg := m.regionFor(addr)
		var end int
		if reg != nil {
			end = addr + size
			if end > int(reg.End)+1 {
				end = int(reg.End) + 1
			}
			if m.hooks != nil {
				m.hooks.FireMemRead(uint16(addr), end-addr)
			}
			for off := addr; off < end; off++ {
				out = append(out, reg.Device.ReadByte(uint16(off)-reg.Begin))
			}
		} else {
			nextStart := 0x10000
			if next := m.nextRegionAfter(addr); next != nil {
				nextStart = int(next.Begin)
			}
			end = addr + size
			if end > nextStart {
				end = nextStart
			}
			if m.hooks != nil {
				m.hooks.FireMemRead(uint16(addr), end-addr)
			}
			out = append(out, m.bytes[addr:end]...)
		}
		size -= end - addr
		addr = end
	}
	return out, nil
}

// WriteBytes writes value starting at addr, walking region boundaries. A
// request crossing 0x10000 fails.
func (m *Memory) WriteBytes(addr int, value []byte) error {
	size := len(value)
	if addr < 0 {
		return &ErrInvalidAddress{Address: addr}
	}
	if addr+size > 0xFFFF+1 {
		return &ErrInvalidAddress{Address: addr + size}
	}

	pos := 0
	for size > 0 {
		reg := m.regionFor(addr)
		var end int
		if reg != nil {
			end = addr + size
			if end > int(reg.End)+1 {
				end = int(reg.End) + 1
			}
			if m.hooks != nil {
				m.hooks.FireMemWriteBulk(uint16(addr), end-addr, value[pos:pos+(end-addr)])
			}
			for off := addr; off < end; off++ {
				reg.Device.WriteByte(uint16(off)-reg.Begin, value[pos+off-addr])
			}
		} else {
			nextStart := 0x10000
			if next := m.nextRegionAfter(addr); next != nil {
				nextStart = int(next.Begin)
			}
			end = addr + size
			if end > nextStart {
				end = nextStart
			}
			if m.hooks != nil {
				m.hooks.FireMemWriteBulk(uint16(addr), end-addr, value[pos:pos+(end-addr)])
			}
			copy(m.bytes[addr:end], value[pos:pos+(end-addr)])
		}
		size -= end - addr
		pos += end - addr
		addr = end
	}
	return nil
}

// ReadSignedByte reads a byte and reinterprets it as two's-complement.
func (m *Memory) ReadSignedByte(addr int) (int8, error) {
	b, err := m.ReadByte(addr)
	return int8(b), err
}

// ReadWord reads a little-endian 16-bit word.
func (m *Memory) ReadWord(addr int) (uint16, error) {
	lo, err := m.ReadByte(addr)
	if err != nil {
		return 0, err
	}
	hi, err := m.ReadByte(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// ReadLongWord reads a little-endian 32-bit word, used by OS control blocks.
func (m *Memory) ReadLongWord(addr int) (uint32, error) {
	var v uint32
	for i := 0; i < 4; i++ {
		b, err := m.ReadByte(addr + i)
		if err != nil {
			return 0, err
		}
		v |= uint32(b) << (8 * i)
	}
	return v, nil
}

// WriteWord writes a little-endian 16-bit word.
func (m *Memory) WriteWord(addr int, value uint16) error {
	if err := m.WriteByte(addr, int(value&0xFF)); err != nil {
		return err
	}
	return m.WriteByte(addr+1, int(value>>8))
}

// WriteLongWord writes a little-endian 32-bit word, used by OS control
// blocks.
func (m *Memory) WriteLongWord(addr int, value uint32) error {
	for i := 0; i < 4; i++ {
		if err := m.WriteByte(addr+i, int(byte(value>>(8*i)))); err != nil {
			return err
		}
	}
	return nil
}

// ReadString reads bytes up to, but not including, a 0x0D terminator.
func (m *Memory) ReadString(addr int) (string, error) {
	var out []byte
	for {
		b, err := m.ReadByte(addr)
		if err != nil {
			return "", err
		}
		if b == 0x0D {
			break
		}
		out = append(out, b)
		addr++
	}
	return string(out), nil
}
