package hostio

import "strings"

// MemConsole is an in-memory Console used by tests: output is captured to
// Output, input is drained from a preloaded queue.
type MemConsole struct {
	Output []byte
	input  []byte
	pos    int
}

// NewMemConsole builds a MemConsole whose ReadChar/ReadLine calls drain
// input in order.
func NewMemConsole(input string) *MemConsole {
	return &MemConsole{input: []byte(input)}
}

func (c *MemConsole) WriteChar(b byte) error {
	c.Output = append(c.Output, b)
	return nil
}

func (c *MemConsole) ReadChar() (byte, error) {
	if c.pos >= len(c.input) {
		return 0, ErrEOF
	}
	b := c.input[c.pos]
	c.pos++
	return b, nil
}

func (c *MemConsole) ReadLine(maxLen int, minASCII, maxASCII byte) (string, bool, error) {
	var line []byte
	for {
		if c.pos >= len(c.input) {
			if len(line) == 0 {
				return "", false, ErrEOF
			}
			return string(line), false, nil
		}
		b := c.input[c.pos]
		c.pos++
		if b == 0x1B {
			return string(line), true, nil
		}
		if b == 0x0D || b == '\n' {
			return string(line), false, nil
		}
		if len(line) >= maxLen-1 {
			continue
		}
		if b < minASCII || b > maxASCII {
			continue
		}
		line = append(line, b)
	}
}

// memFile is one open handle's cursor state over a MemFileSystem entry.
type memFile struct {
	name string
	pos  int
}

// MemFileSystem is an in-memory FileSystem used by tests: files live in a
// map keyed by name, handles are allocated sequentially starting at 1.
type MemFileSystem struct {
	files   map[string][]byte
	info    map[string]FileInfo
	handles map[int]*memFile
	nextH   int
}

// NewMemFileSystem returns an empty MemFileSystem.
func NewMemFileSystem() *MemFileSystem {
	return &MemFileSystem{
		files:   make(map[string][]byte),
		info:    make(map[string]FileInfo),
		handles: make(map[int]*memFile),
		nextH:   1,
	}
}

// Seed preloads a file's contents and catalogue info, as a test fixture.
func (fs *MemFileSystem) Seed(name string, data []byte, info FileInfo) {
	name = strings.ToUpper(name)
	fs.files[name] = data
	info.Length = uint32(len(data))
	fs.info[name] = info
}

func (fs *MemFileSystem) Open(name string, mode OpenMode) (int, error) {
	name = strings.ToUpper(name)
	if _, ok := fs.files[name]; !ok {
		if mode == OpenInput {
			return 0, ErrNotFound
		}
		fs.files[name] = nil
		fs.info[name] = FileInfo{}
	}
	h := fs.nextH
	fs.nextH++
	fs.handles[h] = &memFile{name: name}
	return h, nil
}

func (fs *MemFileSystem) Close(handle int) error {
	delete(fs.handles, handle)
	return nil
}

func (fs *MemFileSystem) ReadByte(handle int) (byte, bool, error) {
	f, ok := fs.handles[handle]
	if !ok {
		return 0, false, ErrNotFound
	}
	data := fs.files[f.name]
	if f.pos >= len(data) {
		return 0, true, nil
	}
	b := data[f.pos]
	f.pos++
	return b, false, nil
}

func (fs *MemFileSystem) WriteByte(handle int, b byte) error {
	f, ok := fs.handles[handle]
	if !ok {
		return ErrNotFound
	}
	data := fs.files[f.name]
	if f.pos < len(data) {
		data[f.pos] = b
	} else {
		data = append(data, b)
	}
	f.pos++
	fs.files[f.name] = data
	info := fs.info[f.name]
	info.Length = uint32(len(data))
	fs.info[f.name] = info
	return nil
}

func (fs *MemFileSystem) Delete(name string) error {
	name = strings.ToUpper(name)
	delete(fs.files, name)
	delete(fs.info, name)
	return nil
}

func (fs *MemFileSystem) FileInfo(name string) (FileInfo, error) {
	name = strings.ToUpper(name)
	info, ok := fs.info[name]
	if !ok {
		return FileInfo{}, ErrNotFound
	}
	return info, nil
}

func (fs *MemFileSystem) SetFileInfo(name string, info FileInfo) error {
	name = strings.ToUpper(name)
	if _, ok := fs.info[name]; !ok {
		return ErrNotFound
	}
	fs.info[name] = info
	return nil
}

func (fs *MemFileSystem) EnsureExists(name string, load, exec uint32) error {
	name = strings.ToUpper(name)
	if _, ok := fs.files[name]; !ok {
		fs.files[name] = nil
		fs.info[name] = FileInfo{Load: load, Exec: exec}
	}
	return nil
}

func (fs *MemFileSystem) Load(name string) ([]byte, FileInfo, error) {
	name = strings.ToUpper(name)
	data, ok := fs.files[name]
	if !ok {
		return nil, FileInfo{}, ErrNotFound
	}
	return data, fs.info[name], nil
}

func (fs *MemFileSystem) Save(name string, data []byte, info FileInfo) error {
	name = strings.ToUpper(name)
	fs.files[name] = data
	info.Length = uint32(len(data))
	fs.info[name] = info
	return nil
}

func (fs *MemFileSystem) PtrRead(handle int) (uint32, error) {
	f, ok := fs.handles[handle]
	if !ok {
		return 0, ErrNotFound
	}
	return uint32(f.pos), nil
}

func (fs *MemFileSystem) PtrWrite(handle int, ptr uint32) error {
	f, ok := fs.handles[handle]
	if !ok {
		return ErrNotFound
	}
	f.pos = int(ptr)
	return nil
}

func (fs *MemFileSystem) ExtRead(handle int) (uint32, error) {
	f, ok := fs.handles[handle]
	if !ok {
		return 0, ErrNotFound
	}
	return uint32(len(fs.files[f.name])), nil
}

func (fs *MemFileSystem) EOF(handle int) bool {
	f, ok := fs.handles[handle]
	if !ok {
		return true
	}
	return f.pos >= len(fs.files[f.name])
}

func (fs *MemFileSystem) HandleRange() (int, int) { return 1, 255 }
