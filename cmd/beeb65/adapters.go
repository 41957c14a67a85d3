package main

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beebcore/beebcore/internal/hostio"
)

// stdioConsole satisfies hostio.Console against the process's own
// stdin/stdout. It does not touch raw-mode TTY control; line buffering is
// whatever the hosting terminal provides.
type stdioConsole struct {
	in *bufio.Reader
}

func newStdioConsole() *stdioConsole {
	return &stdioConsole{in: bufio.NewReader(os.Stdin)}
}

func (c *stdioConsole) WriteChar(b byte) error {
	_, err := os.Stdout.Write([]byte{b})
	return err
}

func (c *stdioConsole) ReadChar() (byte, error) {
	b, err := c.in.ReadByte()
	if err != nil {
		return 0, hostio.ErrEOF
	}
	return b, nil
}

func (c *stdioConsole) ReadLine(maxLen int, minASCII, maxASCII byte) (string, bool, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false, hostio.ErrEOF
	}
	line = strings.TrimRight(line, "\r\n")
	if len(line) > maxLen-1 {
		line = line[:maxLen-1]
	}
	var filtered strings.Builder
	for i := 0; i < len(line); i++ {
		if line[i] >= minASCII && line[i] <= maxASCII {
			filtered.WriteByte(line[i])
		}
	}
	return filtered.String(), false, nil
}

// diskFileSystem satisfies hostio.FileSystem against a single directory on
// the host disk. There are no DFS catalogue semantics (file types, multiple
// drives); each BBC filename maps directly to a file of the same name under
// root.
type diskFileSystem struct {
	root    string
	handles map[int]*os.File
	nextH   int
}

func newDiskFileSystem(root string) *diskFileSystem {
	return &diskFileSystem{root: root, handles: make(map[int]*os.File), nextH: 1}
}

func (fs *diskFileSystem) path(name string) string {
	return filepath.Join(fs.root, strings.ToUpper(name))
}

func (fs *diskFileSystem) Open(name string, mode hostio.OpenMode) (int, error) {
	var flag int
	switch mode {
	case hostio.OpenInput:
		flag = os.O_RDONLY
	case hostio.OpenOutput:
		flag = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	default:
		flag = os.O_RDWR | os.O_CREATE
	}
	f, err := os.OpenFile(fs.path(name), flag, 0o644)
	if err != nil {
		return 0, hostio.ErrNotFound
	}
	h := fs.nextH
	fs.nextH++
	fs.handles[h] = f
	return h, nil
}

func (fs *diskFileSystem) Close(handle int) error {
	f, ok := fs.handles[handle]
	if !ok {
		return hostio.ErrNotFound
	}
	delete(fs.handles, handle)
	return f.Close()
}

func (fs *diskFileSystem) ReadByte(handle int) (byte, bool, error) {
	f, ok := fs.handles[handle]
	if !ok {
		return 0, false, hostio.ErrNotFound
	}
	var buf [1]byte
	n, err := f.Read(buf[:])
	if n == 0 {
		return 0, true, nil
	}
	return buf[0], false, err
}

func (fs *diskFileSystem) WriteByte(handle int, b byte) error {
	f, ok := fs.handles[handle]
	if !ok {
		return hostio.ErrNotFound
	}
	_, err := f.Write([]byte{b})
	return err
}

func (fs *diskFileSystem) Delete(name string) error {
	return os.Remove(fs.path(name))
}

func (fs *diskFileSystem) FileInfo(name string) (hostio.FileInfo, error) {
	st, err := os.Stat(fs.path(name))
	if err != nil {
		return hostio.FileInfo{}, hostio.ErrNotFound
	}
	return hostio.FileInfo{Length: uint32(st.Size())}, nil
}

func (fs *diskFileSystem) SetFileInfo(name string, info hostio.FileInfo) error {
	return nil // no extended attribute store on a plain disk file
}

func (fs *diskFileSystem) EnsureExists(name string, load, exec uint32) error {
	f, err := os.OpenFile(fs.path(name), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

func (fs *diskFileSystem) Load(name string) ([]byte, hostio.FileInfo, error) {
	data, err := os.ReadFile(fs.path(name))
	if err != nil {
		return nil, hostio.FileInfo{}, hostio.ErrNotFound
	}
	return data, hostio.FileInfo{Length: uint32(len(data))}, nil
}

func (fs *diskFileSystem) Save(name string, data []byte, info hostio.FileInfo) error {
	return os.WriteFile(fs.path(name), data, 0o644)
}

func (fs *diskFileSystem) PtrRead(handle int) (uint32, error) {
	f, ok := fs.handles[handle]
	if !ok {
		return 0, hostio.ErrNotFound
	}
	pos, err := f.Seek(0, io.SeekCurrent)
	return uint32(pos), err
}

func (fs *diskFileSystem) PtrWrite(handle int, ptr uint32) error {
	f, ok := fs.handles[handle]
	if !ok {
		return hostio.ErrNotFound
	}
	_, err := f.Seek(int64(ptr), io.SeekStart)
	return err
}

func (fs *diskFileSystem) ExtRead(handle int) (uint32, error) {
	f, ok := fs.handles[handle]
	if !ok {
		return 0, hostio.ErrNotFound
	}
	st, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return uint32(st.Size()), nil
}

func (fs *diskFileSystem) EOF(handle int) bool {
	f, ok := fs.handles[handle]
	if !ok {
		return true
	}
	pos, _ := f.Seek(0, io.SeekCurrent)
	st, err := f.Stat()
	if err != nil {
		return true
	}
	return pos >= st.Size()
}

func (fs *diskFileSystem) HandleRange() (int, int) { return 1, 255 }
