package convert

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"modular-3d-computers/internal/utils"
)

// PkgEntry locates one file inside a Wallpaper Engine scene.pkg archive.
type PkgEntry struct {
	Name   string
	Offset uint32
	Size   uint32
}

// Pkg is an opened scene.pkg: a header listing entries followed by a data
// section the entry offsets are relative to.
type Pkg struct {
	Version   string
	Entries   []PkgEntry
	dataStart int64
	size      int64
	r         io.ReaderAt
}

// minPkgEntrySize is an entry with an empty name: length, offset and size.
const minPkgEntrySize = 12

func readPkgString(r io.Reader) (string, error) {
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return "", err
	}
	if size > 1<<16 {
		return "", fmt.Errorf("pkg string length %d too large", size)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadPkg parses the header of a package of size bytes held in r.
func ReadPkg(r io.ReaderAt, size int64) (*Pkg, error) {
	sr := io.NewSectionReader(r, 0, size)

	version, err := readPkgString(sr)
	if err != nil {
		return nil, fmt.Errorf("pkg version: %w", err)
	}
	utils.Debug("Unpacker: Package Version: %s", version)

	var fileCount uint32
	if err := binary.Read(sr, binary.LittleEndian, &fileCount); err != nil {
		return nil, fmt.Errorf("pkg file count: %w", err)
	}

	pos, _ := sr.Seek(0, io.SeekCurrent)
	if int64(fileCount) > (size-pos)/minPkgEntrySize {
		return nil, fmt.Errorf("pkg file count %d exceeds %d header bytes", fileCount, size-pos)
	}

	entries := make([]PkgEntry, 0, fileCount)
	for i := uint32(0); i < fileCount; i++ {
		name, err := readPkgString(sr)
		if err != nil {
			return nil, fmt.Errorf("pkg entry %d: %w", i, err)
		}
		var offset, size uint32
		if err := binary.Read(sr, binary.LittleEndian, &offset); err != nil {
			return nil, fmt.Errorf("pkg entry %d: %w", i, err)
		}
		if err := binary.Read(sr, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("pkg entry %d: %w", i, err)
		}
		entries = append(entries, PkgEntry{Name: name, Offset: offset, Size: size})
	}

	dataStart, _ := sr.Seek(0, io.SeekCurrent)
	return &Pkg{Version: version, Entries: entries, dataStart: dataStart, size: size, r: r}, nil
}

// Find looks an entry up by its slash-separated name.
func (p *Pkg) Find(name string) (PkgEntry, bool) {
	want := path.Clean(strings.TrimPrefix(name, "/"))
	for _, e := range p.Entries {
		if path.Clean(e.Name) == want {
			return e, true
		}
	}
	return PkgEntry{}, false
}

func (p *Pkg) Read(name string) ([]byte, error) {
	entry, ok := p.Find(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	if end := p.dataStart + int64(entry.Offset) + int64(entry.Size); end > p.size {
		return nil, fmt.Errorf("read %s: entry ends at %d past archive size %d", name, end, p.size)
	}
	buf := make([]byte, entry.Size)
	if _, err := p.r.ReadAt(buf, p.dataStart+int64(entry.Offset)); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return buf, nil
}

// ReadPkgEntry opens pkgPath and returns the contents of one entry.
func ReadPkgEntry(pkgPath, name string) ([]byte, error) {
	utils.Debug("Unpacker: Opening package %s", pkgPath)
	f, err := os.Open(pkgPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pkg, err := ReadPkg(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pkgPath, err)
	}
	return pkg.Read(name)
}
