package asset

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"modular-3d-computers/internal/convert"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{G: 0xea, B: 0xff, A: 0xff})
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func waitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("load did not complete")
	}
	return Result{}
}

func TestLoadAsyncDeliversOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	writePNG(t, path, 40, 20)

	ch := LoadAsync(path)
	res := waitResult(t, ch)
	if res.Err != nil {
		t.Fatalf("load: %v", res.Err)
	}
	if b := res.Image.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Fatalf("bounds = %v, want 40x20", b)
	}
	if res.Path != path {
		t.Fatalf("path = %q, want %q", res.Path, path)
	}

	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after the single result")
	}
}

func TestLoadAsyncReportsMissingFile(t *testing.T) {
	res := waitResult(t, LoadAsync(filepath.Join(t.TempDir(), "nope.png")))
	if res.Err == nil || res.Image != nil {
		t.Fatalf("expected load error, got image=%v err=%v", res.Image, res.Err)
	}
	if !errors.Is(res.Err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", res.Err)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(path, []byte("definitely not a png"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLoadFromPkg(t *testing.T) {
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, image.NewNRGBA(image.Rect(0, 0, 8, 4))); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var pkg bytes.Buffer
	putString := func(s string) {
		binary.Write(&pkg, binary.LittleEndian, uint32(len(s)))
		pkg.WriteString(s)
	}
	putString("PKGV0019")
	binary.Write(&pkg, binary.LittleEndian, uint32(1))
	putString("materials/logo.png")
	binary.Write(&pkg, binary.LittleEndian, uint32(0))
	binary.Write(&pkg, binary.LittleEndian, uint32(encoded.Len()))
	pkg.Write(encoded.Bytes())

	dir := t.TempDir()
	pkgPath := filepath.Join(dir, "scene.pkg")
	if err := os.WriteFile(pkgPath, pkg.Bytes(), 0644); err != nil {
		t.Fatalf("write pkg: %v", err)
	}

	img, err := Load(pkgPath + ":materials/logo.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Fatalf("bounds = %v, want 8x4", b)
	}
}

// writeR8Tex writes an uncompressed single-mipmap R8 texture whose header
// declares w x h pixels followed by payload.
func writeR8Tex(t *testing.T, path string, w, h uint32, payload []byte) {
	t.Helper()
	var buf bytes.Buffer
	put := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }
	tag := func(name string) { buf.WriteString(name); buf.WriteByte(0) }

	tag("TEXV0005")
	tag("TEXI0001")
	put(9) // R8
	put(0)
	put(w)
	put(h)
	put(w)
	put(h)
	put(0)
	tag("TEXB0001")
	put(1)
	put(1)
	put(w)
	put(h)
	put(uint32(len(payload)))
	buf.Write(payload)

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write tex: %v", err)
	}
}

func TestLoadTexFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.tex")
	writeR8Tex(t, path, 4, 2, bytes.Repeat([]byte{0x7f}, 8))

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Fatalf("bounds = %v, want 4x2", b)
	}
}

func TestLoadAsyncReportsCorruptTex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.tex")
	writeR8Tex(t, path, 40000, 40000, make([]byte, 16))

	res := waitResult(t, LoadAsync(path))
	if res.Err == nil || res.Image != nil {
		t.Fatalf("expected load error, got image=%v err=%v", res.Image, res.Err)
	}
	if !errors.Is(res.Err, convert.ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", res.Err)
	}
}

func TestSplitPkgPath(t *testing.T) {
	pkg, entry, ok := splitPkgPath("/w/2617953025/scene.pkg:materials/logo.tex")
	if !ok || pkg != "/w/2617953025/scene.pkg" || entry != "materials/logo.tex" {
		t.Fatalf("split = %q %q %v", pkg, entry, ok)
	}
	if _, _, ok := splitPkgPath("assets/co-designs-logo.png"); ok {
		t.Fatal("plain path should not split")
	}
}

func TestResolveKeepsPkgEntry(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "scene.pkg")
	if got, want := Resolve(abs+":materials/logo.tex"), abs+":materials/logo.tex"; got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
	logo := filepath.Join(t.TempDir(), "logo.png")
	if got := Resolve(logo); got != logo {
		t.Fatalf("Resolve = %q, want %q", got, logo)
	}
}
