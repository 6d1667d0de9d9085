// Package asset loads the logo image off the render goroutine and reports
// completion exactly once.
package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modular-3d-computers/internal/convert"
	"modular-3d-computers/internal/utils"
)

var ErrEmptyImage = errors.New("image has no pixels")

// Result is delivered once per LoadAsync call.
type Result struct {
	Path     string
	Image    image.Image
	Err      error
	Duration time.Duration
}

// splitPkgPath splits "dir/scene.pkg:materials/logo.tex" into the archive
// and the entry name.
func splitPkgPath(p string) (pkg, entry string, ok bool) {
	idx := strings.Index(p, ".pkg:")
	if idx < 0 {
		return "", "", false
	}
	return p[:idx+len(".pkg")], p[idx+len(".pkg:"):], true
}

// Resolve maps the file part of path through utils.ResolveAssetPath,
// keeping any ":entry" suffix of a package path.
func Resolve(path string) string {
	if pkg, entry, ok := splitPkgPath(path); ok {
		return utils.ResolveAssetPath(pkg) + ":" + entry
	}
	return utils.ResolveAssetPath(path)
}

func isTex(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".tex")
}

func decode(name string, r io.Reader) (image.Image, error) {
	if isTex(name) {
		return convert.DecodeTex(r)
	}
	return convert.DecodeImage(r)
}

// Load decodes a PNG/JPEG file, a Wallpaper Engine .tex file, or an entry
// inside a scene.pkg addressed as "archive.pkg:entry".
func Load(path string) (image.Image, error) {
	var (
		img image.Image
		err error
	)

	if pkg, entry, ok := splitPkgPath(path); ok {
		var data []byte
		data, err = convert.ReadPkgEntry(pkg, entry)
		if err == nil {
			img, err = decode(entry, bytes.NewReader(data))
		}
	} else if isTex(path) {
		img, err = convert.DecodeTexToImage(path)
	} else {
		var f *os.File
		f, err = os.Open(path)
		if err == nil {
			img, err = decode(path, f)
			f.Close()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("load %s: %w", path, ErrEmptyImage)
	}
	return img, nil
}

// LoadAsync decodes path on its own goroutine. The returned channel yields a
// single Result and is then closed.
func LoadAsync(path string) <-chan Result {
	done := make(chan Result, 1)
	go func() {
		defer close(done)
		start := time.Now()
		img, err := Load(path)
		res := Result{Path: path, Image: img, Err: err, Duration: time.Since(start)}
		if err == nil {
			b := img.Bounds()
			utils.Debug("Loaded %s (%dx%d) in %s", path, b.Dx(), b.Dy(), res.Duration)
		}
		done <- res
	}()
	return done
}
