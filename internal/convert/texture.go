package convert

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"modular-3d-computers/internal/utils"

	"github.com/mauserzjeh/dxt"
	"github.com/pierrec/lz4/v4"
)

var (
	ErrInvalidMagic = errors.New("not a TEXV0005 texture")
	ErrMalformed    = errors.New("malformed texture")
)

// maxTexDimension bounds mipmap sizes read from the header.
const maxTexDimension = 1 << 15

// maxLZ4Ratio is the largest expansion an LZ4 block can encode.
const maxLZ4Ratio = 255

// Wallpaper Engine texture formats.
const (
	FormatRGBA8888 = 0
	FormatDXT5     = 4
	FormatDXT3     = 6
	FormatDXT1     = 7
	FormatRG88     = 8
	FormatR8       = 9
)

// freeImageUnknown marks a TEXB0003 mipmap holding raw pixels rather than an
// embedded PNG/JPEG file.
const freeImageUnknown = 0xFFFFFFFF

// TexHeader is the fixed part of a .tex file.
type TexHeader struct {
	Format        uint32
	Flags         uint32
	TextureWidth  uint32
	TextureHeight uint32
	ImageWidth    uint32
	ImageHeight   uint32
	Container     string
	ImageCount    uint32
	FreeImage     uint32
}

type texReader struct {
	r   io.Reader
	err error
}

func (t *texReader) uint32() uint32 {
	if t.err != nil {
		return 0
	}
	var v uint32
	t.err = binary.Read(t.r, binary.LittleEndian, &v)
	return v
}

// magic reads an 8 byte tag followed by its NUL terminator.
func (t *texReader) magic() string {
	if t.err != nil {
		return ""
	}
	b := make([]byte, 9)
	if _, t.err = io.ReadFull(t.r, b); t.err != nil {
		return ""
	}
	return string(bytes.TrimRight(b, "\x00"))
}

// bytes reads n bytes, growing the buffer only as data actually arrives so
// a bogus length cannot force a large allocation.
func (t *texReader) bytes(n uint32) []byte {
	if t.err != nil {
		return nil
	}
	var buf bytes.Buffer
	if _, t.err = io.CopyN(&buf, t.r, int64(n)); t.err == io.EOF {
		t.err = io.ErrUnexpectedEOF
	}
	return buf.Bytes()
}

func DecodeTexToImage(path string) (image.Image, error) {
	utils.Debug("Decoding texture: %s", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := DecodeTex(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// DecodeTex decodes the first mipmap of the first image in a .tex stream and
// crops it to the logical image size.
func DecodeTex(r io.Reader) (image.Image, error) {
	tr := &texReader{r: r}

	if m := tr.magic(); tr.err == nil && m != "TEXV0005" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagic, m)
	}
	tr.magic() // TEXI0001

	var h TexHeader
	h.Format = tr.uint32()
	h.Flags = tr.uint32()
	h.TextureWidth = tr.uint32()
	h.TextureHeight = tr.uint32()
	h.ImageWidth = tr.uint32()
	h.ImageHeight = tr.uint32()
	tr.uint32()
	h.Container = tr.magic()
	h.ImageCount = tr.uint32()
	h.FreeImage = freeImageUnknown
	if h.Container == "TEXB0003" {
		h.FreeImage = tr.uint32()
	}
	if tr.err != nil {
		return nil, fmt.Errorf("read header: %w", tr.err)
	}
	if h.ImageCount == 0 {
		return nil, errors.New("no image found in texture")
	}

	utils.Debug("    Format: %d, Image Size: %dx%d, Container: %s", h.Format, h.ImageWidth, h.ImageHeight, h.Container)

	mipmapCount := tr.uint32()
	if tr.err == nil && mipmapCount == 0 {
		return nil, errors.New("texture has no mipmaps")
	}

	mipW := tr.uint32()
	mipH := tr.uint32()
	var isLZ4 bool
	var decompressedSize uint32
	if h.Container != "TEXB0001" {
		isLZ4 = tr.uint32() == 1
		decompressedSize = tr.uint32()
	}
	dataSize := tr.uint32()
	data := tr.bytes(dataSize)
	if tr.err != nil {
		return nil, fmt.Errorf("read mipmap: %w", tr.err)
	}

	if isLZ4 {
		if uint64(decompressedSize) > uint64(len(data))*maxLZ4Ratio+16 {
			return nil, fmt.Errorf("%w: lz4 size %d from %d bytes", ErrMalformed, decompressedSize, len(data))
		}
		utils.Debug("    Decompressing LZ4: %d -> %d", dataSize, decompressedSize)
		out := make([]byte, decompressedSize)
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}
		data = out[:n]
	}

	if h.FreeImage != freeImageUnknown {
		img, err := DecodeImage(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("embedded image: %w", err)
		}
		return img, nil
	}

	pix, err := decodePixels(h.Format, data, mipW, mipH)
	if err != nil {
		return nil, err
	}

	img := &image.NRGBA{
		Pix:    pix,
		Stride: int(mipW) * 4,
		Rect:   image.Rect(0, 0, int(mipW), int(mipH)),
	}
	return crop(img, int(h.ImageWidth), int(h.ImageHeight)), nil
}

// DecodeImage decodes a PNG or JPEG after checking the dimensions in its
// header against maxTexDimension.
func DecodeImage(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if cfg.Width > maxTexDimension || cfg.Height > maxTexDimension {
		return nil, fmt.Errorf("%w: image size %dx%d", ErrMalformed, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

func decodePixels(format uint32, data []byte, w, h uint32) ([]byte, error) {
	if w == 0 || h == 0 || w > maxTexDimension || h > maxTexDimension {
		return nil, fmt.Errorf("%w: mipmap size %dx%d", ErrMalformed, w, h)
	}
	pixels := int(w) * int(h)
	blocks := int((w+3)/4) * int((h+3)/4)

	// The dxt decoders allocate the full output before reading input.
	needBlocks := func(size int) error {
		if len(data) < blocks*size {
			return fmt.Errorf("%w: %d bytes for %d blocks of %dx%d", ErrMalformed, len(data), blocks, w, h)
		}
		return nil
	}

	switch format {
	case FormatRGBA8888:
		if len(data) == pixels*4 {
			utils.Debug("    Type: RGBA")
			return data, nil
		}
	case FormatDXT5:
		utils.Debug("    Type: DXT5")
		if err := needBlocks(16); err != nil {
			return nil, err
		}
		return dxt.DecodeDXT5(data, uint(w), uint(h))
	case FormatDXT3:
		utils.Debug("    Type: DXT3")
		if err := needBlocks(16); err != nil {
			return nil, err
		}
		return dxt.DecodeDXT3(data, uint(w), uint(h))
	case FormatDXT1:
		utils.Debug("    Type: DXT1")
		if err := needBlocks(8); err != nil {
			return nil, err
		}
		return dxt.DecodeDXT1(data, uint(w), uint(h))
	case FormatR8:
		if len(data) == pixels {
			utils.Debug("    Type: R8")
			pix := make([]byte, pixels*4)
			for i, v := range data {
				pix[i*4] = v
				pix[i*4+1] = v
				pix[i*4+2] = v
				pix[i*4+3] = 255
			}
			return pix, nil
		}
	case FormatRG88:
		if len(data) == pixels*2 {
			utils.Debug("    Type: RG88")
			pix := make([]byte, pixels*4)
			for i := 0; i < pixels; i++ {
				lum, alpha := data[i*2], data[i*2+1]
				pix[i*4] = lum
				pix[i*4+1] = lum
				pix[i*4+2] = lum
				pix[i*4+3] = alpha
			}
			return pix, nil
		}
	default:
		// Unknown format codes: guess from the payload size.
		switch len(data) {
		case pixels * 4:
			return data, nil
		case blocks * 16:
			return dxt.DecodeDXT5(data, uint(w), uint(h))
		case blocks * 8:
			return dxt.DecodeDXT1(data, uint(w), uint(h))
		}
	}
	return nil, fmt.Errorf("unsupported format %d with size %d", format, len(data))
}

func crop(img *image.NRGBA, w, h int) image.Image {
	b := img.Bounds()
	if w <= 0 || h <= 0 || (w >= b.Dx() && h >= b.Dy()) {
		return img
	}
	out := image.NewNRGBA(image.Rect(0, 0, min(w, b.Dx()), min(h, b.Dy())))
	draw.Draw(out, out.Bounds(), img, image.Point{}, draw.Src)
	return out
}
