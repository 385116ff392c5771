package podoc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrAssetNotFound is returned by resolvers for an unknown asset name.
var ErrAssetNotFound = errors.New("asset not found")

// Asset is a decoded-enough image: its bytes, fpdf image type and pixel
// dimensions.
type Asset struct {
	Name   string
	Type   string
	Data   []byte
	Width  int
	Height int
}

// HeightFor returns the height that keeps the aspect ratio at width w.
func (a *Asset) HeightFor(w float64) float64 {
	if a.Width == 0 {
		return 0
	}
	return w * float64(a.Height) / float64(a.Width)
}

// DecodeAsset inspects data and returns it as an Asset. Only PNG and JPEG
// are accepted.
func DecodeAsset(name string, data []byte) (*Asset, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", name, err)
	}
	var typ string
	switch format {
	case "png":
		typ = "PNG"
	case "jpeg":
		typ = "JPG"
	default:
		return nil, fmt.Errorf("image %s: unsupported format %s", name, format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image %s: empty dimensions", name)
	}
	return &Asset{Name: name, Type: typ, Data: data, Width: cfg.Width, Height: cfg.Height}, nil
}

// AssetResolver opens static images by name.
type AssetResolver interface {
	Open(name string) (io.ReadCloser, error)
}

// DirResolver serves assets from a single directory.
type DirResolver struct {
	Root string
}

// NewDirResolver returns a resolver rooted at dir.
func NewDirResolver(dir string) DirResolver {
	return DirResolver{Root: dir}
}

func (d DirResolver) Open(name string) (io.ReadCloser, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("%w: %q", ErrAssetNotFound, name)
	}
	f, err := os.Open(filepath.Join(d.Root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, name)
		}
		return nil, err
	}
	return f, nil
}

// MapResolver serves assets from memory.
type MapResolver map[string][]byte

func (m MapResolver) Open(name string) (io.ReadCloser, error) {
	data, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// OptionalImage is the outcome of loading a cosmetic image. Exactly one of
// Asset and Err is set.
type OptionalImage struct {
	Name  string
	Asset *Asset
	Err   error
}

// OK reports whether the image can be drawn.
func (o OptionalImage) OK() bool {
	return o.Asset != nil
}

// LoadOptional tries to open and decode name. Failure is reported in the
// result, never as a panic or a render error.
func LoadOptional(r AssetResolver, name string) OptionalImage {
	if r == nil {
		return OptionalImage{Name: name, Err: fmt.Errorf("%w: no resolver", ErrAssetNotFound)}
	}
	rc, err := r.Open(name)
	if err != nil {
		return OptionalImage{Name: name, Err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return OptionalImage{Name: name, Err: fmt.Errorf("read %s: %w", name, err)}
	}
	a, err := DecodeAsset(name, data)
	if err != nil {
		return OptionalImage{Name: name, Err: err}
	}
	return OptionalImage{Name: name, Asset: a}
}
