package board

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/pinboard/pkg/errors"
	"github.com/matzehuels/pinboard/pkg/httputil"
)

// Prober fills in missing image sizes by reading the image header from the
// pin's URL. Remote URLs are fetched over HTTP and local paths are read
// from disk, relative to the board file.
type Prober struct {
	Fetcher *httputil.Fetcher
	// Cache remembers remote sizes between runs. Nil disables it.
	Cache *httputil.Cache
}

// NewProber returns a Prober that caches remote sizes in c.
func NewProber(c *httputil.Cache) *Prober {
	if c != nil {
		c = c.Namespace("image:")
	}
	return &Prober{Fetcher: httputil.NewFetcher(), Cache: c}
}

type imageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Probe sets the size of every pin whose image has a URL but no usable
// size, and returns how many pins it updated. Pins without a URL keep a
// zero size. The first failure stops probing.
func (p *Prober) Probe(ctx context.Context, b *Board, baseDir string) (int, error) {
	n := 0
	for i := range b.Pins {
		img := &b.Pins[i].Image
		if img.URL == "" || img.AspectRatio() > 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return n, err
		}
		size, err := p.size(ctx, img.URL, baseDir)
		if err != nil {
			return n, errors.Wrap(errors.ErrCodeInvalidBoard, err, "probe pin %s image %s", b.Pins[i].ID, img.URL)
		}
		img.Width, img.Height = float64(size.Width), float64(size.Height)
		n++
	}
	return n, nil
}

func (p *Prober) size(ctx context.Context, url, baseDir string) (imageSize, error) {
	if !isRemote(url) {
		return localSize(url, baseDir)
	}

	var size imageSize
	if p.Cache != nil {
		if ok, _ := p.Cache.Get(url, &size); ok {
			return size, nil
		}
	}
	err := p.Fetcher.Fetch(ctx, url, func(r io.Reader) error {
		var err error
		size, err = decodeSize(r)
		return err
	})
	if err != nil {
		return imageSize{}, err
	}
	if p.Cache != nil {
		_ = p.Cache.Set(url, size)
	}
	return size, nil
}

func isRemote(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func localSize(path, baseDir string) (imageSize, error) {
	path = strings.TrimPrefix(path, "file://")
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return imageSize{}, err
	}
	defer f.Close()
	return decodeSize(f)
}

var errEmptyImage = errors.New(errors.ErrCodeInvalidBoard, "image has zero size")

func decodeSize(r io.Reader) (imageSize, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return imageSize{}, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return imageSize{}, errEmptyImage
	}
	return imageSize{Width: cfg.Width, Height: cfg.Height}, nil
}
