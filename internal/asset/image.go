// Package asset loads the cloth texture. Loading runs in the background; the
// renderer polls Ready and draws nothing until it flips.
package asset

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var ErrEmptyImage = errors.New("asset: image has zero size")

// Image is a texture that may still be loading. It satisfies warp.Source.
type Image struct {
	src   string
	ready atomic.Bool

	mu  sync.RWMutex
	img image.Image
	err error

	done chan struct{}
}

// Load starts loading src, which is a local path or an http(s) URL, and
// returns immediately.
func Load(ctx context.Context, src string) *Image {
	im := &Image{src: src, done: make(chan struct{})}
	go im.load(ctx)
	return im
}

// FromImage wraps an already decoded image; it is ready at once.
func FromImage(img image.Image) *Image {
	im := &Image{src: "memory", img: img, done: make(chan struct{})}
	im.ready.Store(img != nil && !img.Bounds().Empty())
	close(im.done)
	return im
}

func (im *Image) load(ctx context.Context) {
	defer close(im.done)

	img, err := fetch(ctx, im.src)
	if err == nil && img.Bounds().Empty() {
		err = ErrEmptyImage
	}

	im.mu.Lock()
	im.img, im.err = img, err
	im.mu.Unlock()

	if err != nil {
		log.Printf("asset: load %s failed: %v", im.src, err)
		return
	}
	b := img.Bounds()
	log.Printf("asset: loaded %s (%dx%d)", im.src, b.Dx(), b.Dy())
	im.ready.Store(true)
}

func fetch(ctx context.Context, src string) (image.Image, error) {
	var r io.ReadCloser
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, fmt.Errorf("asset: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("asset: fetch %s: %w", src, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("asset: fetch %s: status %s", src, resp.Status)
		}
		r = resp.Body
	} else {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("asset: %w", err)
		}
		r = f
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("asset: decode %s: %w", src, err)
	}
	return img, nil
}

func (im *Image) Ready() bool { return im.ready.Load() }

// Size returns the pixel dimensions, or (0, 0) before the image is ready.
func (im *Image) Size() (int, int) {
	if !im.Ready() {
		return 0, 0
	}
	b := im.Image().Bounds()
	return b.Dx(), b.Dy()
}

func (im *Image) Image() image.Image {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.img
}

// Err returns the load error once loading has finished.
func (im *Image) Err() error {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.err
}

// Wait blocks until loading finishes or ctx is done.
func (im *Image) Wait(ctx context.Context) error {
	select {
	case <-im.done:
		return im.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (im *Image) String() string { return im.src }

// Checkerboard returns a w×h two-colour grid with cells of the given size.
// It is the default texture when no image is configured.
func Checkerboard(w, h, cell int, a, b color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.Set(x, y, a)
			} else {
				img.Set(x, y, b)
			}
		}
	}
	return img
}

// Default returns a ready checkerboard texture.
func Default() *Image {
	return FromImage(Checkerboard(256, 256, 32,
		color.RGBA{0xe0, 0x4f, 0x5f, 0xff},
		color.RGBA{0xf5, 0xe6, 0xd3, 0xff}))
}
