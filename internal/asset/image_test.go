package asset

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloth.png")
	tex := Checkerboard(40, 30, 10, color.White, color.Black)
	if err := os.WriteFile(path, encodePNG(t, tex), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	im := Load(ctx, path)
	if err := im.Wait(ctx); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if !im.Ready() {
		t.Fatal("image not ready after successful load")
	}
	if w, h := im.Size(); w != 40 || h != 30 {
		t.Errorf("Size() = %dx%d, want 40x30", w, h)
	}
}

func TestLoadLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	dir := t.TempDir()
	good := filepath.Join(dir, "cloth.png")
	if err := os.WriteFile(good, encodePNG(t, Checkerboard(8, 8, 2, color.White, color.Black)), 0644); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	Load(ctx, good).Wait(ctx)
	Load(ctx, filepath.Join(dir, "missing.png")).Wait(ctx)

	out := buf.String()
	if n := strings.Count(out, "loaded "+good+" (8x8)"); n != 1 {
		t.Errorf("completion logged %d times:\n%s", n, out)
	}
	if n := strings.Count(out, "missing.png failed"); n != 1 {
		t.Errorf("failure logged %d times:\n%s", n, out)
	}
}

func TestLoadHTTP(t *testing.T) {
	body := encodePNG(t, Checkerboard(16, 16, 4, color.White, color.Black))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer srv.Close()

	ctx := context.Background()
	im := Load(ctx, srv.URL+"/cloth.png")
	if err := im.Wait(ctx); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if w, _ := im.Size(); w != 16 {
		t.Errorf("width = %d, want 16", w)
	}
}

func TestLoadMissingNeverReady(t *testing.T) {
	ctx := context.Background()
	im := Load(ctx, filepath.Join(t.TempDir(), "missing.png"))
	if err := im.Wait(ctx); err == nil {
		t.Fatal("expected error for missing file")
	}
	if im.Ready() {
		t.Error("failed load reported ready")
	}
	if w, h := im.Size(); w != 0 || h != 0 {
		t.Errorf("Size() = %dx%d, want 0x0", w, h)
	}
}

func TestLoadHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	ctx := context.Background()
	im := Load(ctx, srv.URL)
	if err := im.Wait(ctx); err == nil {
		t.Fatal("expected error for 404")
	}
	if im.Ready() {
		t.Error("404 reported ready")
	}
}

func TestFromImage(t *testing.T) {
	if !FromImage(image.NewRGBA(image.Rect(0, 0, 2, 2))).Ready() {
		t.Error("non-empty image should be ready")
	}
	empty := FromImage(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	if empty.Ready() {
		t.Error("empty image should not be ready")
	}
}

func TestWaitHonoursContext(t *testing.T) {
	im := &Image{done: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := im.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() = %v, want context.Canceled", err)
	}
}

func TestCheckerboard(t *testing.T) {
	img := Checkerboard(8, 8, 4, color.White, color.Black)
	if got := img.RGBAAt(0, 0); got.R != 0xff {
		t.Errorf("(0,0) = %v, want white", got)
	}
	if got := img.RGBAAt(4, 0); got.R != 0 {
		t.Errorf("(4,0) = %v, want black", got)
	}
	if got := img.RGBAAt(4, 4); got.R != 0xff {
		t.Errorf("(4,4) = %v, want white", got)
	}
}
