package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodeJPEG(w, h int) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, solid(w, h, color.RGBA{255, 0, 0, 255}), &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	return img
}

func TestProcessFormats(t *testing.T) {
	var gifBuf bytes.Buffer
	gif.Encode(&gifBuf, solid(40, 30, color.RGBA{0, 255, 0, 255}), nil)

	tests := []struct {
		name string
		data []byte
	}{
		{"jpeg", encodeJPEG(100, 80)},
		{"png", encodePNG(solid(100, 80, color.RGBA{0, 0, 255, 255}))},
		{"gif", gifBuf.Bytes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pic, err := Process(bytes.NewReader(tt.data))
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if pic.MIME != "image/jpeg" {
				t.Errorf("expected image/jpeg, got %s", pic.MIME)
			}
			if len(pic.Data) == 0 {
				t.Error("expected non-empty data")
			}
		})
	}
}

func TestProcessDownscalesKeepingAspect(t *testing.T) {
	pic, err := Process(bytes.NewReader(encodeJPEG(2048, 1024)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if pic.Width != MaxDimension || pic.Height != MaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", MaxDimension, MaxDimension/2, pic.Width, pic.Height)
	}

	b := decode(t, pic.Data).Bounds()
	if b.Dx() != pic.Width || b.Dy() != pic.Height {
		t.Errorf("encoded size %dx%d does not match reported %dx%d", b.Dx(), b.Dy(), pic.Width, pic.Height)
	}
}

func TestProcessSmallImageNotUpscaled(t *testing.T) {
	pic, err := Process(bytes.NewReader(encodeJPEG(50, 50)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if pic.Width != 50 || pic.Height != 50 {
		t.Errorf("small image should not be resized: got %dx%d", pic.Width, pic.Height)
	}
}

func TestProcessFlattensTransparency(t *testing.T) {
	pic, err := Process(bytes.NewReader(encodePNG(solid(20, 20, color.RGBA{0, 0, 0, 0}))))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	r, g, b, _ := decode(t, pic.Data).At(10, 10).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("expected transparent pixels to become white, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestProcessRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"text", []byte("not an image"), ErrUnsupported},
		{"pdf", []byte("%PDF-1.4\n"), ErrUnsupported},
		{"too large", bytes.Repeat([]byte{0}, MaxUploadBytes+1), ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Process(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestScaledSize(t *testing.T) {
	tests := []struct {
		w, h, maxDim int
		wantW, wantH int
	}{
		{100, 100, 512, 100, 100},
		{1024, 512, 512, 512, 256},
		{512, 2048, 512, 128, 512},
		{5000, 1, 512, 512, 1},
	}

	for _, tt := range tests {
		w, h := scaledSize(tt.w, tt.h, tt.maxDim)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("scaledSize(%d, %d, %d) = %d, %d; want %d, %d",
				tt.w, tt.h, tt.maxDim, w, h, tt.wantW, tt.wantH)
		}
	}
}
