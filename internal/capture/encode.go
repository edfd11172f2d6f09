package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
)

// encodeJPEG converts a packed RGB frame into a JPEG payload at the
// configured quality. Sources that report no resolution fall back to the
// bridge's default dimensions. Returns the encoded bytes and the dimensions
// actually used.
func encodeJPEG(frame Frame, opts Options) ([]byte, int, int, error) {
	width, height := frame.Width, frame.Height
	if width <= 0 || height <= 0 {
		width, height = opts.DefaultWidth, opts.DefaultHeight
	}
	need := width * height * 3
	if len(frame.Data) < need {
		return nil, 0, 0, fmt.Errorf("frame data too short: have %d bytes, need %d for %dx%d", len(frame.Data), need, width, height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := y * width * 3
		dst := y * img.Stride
		for x := 0; x < width; x++ {
			img.Pix[dst+0] = frame.Data[src+0]
			img.Pix[dst+1] = frame.Data[src+1]
			img.Pix[dst+2] = frame.Data[src+2]
			img.Pix[dst+3] = 0xff
			src += 3
			dst += 4
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
		return nil, 0, 0, err
	}
	return buf.Bytes(), width, height, nil
}
