package classifier

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

// preprocess decodes an uploaded image and converts it to the tensor layout
// the model expects: size x size RGB, values normalized to [0,1], NHWC
// interleaved (the layout the trained Keras model was exported with).
func preprocess(data []byte, size int) ([]float32, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrBadImage("undecodable image payload: " + err.Error())
	}
	resized := resize.Resize(uint(size), uint(size), img, resize.Lanczos3)

	out := make([]float32, size*size*3)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			i := (y*size + x) * 3
			// RGBA returns 16-bit channels
			out[i] = float32(r) / 65535.0
			out[i+1] = float32(g) / 65535.0
			out[i+2] = float32(b) / 65535.0
		}
	}
	return out, nil
}
