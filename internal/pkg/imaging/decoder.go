package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

const (
	Width    = 256
	Height   = 256
	Channels = 3
)

// AllowedExtensions are the accepted upload extensions, lower case, without dot.
var AllowedExtensions = []string{"png", "jpg", "jpeg", "bmp", "gif"}

// Per-channel means (B, G, R) subtracted by the model's training preprocessing.
var channelMeanBGR = [Channels]float32{103.939, 116.779, 123.68}

// Upload is a raw file as received from a client.
type Upload struct {
	Filename string
	Data     []byte
}

// Tensor is a single NHWC image batch ready for the classifier.
type Tensor struct {
	Shape [4]int64
	Data  []float32
}

// Extension returns the lower-cased extension of filename without the dot.
func Extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// ValidateExtension fails with ErrUnsupportedFormat unless filename carries
// one of AllowedExtensions (case-insensitive).
func ValidateExtension(filename string) error {
	ext := Extension(filename)
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
}

// Decoder turns image bytes into the classifier's input tensor.
type Decoder struct{}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode validates the extension, decodes data, resizes it to 256x256 with
// nearest-neighbour sampling and applies caffe-style normalization: channels
// in BGR order with the ImageNet means subtracted, no scaling.
func (d *Decoder) Decode(data []byte, filename string) (*Tensor, error) {
	if err := ValidateExtension(filename); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}

	return toTensor(scaleNearest(img)), nil
}

// scaleNearest picks exactly one source pixel per output pixel, sampled at
// the pixel centre, in both directions. No averaging happens on downscale.
func scaleNearest(img image.Image) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, Width, Height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func toTensor(img image.Image) *Tensor {
	bounds := img.Bounds()
	data := make([]float32, Width*Height*Channels)

	i := 0
	for y := bounds.Min.Y; y < bounds.Min.Y+Height; y++ {
		for x := bounds.Min.X; x < bounds.Min.X+Width; x++ {
			// alpha is dropped, not blended
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			data[i] = float32(c.B) - channelMeanBGR[0]
			data[i+1] = float32(c.G) - channelMeanBGR[1]
			data[i+2] = float32(c.R) - channelMeanBGR[2]
			i += Channels
		}
	}

	return &Tensor{
		Shape: [4]int64{1, Height, Width, Channels},
		Data:  data,
	}
}
