package webcam

import (
	"image"
	"math"
	"os"

	// Cameras overwhelmingly serve JPEG, but the decoder registry costs
	// nothing and some placeholders come back as PNG or GIF.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"
)

// IsDegenerate reports whether the captured file is unusable: unreadable or
// empty, or a solid-color frame (pixel standard deviation of exactly zero).
// Offline cameras tend to serve such placeholder frames as valid JPEGs.
func IsDegenerate(path string, logger *zap.Logger) bool {
	f, err := os.Open(path)
	if err != nil {
		logger.Error("image is unreadable, skipping", zap.String("path", path), zap.Error(err))
		return true
	}
	defer f.Close() //nolint:errcheck // read-only file

	img, _, err := image.Decode(f)
	if err != nil {
		logger.Error("image failed to decode, skipping", zap.String("path", path), zap.Error(err))
		return true
	}

	if pixelStdDev(img) == 0 {
		logger.Info("image consists of a single color, skipping", zap.String("path", path))
		return true
	}
	return false
}

// pixelStdDev sums the per-band standard deviations of the 8-bit RGB
// channels. The sum is zero exactly when every band is flat, which covers
// solid colored frames, not just gray ones.
func pixelStdDev(img image.Image) float64 {
	bounds := img.Bounds()
	n := float64(bounds.Dx() * bounds.Dy())
	if n == 0 {
		return 0
	}

	var sum, sumSq [3]float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			for i, v := range [3]uint32{r >> 8, g >> 8, b >> 8} {
				fv := float64(v)
				sum[i] += fv
				sumSq[i] += fv * fv
			}
		}
	}

	var total float64
	for i := range sum {
		mean := sum[i] / n
		variance := sumSq[i]/n - mean*mean
		if variance < 0 {
			variance = 0
		}
		total += math.Sqrt(variance)
	}
	return total
}
