// Package imagehash finds duplicate sticker images, either byte identical or
// visually similar according to an 8x8 average hash.
package imagehash

import (
	"fmt"
	"image"
	"io"
	"math/bits"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	side     = 8
	bitCount = side * side

	// SimilarDistance is the largest Hamming distance at which two images count as similar.
	SimilarDistance = 5
)

// Hash is an average hash: bit i is set when pixel i of the 8x8 grayscale
// thumbnail is brighter than the thumbnail's mean.
type Hash uint64

// Average computes the average hash of img.
func Average(img image.Image) Hash {
	thumb := image.NewGray(image.Rect(0, 0, side, side))
	draw.CatmullRom.Scale(thumb, thumb.Bounds(), img, img.Bounds(), draw.Src, nil)

	sum := 0
	for _, p := range thumb.Pix {
		sum += int(p)
	}
	mean := float64(sum) / bitCount

	var h Hash
	for i, p := range thumb.Pix {
		if float64(p) > mean {
			h |= 1 << uint(bitCount-1-i)
		}
	}
	return h
}

// Decode reads an image in any of the supported formats and hashes it.
func Decode(r io.Reader) (Hash, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return 0, fmt.Errorf("decode image: %w", err)
	}
	return Average(img), nil
}

func Distance(a, b Hash) int {
	return bits.OnesCount64(uint64(a ^ b))
}

// Similarity maps a distance onto [0, 1], 1 meaning identical hashes.
func Similarity(distance int) float64 {
	return float64(bitCount-distance) / bitCount
}

func (h Hash) String() string {
	return fmt.Sprintf("%064b", uint64(h))
}
