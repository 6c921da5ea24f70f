package dds

import (
	"fmt"
	"image"

	"github.com/woozymasta/bcn"
)

// mipLevelCount returns the length of a full mip chain for the given size.
func mipLevelCount(width, height, depth int) int {
	count := 1
	for width > 1 || height > 1 || depth > 1 {
		count++
		width = max(width/2, 1)
		height = max(height/2, 1)
		depth = max(depth/2, 1)
	}

	return count
}

// mipDimension calculates the dimension of a mipmap level.
func mipDimension(base, level int) int {
	result := base >> level
	if result < 1 {
		return 1
	}

	return result
}

// generateMipmaps builds a mip chain from img, largest first.
// maxMipMaps=0 means full chain.
func generateMipmaps(img image.Image, maxMipMaps int) ([]*Surface, error) {
	bounds := img.Bounds()
	count := mipLevelCount(bounds.Dx(), bounds.Dy(), 1)
	if maxMipMaps > 0 && maxMipMaps < count {
		count = maxMipMaps
	}

	if count == 1 {
		s, err := SurfaceFromImage(img)
		if err != nil {
			return nil, err
		}
		return []*Surface{s}, nil
	}

	mips := bcn.GenerateMipmaps(img, false)
	if len(mips) > count {
		mips = mips[:count]
	}
	if len(mips) == 0 {
		return nil, ErrEmptyTexture
	}

	levels := make([]*Surface, len(mips))
	for i, mip := range mips {
		s, err := SurfaceFromImage(mip)
		if err != nil {
			return nil, fmt.Errorf("%w: mipmap %d: %v", ErrCompressMipmap, i, err)
		}
		if s.Width != mipDimension(bounds.Dx(), i) || s.Height != mipDimension(bounds.Dy(), i) {
			return nil, fmt.Errorf("%w: mipmap %d is %dx%d", ErrMipmapSizeMismatch, i, s.Width, s.Height)
		}
		levels[i] = s
	}

	return levels, nil
}
