package dds

import "fmt"

// Face is one image of a texture with its mip chain, largest first.
// Side is the Caps2 bit of the cubemap face, or 0 for plain textures.
type Face struct {
	Side    uint32
	Mipmaps []*Surface
}

// Texture is a decoded DDS file.
type Texture struct {
	Header *Header
	Format PixFormat
	Faces  []*Face
}

// Width returns the width of the top level.
func (t *Texture) Width() int {
	if len(t.Faces) == 0 || len(t.Faces[0].Mipmaps) == 0 {
		return 0
	}

	return t.Faces[0].Mipmaps[0].Width
}

// Height returns the height of the top level.
func (t *Texture) Height() int {
	if len(t.Faces) == 0 || len(t.Faces[0].Mipmaps) == 0 {
		return 0
	}

	return t.Faces[0].Mipmaps[0].Height
}

// IsCubemap reports whether the texture holds six cube faces.
func (t *Texture) IsCubemap() bool {
	_, flags, err := cubemapInfo(t.Faces)
	return err == nil && flags != 0
}

// cubeSides lists the Caps2 bits present in caps2 in file order.
func cubeSides(caps2 uint32) []uint32 {
	var sides []uint32
	for _, side := range CubemapDirections {
		if caps2&side != 0 {
			sides = append(sides, side)
		}
	}

	return sides
}

// cubemapInfo validates faces for writing. A single face is a plain
// texture. Six faces covering every side form a cubemap; they are returned
// in file order together with the Caps2 flags.
func cubemapInfo(faces []*Face) ([]*Face, uint32, error) {
	if len(faces) == 0 {
		return nil, 0, ErrEmptyTexture
	}
	if len(faces) == 1 {
		return faces, 0, nil
	}
	if len(faces) != CubemapSides {
		return nil, 0, fmt.Errorf("%w: %d faces", ErrFaceMismatch, len(faces))
	}

	ordered := make([]*Face, 0, CubemapSides)
	for _, side := range CubemapDirections {
		var found *Face
		for _, f := range faces {
			if f != nil && f.Side == side {
				if found != nil {
					return nil, 0, fmt.Errorf("%w: duplicate side 0x%x", ErrFaceMismatch, side)
				}
				found = f
			}
		}
		if found == nil {
			return nil, 0, fmt.Errorf("%w: missing side 0x%x", ErrFaceMismatch, side)
		}
		ordered = append(ordered, found)
	}

	levels := len(ordered[0].Mipmaps)
	for _, f := range ordered[1:] {
		if len(f.Mipmaps) != levels {
			return nil, 0, fmt.Errorf("%w: faces have %d and %d levels", ErrFaceMismatch, levels, len(f.Mipmaps))
		}
	}

	return ordered, Caps2Cubemap | Caps2AllFaces, nil
}
