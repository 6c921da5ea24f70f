package dds

import (
	"errors"
	"testing"
)

func TestParsePixFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want PixFormat
	}{
		{in: "dxt1", want: FormatDXT1},
		{in: "BC3", want: FormatDXT5},
		{in: "ati2", want: Format3DC},
		{in: "3DC", want: Format3DC},
		{in: "BC4", want: FormatATI1N},
		{in: " bgra8 ", want: FormatARGB},
		{in: "BGR", want: FormatRGB},
		{in: "luminance_alpha", want: FormatLuminanceAlpha},
		{in: "A32B32G32R32F", want: FormatA32B32G32R32F},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParsePixFormat(tc.in)
			if err != nil {
				t.Fatalf("ParsePixFormat(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("ParsePixFormat(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}

	for _, bad := range []string{"", "unknown", "DXT9"} {
		if _, err := ParsePixFormat(bad); !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("ParsePixFormat(%q): expected ErrInvalidFormat, got %v", bad, err)
		}
	}
}

func TestPixFormatStringRoundTrip(t *testing.T) {
	t.Parallel()

	for f := FormatARGB; f < FormatUnknown; f++ {
		got, err := ParsePixFormat(f.String())
		if err != nil {
			t.Fatalf("ParsePixFormat(%q): %v", f.String(), err)
		}
		if got != f {
			t.Fatalf("round trip of %s gave %s", f, got)
		}
	}
	if s := PixFormat(99).String(); s != "PixFormat(99)" {
		t.Fatalf("String = %q", s)
	}
}

func TestDecodePixelFormat(t *testing.T) {
	t.Parallel()

	fourCC := func(code uint32) PixelFormat {
		return PixelFormat{Size: PixelFormatSize, Flags: PFFourCC, FourCC: code}
	}

	tests := []struct {
		name     string
		pf       PixelFormat
		w, h, d  uint32
		want     PixFormat
		wantSize int
	}{
		{name: "dxt1", pf: fourCC(MakeFourCC('D', 'X', 'T', '1')), w: 5, h: 7, want: FormatDXT1, wantSize: 32},
		{name: "dxt3", pf: fourCC(MakeFourCC('D', 'X', 'T', '3')), w: 4, h: 4, want: FormatDXT3, wantSize: 16},
		{name: "ati1", pf: fourCC(MakeFourCC('A', 'T', 'I', '1')), w: 8, h: 8, want: FormatATI1N, wantSize: 32},
		{name: "ati2", pf: fourCC(MakeFourCC('A', 'T', 'I', '2')), w: 8, h: 8, want: Format3DC, wantSize: 64},
		{name: "rxgb", pf: fourCC(MakeFourCC('R', 'X', 'G', 'B')), w: 4, h: 4, want: FormatRXGB, wantSize: 16},
		{name: "a16b16g16r16", pf: fourCC(36), w: 2, h: 2, want: FormatA16B16G16R16, wantSize: 32},
		{name: "r16f", pf: fourCC(111), w: 2, h: 2, want: FormatR16F, wantSize: 8},
		{name: "g16r16f", pf: fourCC(112), w: 2, h: 2, want: FormatG16R16F, wantSize: 16},
		{name: "a16b16g16r16f", pf: fourCC(113), w: 2, h: 2, want: FormatA16B16G16R16F, wantSize: 32},
		{name: "r32f", pf: fourCC(114), w: 2, h: 2, want: FormatR32F, wantSize: 16},
		{name: "g32r32f", pf: fourCC(115), w: 2, h: 2, want: FormatG32R32F, wantSize: 32},
		{name: "a32b32g32r32f", pf: fourCC(116), w: 2, h: 2, want: FormatA32B32G32R32F, wantSize: 64},
		{name: "dxt5-volume", pf: fourCC(MakeFourCC('D', 'X', 'T', '5')), w: 4, h: 4, d: 3, want: FormatDXT5, wantSize: 48},
		{
			name: "argb",
			pf:   PixelFormat{Size: PixelFormatSize, Flags: PFRGB | PFAlphaPixels, RGBBitCount: 32},
			w:    3, h: 3, want: FormatARGB, wantSize: 36,
		},
		{
			name: "rgb565",
			pf:   PixelFormat{Size: PixelFormatSize, Flags: PFRGB, RGBBitCount: 16},
			w:    3, h: 3, want: FormatRGB, wantSize: 18,
		},
		{
			name: "luminance",
			pf:   PixelFormat{Size: PixelFormatSize, Flags: PFLuminance, RGBBitCount: 8},
			w:    3, h: 1, want: FormatLuminance, wantSize: 3,
		},
		{
			name: "luminance-alpha",
			pf:   PixelFormat{Size: PixelFormatSize, Flags: PFLuminance | PFAlphaPixels, RGBBitCount: 16},
			w:    3, h: 1, want: FormatLuminanceAlpha, wantSize: 6,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := &Header{Width: tc.w, Height: tc.h, Depth: tc.d, PixelFormat: tc.pf}
			got, size, err := DecodePixelFormat(h)
			if err != nil {
				t.Fatalf("DecodePixelFormat: %v", err)
			}
			if got != tc.want || size != tc.wantSize {
				t.Fatalf("DecodePixelFormat = %s, %d; want %s, %d", got, size, tc.want, tc.wantSize)
			}
		})
	}
}

func TestDecodePixelFormatErrors(t *testing.T) {
	t.Parallel()

	h := &Header{Width: 4, Height: 4, PixelFormat: PixelFormat{Flags: PFFourCC, FourCC: MakeFourCC('X', 'X', 'X', 'X')}}
	if _, _, err := DecodePixelFormat(h); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}

	h = &Header{Width: 4, Height: 4, PixelFormat: PixelFormat{Flags: PFRGB, RGBBitCount: 12}}
	if _, _, err := DecodePixelFormat(h); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat for 12 bpp, got %v", err)
	}

	h = &Header{Width: 0xffffffff, Height: 0xffffffff, PixelFormat: PixelFormat{Flags: PFRGB, RGBBitCount: 32}}
	if _, _, err := DecodePixelFormat(h); !errors.Is(err, ErrSizeOverflow) {
		t.Fatalf("expected ErrSizeOverflow, got %v", err)
	}
}

func TestHas16BitComponents(t *testing.T) {
	t.Parallel()

	a2b10g10r10 := PixelFormat{RGBBitCount: 32, RBitMask: 0x3ff, GBitMask: 0xffc00, BBitMask: 0x3ff00000, ABitMask: 0xc0000000}
	a2r10g10b10 := PixelFormat{RGBBitCount: 32, RBitMask: 0x3ff00000, GBitMask: 0xffc00, BBitMask: 0x3ff, ABitMask: 0xc0000000}
	bgra8 := PixelFormat{RGBBitCount: 32, RBitMask: 0xff0000, GBitMask: 0xff00, BBitMask: 0xff, ABitMask: 0xff000000}

	if !Has16BitComponents(a2b10g10r10) || !Has16BitComponents(a2r10g10b10) {
		t.Fatalf("10:10:10:2 layouts not detected")
	}
	if Has16BitComponents(bgra8) {
		t.Fatalf("BGRA8 reported as 16 bit")
	}
}

func TestBlockBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		f    PixFormat
		want int
	}{
		{FormatDXT1, 8}, {FormatATI1N, 8}, {FormatDXT2, 16}, {FormatDXT5, 16},
		{Format3DC, 16}, {FormatRXGB, 16}, {FormatARGB, 0}, {FormatR32F, 0},
	}
	for _, tc := range tests {
		if got := tc.f.BlockBytes(); got != tc.want {
			t.Errorf("%s.BlockBytes() = %d, want %d", tc.f, got, tc.want)
		}
		if tc.f.IsCompressed() != (tc.want != 0) {
			t.Errorf("%s.IsCompressed() = %v", tc.f, tc.f.IsCompressed())
		}
	}
}
