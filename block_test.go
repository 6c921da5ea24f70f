package dds

import "testing"

func TestColorConversions(t *testing.T) {
	t.Parallel()

	v := uint16(0xf81f) // magenta
	c := ShortToColor565(v)
	if c != (Color565{R: 31, G: 0, B: 31}) {
		t.Fatalf("ShortToColor565 = %+v", c)
	}
	if got := Color565ToShort(c); got != v {
		t.Fatalf("Color565ToShort = 0x%x", got)
	}
	if got := ShortToColor888(v); got != (Color888{R: 248, G: 0, B: 248}) {
		t.Fatalf("ShortToColor888 = %+v", got)
	}
	if got := Color888ToShort(Color888{R: 255, G: 255, B: 255}); got != 0xffff {
		t.Fatalf("Color888ToShort = 0x%x", got)
	}
}

func TestDxtcReadColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    uint16
		want Color8888
	}{
		{0x0000, Color8888{0, 0, 0, 255}},
		{0xffff, Color8888{255, 255, 255, 255}},
		{0xf800, Color8888{255, 0, 0, 255}},
		{0x07e0, Color8888{0, 255, 0, 255}},
		{0x001f, Color8888{0, 0, 255, 255}},
		{0x8410, Color8888{132, 130, 132, 255}},
	}
	for _, tc := range tests {
		if got := DxtcReadColor(tc.v); got != tc.want {
			t.Errorf("DxtcReadColor(0x%04x) = %+v, want %+v", tc.v, got, tc.want)
		}
	}

	c0, c1 := DxtcReadColors([]byte{0x00, 0xf8, 0x1f, 0x00})
	if c0 != (Color8888{255, 0, 0, 255}) || c1 != (Color8888{0, 0, 255, 255}) {
		t.Fatalf("DxtcReadColors = %+v, %+v", c0, c1)
	}
}

func TestDistance(t *testing.T) {
	t.Parallel()

	if d := Distance(Color888{1, 2, 3}, Color888{4, 6, 3}); d != 25 {
		t.Fatalf("Distance = %d, want 25", d)
	}
}

func TestColBlockPalette(t *testing.T) {
	t.Parallel()

	four := DXTColBlock{Col0: 0xffff, Col1: 0x0000}
	p := four.Palette(false)
	if p[2] != (Color8888{170, 170, 170, 255}) || p[3] != (Color8888{85, 85, 85, 255}) {
		t.Fatalf("4-colour palette = %+v", p)
	}

	three := DXTColBlock{Col0: 0x0000, Col1: 0xffff}
	p = three.Palette(false)
	if p[2] != (Color8888{127, 127, 127, 255}) {
		t.Fatalf("3-colour midpoint = %+v", p[2])
	}
	if p[3] != (Color8888{}) {
		t.Fatalf("3-colour entry 3 = %+v, want transparent black", p[3])
	}

	// DXT3 and DXT5 colour blocks always use four colours
	p = three.Palette(true)
	if p[3].A != 255 {
		t.Fatalf("forced 4-colour palette has transparent entry")
	}
}

func TestColBlockMarshal(t *testing.T) {
	t.Parallel()

	raw := []byte{0x34, 0x12, 0x78, 0x56, 0b11100100, 0, 0, 0xff}
	var b DXTColBlock
	b.Unmarshal(raw)
	if b.Col0 != 0x1234 || b.Col1 != 0x5678 {
		t.Fatalf("endpoints = 0x%x 0x%x", b.Col0, b.Col1)
	}
	for i, want := range []int{0, 1, 2, 3} {
		if got := b.Index(i); got != want {
			t.Fatalf("Index(%d) = %d, want %d", i, got, want)
		}
	}
	if b.Index(15) != 3 || b.Index(4) != 0 {
		t.Fatalf("row indices wrong")
	}

	out := make([]byte, 8)
	b.Marshal(out)
	if string(out) != string(raw) {
		t.Fatalf("Marshal = %v, want %v", out, raw)
	}
}

func TestExplicitAlphaBlock(t *testing.T) {
	t.Parallel()

	raw := []byte{0x10, 0x32, 0x54, 0x76, 0x98, 0xba, 0xdc, 0xfe}
	var a DXTAlphaBlockExplicit
	a.Unmarshal(raw)
	for i := 0; i < 16; i++ {
		want := uint8(i) | uint8(i)<<4
		if got := a.Alpha(i); got != want {
			t.Fatalf("Alpha(%d) = %d, want %d", i, got, want)
		}
	}

	out := make([]byte, 8)
	a.Marshal(out)
	if string(out) != string(raw) {
		t.Fatalf("Marshal = %v", out)
	}
}

func TestLinearAlphaBlockIndices(t *testing.T) {
	t.Parallel()

	var codes [16]uint8
	for i := range codes {
		codes[i] = uint8(i % 8)
	}

	a := DXTAlphaBlock3BitLinear{Alpha0: 200, Alpha1: 10}
	a.SetIndices(&codes)
	for i := range codes {
		if got := a.Index(i); got != int(codes[i]) {
			t.Fatalf("Index(%d) = %d, want %d", i, got, codes[i])
		}
	}

	// codes 0..7 little endian: 0b111_110_101_100_011_010_001_000
	if a.Bits[0] != 0x88 || a.Bits[1] != 0xc6 || a.Bits[2] != 0xfa {
		t.Fatalf("packed bits = % x", a.Bits[:3])
	}

	out := make([]byte, 8)
	a.Marshal(out)
	var back DXTAlphaBlock3BitLinear
	back.Unmarshal(out)
	if back != a {
		t.Fatalf("Unmarshal(Marshal()) = %+v, want %+v", back, a)
	}
}

func TestAlphaPalette(t *testing.T) {
	t.Parallel()

	eight := alphaPalette(255, 0)
	want8 := [8]uint8{255, 0, 219, 182, 146, 109, 73, 36}
	if eight != want8 {
		t.Fatalf("8-alpha palette = %v, want %v", eight, want8)
	}

	six := alphaPalette(0, 255)
	want6 := [8]uint8{0, 255, 51, 102, 153, 204, 0, 255}
	if six != want6 {
		t.Fatalf("6-alpha palette = %v, want %v", six, want6)
	}
}

func TestGetBitsFromMask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mask             uint32
		wantLeft, wantRt int
	}{
		{0, 0, 0},
		{0x00ff0000, 0, 16},
		{0xf800, 3, 11},
		{0x07e0, 2, 5},
		{0x001f, 3, 0},
		{0xc0000000, 6, 30},
		{0x3ff00000, 0, 20},
	}
	for _, tc := range tests {
		l, r := GetBitsFromMask(tc.mask)
		if l != tc.wantLeft || r != tc.wantRt {
			t.Errorf("GetBitsFromMask(0x%x) = %d, %d; want %d, %d", tc.mask, l, r, tc.wantLeft, tc.wantRt)
		}
	}
}

func TestExpandBits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		v      uint32
		mask   uint32
		target int
		want   uint32
	}{
		{name: "5-bit-max", v: 0x1f, mask: 0x1f, target: 8, want: 255},
		{name: "5-bit-half", v: 0x10, mask: 0x1f, target: 8, want: 0x84},
		{name: "1-bit", v: 0x8000, mask: 0x8000, target: 8, want: 255},
		{name: "2-bit-to-16", v: 0x80000000, mask: 0xc0000000, target: 16, want: 0xaaaa},
		{name: "10-bit-to-16", v: 0x3ff << 10, mask: 0xffc00, target: 16, want: 0xffff},
		{name: "wider-than-target", v: 0xabcd, mask: 0xffff, target: 8, want: 0xab},
		{name: "empty-mask", v: 0xffffffff, mask: 0, target: 8, want: 0},
	}
	for _, tc := range tests {
		if got := expandBits(tc.v, tc.mask, tc.target); got != tc.want {
			t.Errorf("%s: expandBits = 0x%x, want 0x%x", tc.name, got, tc.want)
		}
	}
}
