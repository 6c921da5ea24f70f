package dds

// CorrectPreMult converts premultiplied colours of an 8-bit RGBA surface
// back to straight alpha: c = c*256/a, clamped to 255. Texels with zero
// alpha are left unchanged.
func CorrectPreMult(s *Surface) {
	if s == nil || s.Type != TypeUint8 || s.Channels != 4 {
		return
	}

	for i := 0; i+3 < len(s.Pix); i += 4 {
		a := int(s.Pix[i+3])
		if a == 0 {
			continue
		}
		for c := 0; c < 3; c++ {
			s.Pix[i+c] = uint8(min(int(s.Pix[i+c])<<8/a, 0xff))
		}
	}
}

// PreMult multiplies the colours of 8-bit RGBA texels by their alpha:
// c = c*a >> 8.
func PreMult(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := int(pix[i+3])
		for c := 0; c < 3; c++ {
			pix[i+c] = uint8(int(pix[i+c]) * a >> 8)
		}
	}
}
