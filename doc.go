/*
Package dds reads and writes DirectDraw Surface (.dds) textures.

Decoding covers DXT1 to DXT5, 3Dc (ATI2), ATI1N, RXGB, 16 and 32 bit float
formats, A16B16G16R16 and uncompressed masked RGB, ARGB and luminance data,
including cubemaps, volume textures and full mipmap chains. Encoding produces
DXT1 to DXT5, 3Dc, ATI1N, RXGB or uncompressed BGR(A) surfaces with an
internal block compressor or, optionally, the woozymasta/bcn encoder.

Raw block data can be decompressed, flipped vertically or have its alpha
inverted without a full decode. The Enfusion EDDS variant (per-level LZ4
chunk streams after the DDS header) is read transparently and can be
written with EncodeOptions.EDDS.

Importing the package registers "dds" with the standard image package.
*/
package dds
