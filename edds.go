package dds

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"golang.org/x/sync/errgroup"

	"github.com/woozymasta/dds/endian"
)

const (
	// BlockMagicCOPY marks an uncompressed EDDS level.
	BlockMagicCOPY = "COPY"
	// BlockMagicLZ4 marks an LZ4 compressed EDDS level.
	BlockMagicLZ4 = "LZ4 "

	// ChunkSize is the Enfusion chunk size for LZ4 streams.
	ChunkSize = 64 * 1024

	// levels smaller than this are always stored as COPY
	minCompressSize = 1024
	lastChunkFlag   = 0x80
	maxLZ4Ratio     = 255
)

// eddsBlock is one level body of an EDDS file.
type eddsBlock struct {
	Magic            string
	Data             []byte
	Size             int32
	UncompressedSize int32
}

// writeBlockData writes the block payload (no table entry).
func writeBlockData(w io.Writer, block *eddsBlock) error {
	if block.Magic == BlockMagicLZ4 {
		ew := endian.NewWriter(w)
		ew.PutLittleInt32(block.UncompressedSize)
		if err := ew.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteUncompressedSize, err)
		}
		if _, err := w.Write(block.Data); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteChunkStream, err)
		}
		return nil
	}
	if _, err := w.Write(block.Data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteBlockPayload, err)
	}
	return nil
}

// compressBlock compresses raw data into an LZ4 chunk stream or falls back
// to COPY when that does not pay off.
func compressBlock(data []byte) (*eddsBlock, error) {
	if len(data) > maxInt32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(data))
	}
	uncompressedSize, err := i32FromInt(len(data))
	if err != nil {
		return nil, err
	}
	copyBlock := &eddsBlock{Magic: BlockMagicCOPY, Size: uncompressedSize, Data: data}

	if len(data) < minCompressSize {
		return copyBlock, nil
	}

	var chunkStream bytes.Buffer
	compressBuf := make([]byte, lz4.CompressBlockBound(ChunkSize))

	for i := 0; i < len(data); i += ChunkSize {
		end := min(i+ChunkSize, len(data))
		srcChunk := data[i:end]

		cn, err := lz4.CompressBlockHC(srcChunk, compressBuf, 0, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Compress, err)
		}
		if cn == 0 || float64(cn) > float64(len(srcChunk))*0.85 {
			return copyBlock, nil
		}
		if cn > 0x7FFFFF {
			return nil, fmt.Errorf("%w: %d", ErrChunkTooLarge, cn)
		}

		flags := byte(0)
		if end == len(data) {
			flags = lastChunkFlag
		}
		chunkStream.Write([]byte{byte(cn), byte(cn >> 8), byte(cn >> 16), flags})
		chunkStream.Write(compressBuf[:cn])
	}

	compressedData := chunkStream.Bytes()
	total := 4 + len(compressedData)
	if total > maxInt32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCompressedDataTooLarge, total)
	}
	if float64(total) > float64(len(data))*0.85 {
		return copyBlock, nil
	}

	size, err := i32FromInt(total)
	if err != nil {
		return nil, err
	}

	return &eddsBlock{
		Magic:            BlockMagicLZ4,
		Size:             size,
		UncompressedSize: uncompressedSize,
		Data:             compressedData,
	}, nil
}

// decompressBlock inflates an EDDS block into expectedSize bytes.
func decompressBlock(block *eddsBlock, expectedSize int) ([]byte, error) {
	switch block.Magic {
	case BlockMagicCOPY:
		if len(block.Data) != expectedSize {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrCopySizeMismatch, expectedSize, len(block.Data))
		}
		return block.Data, nil
	case BlockMagicLZ4:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockMagic, block.Magic)
	}

	targetSize := int(block.UncompressedSize)
	if targetSize <= 0 || targetSize != expectedSize {
		return nil, fmt.Errorf("%w: %d, level needs %d", ErrInvalidTargetSize, targetSize, expectedSize)
	}
	// an LZ4 sequence expands to at most 255 bytes per input byte
	if targetSize > len(block.Data)*maxLZ4Ratio+ChunkSize {
		return nil, fmt.Errorf("%w: %d from %d compressed bytes", ErrInvalidTargetSize, targetSize, len(block.Data))
	}

	const dictCap = 64 * 1024
	dict := make([]byte, dictCap)
	dictSize := 0

	target := make([]byte, targetSize)
	outIdx := 0

	r := bytes.NewReader(block.Data)

	for {
		if r.Len() < 4 {
			return nil, fmt.Errorf("%w: need 4 bytes header, have %d", ErrChunkStreamTruncated, r.Len())
		}

		var hdr [4]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrChunkHeaderRead, err)
		}

		cSize := int(hdr[0]) | int(hdr[1])<<8 | int(hdr[2])<<16
		flags := hdr[3]
		if flags&^lastChunkFlag != 0 {
			return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownLZ4Flags, flags)
		}
		if cSize <= 0 || cSize > r.Len() {
			return nil, fmt.Errorf("%w: %d (remaining %d)", ErrInvalidChunkSize, cSize, r.Len())
		}

		compressed := make([]byte, cSize)
		if _, err := io.ReadFull(r, compressed); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrChunkDataRead, err)
		}

		remaining := targetSize - outIdx
		if remaining <= 0 {
			return nil, ErrDecodeOverrun
		}
		dst := target[outIdx : outIdx+min(ChunkSize, remaining)]

		n, err := lz4.UncompressBlockWithDict(compressed, dst, dict[:dictSize])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}
		outIdx += n

		// keep the last 64 KiB of output as the dictionary of the next chunk
		decoded := target[outIdx-n : outIdx]
		if len(decoded) >= dictCap {
			copy(dict, decoded[len(decoded)-dictCap:])
			dictSize = dictCap
		} else {
			avail := dictCap - dictSize
			if len(decoded) <= avail {
				copy(dict[dictSize:], decoded)
				dictSize += len(decoded)
			} else {
				shift := len(decoded) - avail
				copy(dict, dict[shift:dictSize])
				copy(dict[dictCap-len(decoded):], decoded)
				dictSize = dictCap
			}
		}

		if flags&lastChunkFlag != 0 {
			break
		}
	}

	if outIdx != targetSize {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, targetSize, outIdx)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes left after decode", ErrBlockLengthMismatch, r.Len())
	}

	return target, nil
}

type blockHeader struct {
	Magic string
	Size  int32
}

func readBlockTable(r io.Reader, count int) ([]blockHeader, error) {
	er := endian.NewReader(r)
	hdrs := make([]blockHeader, 0, count)
	for i := 0; i < count; i++ {
		magicBytes := er.Bytes(4)
		if err := er.Err(); err != nil {
			return nil, fmt.Errorf("%w: %d: %v", ErrBlockTableMagicRead, i, err)
		}
		magic := string(magicBytes)

		size := er.LittleInt32()
		if err := er.Err(); err != nil {
			return nil, fmt.Errorf("%w: %d: %v", ErrBlockTableSizeRead, i, err)
		}

		if magic != BlockMagicCOPY && magic != BlockMagicLZ4 {
			return nil, fmt.Errorf("%w: %d: %q", ErrBlockTableUnknownMagic, i, magic)
		}
		if size < 0 || (magic == BlockMagicLZ4 && size < 4) {
			return nil, fmt.Errorf("%w: %d: %d", ErrBlockTableInvalidSize, i, size)
		}

		hdrs = append(hdrs, blockHeader{Magic: magic, Size: size})
	}

	return hdrs, nil
}

// readBlockBody reads the body announced by h. LZ4 bodies start with the
// uncompressed size.
func readBlockBody(r io.Reader, h blockHeader) (*eddsBlock, error) {
	data, err := readExactly(r, int(h.Size))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBlockBodyRead, h.Magic, err)
	}

	block := &eddsBlock{Magic: h.Magic, Size: h.Size, Data: data}
	if h.Magic == BlockMagicLZ4 {
		er := endian.NewReader(bytes.NewReader(data))
		block.UncompressedSize = er.LittleInt32()
		block.Data = data[4:]
	}

	return block, nil
}

// isEDDSTable reports whether p starts with a block table entry.
func isEDDSTable(p []byte) bool {
	if len(p) < 4 {
		return false
	}
	magic := string(p[:4])

	return magic == BlockMagicCOPY || magic == BlockMagicLZ4
}

// readEDDSLevels reads the block table and bodies that follow the header
// and inflates them. sizes lists the expected byte size of every level,
// largest first; the result has the same order.
func readEDDSLevels(r io.Reader, sizes []int) ([][]byte, error) {
	table, err := readBlockTable(r, len(sizes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadBlockTable, err)
	}

	levels := make([][]byte, len(sizes))
	for i, h := range table {
		level := len(sizes) - 1 - i
		block, err := readBlockBody(r, h)
		if err != nil {
			return nil, fmt.Errorf("%w: mipmap %d: %v", ErrBlockBodyRead, level, err)
		}

		data, err := decompressBlock(block, sizes[level])
		if err != nil {
			return nil, fmt.Errorf("%w: mipmap %d: %v", ErrDecompressBlock, level, err)
		}
		levels[level] = data
	}

	return levels, nil
}

// writeEDDSLevels writes the block table and bodies for levels ordered
// largest first. Levels are LZ4 compressed in parallel unless compress is
// false.
func writeEDDSLevels(w io.Writer, levels [][]byte, compress bool, workers int) error {
	blocks := make([]*eddsBlock, len(levels))

	g := new(errgroup.Group)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, data := range levels {
		g.Go(func() error {
			if !compress {
				size, err := i32FromInt(len(data))
				if err != nil {
					return err
				}
				blocks[i] = &eddsBlock{Magic: BlockMagicCOPY, Size: size, Data: data}
				return nil
			}

			block, err := compressBlock(data)
			if err != nil {
				return fmt.Errorf("%w: mipmap %d: %v", ErrCompressMipmap, i, err)
			}
			blocks[i] = block
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	ew := endian.NewWriter(w)
	for i := len(blocks) - 1; i >= 0; i-- {
		if _, err := ew.Write([]byte(blocks[i].Magic)); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWriteBlockMagic, i, err)
		}
		ew.PutLittleInt32(blocks[i].Size)
		if err := ew.Err(); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWriteBlockSize, i, err)
		}
	}

	for i := len(blocks) - 1; i >= 0; i-- {
		if err := writeBlockData(w, blocks[i]); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWriteBlockData, i, err)
		}
	}

	return nil
}
