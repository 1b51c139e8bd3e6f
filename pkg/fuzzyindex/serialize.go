package fuzzyindex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/nibblematch/levdex/pkg/codec"
	"github.com/nibblematch/levdex/pkg/csr"
	"github.com/nibblematch/levdex/pkg/delindex"
	"github.com/nibblematch/levdex/pkg/pairindex"
)

// Sentinel errors surfaced by Deserialize: a corrupt or truncated file
// must be caller-visible rather than panic or silently load a partial
// index.
var (
	ErrShortRead       = errors.New("fuzzyindex: short read")
	ErrLengthMismatch  = errors.New("fuzzyindex: keyword length mismatch")
	ErrPayloadMismatch = errors.New("fuzzyindex: pair/deletion payload id out of range or count mismatch")
	ErrBadCountWidth   = errors.New("fuzzyindex: unknown count width byte")
)

const (
	countWidth16 = 16
	countWidth32 = 32
)

// Serialize writes idx to w in the reference's byte-exact on-disk
// format: a 4-byte keyword count, then keyword_count fixed KeywordLen+1 byte
// records (NUL-padded), then the pair-index block, then the
// deletion-index block. An index that is still Collecting is finalized
// first.
func (idx *Index) Serialize(w io.Writer) error {
	if idx.state != Finalized {
		idx.Finalize()
	}
	bw := &byteWriter{w: w}

	bw.writeInt32(int32(len(idx.words)))
	for _, word := range idx.words {
		var rec [codec.KeywordLen + 1]byte
		copy(rec[:], word)
		bw.write(rec[:])
	}

	writeCSRBlock(bw, idx.Pair, true)
	writeCSRBlock(bw, idx.Del, false)

	return bw.err
}

// writeCSRBlock writes one CSR table in the on-disk layout shared by
// the pair index and the deletion index: key_space (and, for the pair
// index only, pair_count), a count-width byte, the per-slot counts at
// that width, a total-postings int32, and the postings themselves
// packed to 3 bytes each.
func writeCSRBlock(bw *byteWriter, t *csr.Table, isPair bool) {
	if isPair {
		bw.writeInt32(int32(pairindex.KeySpace))
		bw.writeInt32(int32(pairindex.PairCount))
	} else {
		bw.writeInt32(int32(delindex.KeySpace))
	}

	maxc := t.MaxCount()
	width := countWidth16
	if maxc > 0xFFFF {
		width = countWidth32
	}
	bw.writeByte(byte(width))
	for _, c := range t.Counts {
		if width == countWidth16 {
			bw.writeUint16(uint16(c))
		} else {
			bw.writeUint32(c)
		}
	}

	bw.writeInt32(int32(len(t.Payload)))
	for _, v := range t.Payload {
		bw.write3(v)
	}
}

// Deserialize reads an Index back from the format Serialize produces.
// The returned index is Finalized and ready for search.Search.
func Deserialize(r io.Reader) (*Index, error) {
	br := &byteReader{r: r}

	n, err := br.readInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, ErrLengthMismatch
	}

	words := make([][]byte, n)
	codes := make([]uint64, n)
	for i := int32(0); i < n; i++ {
		var rec [codec.KeywordLen + 1]byte
		if err := br.read(rec[:]); err != nil {
			return nil, err
		}
		word := make([]byte, codec.KeywordLen)
		copy(word, rec[:codec.KeywordLen])
		words[i] = word
		codes[i] = codec.Encode(word)
	}

	pair, err := readCSRBlock(br, true, uint32(n))
	if err != nil {
		return nil, err
	}
	del, err := readCSRBlock(br, false, uint32(n))
	if err != nil {
		return nil, err
	}

	return &Index{
		state: Finalized,
		words: words,
		codes: codes,
		Pair:  pair,
		Del:   del,
	}, nil
}

func readCSRBlock(br *byteReader, isPair bool, idLimit uint32) (*csr.Table, error) {
	keySpace, err := br.readInt32()
	if err != nil {
		return nil, err
	}
	totalSlots := keySpace
	if isPair {
		pairCount, err := br.readInt32()
		if err != nil {
			return nil, err
		}
		if pairCount < 0 {
			return nil, ErrLengthMismatch
		}
		totalSlots = keySpace * pairCount
	}
	if keySpace < 0 || totalSlots < 0 {
		return nil, ErrLengthMismatch
	}

	width, err := br.readByte()
	if err != nil {
		return nil, err
	}
	if width != countWidth16 && width != countWidth32 {
		return nil, ErrBadCountWidth
	}

	counts := make([]uint32, totalSlots)
	for i := range counts {
		if width == countWidth16 {
			v, err := br.readUint16()
			if err != nil {
				return nil, err
			}
			counts[i] = uint32(v)
		} else {
			v, err := br.readUint32()
			if err != nil {
				return nil, err
			}
			counts[i] = v
		}
	}

	total, err := br.readInt32()
	if err != nil {
		return nil, err
	}
	if total < 0 {
		return nil, ErrLengthMismatch
	}

	var countSum uint32
	for _, c := range counts {
		countSum += c
	}
	if uint32(total) != countSum {
		return nil, ErrPayloadMismatch
	}

	payload := make([]uint32, total)
	for i := range payload {
		v, err := br.read3()
		if err != nil {
			return nil, err
		}
		var id uint32
		if isPair {
			id = v
		} else {
			id, _ = delindex.Unpack(v)
		}
		if id >= idLimit {
			return nil, ErrPayloadMismatch
		}
		payload[i] = v
	}

	return csr.FromCounts(counts, payload), nil
}

// byteWriter/byteReader are small helpers matching the little-endian,
// fixed-width fields the reference C structures write verbatim.

type byteWriter struct {
	w   io.Writer
	err error
}

func (bw *byteWriter) write(b []byte) {
	if bw.err != nil {
		return
	}
	_, bw.err = bw.w.Write(b)
}

func (bw *byteWriter) writeByte(b byte)       { bw.write([]byte{b}) }
func (bw *byteWriter) writeInt32(v int32)     { bw.writeUint32(uint32(v)) }
func (bw *byteWriter) writeUint32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	bw.write(buf[:])
}
func (bw *byteWriter) writeUint16(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	bw.write(buf[:])
}
func (bw *byteWriter) write3(v uint32) {
	buf := [3]byte{byte(v), byte(v >> 8), byte(v >> 16)}
	bw.write(buf[:])
}

type byteReader struct {
	r io.Reader
}

func (br *byteReader) read(b []byte) error {
	if _, err := io.ReadFull(br.r, b); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %v", ErrShortRead, err)
		}
		return err
	}
	return nil
}

func (br *byteReader) readByte() (byte, error) {
	var b [1]byte
	if err := br.read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (br *byteReader) readInt32() (int32, error) {
	v, err := br.readUint32()
	return int32(v), err
}

func (br *byteReader) readUint32() (uint32, error) {
	var buf [4]byte
	if err := br.read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (br *byteReader) readUint16() (uint16, error) {
	var buf [2]byte
	if err := br.read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func (br *byteReader) read3() (uint32, error) {
	var buf [3]byte
	if err := br.read(buf[:]); err != nil {
		return 0, err
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16, nil
}
