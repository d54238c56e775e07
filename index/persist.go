package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/lexgo/model"
)

// Compression selects the block compression applied to persisted segments.
type Compression byte

const (
	// CompressionNone stores the segment payload uncompressed.
	CompressionNone Compression = iota
	// CompressionS2 uses S2 (Snappy-compatible) compression.
	CompressionS2
	// CompressionLZ4 uses LZ4 frame compression.
	CompressionLZ4
)

var segmentMagic = [4]byte{'L', 'X', 'S', 'G'}

const segmentFormatVersion = 1

// WriteTo serializes the segment to w. The four-byte magic, format version
// and compression selector are written uncompressed; the payload that
// follows is wrapped in the selected codec. Term dictionaries are written
// in sorted order so output is deterministic.
func (s *Segment) WriteTo(w io.Writer, c Compression) error {
	if s.closed.Load() {
		return ErrSegmentClosed
	}

	header := []byte{segmentMagic[0], segmentMagic[1], segmentMagic[2], segmentMagic[3], segmentFormatVersion, byte(c)}
	if _, err := w.Write(header); err != nil {
		return err
	}

	var (
		payload io.Writer
		closer  io.Closer
	)
	switch c {
	case CompressionNone:
		payload = w
	case CompressionS2:
		sw := s2.NewWriter(w)
		payload, closer = sw, sw
	case CompressionLZ4:
		lw := lz4.NewWriter(w)
		payload, closer = lw, lw
	default:
		return fmt.Errorf("%w: unknown compression %d", ErrBadSegmentData, c)
	}

	enc := newSegmentEncoder(payload)
	if err := s.encode(enc); err != nil {
		return err
	}
	if err := enc.flush(); err != nil {
		return err
	}
	if closer != nil {
		return closer.Close()
	}
	return nil
}

func (s *Segment) encode(enc *segmentEncoder) error {
	enc.uvarint(uint64(s.id))
	enc.uvarint(uint64(s.docBase))
	enc.uvarint(uint64(s.numDocs))

	fieldNames := make([]string, 0, len(s.fields))
	for name := range s.fields {
		fieldNames = append(fieldNames, name)
	}
	sort.Strings(fieldNames)

	enc.uvarint(uint64(len(fieldNames)))
	for _, name := range fieldNames {
		terms := s.fields[name]
		enc.str(name)
		enc.uvarint(uint64(len(terms)))

		texts := make([]string, 0, len(terms))
		for text := range terms {
			texts = append(texts, text)
		}
		sort.Strings(texts)

		for _, text := range texts {
			p := terms[text]
			enc.str(text)
			enc.uvarint(uint64(p.totalTermFreq))

			bm, err := p.docs.MarshalBinary()
			if err != nil {
				return err
			}
			enc.bytes(bm)

			it := p.docs.Iterator()
			for it.HasNext() {
				enc.uvarint(uint64(p.freqs[it.Next()]))
			}
		}
	}
	return enc.err
}

// ReadSegment deserializes a segment previously written with WriteTo.
func ReadSegment(r io.Reader) (*Segment, error) {
	var header [6]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	if [4]byte(header[:4]) != segmentMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrBadSegmentData)
	}
	if header[4] != segmentFormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadSegmentData, header[4])
	}

	var payload io.Reader
	switch Compression(header[5]) {
	case CompressionNone:
		payload = r
	case CompressionS2:
		payload = s2.NewReader(r)
	case CompressionLZ4:
		payload = lz4.NewReader(r)
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrBadSegmentData, header[5])
	}

	dec := newSegmentDecoder(payload)
	seg := &Segment{
		fields: make(map[string]map[string]*Postings),
	}

	seg.id = model.SegmentID(dec.uvarint())
	seg.docBase = model.DocID(dec.uvarint())
	seg.numDocs = uint32(dec.uvarint())

	numFields := dec.uvarint()
	for i := uint64(0); i < numFields; i++ {
		name := dec.str()
		numTerms := dec.uvarint()
		terms := make(map[string]*Postings, numTerms)
		for j := uint64(0); j < numTerms; j++ {
			text := dec.str()
			ttf := int64(dec.uvarint())

			docs := roaring.New()
			if err := docs.UnmarshalBinary(dec.bytes()); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrBadSegmentData, err)
			}

			freqs := make(map[uint32]uint32, docs.GetCardinality())
			it := docs.Iterator()
			for it.HasNext() {
				freqs[it.Next()] = uint32(dec.uvarint())
			}

			terms[text] = &Postings{docs: docs, freqs: freqs, totalTermFreq: ttf}
		}
		seg.fields[name] = terms
		if dec.err != nil {
			return nil, dec.err
		}
	}
	if dec.err != nil {
		return nil, dec.err
	}
	return seg, nil
}

type segmentEncoder struct {
	w   *bufio.Writer
	buf [binary.MaxVarintLen64]byte
	err error
}

func newSegmentEncoder(w io.Writer) *segmentEncoder {
	return &segmentEncoder{w: bufio.NewWriter(w)}
}

func (e *segmentEncoder) uvarint(u uint64) {
	if e.err != nil {
		return
	}
	n := binary.PutUvarint(e.buf[:], u)
	_, e.err = e.w.Write(e.buf[:n])
}

func (e *segmentEncoder) bytes(b []byte) {
	e.uvarint(uint64(len(b)))
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

func (e *segmentEncoder) str(s string) {
	e.bytes([]byte(s))
}

func (e *segmentEncoder) flush() error {
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

type segmentDecoder struct {
	r   *bufio.Reader
	err error
}

func newSegmentDecoder(r io.Reader) *segmentDecoder {
	return &segmentDecoder{r: bufio.NewReader(r)}
}

func (d *segmentDecoder) uvarint() uint64 {
	if d.err != nil {
		return 0
	}
	u, err := binary.ReadUvarint(d.r)
	if err != nil {
		d.err = err
		return 0
	}
	return u
}

func (d *segmentDecoder) bytes() []byte {
	n := d.uvarint()
	if d.err != nil {
		return nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		d.err = err
		return nil
	}
	return b
}

func (d *segmentDecoder) str() string {
	return string(d.bytes())
}
