package ogg

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/simonhull/vorbismeta/internal/types"
)

// Packet is one logical packet reassembled from one or more pages.
type Packet struct {
	Data   []byte
	Serial uint32

	// GranulePos is the granule position of the page the packet ends on.
	GranulePos uint64

	// LastInPage is set on the last packet that ends on its page.
	LastInPage bool

	// LastInStream is set on the last packet of an EOS page.
	LastInStream bool

	// StreamEnd marks an EOS page on which no packet ends. Data is nil and
	// the packet only closes the stream; LastInPage and LastInStream are set.
	StreamEnd bool
}

// PacketReader reads packets from a multiplexed Ogg byte stream.
//
// Pages of different logical streams may interleave; each stream has its
// own buffer for a packet that spans pages.
type PacketReader struct {
	r       *bufio.Reader
	offset  int64
	pages   int
	partial map[uint32][]byte
	queue   []*Packet
}

// NewPacketReader returns a reader over r.
func NewPacketReader(r io.Reader) *PacketReader {
	return &PacketReader{
		r:       bufio.NewReader(r),
		partial: make(map[uint32][]byte),
	}
}

// Offset returns the number of bytes consumed so far.
func (pr *PacketReader) Offset() int64 {
	return pr.offset
}

// Pages returns the number of pages read so far.
func (pr *PacketReader) Pages() int {
	return pr.pages
}

// ReadPacket returns the next complete packet in stream order.
//
// At a clean end of input it returns io.EOF. Malformed pages give a
// *types.ContainerError.
func (pr *PacketReader) ReadPacket() (*Packet, error) {
	for len(pr.queue) == 0 {
		page, err := pr.readPage()
		if err != nil {
			return nil, err
		}
		if err := pr.split(page); err != nil {
			return nil, err
		}
	}

	p := pr.queue[0]
	pr.queue[0] = nil
	pr.queue = pr.queue[1:]
	return p, nil
}

// readPage reads and verifies one page at the current offset.
func (pr *PacketReader) readPage() (*Page, error) {
	start := pr.offset

	header := make([]byte, headerSize)
	n, err := io.ReadFull(pr.r, header)
	pr.offset += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, pr.atEOF()
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &types.ContainerError{Err: types.ErrInvalidPage, Reason: "truncated page header", Offset: start}
		}
		return nil, fmt.Errorf("read page at offset %d: %w", start, err)
	}

	page, err := parseHeader(header)
	if err != nil {
		return nil, withOffset(err, start)
	}

	nseg := int(header[26])
	rest := make([]byte, nseg)
	if err := pr.fill(rest, start, "truncated segment table"); err != nil {
		return nil, err
	}
	payload := make([]byte, payloadSize(rest))
	if err := pr.fill(payload, start, "truncated page payload"); err != nil {
		return nil, err
	}

	raw := make([]byte, 0, headerSize+len(rest)+len(payload))
	raw = append(raw, header...)
	raw = append(raw, rest...)
	raw = append(raw, payload...)
	if err := verifyCRC(raw); err != nil {
		return nil, withOffset(err, start)
	}

	page.Segments = rest
	page.Payload = payload
	pr.pages++
	return page, nil
}

func (pr *PacketReader) fill(b []byte, start int64, reason string) error {
	n, err := io.ReadFull(pr.r, b)
	pr.offset += int64(n)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &types.ContainerError{Err: types.ErrInvalidPage, Reason: reason, Offset: start}
	}
	return fmt.Errorf("read page at offset %d: %w", start, err)
}

// atEOF reports io.EOF, or ErrUnexpectedEOS if a packet is still open.
func (pr *PacketReader) atEOF() error {
	if len(pr.partial) == 0 {
		return io.EOF
	}
	serial := slices.Min(slices.Collect(maps.Keys(pr.partial)))
	return &types.ContainerError{
		Err:    types.ErrUnexpectedEOS,
		Reason: fmt.Sprintf("stream %08x ends inside a packet", serial),
		Offset: pr.offset,
	}
}

// split queues the packets that end on page and buffers any trailing
// partial packet for its stream.
func (pr *PacketReader) split(page *Page) error {
	serial := page.SerialNumber
	cur, pending := pr.partial[serial]

	// Continuation data with nothing to continue belongs to a packet whose
	// start we never saw, so it is dropped.
	orphan := false
	switch {
	case page.IsContinuation() && !pending:
		orphan = true
	case !page.IsContinuation() && pending:
		return &types.ContainerError{
			Err:    types.ErrInvalidPage,
			Reason: fmt.Sprintf("stream %08x starts a new packet while one is pending", serial),
			Offset: pr.offset - int64(page.Size()),
		}
	}
	delete(pr.partial, serial)

	var done []*Packet
	start, pos := 0, 0
	for _, seg := range page.Segments {
		pos += int(seg)
		if seg == 255 {
			continue
		}
		if orphan {
			orphan = false
		} else {
			done = append(done, &Packet{
				Data:       append(cur, page.Payload[start:pos]...),
				Serial:     serial,
				GranulePos: page.GranulePos,
			})
		}
		cur = nil
		start = pos
	}

	if n := len(page.Segments); n > 0 && page.Segments[n-1] == 255 && !orphan {
		pr.partial[serial] = append(cur, page.Payload[start:pos]...)
	}

	if len(done) > 0 {
		last := done[len(done)-1]
		last.LastInPage = true
		last.LastInStream = page.IsEOS()
	} else if page.IsEOS() {
		if _, open := pr.partial[serial]; !open {
			done = append(done, &Packet{
				Serial:       serial,
				GranulePos:   page.GranulePos,
				LastInPage:   true,
				LastInStream: true,
				StreamEnd:    true,
			})
		}
	}
	pr.queue = append(pr.queue, done...)
	return nil
}

func withOffset(err error, offset int64) error {
	var ce *types.ContainerError
	if errors.As(err, &ce) {
		ce.Offset = offset
	}
	return err
}
