// Package ogg implements the Ogg container (RFC 3533) at the packet level.
//
// PacketReader splits a byte stream into packets tagged with their logical
// stream serial, granule position and page/stream boundary flags.
// PacketWriter does the reverse: it paginates packets per stream, numbers
// pages and computes checksums. Packet payloads are never inspected.
//
// # Page Structure
//
//	Bytes 0-3:   "OggS" capture pattern
//	Byte 4:      Stream structure version (always 0)
//	Byte 5:      Header type flags (continuation, BOS, EOS)
//	Bytes 6-13:  Granule position
//	Bytes 14-17: Bitstream serial number
//	Bytes 18-21: Page sequence number
//	Bytes 22-25: CRC checksum
//	Byte 26:     Number of segments
//	Bytes 27+:   Segment table (one byte per segment)
//	Remaining:   Page payload data
//
// A segment of 255 bytes means the packet continues in the next segment,
// possibly on the next page; a shorter segment ends the packet.
package ogg

import (
	"encoding/binary"
	"fmt"

	"github.com/simonhull/vorbismeta/internal/types"
)

// Page header flag constants.
const (
	// FlagContinuation marks a page whose first segment continues a packet
	// from the previous page of the same stream.
	FlagContinuation = 0x01

	// FlagBOS marks the first page of a logical stream.
	FlagBOS = 0x02

	// FlagEOS marks the last page of a logical stream.
	FlagEOS = 0x04
)

const (
	headerSize  = 27
	maxSegments = 255
	capture     = "OggS"

	// NoGranule is the granule position of a page on which no packet ends.
	NoGranule = ^uint64(0)
)

// Page represents a single Ogg page.
type Page struct {
	HeaderType     byte   // Bit flags: 0x01=continued, 0x02=BOS, 0x04=EOS
	GranulePos     uint64 // Codec-defined position at the last packet ending here
	SerialNumber   uint32 // Logical bitstream identifier
	SequenceNumber uint32 // Page sequence number within the stream
	Segments       []byte // Segment table, 0-255 per entry
	Payload        []byte // Concatenated segment data
}

// IsContinuation reports whether the page continues a packet from a previous page.
func (p *Page) IsContinuation() bool {
	return p.HeaderType&FlagContinuation != 0
}

// IsBOS reports whether this is the first page of its stream.
func (p *Page) IsBOS() bool {
	return p.HeaderType&FlagBOS != 0
}

// IsEOS reports whether this is the last page of its stream.
func (p *Page) IsEOS() bool {
	return p.HeaderType&FlagEOS != 0
}

// Size returns the encoded size of the page in bytes.
func (p *Page) Size() int {
	return headerSize + len(p.Segments) + len(p.Payload)
}

// Encode serializes the page with a freshly computed CRC.
func (p *Page) Encode() []byte {
	hdr := headerSize + len(p.Segments)
	data := make([]byte, hdr+len(p.Payload))

	copy(data[0:4], capture)
	data[4] = 0
	data[5] = p.HeaderType
	binary.LittleEndian.PutUint64(data[6:14], p.GranulePos)
	binary.LittleEndian.PutUint32(data[14:18], p.SerialNumber)
	binary.LittleEndian.PutUint32(data[18:22], p.SequenceNumber)
	data[26] = byte(len(p.Segments))
	copy(data[headerSize:], p.Segments)
	copy(data[hdr:], p.Payload)

	binary.LittleEndian.PutUint32(data[22:26], crcUpdate(0, data))
	return data
}

// ParsePage parses one page from the start of data.
//
// Returns the page and the number of bytes consumed. Errors are
// *types.ContainerError wrapping types.ErrInvalidPage or types.ErrBadCRC.
func ParsePage(data []byte) (*Page, int, error) {
	if len(data) < headerSize {
		return nil, 0, &types.ContainerError{Err: types.ErrInvalidPage, Reason: "truncated page header"}
	}
	hdr, err := parseHeader(data[:headerSize])
	if err != nil {
		return nil, 0, err
	}

	nseg := int(data[26])
	if len(data) < headerSize+nseg {
		return nil, 0, &types.ContainerError{Err: types.ErrInvalidPage, Reason: "truncated segment table"}
	}
	hdr.Segments = append([]byte(nil), data[headerSize:headerSize+nseg]...)

	total := headerSize + nseg + payloadSize(hdr.Segments)
	if len(data) < total {
		return nil, 0, &types.ContainerError{Err: types.ErrInvalidPage, Reason: "truncated page payload"}
	}
	hdr.Payload = append([]byte(nil), data[headerSize+nseg:total]...)

	if err := verifyCRC(data[:total]); err != nil {
		return nil, 0, err
	}
	return hdr, total, nil
}

// parseHeader decodes the fixed 27-byte header. Segments and Payload are
// left empty.
func parseHeader(b []byte) (*Page, error) {
	if string(b[0:4]) != capture {
		return nil, &types.ContainerError{Err: types.ErrInvalidPage, Reason: fmt.Sprintf("bad capture pattern %q", b[0:4])}
	}
	if b[4] != 0 {
		return nil, &types.ContainerError{Err: types.ErrInvalidPage, Reason: fmt.Sprintf("unsupported version %d", b[4])}
	}

	return &Page{
		HeaderType:     b[5],
		GranulePos:     binary.LittleEndian.Uint64(b[6:14]),
		SerialNumber:   binary.LittleEndian.Uint32(b[14:18]),
		SequenceNumber: binary.LittleEndian.Uint32(b[18:22]),
	}, nil
}

// verifyCRC checks the stored checksum of a complete encoded page.
func verifyCRC(page []byte) error {
	stored := binary.LittleEndian.Uint32(page[22:26])

	crc := crcUpdate(0, page[:22])
	crc = crcUpdate(crc, []byte{0, 0, 0, 0})
	crc = crcUpdate(crc, page[26:])

	if crc != stored {
		return &types.ContainerError{
			Err:    types.ErrBadCRC,
			Reason: fmt.Sprintf("stored 0x%08x, computed 0x%08x", stored, crc),
		}
	}
	return nil
}

func payloadSize(segments []byte) int {
	n := 0
	for _, seg := range segments {
		n += int(seg)
	}
	return n
}

// BuildSegmentTable creates the lacing values for a packet of the given
// length: full 255-byte segments followed by one shorter terminating
// segment, which is zero when the length is a multiple of 255.
func BuildSegmentTable(packetLen int) []byte {
	segments := make([]byte, packetLen/255+1)
	for i := 0; i < len(segments)-1; i++ {
		segments[i] = 255
	}
	segments[len(segments)-1] = byte(packetLen % 255)
	return segments
}
