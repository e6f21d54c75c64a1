package vorbismeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/simonhull/vorbismeta/internal/ogg"
)

const testSerial = 0x1234ABCD

// vorbisIdent builds a Vorbis identification header packet.
func vorbisIdent() []byte {
	buf := &bytes.Buffer{}
	buf.WriteByte(0x01)                                    // Packet type: identification
	buf.WriteString("vorbis")                              // Magic
	binary.Write(buf, binary.LittleEndian, uint32(0))      // Vorbis version
	buf.WriteByte(2)                                       // Channels (stereo)
	binary.Write(buf, binary.LittleEndian, uint32(44100))  // Sample rate
	binary.Write(buf, binary.LittleEndian, uint32(0))      // Bitrate maximum
	binary.Write(buf, binary.LittleEndian, uint32(128000)) // Bitrate nominal
	binary.Write(buf, binary.LittleEndian, uint32(0))      // Bitrate minimum
	buf.WriteByte(0xB8)                                    // Blocksize info
	buf.WriteByte(0x01)                                    // Framing flag
	return buf.Bytes()
}

// setupPacket is long enough to need two segments.
func setupPacket() []byte {
	return append([]byte("\x05vorbis"), bytes.Repeat([]byte{0x42}, 300)...)
}

func audioPacket(i int) []byte {
	return bytes.Repeat([]byte{byte(i)}, 100+i*37)
}

// page encodes whole packets onto one page.
func page(flags byte, granule uint64, serial, seq uint32, packets ...[]byte) []byte {
	p := &ogg.Page{HeaderType: flags, GranulePos: granule, SerialNumber: serial, SequenceNumber: seq}
	for _, pkt := range packets {
		p.Segments = append(p.Segments, ogg.BuildSegmentTable(len(pkt))...)
		p.Payload = append(p.Payload, pkt...)
	}
	return p.Encode()
}

// vorbisFile assembles a single-stream Ogg Vorbis file: identification
// page, a page with comment and setup headers, then one page per audio
// packet. A nil comment header leaves it out.
func vorbisFile(t testing.TB, c *Comments, audio int) []byte {
	t.Helper()

	headers := [][]byte{setupPacket()}
	if c != nil {
		comment, err := Encode(c)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		headers = [][]byte{comment, setupPacket()}
	}

	buf := &bytes.Buffer{}
	buf.Write(page(ogg.FlagBOS, 0, testSerial, 0, vorbisIdent()))
	buf.Write(page(0, 0, testSerial, 1, headers...))
	for i := range audio {
		var flags byte
		if i == audio-1 {
			flags = ogg.FlagEOS
		}
		buf.Write(page(flags, uint64(i+1)*1024, testSerial, uint32(i+2), audioPacket(i)))
	}
	return buf.Bytes()
}

func testComments() *Comments {
	c := NewComments("Xiph.Org libVorbis I 20200704 (Reducing Environment)")
	c.Add("TITLE", "Fixture Song")
	c.AddAll("ARTIST", "First Artist", "Second Artist")
	c.Add("ALBUM", "Fixture Album")
	return c
}

// readPackets decodes every packet of an Ogg byte stream.
func readPackets(t testing.TB, data []byte) []*ogg.Packet {
	t.Helper()

	pr := ogg.NewPacketReader(bytes.NewReader(data))
	var packets []*ogg.Packet
	for {
		p, err := pr.ReadPacket()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return packets
			}
			t.Fatalf("ReadPacket() after %d packets: %v", len(packets), err)
		}
		packets = append(packets, p)
	}
}

func describe(p *ogg.Packet) string {
	return fmt.Sprintf("serial %08x, %d bytes, granule %d", p.Serial, len(p.Data), p.GranulePos)
}
