// Package splice finds and replaces the comment header packet inside a
// multiplexed Ogg packet stream.
//
// Only the primary stream, the one that owns the first packet, is probed.
// Every other packet is forwarded unchanged.
package splice

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/simonhull/vorbismeta/internal/ogg"
	"github.com/simonhull/vorbismeta/internal/registry"
	"github.com/simonhull/vorbismeta/internal/types"
	"github.com/simonhull/vorbismeta/internal/vorbis"
)

// PacketSource yields packets in stream order and io.EOF at the end.
type PacketSource interface {
	ReadPacket() (*ogg.Packet, error)
}

// PacketSink accepts packets for re-pagination.
//
// CloseStream ends a stream whose source EOS page carried no packet.
type PacketSink interface {
	WritePacket(data []byte, serial uint32, end ogg.EndInfo, granule uint64) error
	CloseStream(serial uint32, granule uint64) error
}

// Result describes what a splice did.
type Result struct {
	Codec    string // dialect used for the primary stream
	Primary  uint32 // serial of the primary stream
	Replaced bool
	Index    int // packet index of the replaced header, -1 if none
	Packets  int // packets forwarded
	Foreign  int // forwarded packets from other streams
	Closed   int // empty EOS pages forwarded
}

// Dialect returns the comment codec for a stream whose first packet is
// firstPacket. Unknown streams are treated as Vorbis.
func Dialect(firstPacket []byte) registry.CommentCodec {
	if c := registry.Detect(firstPacket); c != nil {
		return c
	}
	return vorbis.Vorbis
}

// Locate returns the first comment header of the primary stream.
//
// An empty input or one that ends before a header decodes gives an error
// matching types.ErrNotFound. If a read error ends the scan after the
// first packet, the *types.NotFoundError carries it as Cause. A failure on
// the first packet is returned unchanged.
func Locate(src PacketSource, logger zerolog.Logger) (*types.Comments, registry.CommentCodec, error) {
	first, err := src.ReadPacket()
	if errors.Is(err, io.EOF) {
		return nil, nil, &types.NotFoundError{}
	}
	if err != nil {
		return nil, nil, err
	}

	codec := Dialect(first.Data)
	primary := first.Serial
	logger.Debug().
		Str("codec", codec.Name()).
		Uint32("serial", primary).
		Msg("primary stream")

	p := first
	for n := 1; ; n++ {
		if p.StreamEnd {
			logger.Trace().Uint32("serial", p.Serial).Msg("stream ended")
		} else if p.Serial != primary {
			logger.Trace().Uint32("serial", p.Serial).Int("packet", n-1).Msg("skip foreign packet")
		} else if c, ok := codec.Probe(p.Data); ok {
			logger.Debug().Int("packet", n-1).Int("comments", c.Len()).Msg("comment header found")
			return c, codec, nil
		}

		p, err = src.ReadPacket()
		if errors.Is(err, io.EOF) {
			return nil, codec, &types.NotFoundError{Packets: n}
		}
		if err != nil {
			return nil, codec, &types.NotFoundError{Cause: err, Packets: n}
		}
	}
}

// Splice copies packets from src to sink, replacing the first comment
// header of the primary stream with the encoding of c.
//
// The replacement is encoded before anything is written, so an encode
// failure leaves sink untouched. Copying stops when every stream seen so
// far has ended or src returns io.EOF, so a secondary stream that ends
// before the primary one does not cut the copy short. Any other read
// error stops the copy and is returned along with the result so far.
func Splice(src PacketSource, sink PacketSink, c *types.Comments, logger zerolog.Logger) (Result, error) {
	res := Result{Index: -1}

	p, err := src.ReadPacket()
	if errors.Is(err, io.EOF) {
		return res, nil
	}
	if err != nil {
		return res, err
	}

	codec := Dialect(p.Data)
	res.Codec = codec.Name()
	res.Primary = p.Serial

	header, err := codec.Encode(c)
	if err != nil {
		return res, err
	}
	logger.Debug().
		Str("codec", res.Codec).
		Uint32("serial", res.Primary).
		Int("header_size", len(header)).
		Msg("splicing comment header")

	open := make(map[uint32]bool)
	for {
		if _, seen := open[p.Serial]; !seen {
			open[p.Serial] = true
		}

		data := p.Data
		switch {
		case p.StreamEnd:
			if err := sink.CloseStream(p.Serial, p.GranulePos); err != nil {
				return res, fmt.Errorf("close stream %08x: %w", p.Serial, err)
			}
			res.Closed++
			logger.Trace().Uint32("serial", p.Serial).Msg("forward empty end-of-stream page")
		case p.Serial != res.Primary:
			res.Foreign++
			logger.Trace().Uint32("serial", p.Serial).Int("packet", res.Packets).Msg("forward foreign packet")
		case !res.Replaced:
			if _, ok := codec.Probe(data); ok {
				data = header
				res.Replaced = true
				res.Index = res.Packets
				logger.Debug().Int("packet", res.Index).Int("old_size", len(p.Data)).Msg("comment header replaced")
			}
		}

		if !p.StreamEnd {
			if err := sink.WritePacket(data, p.Serial, endInfo(p), p.GranulePos); err != nil {
				return res, fmt.Errorf("write packet %d: %w", res.Packets, err)
			}
			res.Packets++
		}

		if p.LastInStream && p.LastInPage {
			open[p.Serial] = false
			if allClosed(open) {
				logger.Debug().Int("packets", res.Packets).Msg("all streams ended")
				return res, nil
			}
		}

		p, err = src.ReadPacket()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return res, err
		}
	}
}

func endInfo(p *ogg.Packet) ogg.EndInfo {
	switch {
	case p.LastInStream:
		return ogg.EndStream
	case p.LastInPage:
		return ogg.EndPage
	default:
		return ogg.NormalPacket
	}
}

func allClosed(open map[uint32]bool) bool {
	for _, o := range open {
		if o {
			return false
		}
	}
	return true
}
