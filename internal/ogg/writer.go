package ogg

import (
	"fmt"
	"io"
	"slices"
)

// EndInfo tells the writer what boundary follows a packet.
type EndInfo int

const (
	// NormalPacket lets the packet share its page with the next one.
	NormalPacket EndInfo = iota

	// EndPage closes the current page after the packet.
	EndPage

	// EndStream closes the page and marks it as the last of the stream.
	EndStream
)

func (e EndInfo) String() string {
	switch e {
	case NormalPacket:
		return "normal"
	case EndPage:
		return "end-page"
	case EndStream:
		return "end-stream"
	default:
		return fmt.Sprintf("EndInfo(%d)", int(e))
	}
}

type streamState struct {
	sequence  uint32
	started   bool // first page written
	continued bool // next page starts inside a packet
	segments  []byte
	payload   []byte
	granule   uint64
	hasEnd    bool // granule applies to the pending page
}

// PacketWriter paginates packets into an Ogg byte stream.
//
// Each serial keeps its own page sequence and pending page. Pages are
// written to the underlying writer as soon as they are closed, so pages of
// different streams appear in the order they fill up.
type PacketWriter struct {
	w       io.Writer
	streams map[uint32]*streamState
	order   []uint32
	pages   int
}

// NewPacketWriter returns a writer that emits pages to w.
func NewPacketWriter(w io.Writer) *PacketWriter {
	return &PacketWriter{
		w:       w,
		streams: make(map[uint32]*streamState),
	}
}

// Pages returns the number of pages written so far.
func (pw *PacketWriter) Pages() int {
	return pw.pages
}

// WritePacket appends a packet to the pending page of its stream.
//
// granule is recorded as the page granule position when the packet ends
// on that page. A page that fills its 255-entry segment table is flushed
// early and the packet continues on the next page.
func (pw *PacketWriter) WritePacket(data []byte, serial uint32, end EndInfo, granule uint64) error {
	st := pw.state(serial)

	segments := BuildSegmentTable(len(data))
	off := 0
	for i, seg := range segments {
		if len(st.segments) == maxSegments {
			if err := pw.flush(serial, st, false); err != nil {
				return err
			}
		}
		st.segments = append(st.segments, seg)
		st.payload = append(st.payload, data[off:off+int(seg)]...)
		off += int(seg)

		if i == len(segments)-1 {
			st.granule = granule
			st.hasEnd = true
		}
	}

	switch end {
	case EndPage:
		return pw.flush(serial, st, false)
	case EndStream:
		return pw.endStream(serial, st)
	}
	return nil
}

// CloseStream ends a stream without a packet, writing its pending data
// on an EOS page with the given granule position. A stream with nothing
// pending gets an EOS page with an empty segment table.
func (pw *PacketWriter) CloseStream(serial uint32, granule uint64) error {
	st := pw.state(serial)
	st.granule = granule
	st.hasEnd = true
	return pw.endStream(serial, st)
}

func (pw *PacketWriter) state(serial uint32) *streamState {
	st, ok := pw.streams[serial]
	if !ok {
		st = &streamState{}
		pw.streams[serial] = st
		pw.order = append(pw.order, serial)
	}
	return st
}

func (pw *PacketWriter) endStream(serial uint32, st *streamState) error {
	if err := pw.flush(serial, st, true); err != nil {
		return err
	}
	// A serial reused after EOS starts a new stream.
	delete(pw.streams, serial)
	pw.forget(serial)
	return nil
}

// Close flushes every pending page in stream creation order.
func (pw *PacketWriter) Close() error {
	for _, serial := range pw.order {
		st := pw.streams[serial]
		if len(st.segments) == 0 {
			continue
		}
		if err := pw.flush(serial, st, false); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PacketWriter) flush(serial uint32, st *streamState, eos bool) error {
	if len(st.segments) == 0 && !eos {
		return nil
	}

	page := Page{
		GranulePos:     NoGranule,
		SerialNumber:   serial,
		SequenceNumber: st.sequence,
		Segments:       st.segments,
		Payload:        st.payload,
	}
	if st.continued {
		page.HeaderType |= FlagContinuation
	}
	if !st.started {
		page.HeaderType |= FlagBOS
	}
	if eos {
		page.HeaderType |= FlagEOS
	}
	if st.hasEnd {
		page.GranulePos = st.granule
	}

	if _, err := pw.w.Write(page.Encode()); err != nil {
		return fmt.Errorf("ogg: write page %d of stream %08x: %w", st.sequence, serial, err)
	}
	pw.pages++

	st.continued = len(st.segments) > 0 && st.segments[len(st.segments)-1] == 255
	st.started = true
	st.sequence++
	st.segments = nil
	st.payload = nil
	st.hasEnd = false
	return nil
}

func (pw *PacketWriter) forget(serial uint32) {
	if i := slices.Index(pw.order, serial); i >= 0 {
		pw.order = slices.Delete(pw.order, i, i+1)
	}
}
