// Command ogg-dump lists the packets of an Ogg file.
//
// Each line shows the packet index, stream serial, granule position,
// boundary flags and size. The first packet of every stream names its
// codec and comment headers are marked with their vendor string.
//
// Useful for confirming what a rewrite actually changed:
//
//	ogg-dump before.ogg > a.txt
//	ogg-dump after.ogg > b.txt
//	diff a.txt b.txt
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/simonhull/vorbismeta/internal/ogg"
	"github.com/simonhull/vorbismeta/internal/registry"
	"github.com/simonhull/vorbismeta/internal/splice"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: ogg-dump <file.ogg>")
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := dump(os.Stdout, f); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func dump(w io.Writer, r io.Reader) error {
	pr := ogg.NewPacketReader(r)
	codecs := make(map[uint32]registry.CommentCodec)

	for i := 0; ; i++ {
		p, err := pr.ReadPacket()
		if errors.Is(err, io.EOF) {
			fmt.Fprintf(w, "%d packets in %d pages, %d bytes\n", i, pr.Pages(), pr.Offset())
			return nil
		}
		if err != nil {
			return err
		}

		note := ""
		codec, seen := codecs[p.Serial]
		switch {
		case p.StreamEnd:
			note = "empty end-of-stream page"
		case !seen:
			codec = splice.Dialect(p.Data)
			codecs[p.Serial] = codec
			if registry.Detect(p.Data) != nil {
				note = codec.Name() + " identification"
			} else {
				note = "unknown codec"
			}
		default:
			if c, ok := codec.Probe(p.Data); ok {
				note = fmt.Sprintf("comment header: vendor %q, %d comments", c.Vendor(), c.Len())
			}
		}

		fmt.Fprintf(w, "%5d  serial %08x  granule %-20s %-4s %7d bytes  %s\n",
			i, p.Serial, granule(p.GranulePos), flags(p), len(p.Data), note)
	}
}

func granule(g uint64) string {
	if g == ogg.NoGranule {
		return "-1"
	}
	return fmt.Sprint(g)
}

func flags(p *ogg.Packet) string {
	switch {
	case p.LastInStream:
		return "EOS"
	case p.LastInPage:
		return "EOP"
	default:
		return "-"
	}
}
