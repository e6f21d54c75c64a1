// Package registry manages the comment header dialects known for Ogg codecs.
package registry

import (
	"sync"

	"github.com/simonhull/vorbismeta/internal/types"
)

// CommentCodec is the interface comment header dialects implement.
type CommentCodec interface {
	// Name is the codec name, e.g. "vorbis".
	Name() string

	// Identifies reports whether firstPacket is this codec's
	// identification header.
	Identifies(firstPacket []byte) bool

	// Encode serializes comments into a header packet.
	Encode(c *types.Comments) ([]byte, error)

	// Decode parses a header packet.
	Decode(data []byte) (*types.Comments, error)

	// Probe is Decode as a predicate, used while scanning packets.
	Probe(data []byte) (*types.Comments, bool)
}

var (
	mu     sync.RWMutex
	codecs []CommentCodec
)

// Register registers a codec. A codec registered under an existing name
// replaces it. This is called by codec packages from init functions.
func Register(codec CommentCodec) {
	mu.Lock()
	defer mu.Unlock()

	for i, c := range codecs {
		if c.Name() == codec.Name() {
			codecs[i] = codec
			return
		}
	}
	codecs = append(codecs, codec)
}

// Get returns the codec registered under name.
// Returns nil if no codec is registered for the name.
func Get(name string) CommentCodec {
	mu.RLock()
	defer mu.RUnlock()

	for _, c := range codecs {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// Detect returns the codec whose identification header matches
// firstPacket, in registration order. Returns nil if none matches.
func Detect(firstPacket []byte) CommentCodec {
	mu.RLock()
	defer mu.RUnlock()

	for _, c := range codecs {
		if c.Identifies(firstPacket) {
			return c
		}
	}
	return nil
}

// Names returns the registered codec names in registration order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(codecs))
	for _, c := range codecs {
		names = append(names, c.Name())
	}
	return names
}
