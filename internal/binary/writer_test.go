package binary

import (
	"bytes"
	"errors"
	"testing"
)

func TestSafeWriter_WriteLE(t *testing.T) {
	tests := []struct {
		name  string
		write func(*SafeWriter) error
		want  []byte
	}{
		{"uint8", func(sw *SafeWriter) error { return WriteLE[uint8](sw, 0x01) }, []byte{0x01}},
		{"uint16", func(sw *SafeWriter) error { return WriteLE[uint16](sw, 0x1234) }, []byte{0x34, 0x12}},
		{"uint32", func(sw *SafeWriter) error { return WriteLE[uint32](sw, 0x12345678) }, []byte{0x78, 0x56, 0x34, 0x12}},
		{"uint64", func(sw *SafeWriter) error { return WriteLE[uint64](sw, 0x0102030405060708) },
			[]byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			sw := NewSafeWriter(buf)

			if err := tt.write(sw); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(buf.Bytes(), tt.want) {
				t.Errorf("expected %v, got %v", tt.want, buf.Bytes())
			}
		})
	}
}

func TestSafeWriter_MultipleWrites(t *testing.T) {
	buf := &bytes.Buffer{}
	sw := NewSafeWriter(buf)

	_ = sw.WriteBytes([]byte{0x03})
	_ = sw.WriteString("vorbis")
	_ = WriteLE[uint32](sw, 3)
	_ = sw.WriteString("Ogg")

	want := []byte{0x03, 'v', 'o', 'r', 'b', 'i', 's', 0x03, 0x00, 0x00, 0x00, 'O', 'g', 'g'}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("expected %v, got %v", want, buf.Bytes())
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestSafeWriter_PropagatesError(t *testing.T) {
	sw := NewSafeWriter(failingWriter{})

	if err := sw.WriteString("data"); err == nil {
		t.Error("expected write error, got nil")
	}
}
