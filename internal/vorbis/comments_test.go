package vorbis

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/simonhull/vorbismeta/internal/registry"
	"github.com/simonhull/vorbismeta/internal/types"
)

func makeComments() *types.Comments {
	c := types.NewComments("Ogg")
	c.Add("artist", "Some Guy")
	c.Add("artist", "Another Dude")
	c.Add("album", "Greatest Hits")
	c.Add("tracknumber", "3")
	c.Add("title", "A very good song")
	c.Add("date", "1997")
	return c
}

// buildHeader assembles a comment header by hand, independent of Encode.
func buildHeader(signature []byte, vendor string, comments []string, framing []byte) []byte {
	buf := &bytes.Buffer{}
	buf.Write(signature)
	binary.Write(buf, binary.LittleEndian, uint32(len(vendor)))
	buf.WriteString(vendor)
	binary.Write(buf, binary.LittleEndian, uint32(len(comments)))
	for _, comment := range comments {
		binary.Write(buf, binary.LittleEndian, uint32(len(comment)))
		buf.WriteString(comment)
	}
	buf.Write(framing)
	return buf.Bytes()
}

var vorbisSig = []byte{0x03, 'v', 'o', 'r', 'b', 'i', 's'}

func TestVorbis_Encode_Layout(t *testing.T) {
	c := types.NewComments("Ogg")
	c.Add("ARTIST", "Some Guy")
	c.Add("title", "a=b")

	got, err := Vorbis.Encode(c)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := buildHeader(vorbisSig, "Ogg", []string{"artist=Some Guy", "title=a=b"}, []byte{0x01})
	if !bytes.Equal(got, want) {
		t.Errorf("Encode() =\n%v\nwant\n%v", got, want)
	}
}

func TestVorbis_Encode_Empty(t *testing.T) {
	got, err := Vorbis.Encode(&types.Comments{})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := append(append([]byte{}, vorbisSig...), 0, 0, 0, 0, 0, 0, 0, 0, 1)
	if !bytes.Equal(got, want) {
		t.Errorf("Encode(empty) = %v, want %v", got, want)
	}
}

func TestVorbis_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		c    *types.Comments
	}{
		{"typical", makeComments()},
		{"empty", types.NewComments("")},
		{"empty key and value", types.FromEntries("v", []types.Comment{{Key: "", Value: ""}})},
		{"value with equals", types.FromEntries("v", []types.Comment{{Key: "url", Value: "a=b=c"}})},
		{"decoded casing", types.FromEntries("Xiph.Org libVorbis I 20200704", []types.Comment{
			{Key: "TITLE", Value: "Noise"},
			{Key: "Artist", Value: "Someone"},
		})},
		{"unicode", types.FromEntries("エンコーダ", []types.Comment{
			{Key: "title", Value: "Ünïcödé ♫"},
			{Key: "artist", Value: "Björk"},
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Vorbis.Encode(tt.c)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			got, err := Vorbis.Decode(data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			if !got.Equal(tt.c) {
				t.Errorf("Decode(Encode(c)) = %v, want %v", got.Entries(), tt.c.Entries())
			}
		})
	}
}

func TestOpus_RoundTrip(t *testing.T) {
	c := makeComments()

	data, err := Opus.Encode(c)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if !bytes.HasPrefix(data, []byte("OpusTags")) {
		t.Errorf("Opus header starts with %q, want OpusTags", data[:8])
	}
	want := buildHeader([]byte("OpusTags"), "Ogg", []string{
		"artist=Some Guy", "artist=Another Dude", "album=Greatest Hits",
		"tracknumber=3", "title=A very good song", "date=1997",
	}, nil)
	if !bytes.Equal(data, want) {
		t.Errorf("Opus header = %v, want %v (no framing byte)", data, want)
	}

	got, err := Opus.Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !got.Equal(c) {
		t.Errorf("Decode(Encode(c)) = %v, want %v", got.Entries(), c.Entries())
	}
}

func TestOpus_Decode_IgnoresPadding(t *testing.T) {
	data := buildHeader([]byte("OpusTags"), "libopus", []string{"TITLE=Padded"}, []byte{0x00, 0x00, 0x00})

	got, err := Opus.Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.GetFirst("title") != "Padded" {
		t.Errorf("title = %q, want Padded", got.GetFirst("title"))
	}
}

func TestVorbis_Decode_PreservesKeyCase(t *testing.T) {
	data := buildHeader(vorbisSig, "Xiph", []string{"TITLE=Noise"}, []byte{0x01})

	got, err := Vorbis.Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	entries := got.Entries()
	if len(entries) != 1 || entries[0].Key != "TITLE" {
		t.Errorf("entries = %v, want key TITLE verbatim", entries)
	}
	if got.GetFirst("title") != "Noise" {
		t.Errorf("GetFirst(title) = %q, want Noise", got.GetFirst("title"))
	}
}

func TestVorbis_Decode_Errors(t *testing.T) {
	valid := buildHeader(vorbisSig, "Ogg", []string{"a=1"}, []byte{0x01})

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, types.ErrTruncated},
		{"signature prefix only", vorbisSig[:3], types.ErrTruncated},
		{"identification header", []byte{0x01, 'v', 'o', 'r', 'b', 'i', 's', 0, 0, 0, 0}, types.ErrBadSignature},
		{"setup header", []byte{0x05, 'v', 'o', 'r', 'b', 'i', 's', 1}, types.ErrBadSignature},
		{"opus tags", buildHeader([]byte("OpusTags"), "", nil, nil), types.ErrBadSignature},
		{"missing vendor length", vorbisSig, types.ErrTruncated},
		{"short vendor length", buildHeader(vorbisSig, "", nil, nil)[:7+2], types.ErrTruncated},
		{"vendor overruns", append(append([]byte{}, vorbisSig...), 0xFF, 0, 0, 0, 'a'), types.ErrTruncated},
		{"missing count", buildHeader(vorbisSig, "Ogg", nil, nil)[:14], types.ErrTruncated},
		{"comment overruns", valid[:len(valid)-2], types.ErrTruncated},
		{"missing framing", valid[:len(valid)-1], types.ErrTruncated},
		{"bad framing", buildHeader(vorbisSig, "Ogg", []string{"a=1"}, []byte{0x00}), types.ErrBadFraming},
		{"framing two", buildHeader(vorbisSig, "Ogg", []string{"a=1"}, []byte{0x02}), types.ErrBadFraming},
		{"missing separator", buildHeader(vorbisSig, "Ogg", []string{"novalue"}, []byte{0x01}), types.ErrMissingSeparator},
		{"invalid utf8 vendor", buildHeader(vorbisSig, "\xff\xfe", nil, []byte{0x01}), types.ErrInvalidUTF8},
		{"invalid utf8 comment", buildHeader(vorbisSig, "Ogg", []string{"a=\xc3\x28"}, []byte{0x01}), types.ErrInvalidUTF8},
		{"huge count", append(append(append([]byte{}, vorbisSig...), 0, 0, 0, 0), 0xFF, 0xFF, 0xFF, 0xFF), types.ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Vorbis.Decode(tt.data)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Decode() error = %v, want %v", err, tt.want)
			}

			var de *types.DecodeError
			if !errors.As(err, &de) {
				t.Errorf("Decode() error type = %T, want *types.DecodeError", err)
			}
		})
	}
}

func TestVorbis_Decode_ErrorOffset(t *testing.T) {
	data := buildHeader(vorbisSig, "Ogg", []string{"a=1", "broken"}, []byte{0x01})

	_, err := Vorbis.Decode(data)

	var de *types.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Decode() error = %v, want *types.DecodeError", err)
	}
	// signature(7) + vendor(4+3) + count(4) + first comment(4+3)
	if de.Offset != 25 {
		t.Errorf("Offset = %d, want 25", de.Offset)
	}
	if de.Field != "comment 1" {
		t.Errorf("Field = %q, want %q", de.Field, "comment 1")
	}
}

func TestVorbis_Encode_LengthOverflow(t *testing.T) {
	saved := maxFieldLength
	maxFieldLength = 16
	defer func() { maxFieldLength = saved }()

	tests := []struct {
		name  string
		c     func() *types.Comments
		field string
	}{
		{"vendor", func() *types.Comments { return types.NewComments(strings.Repeat("v", 17)) }, "vendor"},
		{"comment", func() *types.Comments {
			c := types.NewComments("ok")
			c.Add("a", "short")
			c.Add("title", strings.Repeat("x", 11)) // "title=" + 11 = 17 bytes
			return c
		}, "comment 1"},
		{"count", func() *types.Comments {
			c := types.NewComments("")
			for i := 0; i < 17; i++ {
				c.Add("k", "")
			}
			return c
		}, "comment count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Vorbis.Encode(tt.c())
			if !errors.Is(err, types.ErrLengthOverflow) {
				t.Fatalf("Encode() error = %v, want ErrLengthOverflow", err)
			}
			if data != nil {
				t.Errorf("Encode() returned %d bytes on error, want none", len(data))
			}

			var ee *types.EncodeError
			if !errors.As(err, &ee) || ee.Field != tt.field {
				t.Errorf("EncodeError field = %v, want %q", ee, tt.field)
			}
		})
	}
}

func TestVorbis_Encode_AtLimit(t *testing.T) {
	saved := maxFieldLength
	maxFieldLength = 16
	defer func() { maxFieldLength = saved }()

	c := types.NewComments(strings.Repeat("v", 16))
	c.Add("title", strings.Repeat("x", 10)) // exactly 16 bytes

	if _, err := Vorbis.Encode(c); err != nil {
		t.Errorf("Encode() at the limit error = %v, want nil", err)
	}
}

func TestProbe(t *testing.T) {
	header, _ := Vorbis.Encode(makeComments())

	c, ok := Vorbis.Probe(header)
	if !ok || c == nil {
		t.Fatal("Probe(comment header) = false, want true")
	}
	if c.Len() != 6 {
		t.Errorf("probed Len() = %d, want 6", c.Len())
	}

	if c, ok := Vorbis.Probe([]byte("audio data")); ok || c != nil {
		t.Error("Probe(audio) = true, want false")
	}
	if _, ok := Opus.Probe(header); ok {
		t.Error("Opus.Probe(vorbis header) = true, want false")
	}
}

func TestSplitComment(t *testing.T) {
	tests := []struct {
		in         string
		key, value string
		ok         bool
	}{
		{"TITLE=Test Song", "TITLE", "Test Song", true},
		{"COMMENT=", "COMMENT", "", true},
		{"=value", "", "value", true},
		{"URL=http://x?a=b", "URL", "http://x?a=b", true},
		{"INVALID_NO_EQUALS", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			key, value, ok := SplitComment(tt.in)
			if key != tt.key || value != tt.value || ok != tt.ok {
				t.Errorf("SplitComment(%q) = %q, %q, %v, want %q, %q, %v",
					tt.in, key, value, ok, tt.key, tt.value, tt.ok)
			}
		})
	}
}

func TestDialect_Identifies(t *testing.T) {
	vorbisID := []byte{0x01, 'v', 'o', 'r', 'b', 'i', 's', 0, 0, 0, 0}
	opusID := []byte("OpusHead\x01\x02")

	if !Vorbis.Identifies(vorbisID) || Vorbis.Identifies(opusID) {
		t.Error("Vorbis.Identifies mismatch")
	}
	if !Opus.Identifies(opusID) || Opus.Identifies(vorbisID) {
		t.Error("Opus.Identifies mismatch")
	}
}

func TestRegistered(t *testing.T) {
	if registry.Get("vorbis") != Vorbis {
		t.Error("vorbis dialect not registered")
	}
	if registry.Get("opus") != Opus {
		t.Error("opus dialect not registered")
	}

	vorbisID := []byte{0x01, 'v', 'o', 'r', 'b', 'i', 's', 0, 0, 0, 0}
	if got := registry.Detect(vorbisID); got != Vorbis {
		t.Errorf("Detect(vorbis id) = %v, want Vorbis", got)
	}
}
