// Package vorbismeta reads and rewrites the comment header of Ogg Vorbis
// and Ogg Opus files.
//
// The comment header is a vendor string plus an ordered list of KEY=value
// entries. Rewriting it touches nothing else: every other packet, from any
// logical stream in the file, is copied through byte for byte and only the
// page framing is rebuilt.
//
// # Quick Start
//
// Reading tags:
//
//	c, err := vorbismeta.ReadFile("song.ogg")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Println(c.GetFirst("title"))
//	for _, artist := range c.Get("artist") {
//		fmt.Println(artist)
//	}
//
// Changing tags:
//
//	c.Clear("title")
//	c.Add("TITLE", "New Title")
//	err = vorbismeta.WriteFile("song.ogg", c, vorbismeta.WithBackup(".bak"))
//
// # Keys
//
// Lookups compare keys case-insensitively. Add and AddAll store keys
// lowercased, while headers read from a file keep the casing they were
// written with. Order is preserved and keys may repeat.
//
// # Streams
//
// ReadComments, ReplaceComments and Splice work on any io.Reader. The
// first packet of the input decides the primary logical stream and its
// dialect (Vorbis or Opus); only that stream is searched for a header.
// Copying stops at the end of the last stream that was open, so a chained
// file keeps only its first link.
//
// # Batches
//
// RewriteMany edits many files concurrently:
//
//	jobs := []vorbismeta.Job{
//		{Path: "a.ogg", Edit: setAlbum},
//		{Path: "b.ogg", Edit: setAlbum},
//	}
//	err := vorbismeta.RewriteMany(ctx, jobs, vorbismeta.WithConcurrency(4))
//
// # Error Handling
//
// Errors wrap sentinel values and can be matched with errors.Is:
//
//   - ErrNotFound: no comment header in the primary stream
//   - ErrLengthOverflow: a field does not fit its 32-bit length
//   - ErrBadSignature, ErrTruncated, ErrInvalidUTF8, ErrMissingSeparator
//     and ErrBadFraming: a header that does not decode
//   - ErrInvalidPage, ErrBadCRC and ErrUnexpectedEOS: a damaged container
//
// The typed errors DecodeError, EncodeError, ContainerError and
// NotFoundError carry offsets and field names for errors.As.
//
// # Logging
//
// The library is silent by default. Pass a zerolog.Logger with WithLogger
// or WithSaveLogger to see which stream was chosen and which packet was
// replaced.
package vorbismeta
