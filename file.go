package vorbismeta

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ReadFile returns the comment header of the Ogg file at path.
//
// Example:
//
//	c, err := vorbismeta.ReadFile("song.ogg")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for key, value := range c.All() {
//		fmt.Printf("%s=%s\n", key, value)
//	}
func ReadFile(path string, opts ...Option) (*Comments, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	c, err := ReadComments(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ReadMany reads the comment headers of multiple files concurrently.
//
// Files are read in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths. The first
// failure cancels the remaining reads and is returned.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	all, err := vorbismeta.ReadMany(ctx, paths)
func ReadMany(ctx context.Context, paths []string, opts ...Option) ([]*Comments, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*Comments, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			c, err := ReadFile(path, opts...)
			if err != nil {
				return err
			}
			results[i] = c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
