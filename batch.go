package vorbismeta

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Job is one file to rewrite with RewriteMany.
type Job struct {
	// Path is the file to read.
	Path string

	// Output is where the result is written. Empty means Path.
	Output string

	// Edit changes the comments read from Path. A nil Edit rewrites the
	// header unchanged.
	Edit func(c *Comments) error
}

// RewriteMany reads, edits and writes several files concurrently.
//
// At most WithConcurrency files are processed at once (runtime.NumCPU()
// by default). Every file is written atomically through WriteFileAs with
// the given options. The first failure cancels the jobs that have not
// started yet and is returned; files already written stay written.
//
// Example:
//
//	jobs := make([]vorbismeta.Job, len(paths))
//	for i, p := range paths {
//		jobs[i] = vorbismeta.Job{Path: p, Edit: func(c *vorbismeta.Comments) error {
//			c.Clear("comment")
//			return nil
//		}}
//	}
//	err := vorbismeta.RewriteMany(ctx, jobs, vorbismeta.WithBackup(".bak"))
func RewriteMany(ctx context.Context, jobs []Job, opts ...SaveOption) error {
	if len(jobs) == 0 {
		return nil
	}

	options := applySaveOptions(opts)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(options.concurrency)

	for _, job := range jobs {
		g.Go(func() error {
			// Check for cancellation
			if err := ctx.Err(); err != nil {
				return err
			}
			return rewrite(job, options, opts)
		})
	}

	return g.Wait()
}

func rewrite(job Job, options *saveOptions, opts []SaveOption) error {
	c, err := ReadFile(job.Path, WithLogger(options.logger))
	if err != nil {
		return err
	}

	if job.Edit != nil {
		if err := job.Edit(c); err != nil {
			return fmt.Errorf("%s: edit: %w", job.Path, err)
		}
	}

	out := job.Output
	if out == "" {
		out = job.Path
	}
	return WriteFileAs(job.Path, out, c, opts...)
}
