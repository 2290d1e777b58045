package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"stubgen/internal/gen"
	"stubgen/internal/operation"
	"stubgen/internal/request"
)

var (
	// ErrInvalidBatch is returned when a batch file fails validation.
	ErrInvalidBatch = errors.New("invalid batch file")
	// ErrBatchFailed is returned when at least one request failed.
	ErrBatchFailed = errors.New("batch had failures")
)

func batchCmd(root *rootOptions) *cobra.Command {
	var (
		jobs     int
		failFast bool
	)

	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Run the requests of a YAML batch file",
		Long: `Run the requests of a YAML batch file.

Requests on files of different directories run concurrently. Requests within
one directory run in file order, each one seeing the edits of the previous
ones, since they type-check each other's files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			f, err := request.LoadFile(args[0])
			if err != nil {
				return err
			}

			if diags := request.Validate(f); diags.HasErrors() {
				reportDiagnostics(cmd.OutOrStdout(), diags)
				return fmt.Errorf("%w: %w", ErrInvalidBatch, diags.Err())
			}

			if jobs <= 0 {
				jobs = a.cfg.Batch.Jobs
			}

			return runBatch(cmd.Context(), a.engine, a.cfg.Generation, f.Requests, jobs, failFast, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "directories processed concurrently (default from config)")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first failing request")

	return cmd
}

// outcome is the result of one batch entry.
type outcome struct {
	entry *request.Entry
	res   *operation.Result
	err   error
}

// groupByDir splits entries per package directory, keeping directory order
// of first appearance and entry order within each directory.
func groupByDir(entries []request.Entry) [][]*request.Entry {
	index := make(map[string]int)

	var groups [][]*request.Entry

	for i := range entries {
		e := &entries[i]
		dir := filepath.Dir(filepath.Clean(e.File))

		g, ok := index[dir]
		if !ok {
			g = len(groups)
			index[dir] = g
			groups = append(groups, nil)
		}

		groups[g] = append(groups[g], e)
	}

	return groups
}

func runEntry(ctx context.Context, engine *operation.Engine, settings gen.Settings, e *request.Entry) (*operation.Result, error) {
	req := e.Request(settings)

	switch e.Op {
	case request.OpDelegate:
		return engine.AddDelegateMethods(ctx, req)
	case request.OpImplement:
		return engine.AddUnimplementedMethods(ctx, req)
	default:
		return nil, fmt.Errorf("unknown op %q", e.Op)
	}
}

func runBatch(
	ctx context.Context,
	engine *operation.Engine,
	settings gen.Settings,
	entries []request.Entry,
	jobs int,
	failFast bool,
	out io.Writer,
) error {
	groups := groupByDir(entries)
	results := make([][]outcome, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(groups))))

	for i, group := range groups {
		g.Go(func() error {
			for _, e := range group {
				if err := gctx.Err(); err != nil {
					return err
				}

				res, err := runEntry(gctx, engine, settings, e)
				results[i] = append(results[i], outcome{entry: e, res: res, err: err})

				if err != nil && failFast {
					return err
				}
			}

			return nil
		})
	}

	waitErr := g.Wait()

	var hadErrors bool

	for _, group := range results {
		for _, o := range group {
			if o.err != nil {
				hadErrors = true
				errorColor.Fprintf(out, "%s: %v\n", o.entry.Label(), o.err)

				continue
			}

			report(out, o.entry.Label(), o.res)
		}
	}

	if waitErr != nil {
		return waitErr
	}

	if hadErrors {
		return ErrBatchFailed
	}

	return nil
}
