package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"stubgen/internal/analyze"
	"stubgen/internal/edit"
	"stubgen/internal/gen"
	"stubgen/internal/operation"
	"stubgen/internal/plan"
)

// ErrNoTarget is returned when neither --type nor --offset is given.
var ErrNoTarget = errors.New("one of --type or --offset is required")

// ErrBothTargets is returned when --type and --offset are both given.
var ErrBothTargets = errors.New("--type and --offset are exclusive")

// opFunc runs one engine operation.
type opFunc func(e *operation.Engine, ctx context.Context, req operation.Request) (*operation.Result, error)

type targetFlags struct {
	file   string
	typ    string
	offset int
	ifaces []string
}

func (f *targetFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Go source file holding the target")
	cmd.Flags().StringVarP(&f.typ, "type", "t", "", "name of the target type")
	cmd.Flags().IntVar(&f.offset, "offset", -1, "byte offset inside a composite literal")
	cmd.Flags().StringSliceVarP(&f.ifaces, "iface", "i", nil, "interface the type must implement (repeatable)")

	_ = cmd.MarkFlagRequired("file")
}

func (f *targetFlags) target() (plan.Target, error) {
	switch {
	case f.typ != "" && f.offset >= 0:
		return plan.Target{}, ErrBothTargets
	case f.typ != "":
		return plan.NamedTarget(f.typ, f.ifaces...), nil
	case f.offset >= 0:
		return plan.InstantiationTarget(f.offset, f.ifaces...), nil
	default:
		return plan.Target{}, ErrNoTarget
	}
}

type opFlags struct {
	targetFlags

	keys   []string
	anchor string
	body   string
	apply  bool
	save   bool
	dryRun bool
	dump   bool
}

func (f *opFlags) bind(cmd *cobra.Command) {
	f.targetFlags.bind(cmd)

	cmd.Flags().StringArrayVarP(&f.keys, "key", "k", nil, "binding key to synthesize, e.g. 'Close()error' (repeatable)")
	cmd.Flags().StringVar(&f.anchor, "anchor", "", "insert before this method or function instead of appending")
	cmd.Flags().StringVar(&f.body, "body", "", "stub body policy (panic, zero); default from config")
	cmd.Flags().BoolVar(&f.apply, "apply", true, "apply the edit to the file")
	cmd.Flags().BoolVar(&f.save, "save", true, "write the file after applying")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print a unified diff and leave the file untouched")
	cmd.Flags().BoolVar(&f.dump, "dump", false, "dump the full result structure")
}

func (f *opFlags) request(settings gen.Settings) (operation.Request, error) {
	target, err := f.target()
	if err != nil {
		return operation.Request{}, err
	}

	if f.body != "" {
		settings.Body = gen.BodyPolicy(f.body)
	}

	req := operation.Request{
		Path:     f.file,
		Target:   target,
		Keys:     analyze.Keys(f.keys...),
		Settings: settings,
		Anchor:   f.anchor,
		Apply:    f.apply && !f.dryRun,
		Save:     f.save && !f.dryRun,
	}

	return req, nil
}

func delegateCmd(root *rootOptions) *cobra.Command {
	var flags opFlags

	cmd := &cobra.Command{
		Use:   "delegate --file FILE --type T --key KEY...",
		Short: "Add methods forwarding to a field of a struct",
		Long: `Add methods that forward to the methods of one of the struct's fields.

Examples:
  stubgen delegate -f shop/order.go -t Order -k 'Close()error'
  stubgen delegate -f shop/order.go -t Order -k 'Write([]byte)(int,error)' --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(flags.keys) == 0 {
				return errors.New("delegate needs at least one --key")
			}

			return runOp(cmd, root, &flags, (*operation.Engine).AddDelegateMethods)
		},
	}

	flags.bind(cmd)

	return cmd
}

func implementCmd(root *rootOptions) *cobra.Command {
	var flags opFlags

	cmd := &cobra.Command{
		Use:   "implement --file FILE (--type T | --offset N) [--iface I]... [--key KEY]...",
		Short: "Add stubs for interface methods a type lacks",
		Long: `Add stub methods for the interface methods a type does not implement yet.

Without --key every missing method is added. The interfaces are those given
with --iface, those the type is asserted to implement (var _ I = (*T)(nil)),
and for --offset the interface the composite literal is used as.

Examples:
  stubgen implement -f shop/store.go -t Store -i io.Closer
  stubgen implement -f shop/main.go --offset 412 --body zero`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOp(cmd, root, &flags, (*operation.Engine).AddUnimplementedMethods)
		},
	}

	flags.bind(cmd)

	return cmd
}

func runOp(cmd *cobra.Command, root *rootOptions, flags *opFlags, op opFunc) error {
	a, err := newApp(root, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	req, err := flags.request(a.cfg.Generation)
	if err != nil {
		return err
	}

	res, err := op(a.engine, cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if flags.dump {
		dump(out, res)
	}

	if flags.dryRun && len(res.Created) > 0 {
		original, err := a.registry.Snapshot(cmd.Context(), req.Path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", req.Path, err)
		}

		fmt.Fprint(out, edit.Unified(req.Path, original, res.Text))
	}

	report(out, req.Path, res)

	return nil
}

func candidatesCmd(root *rootOptions) *cobra.Command {
	var flags targetFlags

	cmd := &cobra.Command{
		Use:   "candidates --file FILE (--type T | --offset N)",
		Short: "List the delegate and missing-method keys of a type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			target, err := flags.target()
			if err != nil {
				return err
			}

			cands, err := a.engine.Candidates(cmd.Context(), flags.file, target)
			if err != nil {
				return err
			}

			reportCandidates(cmd.OutOrStdout(), cands)

			return nil
		},
	}

	flags.bind(cmd)

	return cmd
}
