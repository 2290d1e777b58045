package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"

	"stubgen/internal/diagnostic"
	"stubgen/internal/operation"
)

var (
	createdColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	infoColor    = color.New(color.FgCyan)
)

var dumpConfig = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}

func dump(w io.Writer, v any) {
	dumpConfig.Fdump(w, v)
}

func report(w io.Writer, path string, res *operation.Result) {
	switch {
	case len(res.Created) == 0:
		warnColor.Fprintf(w, "%s: nothing created\n", path)
	case res.Saved:
		createdColor.Fprintf(w, "%s: %d member(s) created and saved\n", path, len(res.Created))
	case res.Applied:
		createdColor.Fprintf(w, "%s: %d member(s) created (not saved)\n", path, len(res.Created))
	default:
		createdColor.Fprintf(w, "%s: %d member(s) synthesized\n", path, len(res.Created))
	}

	for _, m := range res.Members {
		fmt.Fprintf(w, "  + %s\n", m.Key)
	}

	if res.Cancelled {
		warnColor.Fprintf(w, "  cancelled before every key was processed\n")
	}

	reportDiagnostics(w, &res.Diagnostics)
}

var severityColor = map[diagnostic.Severity]*color.Color{
	diagnostic.SeverityError:   errorColor,
	diagnostic.SeverityWarning: warnColor,
	diagnostic.SeverityInfo:    infoColor,
}

func reportDiagnostics(w io.Writer, diags *diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		severityColor[d.Severity].Fprintf(w, "  %s: %s\n", d.Severity, d)
	}
}

func reportCandidates(w io.Writer, cands *operation.Candidates) {
	if len(cands.Delegates) > 0 {
		fmt.Fprintln(w, "delegates:")

		for _, c := range cands.Delegates {
			fmt.Fprintf(w, "  %s\t(via %s)\n", createdColor.Sprint(c.Key), c.Via)
		}
	}

	if len(cands.Missing) > 0 {
		fmt.Fprintln(w, "missing:")

		for _, c := range cands.Missing {
			fmt.Fprintf(w, "  %s\t(from %s)\n", createdColor.Sprint(c.Key), c.Via)
		}
	}

	reportDiagnostics(w, &cands.Diagnostics)
}
