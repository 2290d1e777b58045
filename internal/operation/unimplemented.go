package operation

import (
	"context"

	"stubgen/internal/analyze"
	"stubgen/internal/plan"
)

// AddUnimplementedMethods adds stubs for interface methods the target
// lacks. With no keys every missing method is added.
func (e *Engine) AddUnimplementedMethods(ctx context.Context, req Request) (*Result, error) {
	return e.run(ctx, req, func(ctx context.Context, s *session) (bool, error) {
		cands := s.resolver.Missing(s.context)
		label := s.req.Target.Label()

		var m plan.MatchResult[analyze.Missing]
		if len(s.req.Keys) == 0 {
			m = plan.All(ctx, cands, s.diags, label)
		} else {
			m = plan.Match(ctx, s.req.Keys, cands, s.diags, label)
		}

		for _, missing := range m.Matched {
			stub, err := s.generator.Unimplemented(s.context.Named, missing)
			if err != nil {
				return m.Cancelled, err
			}

			s.stubs = append(s.stubs, stub)
		}

		return m.Cancelled, nil
	})
}
