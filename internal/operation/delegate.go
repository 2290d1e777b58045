package operation

import (
	"context"

	"stubgen/internal/plan"
)

// AddDelegateMethods adds, for each requested key, a method forwarding to
// the matching method of one of the target's fields.
func (e *Engine) AddDelegateMethods(ctx context.Context, req Request) (*Result, error) {
	return e.run(ctx, req, func(ctx context.Context, s *session) (bool, error) {
		m := plan.Match(ctx, s.req.Keys, s.resolver.Delegates(s.context), s.diags, s.req.Target.Label())

		for _, d := range m.Matched {
			stub, err := s.generator.Delegate(s.context.Named, d)
			if err != nil {
				return m.Cancelled, err
			}

			s.stubs = append(s.stubs, stub)
		}

		return m.Cancelled, nil
	})
}
