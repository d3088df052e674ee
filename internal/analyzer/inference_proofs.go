package analyzer

import (
	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/typesystem"
)

func (r *resolver) inferGoal(e *ast.GoalExp, opts resolveOpts) (typesystem.Type, error) {
	t, err := r.resolve(e.Exp, opts.child())
	if err != nil {
		return nil, err
	}
	if err := r.expectBoolean(e.Exp, t, opts); err != nil {
		return nil, err
	}
	return typesystem.Boolean, nil
}

// inferSupposition binds the supposed variables in the proof's frame, where
// they stay visible for the following steps.
func (r *resolver) inferSupposition(e *ast.SuppositionExp, opts resolveOpts) (typesystem.Type, error) {
	sub := opts.child()
	if _, err := r.bindVars(e.Vars, ast.ModeLocal, sub); err != nil {
		return nil, err
	}
	if e.Assumption == nil {
		return typesystem.Boolean, nil
	}
	t, err := r.resolve(e.Assumption, sub)
	if err != nil {
		return nil, err
	}
	if err := r.expectBoolean(e.Assumption, t, opts); err != nil {
		return nil, err
	}
	return typesystem.Boolean, nil
}

func (r *resolver) inferJustified(e *ast.JustifiedExp, opts resolveOpts) (typesystem.Type, error) {
	t, err := r.resolve(e.Exp, opts.child())
	if err != nil {
		return nil, err
	}
	j := e.Justification
	if j == nil {
		return t, nil
	}
	for _, h := range j.Hypotheses {
		if !r.hyps[h] {
			return nil, r.fail(opts, diagnostics.ErrA001, e, "unknown hypothesis %s", h)
		}
	}
	if j.Theorem != nil && j.Theorem.ResolvedType() == nil {
		if _, ok := r.scope.LookupTheorem(j.Theorem.Qualifier, j.Theorem.Name); !ok {
			return nil, r.fail(opts, diagnostics.ErrA001, j.Theorem, "unknown theorem %s", ast.Print(j.Theorem))
		}
		j.Theorem.SetResolvedType(typesystem.Boolean)
	}
	return t, nil
}

// inferHypDesig names a proof line for later citation.
func (r *resolver) inferHypDesig(e *ast.HypDesigExp, opts resolveOpts) (typesystem.Type, error) {
	t, err := r.resolve(e.Exp, opts.child())
	if err != nil {
		return nil, err
	}
	if r.hyps == nil {
		r.hyps = make(map[string]bool)
	}
	r.hyps[e.Name] = true
	return t, nil
}

// inferProofDefinition binds a definition local to the proof and types it.
func (r *resolver) inferProofDefinition(e *ast.ProofDefinitionExp, opts resolveOpts) (typesystem.Type, error) {
	def, errs := buildDefinition(e.Def, r.scope)
	if len(errs) > 0 {
		return nil, r.reject(opts, errs[0])
	}
	if !r.scope.BindDefinition(def) {
		return nil, r.fail(opts, diagnostics.ErrA012, e, "definition %s is already declared in this proof", def.Name)
	}
	var firstErr error
	def = r.checkDefinition(def, func(clause ast.Exp, clauseOpts resolveOpts, boolean bool) (typesystem.Type, bool) {
		clauseOpts.quiet = opts.quiet
		t, err := r.resolve(clause, clauseOpts)
		if err == nil && boolean {
			err = r.expectBoolean(clause, t, clauseOpts)
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return nil, false
		}
		return t, true
	}, opts)
	if firstErr != nil {
		return nil, firstErr
	}
	if t := def.Type(); t != nil {
		return t, nil
	}
	return typesystem.Boolean, nil
}
