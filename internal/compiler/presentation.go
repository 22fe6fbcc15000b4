// Package compiler turns CUE presentation files into validated
// present.Presentation values. Uses the CUE SDK's Go API directly, not
// a CLI subprocess.
//
// A presentation file looks like:
//
//	presentation: {
//		alphabet:            "abc"
//		contains_empty_word: true
//		rules: [
//			{lhs: "aa", rhs: ""},
//			{lhs: "bbb", rhs: ""},
//		]
//	}
package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/kbend/internal/present"
	"github.com/roach88/kbend/internal/words"
)

// LoadFile reads and compiles a CUE presentation file.
func LoadFile(path string) (*present.Presentation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presentation file: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	root := v.LookupPath(cue.ParsePath("presentation"))
	if !root.Exists() {
		return nil, &CompileError{
			Field:   "presentation",
			Message: "presentation struct is required",
			Pos:     v.Pos(),
		}
	}
	return CompilePresentation(root)
}

// CompilePresentation parses a CUE value into a Presentation and
// validates it.
func CompilePresentation(v cue.Value) (*present.Presentation, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	alphabetVal := v.LookupPath(cue.ParsePath("alphabet"))
	if !alphabetVal.Exists() {
		return nil, &CompileError{
			Field:   "alphabet",
			Message: "alphabet is required",
			Pos:     v.Pos(),
		}
	}
	alphabet, err := alphabetVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}

	p, err := present.FromString(alphabet)
	if err != nil {
		return nil, &CompileError{
			Field:   "alphabet",
			Message: err.Error(),
			Pos:     alphabetVal.Pos(),
		}
	}

	emptyVal := v.LookupPath(cue.ParsePath("contains_empty_word"))
	if emptyVal.Exists() {
		contains, err := emptyVal.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		p.ContainsEmptyWord = contains
	}

	rulesVal := v.LookupPath(cue.ParsePath("rules"))
	if rulesVal.Exists() {
		iter, err := rulesVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			lhs, rhs, err := parseRule(p, iter.Value(), i)
			if err != nil {
				return nil, err
			}
			p.AddRule(lhs, rhs)
		}
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("compiled presentation invalid: %w", err)
	}
	return p, nil
}

func parseRule(p *present.Presentation, v cue.Value, i int) (lhs, rhs words.Word, err error) {
	lhsVal := v.LookupPath(cue.ParsePath("lhs"))
	rhsVal := v.LookupPath(cue.ParsePath("rhs"))
	if !lhsVal.Exists() || !rhsVal.Exists() {
		return nil, nil, &CompileError{
			Field:   fmt.Sprintf("rules[%d]", i),
			Message: "rule needs both lhs and rhs",
			Pos:     v.Pos(),
		}
	}
	lhsStr, err := lhsVal.String()
	if err != nil {
		return nil, nil, formatCUEError(err)
	}
	rhsStr, err := rhsVal.String()
	if err != nil {
		return nil, nil, formatCUEError(err)
	}
	if lhs, err = p.Names.Parse(lhsStr); err != nil {
		return nil, nil, &CompileError{
			Field:   fmt.Sprintf("rules[%d].lhs", i),
			Message: err.Error(),
			Pos:     lhsVal.Pos(),
		}
	}
	if rhs, err = p.Names.Parse(rhsStr); err != nil {
		return nil, nil, &CompileError{
			Field:   fmt.Sprintf("rules[%d].rhs", i),
			Message: err.Error(),
			Pos:     rhsVal.Pos(),
		}
	}
	return lhs, rhs, nil
}

// CompileError reports a structural problem in a presentation file.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts the first positioned error from a CUE error
// list so callers see a single actionable message.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		pos := positions[0]
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     pos,
		}
	}
	return first
}
