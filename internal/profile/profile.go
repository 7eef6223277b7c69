package profile

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Profile is the immutable site configuration threaded through the
// pipeline. Construct it once via Load or Default; never mutate it.
type Profile struct {
	// RequiredInputs must all be present and readable in a leaf before it
	// is eligible for submission.
	RequiredInputs []string

	// Primary and Secondary name the output artifacts the classifier
	// reads, relative to each job directory.
	Primary   string
	Secondary string

	// ConvergenceMarker flags normal termination in either artifact;
	// ResultMarker tags the result line extracted on success.
	ConvergenceMarker string
	ResultMarker      string

	// SubmitCommand and CancelCommand are the external queue programs.
	SubmitCommand string
	CancelCommand string

	// submitArgs is the deferred submit_args expression, evaluated per
	// job by SubmitArgs.
	submitArgs hcl.Expression
}

// SubmitArgs evaluates the submit_args template for one job directory.
// The expression sees two variables: dir (the full directory path) and
// name (its base name).
func (p *Profile) SubmitArgs(dir string) ([]string, error) {
	if p.submitArgs == nil {
		return nil, nil
	}
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"dir":  cty.StringVal(dir),
			"name": cty.StringVal(filepath.Base(dir)),
		},
	}
	val, diags := p.submitArgs.Value(evalCtx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("profile: evaluating submit_args: %s", diags.Error())
	}
	if val.IsNull() || !val.CanIterateElements() {
		return nil, fmt.Errorf("profile: submit_args must be a list of strings")
	}

	var args []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		str, err := convert.Convert(elem, cty.String)
		if err != nil {
			return nil, fmt.Errorf("profile: submit_args element: %w", err)
		}
		args = append(args, str.AsString())
	}
	return args, nil
}
