package profile

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// defaultHCL is the built-in profile: a stock Slurm queue driving VASP
// jobs, matching the layout the batch scripts this tool replaces assumed.
const defaultHCL = `
inputs {
  required = ["INCAR", "KPOINTS", "POSCAR", "POTCAR"]
}

outputs {
  primary            = "OUTCAR"
  secondary          = "OSZICAR"
  convergence_marker = "reached required accuracy"
  result_marker      = "E0"
}

queue {
  submit      = "sbatch"
  submit_args = ["job.sh"]
  cancel      = "scancel"
}
`

// fileRoot decodes the top-level blocks of a profile file. Every block is
// optional; anything else present is a decode error.
type fileRoot struct {
	Inputs  *inputsBlock  `hcl:"inputs,block"`
	Outputs *outputsBlock `hcl:"outputs,block"`
	Queue   *queueBlock   `hcl:"queue,block"`
}

type inputsBlock struct {
	Required []string `hcl:"required,optional"`
}

type outputsBlock struct {
	Primary           *string `hcl:"primary,optional"`
	Secondary         *string `hcl:"secondary,optional"`
	ConvergenceMarker *string `hcl:"convergence_marker,optional"`
	ResultMarker      *string `hcl:"result_marker,optional"`
}

type queueBlock struct {
	Submit     *string        `hcl:"submit,optional"`
	SubmitArgs hcl.Expression `hcl:"submit_args,optional"`
	Cancel     *string        `hcl:"cancel,optional"`
}

// Default returns the built-in profile.
func Default() *Profile {
	p := &Profile{}
	if err := decodeInto(p, []byte(defaultHCL), "<default profile>"); err != nil {
		// The default source is a compile-time constant; failing to parse
		// it is a programmer error.
		panic(err)
	}
	return p
}

// Load reads an HCL profile file and overlays it on the defaults. A
// missing or malformed file is a fatal configuration error for the caller.
func Load(path string) (*Profile, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	p := Default()
	if err := decodeInto(p, src, path); err != nil {
		return nil, err
	}
	return p, nil
}

// decodeInto parses one profile source and overlays every attribute it
// sets onto p, leaving the rest untouched.
func decodeInto(p *Profile, src []byte, filename string) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("profile: failed to parse %s: %s", filename, diags.Error())
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("profile: failed to decode %s: %s", filename, diags.Error())
	}

	if root.Inputs != nil && root.Inputs.Required != nil {
		p.RequiredInputs = root.Inputs.Required
	}
	if root.Outputs != nil {
		setString(&p.Primary, root.Outputs.Primary)
		setString(&p.Secondary, root.Outputs.Secondary)
		setString(&p.ConvergenceMarker, root.Outputs.ConvergenceMarker)
		setString(&p.ResultMarker, root.Outputs.ResultMarker)
	}
	if root.Queue != nil {
		setString(&p.SubmitCommand, root.Queue.Submit)
		setString(&p.CancelCommand, root.Queue.Cancel)
		if root.Queue.SubmitArgs != nil {
			// gohcl hands back a static null expression when the
			// attribute is absent; only a real value overrides.
			if val, _ := root.Queue.SubmitArgs.Value(nil); !val.IsNull() || len(root.Queue.SubmitArgs.Variables()) > 0 {
				p.submitArgs = root.Queue.SubmitArgs
			}
		}
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
