// Package profile loads the site profile: which input files a job needs,
// which output artifacts the classifier reads, and which external queue
// commands submit and cancel jobs.
//
// The profile is HCL. Everything is optional; unset blocks and attributes
// fall back to the built-in defaults, which describe a stock Slurm + VASP
// site. The submit_args attribute is kept as an unevaluated expression so
// that argument templates can reference the job directory (`dir`, `name`)
// and are resolved per job at dispatch time.
package profile
