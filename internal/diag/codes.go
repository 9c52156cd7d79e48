package diag

// Diagnostic codes, grouped the way the frontend compiler this tool is
// descended from grouped its own (E0001-range semantic errors,
// E0100-range parser errors, ...): one range per pipeline stage.
const (
	// M0001-M0099: textual IR parse errors.
	ErrIRParse = "M0001"

	// M0100-M0199: CFG construction errors.
	ErrMissingEntry    = "M0100"
	ErrBadBranchTarget = "M0101"
	ErrNoFallthrough   = "M0102"

	// M0200-M0299: SSA construction inconsistencies.
	ErrSSAInconsistent = "M0200"

	// M0300-M0399: evaluation errors raised while constant-folding.
	ErrDivisionByZero = "M0300"
	ErrTypeMismatch   = "M0301"

	// M0800-M0899: warnings.
	WarnNonConvergence = "M0800"
)
