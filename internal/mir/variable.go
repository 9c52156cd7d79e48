package mir

import "fmt"

// Scope classifies a Variable's storage duration.
type Scope string

const (
	Global Scope = "Global"
	Local  Scope = "Local"
)

// Variable names a source-level (or compiler-generated) storage slot.
// Equality is over all three fields, matching spec.md §3.
type Variable struct {
	Name              string
	Scope             Scope
	CompilerGenerated bool
}

// Equal reports full structural equality.
func (v *Variable) Equal(other *Variable) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.Name == other.Name && v.Scope == other.Scope && v.CompilerGenerated == other.CompilerGenerated
}

func (v *Variable) String() string {
	if v == nil {
		return "<nil-var>"
	}
	return v.Name
}

// NewLocal constructs a user-visible local variable.
func NewLocal(name string) *Variable {
	return &Variable{Name: name, Scope: Local}
}

// NewGlobal constructs a user-visible global variable.
func NewGlobal(name string) *Variable {
	return &Variable{Name: name, Scope: Global}
}

// SSAVariable is an (original variable, version) pair. Version -1 means
// "unversioned placeholder"; freshly inserted phi results are not given
// one, they stay plain VAR operands until renaming assigns a version.
type SSAVariable struct {
	Original *Variable
	Version  int
}

// Equal compares both the underlying variable and the version.
func (s *SSAVariable) Equal(other *SSAVariable) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Original.Equal(other.Original) && s.Version == other.Version
}

// Key returns a comparable map key for this SSA name.
func (s *SSAVariable) Key() string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("%s#%d", s.Original.Name, s.Version)
}

func (s *SSAVariable) String() string {
	if s == nil {
		return "<nil-ssa>"
	}
	return fmt.Sprintf("%s#%d", s.Original.Name, s.Version)
}
