package primary

import "context"

// RulesService defines the primary port for rule set management.
type RulesService interface {
	// ListRules retrieves the stored rule set in evaluation order.
	ListRules(ctx context.Context) ([]*RuleView, error)

	// SeedDefaults installs the built-in rule set, replacing the stored one.
	SeedDefaults(ctx context.Context) (int, error)

	// LoadFile validates, compiles and installs a rules file, replacing
	// the stored set. Nothing is installed when any rule fails to compile.
	LoadFile(ctx context.Context, path string) (int, error)

	// LintFile validates and compiles a rules file without installing it.
	LintFile(ctx context.Context, path string) (*LintReport, error)
}

// RuleView represents a rule at the port boundary.
type RuleView struct {
	Name           string
	Priority       int
	Seq            int
	MatcherKind    string
	Keywords       []string
	WholeWord      bool
	Pattern        string
	TargetPath     string
	BrandSubfolder bool
	Subfolders     int
	Description    string
}

// LintReport contains the result of linting a rules file.
type LintReport struct {
	Rules    int
	Problems []string
}
