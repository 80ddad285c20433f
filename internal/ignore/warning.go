package ignore

import "fmt"

const unsupportedPatternWarningFormat = "skipping ignore pattern %q: %s"

// UnsupportedPatternWarning is a diagnostic for a pattern that was parsed but
// has no effect on filtering.
type UnsupportedPatternWarning struct {
	Pattern string
	Reason  string
}

func (warning UnsupportedPatternWarning) Error() string {
	return fmt.Sprintf(unsupportedPatternWarningFormat, warning.Pattern, warning.Reason)
}
