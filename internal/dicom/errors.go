package dicom

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingArgument is returned when a required argument is blank. It is
// always reported before any directory or file is touched.
var ErrMissingArgument = errors.New("missing required argument")

// argument is one named required value.
type argument struct {
	name  string
	value string
}

// requireArguments returns ErrMissingArgument naming every blank argument.
func requireArguments(args ...argument) error {
	var missing []string
	for _, a := range args {
		if strings.TrimSpace(a.value) == "" {
			missing = append(missing, a.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingArgument, strings.Join(missing, ", "))
	}
	return nil
}
