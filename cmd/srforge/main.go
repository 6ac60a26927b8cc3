// Command srforge writes DICOM TID 1500 measurement reports from a JSON or
// YAML description of the measurements and the DICOM objects they refer to.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mrsinham/srforge/internal/sr"
)

// version is set at build time via -ldflags
var version = "dev"

// Process exit codes.
const (
	exitOK           = 0
	exitInvalidField = 1
	exitInvalidDoc   = 2
	exitInput        = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

// exitCode maps an error to the exit code documented for it. Anything that is
// not a report construction error is an input problem.
func exitCode(err error) int {
	var (
		missingField  *sr.MissingFieldError
		invalidField  *sr.InvalidFieldError
		unknownType   *sr.UnknownObserverTypeError
		invalidReport *sr.InvalidDocumentError
	)
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &invalidReport):
		return exitInvalidDoc
	case errors.As(err, &missingField), errors.As(err, &invalidField), errors.As(err, &unknownType):
		return exitInvalidField
	default:
		return exitInput
	}
}
