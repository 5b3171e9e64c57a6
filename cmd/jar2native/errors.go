// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/jar2native/jar2native/internal/archive"
	"github.com/jar2native/jar2native/internal/bundle"
	"github.com/jar2native/jar2native/internal/config"
	"github.com/jar2native/jar2native/internal/image"
	"github.com/jar2native/jar2native/internal/issue"
	"github.com/jar2native/jar2native/internal/packager"
	"github.com/jar2native/jar2native/internal/stage"
	"github.com/jar2native/jar2native/internal/toolchain"
	"github.com/jar2native/jar2native/pkg/types"

	"github.com/spf13/cobra"
)

// stageOperations names what each pipeline stage was doing, for messages.
var stageOperations = map[packager.State]string{
	packager.StateValidating:    "validate input archive",
	packager.StateResolving:     "resolve required modules",
	packager.StateImageBuilding: "build runtime image",
	packager.StateStaging:       "stage package contents",
	packager.StateBundling:      "bundle executable",
}

// classifyError maps an error to its help page. The order matters: a
// too-old toolchain also matches ErrToolchainNotFound.
func classifyError(err error) (issue.Id, bool) {
	switch {
	case errors.Is(err, toolchain.ErrToolchainTooOld):
		return issue.ToolchainTooOldId, true
	case errors.Is(err, toolchain.ErrToolchainNotFound):
		return issue.ToolchainNotFoundId, true
	case errors.Is(err, archive.ErrInputNotFound):
		return issue.InputNotFoundId, true
	case errors.Is(err, archive.ErrUnsupportedInputType):
		return issue.UnsupportedInputId, true
	case errors.Is(err, archive.ErrMissingEntryPoint):
		return issue.MissingEntryPointId, true
	case errors.Is(err, image.ErrRuntimeImageBuild):
		return issue.ImageBuildFailedId, true
	case errors.Is(err, stage.ErrStaging):
		return issue.StagingFailedId, true
	case errors.Is(err, bundle.ErrBundling):
		return issue.BundlingFailedId, true
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId, true
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		return ae.Issue, true
	}
	return 0, false
}

// toActionable wraps pipeline errors with the failed stage as operation.
func toActionable(err error) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}

	var se *packager.StageError
	if !errors.As(err, &se) {
		return err
	}
	op, ok := stageOperations[se.Stage]
	if !ok {
		op = "package archive"
	}
	ctx := issue.NewErrorContext().WithOperation(op).Wrap(err)
	id, _ := classifyError(err)
	ctx.WithIssue(id)
	switch id {
	case issue.ToolchainNotFoundId:
		ctx.WithSuggestion("Pass --jdk-path or set JAVA_HOME")
	case issue.ImageBuildFailedId:
		ctx.WithSuggestion("Run 'jar2native modules <archive>' to inspect the module set")
	case issue.InputNotFoundId, issue.UnsupportedInputId:
		ctx.WithSuggestion("Pass the path of a .jar or .war file")
	}
	return ctx.BuildError()
}

// fail prints err (and its help page when one exists) and returns an
// ExitError so the process exits non-zero without cobra printing again.
func (a *App) fail(cmd *cobra.Command, err error, verbose bool, scheme config.ColorScheme) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	err = toActionable(err)
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	if id, ok := classifyError(err); ok {
		if rendered, renderErr := issue.Get(id).Render(scheme.String()); renderErr == nil {
			fmt.Fprint(a.stderr, rendered)
		}
	}
	return &ExitError{Code: types.ExitFailure}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
