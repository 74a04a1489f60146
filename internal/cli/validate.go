package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kinetools/linkrate/pkg/errors"
)

// newValidateCmd creates the validate command. It compiles the definition
// without running the sweep, so geometry mistakes (duplicate ids, missing
// shock, dangling point references) surface with their error codes before
// any solving is attempted.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a linkage definition without solving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			l, err := loadModel(args[0])
			if err != nil {
				printError("%s", errors.UserMessage(err))
				if code := errors.GetCode(err); code != "" {
					logger.Debugf("error code: %s", code)
				}
				return err
			}

			printSuccess("%s compiles: %d points, %d edges, stroke %.1f",
				args[0], l.model.PointCount(), l.model.EdgeCount(), l.model.Stroke)
			if l.calibrated() {
				printKeyValue("scale", fmt.Sprintf("%.3f mm/px", float64(l.scale)))
			}
			if l.model.RearAxle < 0 {
				logger.Warn("no rear_axle point designated; travel and leverage will be omitted")
			}
			return nil
		},
	}
}
