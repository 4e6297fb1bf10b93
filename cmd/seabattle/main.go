// Command seabattle plays QSeaBattle tournaments from the command line.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "seabattle",
		Short:         "Play QSeaBattle tournaments",
		Long:          `Plays the QSeaBattle game with PR-assisted or classical strategies and reports the mean reward against its closed-form reference.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	return root
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("seabattle failed")
		os.Exit(1)
	}
}
