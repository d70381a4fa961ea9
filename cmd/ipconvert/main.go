// Command ipconvert converts an IP2Location-style IPv4 CSV into a
// MaxMind DB v2 binary.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sjzar/ip2mmdb/pkg/build"
	"github.com/sjzar/ip2mmdb/pkg/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ipconvert",
		Short:        "Convert an IP2Location CSV into a MaxMind DB v2 file",
		SilenceUsage: true,
	}
	root.AddCommand(newConvertCmd())
	return root
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input.csv>",
		Short: "Build a .MMDB file from an IP2Location LITE CSV",
		Args:  cobra.ExactArgs(1),
	}

	v := config.BindFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(v)

		log := logrus.New()
		if cfg.Verbose {
			log.SetLevel(logrus.DebugLevel)
		}

		result, err := build.Run(build.Options{
			InputPath:  args[0],
			OutputPath: cfg.Output,
			NoProgress: cfg.NoProgress,
			Verify:     cfg.Verify,
		}, log)
		if err != nil {
			return err
		}

		fmt.Print(result.Summary())
		log.WithField("output", result.OutputPath).Info("build complete")
		fmt.Printf("You can now use %s with any MaxMind API which supports the GeoLite2 format.\n", result.OutputPath)
		return nil
	}

	return cmd
}
