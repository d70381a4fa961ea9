// Package config binds the CLI's viper-backed configuration: flags, the
// IPCONVERT_* environment namespace, and their defaults.
package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds the resolved build configuration for one `convert`
// invocation.
type Config struct {
	// Output overrides the default "<input>.MMDB" output path.
	Output string
	// Verbose enables debug-level logging.
	Verbose bool
	// NoProgress disables the CSV-scan progress bar, for non-interactive
	// runs (CI logs, piped output).
	NoProgress bool
	// Verify runs a round-trip lookup against the written file using an
	// independent MMDB reader before exiting.
	Verify bool
}

// BindFlags registers the convert command's flags and binds them through
// viper, so every value can also be set via an IPCONVERT_* environment
// variable.
func BindFlags(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("IPCONVERT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	flags := cmd.Flags()
	flags.String("output", "", "output MMDB path (default: <input>.MMDB)")
	flags.Bool("verbose", false, "enable debug logging")
	flags.Bool("no-progress", false, "disable the CSV-scan progress bar")
	flags.Bool("verify", false, "round-trip verify the output with an independent MMDB reader")

	_ = v.BindPFlag("output", flags.Lookup("output"))
	_ = v.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = v.BindPFlag("no-progress", flags.Lookup("no-progress"))
	_ = v.BindPFlag("verify", flags.Lookup("verify"))

	return v
}

// Load reads the bound viper values into a Config.
func Load(v *viper.Viper) Config {
	return Config{
		Output:     v.GetString("output"),
		Verbose:    v.GetBool("verbose"),
		NoProgress: v.GetBool("no-progress"),
		Verify:     v.GetBool("verify"),
	}
}
