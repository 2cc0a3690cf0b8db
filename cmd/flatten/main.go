// Command flatten expands the include directives in the document read from
// standard input and writes the flattened, blank-line normalized result to
// standard output. Included paths are resolved against the base directory
// given as the only argument.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nickwells/include.mod/include"
	"github.com/nickwells/include.mod/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "FLATTEN"

func main() {
	os.Exit(run(os.Args[1:], os.Getenv, os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command and returns the exit code
func run(args []string, getenv func(string) string,
	stdin io.Reader, stdout, stderr io.Writer,
) int {
	cmd := newRootCommand(getenv, stdin, stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	fmt.Fprintf(stderr, "Error: %s\n", err)
	return 1
}

func newRootCommand(getenv func(string) string,
	stdin io.Reader, stdout io.Writer,
) *cobra.Command {
	logLevel := "info"

	cmd := &cobra.Command{
		Use:   "flatten [flags] <base-dir>",
		Short: "Expand #include directives into a single flattened document",
		Long: `flatten reads a document from standard input and replaces every line of
the form

    #include "path"

with the contents of the file at path, relative to the base directory. The
included files are expanded in the same way. Each file is included at most
once, later references to it are dropped. Runs of empty lines in the result
are reduced to a single empty line.`,
		Example: `  # Flatten main.cpp using the headers in ./lib
  flatten ./lib < main.cpp > flat.cpp`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindViper(cmd, getenv)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logLevel)
			if err != nil {
				return err
			}

			e, err := include.New(args[0], include.Logger(logger))
			if err != nil {
				return fmt.Errorf("bad base directory: %w", err)
			}

			lines, err := e.Run(stdin, "stdin")
			if err != nil {
				return err
			}
			logger.V(1).Info("expanded", "lines", len(lines))

			return include.Write(stdout, lines)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", logLevel,
		"log verbosity: debug, info, warn, or error")

	return cmd
}

// bindViper sets any flag not given on the command line from the
// environment (FLATTEN_<FLAG>) or from the config file named by
// FLATTEN_CONFIG
func bindViper(cmd *cobra.Command, getenv func(string) string) error {
	v := viper.New()
	fs := cmd.Flags()
	fs.VisitAll(func(f *pflag.Flag) {
		envVar := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if val := getenv(envVar); val != "" {
			v.Set(f.Name, val)
		}
	})

	if cfgFile := getenv(envPrefix + "_CONFIG"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("cannot read the config file: %w", err)
		}
	}

	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}
		val := fmt.Sprintf("%v", v.Get(f.Name))
		if val == "" {
			return
		}
		if err := f.Value.Set(val); err != nil {
			bindErr = fmt.Errorf("bad value for %s: %w", f.Name, err)
		}
	})
	return bindErr
}
