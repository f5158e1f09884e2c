// Command schemec compiles a serialized Scheme-like AST to C, and
// either writes the result to an output file or, when none is given,
// compiles it with the host C compiler and runs it directly — the same
// two modes original_source/src/main.c offers.
package main

import (
	"fmt"
	"os"

	"github.com/eshkol-lang/schemec"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "schemec <input.json> [output.c]",
	Short: "Scheme-to-C compiler",
	Long: `schemec lowers a serialized Scheme-like AST (as produced by an external
lexer/parser front end) into portable C.

With an output path given, it writes the generated C there. Without
one, it compiles the AST to a temporary file, builds it with the host
C compiler, and runs the result, forwarding its exit code.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCompile,
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug output (implies verbose)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	if debug {
		verbose = true
	}
	if debug {
		fmt.Println("Debug mode enabled")
	} else if verbose {
		fmt.Println("Verbose mode enabled")
	}

	inputPath := args[0]
	var outputPath string
	if len(args) == 2 {
		outputPath = args[1]
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}
	program, err := schemec.DecodeProgram(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", inputPath, err)
	}

	opts := schemec.DefaultCodegenOptions()
	switch {
	case debug:
		opts.Verbosity = schemec.VerbosityDebug
	case verbose:
		opts.Verbosity = schemec.VerbosityVerbose
	}

	source, diagnostics, err := schemec.CompileWithOptions(program, opts)
	for _, d := range diagnostics.Entries() {
		fmt.Fprintln(os.Stderr, d.String())
	}
	if err != nil {
		return fmt.Errorf("compiling %s: %w", inputPath, err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(source), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outputPath, err)
		}
		fmt.Printf("Successfully compiled %s to %s\n", inputPath, outputPath)
		return nil
	}

	fmt.Printf("Compiling and running %s...\n", inputPath)
	exitCode, err := schemec.RunGenerated(source, nil)
	if err != nil {
		return err
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
