package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"datakit/internal/analyze"
	"datakit/internal/gen"
)

const (
	outputNameFlag = "output-name"
	outputDirFlag  = "output-dir"
	dryRunFlag     = "dry-run"
	noHelpersFlag  = "no-parse-helpers"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datakit-gen [packages]",
		Short: "Generate data class declarations from datakit struct tags",
		Long: `Loads the given Go packages (default ".") and writes, for every package
declaring structs with datakit tags, a file holding their dataclass.Define
declarations and Parse helpers.`,
		Args:              cobra.ArbitraryArgs,
		RunE:              runGenerate,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}

	defaults := gen.DefaultGeneratorConfig()

	cmd.Flags().String(outputNameFlag, defaults.Filename, "name of the generated file")
	cmd.Flags().String(outputDirFlag, "", "write every generated file into this directory instead of its package")
	cmd.Flags().Bool(dryRunFlag, false, "print the generated code instead of writing it")
	cmd.Flags().Bool(noHelpersFlag, false, "do not generate Parse<Type> helpers")
	registerLoggingFlags(cmd.PersistentFlags())

	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newSchemaCommand())

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger, err := loggerFromCommand(cmd)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{"."}
	}

	graph, err := analyze.NewAnalyzer(logger).LoadPackages(args...)
	if err != nil {
		return err
	}

	cfg := gen.DefaultGeneratorConfig()
	if cfg.Filename, err = cmd.Flags().GetString(outputNameFlag); err != nil {
		return err
	}

	noHelpers, err := cmd.Flags().GetBool(noHelpersFlag)
	if err != nil {
		return err
	}

	cfg.ParseHelpers = !noHelpers

	files, err := gen.NewGenerator(cfg).Generate(graph)
	if err != nil {
		return err
	}

	dryRun, err := cmd.Flags().GetBool(dryRunFlag)
	if err != nil {
		return err
	}

	if dryRun {
		for _, f := range files {
			fmt.Fprintf(cmd.OutOrStdout(), "// %s/%s\n%s", f.PkgPath, f.Filename, f.Content)
		}

		return nil
	}

	outputDir, err := cmd.Flags().GetString(outputDirFlag)
	if err != nil {
		return err
	}

	if err := gen.WriteFiles(files, outputDir); err != nil {
		return err
	}

	for _, f := range files {
		logger.Info("generated data classes", "package", f.PkgPath, "file", f.Filename)
	}

	return nil
}
