package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"datakit/dataclass"
	"datakit/schemafile"
	"datakit/validate"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.yaml>",
		Short: "Validate a YAML declaration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, classes, err := loadDeclarations(cmd, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d classes ok\n", args[0], len(classes))

			return nil
		},
	}
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <file.yaml> <class>",
		Short: "Print the JSON Schema of a declared class",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, classes, err := loadDeclarations(cmd, args[0])
			if err != nil {
				return err
			}

			c, ok := classes[args[1]]
			if !ok {
				return fmt.Errorf("class %q is not declared in %s", args[1], args[0])
			}

			schema, err := registry.JSONSchema(c)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode schema: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return nil
		},
	}
}

func loadDeclarations(cmd *cobra.Command, path string) (*dataclass.Registry, map[string]*dataclass.Class, error) {
	logger, err := loggerFromCommand(cmd)
	if err != nil {
		return nil, nil, err
	}

	registry := dataclass.NewRegistry(dataclass.WithLogger(logger))

	classes, err := schemafile.Load(cmd.Context(), path, validate.Builtins(), registry)
	if err != nil {
		return nil, nil, err
	}

	return registry, classes, nil
}
