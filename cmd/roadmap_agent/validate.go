package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-roadmap/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a pipeline artifact against its JSON Schema",
	Long:  "Validates a JSON file against one of the pipeline artifact schemas: tier_list, allocation, content_map, or roadmap.",
	RunE:  runValidate,
}

var (
	validateArtifact string
	validateFile     string
)

func init() {
	validateCmd.Flags().StringVarP(&validateArtifact, "artifact", "a", "", "Artifact schema name (required)")
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "JSON file to validate (required)")

	if err := validateCmd.MarkFlagRequired("artifact"); err != nil {
		panic(fmt.Sprintf("failed to mark artifact flag as required: %v", err))
	}
	if err := validateCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	schema := schemas.Schema(validateArtifact)
	switch schema {
	case schemas.SchemaTierList, schemas.SchemaAllocation, schemas.SchemaContentMap, schemas.SchemaRoadmap:
	default:
		return fmt.Errorf("unknown artifact %q (expected tier_list, allocation, content_map, or roadmap)", validateArtifact)
	}

	err := schemas.ValidateArtifact(schema, validateFile)
	if err == nil {
		fmt.Printf("%s is a valid %s artifact\n", validateFile, schema)
		return nil
	}

	var ve *schemas.ValidationError
	if errors.As(err, &ve) {
		fmt.Println(ve.Error())
		return fmt.Errorf("validation failed with %d error(s)", len(ve.Errors))
	}
	return err
}
