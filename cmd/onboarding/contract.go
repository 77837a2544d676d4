package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-onboarding/pkg/openapi"
)

func newContractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Print the registration OpenAPI contract",
		RunE: func(cmd *cobra.Command, _ []string) error {
			contract, err := openapi.Load(cmd.Context())
			if err != nil {
				return err
			}

			fieldsOnly, _ := cmd.Flags().GetBool("fields")
			if !fieldsOnly {
				_, err := cmd.OutOrStdout().Write(openapi.Raw())
				return err
			}

			fields, err := contract.PayloadFields(openapi.CreateRegistration)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FIELD\tTYPE\tREQUIRED\tCONSTRAINTS")
			for _, field := range fields {
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", field.Name, field.Type, field.Required, constraints(field))
			}
			return w.Flush()
		},
	}
	cmd.Flags().Bool("fields", false, "list the request body fields instead of the document")
	return cmd
}

func constraints(p openapi.Property) string {
	var parts []string
	if p.Format != "" {
		parts = append(parts, "format="+p.Format)
	}
	if p.MinLength > 0 {
		parts = append(parts, fmt.Sprintf("minLength=%d", p.MinLength))
	}
	if p.Pattern != "" {
		parts = append(parts, "pattern="+p.Pattern)
	}
	if len(p.Enum) > 0 {
		parts = append(parts, "enum="+strings.Join(p.Enum, "|"))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
