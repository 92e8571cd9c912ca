package main

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/guard/core/validator"
)

var errInvalid = errors.New("invalid value")

var fieldTypes = []validator.FieldType{
	validator.TypeEmail,
	validator.TypePassword,
	validator.TypePhone,
	validator.TypeMerchantName,
	validator.TypeAmount,
	validator.TypeURL,
	validator.TypeSearch,
}

func (c *cli) validateCmd() *cobra.Command {
	var (
		kind     string
		required bool
		minLen   int
		maxLen   int
		pattern  string
	)

	cmd := &cobra.Command{
		Use:   "validate [value...]",
		Short: "Check a value against a field rule",
		Long: `Validate a value read from the arguments or stdin.

The exit status is non-zero when the value fails. Passwords list every
violated rule and amounts print their rounded value.

Types: ` + typeNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			rule := validator.Rule{
				Required:  required,
				Type:      validator.FieldType(kind),
				MinLength: minLen,
				MaxLength: maxLen,
			}
			if kind != "" && !slices.Contains(fieldTypes, rule.Type) {
				return fmt.Errorf("unknown type %q, want one of %s", kind, typeNames())
			}
			if pattern != "" {
				if rule.Pattern, err = regexp.Compile(pattern); err != nil {
					return fmt.Errorf("compile pattern: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			msg := validator.ValidateField("value", value, rule)
			if msg != "" {
				fmt.Fprintf(out, "%s %s\n", red("✗"), msg)
				if rule.Type == validator.TypePassword {
					if violations := validator.Password(value); len(violations) > 1 && violations[0] == msg {
						for _, v := range violations[1:] {
							fmt.Fprintf(out, "  %s %s\n", red("-"), v)
						}
					}
				}
				c.logger.Debug("validation failed", "type", kind, "message", msg)
				return errInvalid
			}

			fmt.Fprintf(out, "%s valid\n", green("✓"))
			if rule.Type == validator.TypeAmount && strings.TrimSpace(value) != "" {
				res := validator.Amount(value)
				fmt.Fprintf(out, "  amount: %s\n", cyan(res.Value.StringFixed(validator.AmountPlaces)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "", "field type")
	cmd.Flags().BoolVarP(&required, "required", "r", false, "reject empty values")
	cmd.Flags().IntVar(&minLen, "min", 0, "minimum length in UTF-16 units")
	cmd.Flags().IntVar(&maxLen, "max", 0, "maximum length in UTF-16 units")
	cmd.Flags().StringVar(&pattern, "pattern", "", "regular expression the value must match")
	return cmd
}

func typeNames() string {
	names := make([]string, len(fieldTypes))
	for i, t := range fieldTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
