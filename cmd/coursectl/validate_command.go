package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/coursecards-backend/internal/domain"
	"github.com/yungbote/coursecards-backend/internal/modules/cards/builder"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "validate <cardType>",
		Short: "Build a card payload from JSON fields and print it without sending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, ok := domain.ParseCardType(args[0])
			if !ok {
				return fmt.Errorf("unknown card type %q", args[0])
			}
			raw, err := readInput(cmd, input)
			if err != nil {
				return err
			}
			var f builder.Fields
			if err := json.Unmarshal(raw, &f); err != nil {
				return fmt.Errorf("decode fields: %w", err)
			}
			st, err := ctx.stamper()
			if err != nil {
				return err
			}
			payload, err := builder.New(st).Build(ct, f)
			if err != nil {
				return err
			}
			return writeJSON(cmd, payload)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "JSON fields file, - for stdin")
	return cmd
}
