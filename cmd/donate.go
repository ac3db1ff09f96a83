package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/duboisf/donate/internal/api"
	"github.com/duboisf/donate/internal/format"
)

func newDonateCmd(opts Options, sess *session) *cobra.Command {
	var input api.DonationInput

	cmd := &cobra.Command{
		Use:   "donate <campaign-slug>",
		Short: "Make a donation to a campaign",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeCampaigns(sess)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if input.Amount <= 0 {
				return errors.New("--amount must be greater than zero")
			}
			input.CampaignSlug = args[0]
			input.Currency = strings.ToUpper(input.Currency)

			client := sess.client(cmd.Context())
			resp, err := api.CreateDonation(cmd.Context(), client, input)
			if err != nil {
				return fmt.Errorf("creating donation: %w", err)
			}
			sess.persist(client)
			if resp.CreateDonation == nil {
				return errors.New("creating donation: empty response")
			}
			fmt.Fprint(opts.Stdout, format.FormatDonation(resp.CreateDonation, format.ColorEnabled(opts.Stdout)))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&input.Amount, "amount", "a", 0, "Amount to donate")
	cmd.Flags().StringVarP(&input.Currency, "currency", "c", "USD", "ISO 4217 currency code")
	cmd.Flags().StringVarP(&input.DonorEmail, "email", "e", "", "Email address for the receipt")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.RegisterFlagCompletionFunc("amount", cobra.NoFileCompletions)
	_ = cmd.RegisterFlagCompletionFunc("email", cobra.NoFileCompletions)
	_ = cmd.RegisterFlagCompletionFunc("currency", cobra.FixedCompletions(
		[]string{"USD", "EUR", "GBP", "CAD"}, cobra.ShellCompDirectiveNoFileComp,
	))
	return cmd
}
