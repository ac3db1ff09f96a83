package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/duboisf/donate/internal/api"
	"github.com/duboisf/donate/internal/format"
)

func newCampaignCmd(opts Options, sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "campaign [slug]",
		Short: "Show a campaign and its donation tiers",
		Long: "Show a campaign and its donation tiers. Without a slug, pick one\n" +
			"of the campaigns seen in earlier runs.",
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeCampaigns(sess)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var slug string
			if len(args) == 1 {
				slug = args[0]
			} else {
				picked, err := pickCampaign(opts, sess)
				if err != nil {
					return err
				}
				if picked == "" {
					return nil
				}
				slug = picked
			}

			client := sess.client(cmd.Context())
			resp, err := api.GetCampaign(cmd.Context(), client, slug)
			if err != nil {
				return fmt.Errorf("getting campaign: %w", err)
			}
			sess.persist(client)
			if resp.Campaign == nil {
				return fmt.Errorf("campaign %q not found", slug)
			}
			fmt.Fprint(opts.Stdout, format.FormatCampaign(resp.Campaign, format.ColorEnabled(opts.Stdout)))
			return nil
		},
	}
}

// pickCampaign asks the user to choose among the cached campaigns. An empty
// slug means the user cancelled.
func pickCampaign(opts Options, sess *session) (string, error) {
	campaigns := cachedCampaigns(cachedSnapshot(sess))
	if len(campaigns) == 0 || opts.PickCampaign == nil {
		return "", fmt.Errorf("no campaign slug given and no cached campaigns to pick from")
	}
	slug, err := opts.PickCampaign(campaigns, opts.Stdin, opts.Stderr)
	if err != nil {
		return "", fmt.Errorf("picking campaign: %w", err)
	}
	return slug, nil
}
