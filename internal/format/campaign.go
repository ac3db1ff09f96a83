package format

import (
	"fmt"
	"strings"

	"github.com/duboisf/donate/internal/api"
)

// Money formats an amount with its currency code.
func Money(amount float64, currency string) string {
	s := fmt.Sprintf("%.2f", amount)
	if currency == "" {
		return s
	}
	return s + " " + currency
}

// Progress returns the funded percentage of a campaign, 0 when it has no goal.
func Progress(raised, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return raised / goal * 100
}

// ProgressColor picks a color for a funded percentage.
func ProgressColor(pct float64) string {
	switch {
	case pct >= 100:
		return Green
	case pct >= 50:
		return Yellow
	default:
		return ""
	}
}

// FormatCampaign formats a campaign in a key-value layout followed by its
// donation tiers.
func FormatCampaign(c *api.Campaign, color bool) string {
	var buf strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&buf, "%s %s\n", Colorize(color, Bold, label+":"), value)
	}

	field("Campaign", c.Title)
	field("Slug", c.Slug)
	field("Goal", Money(c.Goal, c.Currency))
	pct := Progress(c.Raised, c.Goal)
	field("Raised", fmt.Sprintf("%s %s",
		Money(c.Raised, c.Currency),
		Colorize(color, ProgressColor(pct), fmt.Sprintf("(%.0f%%)", pct)),
	))

	if len(c.DonationTiers) == 0 {
		return buf.String()
	}
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, Colorize(color, Bold, "Tiers:"))
	width := 0
	for _, tier := range c.DonationTiers {
		width = max(width, len(Money(tier.Amount, c.Currency)))
	}
	for _, tier := range c.DonationTiers {
		fmt.Fprintf(&buf, "  %s  %s\n",
			PadColor(color, Cyan, Money(tier.Amount, c.Currency), width),
			tier.Label,
		)
	}
	return buf.String()
}

// FormatDonation formats a created donation.
func FormatDonation(d *api.Donation, color bool) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s %s\n", Colorize(color, Green, "Donation recorded:"), d.Id)
	fmt.Fprintf(&buf, "%s %s\n", Colorize(color, Bold, "Amount:"), Money(d.Amount, d.Currency))
	if d.Campaign.Id != "" {
		fmt.Fprintf(&buf, "%s %s\n", Colorize(color, Bold, "Campaign total:"), Money(d.Campaign.Raised, d.Currency))
	}
	return buf.String()
}
