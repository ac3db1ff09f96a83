package cmd

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/duboisf/donate/internal/cache"
	"github.com/duboisf/donate/internal/format"
	"github.com/duboisf/donate/internal/tui"
)

// cachedSnapshot returns the persisted session cache, or nil.
func cachedSnapshot(sess *session) cache.Snapshot {
	if sess.snapshots == nil {
		return nil
	}
	snap, ok, err := sess.snapshots.Load(sessionSnapshot)
	if err != nil || !ok {
		return nil
	}
	return snap
}

// cachedCampaigns lists the campaigns of snap that carry a slug, sorted by
// slug.
func cachedCampaigns(snap cache.Snapshot) []tui.Campaign {
	var out []tui.Campaign
	for _, e := range format.Entities(snap) {
		if e.Fields["__typename"] != "Campaign" {
			continue
		}
		slug, _ := e.Fields["slug"].(string)
		if slug == "" {
			continue
		}
		title, _ := e.Fields["title"].(string)
		currency, _ := e.Fields["currency"].(string)
		out = append(out, tui.Campaign{
			Slug:     slug,
			Title:    title,
			Raised:   number(e.Fields["raised"]),
			Goal:     number(e.Fields["goal"]),
			Currency: currency,
		})
	}
	slices.SortFunc(out, func(a, b tui.Campaign) int { return strings.Compare(a.Slug, b.Slug) })
	return out
}

// number reads a numeric field decoded either as float64 or json.Number.
func number(v any) float64 {
	switch v := v.(type) {
	case float64:
		return v
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}

// completeCampaigns offers the slugs of campaigns seen in earlier runs.
func completeCampaigns(sess *session) ([]string, cobra.ShellCompDirective) {
	return formatCampaignCompletions(cachedSnapshot(sess)), cobra.ShellCompDirectiveNoFileComp
}

func formatCampaignCompletions(snap cache.Snapshot) []string {
	var comps []string
	for _, c := range cachedCampaigns(snap) {
		comps = append(comps, fmt.Sprintf("%s\t%s", c.Slug, c.Title))
	}
	return comps
}

// completeEntityKeys offers the keys of the persisted cache.
func completeEntityKeys(sess *session) ([]string, cobra.ShellCompDirective) {
	var keys []string
	for _, e := range format.Entities(cachedSnapshot(sess)) {
		keys = append(keys, e.Key)
	}
	return keys, cobra.ShellCompDirectiveNoFileComp
}
