package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCompletionCmd creates the "completion" command. The generated scripts
// complete campaign slugs and cache entity keys from the persisted session
// cache.
func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish>",
		Short: "Generate shell completion script",
		Long: "Generate a completion script for bash, zsh or fish. Campaign slugs\n" +
			"are completed from campaigns seen in earlier runs.",
		Example: "  donate completion bash > ~/.local/share/bash-completion/completions/donate\n" +
			"  donate completion zsh > \"${fpath[1]}/_donate\"\n" +
			"  donate completion fish > ~/.config/fish/completions/donate.fish",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			}
			return fmt.Errorf("unsupported shell %q, want bash, zsh or fish", args[0])
		},
	}
}
