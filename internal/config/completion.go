package config

import "github.com/spf13/cobra"

// CompleteFormat provides shell completion candidates for the --format flag.
func CompleteFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return formatNames(), cobra.ShellCompDirectiveNoFileComp
}

// CompleteResolver provides shell completion candidates for the --resolver flag.
func CompleteResolver(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return Resolvers, cobra.ShellCompDirectiveNoFileComp
}

// CompleteRulesFile restricts --rules completion to YAML files.
func CompleteRulesFile(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}

// RegisterFlagCompletions wires completion functions for the flags added by RegisterFlags.
func RegisterFlagCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", CompleteFormat)
	_ = cmd.RegisterFlagCompletionFunc("resolver", CompleteResolver)
	_ = cmd.RegisterFlagCompletionFunc("rules", CompleteRulesFile)
}
