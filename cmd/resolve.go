// Package cmd implements the command-line interface for streamsnag.
package cmd

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streamsnag-cli/streamsnag/engine/ytdlp"
	"github.com/streamsnag-cli/streamsnag/icon"
	"github.com/streamsnag-cli/streamsnag/key"
	"github.com/streamsnag-cli/streamsnag/open"
	"github.com/streamsnag-cli/streamsnag/resolver"
	"github.com/streamsnag-cli/streamsnag/util"
)

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.SetOut(os.Stdout)
	resolveCmd.Flags().StringP("command", "c", "", "Extra yt-dlp arguments for this resolution")
	resolveCmd.Flags().BoolP("open", "o", false, "Open the resolved stream with the default handler")
	resolveCmd.Flags().String("open-with", "", "Open the resolved stream with a specific application")
}

// resolveCmd resolves a page URL into a playable stream payload.
var resolveCmd = &cobra.Command{
	Use:   "resolve [url]",
	Short: "Resolve a page URL into a direct stream URL payload",
	Long: "Resolve a page URL into a JSON payload carrying the best playable stream URL,\n" +
		"the request headers it requires, and extraction diagnostics.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		r := newResolver()

		erase := util.PrintErasable(fmt.Sprintf("%s Resolving stream...", icon.Get(icon.Stream)))
		resolved, err := r.Resolve(cmd.Context(), resolver.Request{
			PageURL: args[0],
			Command: engineCommand(cmd),
		})
		erase()
		handleErr(err)

		payload, err := resolved.JSON()
		handleErr(err)
		cmd.Println(payload)

		if app := lo.Must(cmd.Flags().GetString("open-with")); app != "" {
			handleErr(open.StartWith(resolved.StreamURL, app))
		} else if lo.Must(cmd.Flags().GetBool("open")) {
			handleErr(open.Start(resolved.StreamURL))
		}
	},
}

// newResolver assembles the resolver on top of the configured engine binary.
func newResolver() *resolver.Resolver {
	return resolver.New(
		ytdlp.New(viper.GetString(key.EnginePath)),
		ytdlp.NewParser(),
	)
}

// engineCommand yields the per-invocation engine arguments, falling back to
// the configured default command.
func engineCommand(cmd *cobra.Command) string {
	if command := lo.Must(cmd.Flags().GetString("command")); command != "" {
		return command
	}

	return viper.GetString(key.EngineCommand)
}
