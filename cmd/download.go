// Package cmd implements the command-line interface for streamsnag.
package cmd

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streamsnag-cli/streamsnag/icon"
	"github.com/streamsnag-cli/streamsnag/key"
	"github.com/streamsnag-cli/streamsnag/open"
	"github.com/streamsnag-cli/streamsnag/resolver"
	"github.com/streamsnag-cli/streamsnag/util"
	"github.com/streamsnag-cli/streamsnag/where"
)

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.SetOut(os.Stdout)
	downloadCmd.Flags().StringP("dir", "d", "", "Directory to save the video into")
	downloadCmd.Flags().StringP("filename", "n", "", "Preferred filename stem for the saved video")
	downloadCmd.Flags().StringP("command", "c", "", "Extra yt-dlp arguments for this download")
	downloadCmd.Flags().BoolP("open", "o", false, "Open the saved file with the default handler")

	lo.Must0(downloadCmd.MarkFlagDirname("dir"))
}

// downloadCmd saves the resolved video to disk and reports where it landed.
var downloadCmd = &cobra.Command{
	Use:   "download [url]",
	Short: "Download the video behind a page URL and report the saved file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		r := newResolver()

		erase := util.PrintErasable(fmt.Sprintf("%s Downloading video...", icon.Get(icon.Download)))
		saved, err := r.Download(cmd.Context(), resolver.DownloadRequest{
			PageURL:      args[0],
			OutputDir:    outputDir(cmd),
			FilenameHint: lo.Must(cmd.Flags().GetString("filename")),
			Command:      engineCommand(cmd),
		})
		erase()
		handleErr(err)

		payload, err := saved.JSON()
		handleErr(err)
		cmd.Println(payload)

		if lo.Must(cmd.Flags().GetBool("open")) {
			handleErr(open.Start(saved.SavedPath))
		}
	},
}

// outputDir yields the target directory, preferring the flag over the
// configured downloads directory.
func outputDir(cmd *cobra.Command) string {
	if dir := lo.Must(cmd.Flags().GetString("dir")); dir != "" {
		return dir
	}

	if dir := viper.GetString(key.DownloadsDir); dir != "" {
		return dir
	}

	return where.Downloads()
}
