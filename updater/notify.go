package updater

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/streamsnag-cli/streamsnag/color"
	"github.com/streamsnag-cli/streamsnag/engine/ytdlp"
	"github.com/streamsnag-cli/streamsnag/icon"
	"github.com/streamsnag-cli/streamsnag/key"
	"github.com/streamsnag-cli/streamsnag/style"
	"github.com/streamsnag-cli/streamsnag/util"
)

// Notify displays a terminal alert if a more recent engine release is available.
func Notify() {
	if !viper.GetBool(key.UpdaterEnable) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	erase := util.PrintErasable(fmt.Sprintf("%s Checking for engine updates...", icon.Get(icon.Progress)))
	installed, err := ytdlp.New(viper.GetString(key.EnginePath)).Version(ctx)
	if err != nil {
		erase()
		return
	}

	info, err := Check(ctx, viper.GetString(key.UpdaterReleaseAPI), installed)
	erase()
	if err != nil || !info.UpdateAvailable {
		return
	}

	fmt.Printf(`
%s New yt-dlp release is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(info.LatestVersion),
		style.Faint(fmt.Sprintf("(You have %s)", info.CurrentVersion)),
		style.Faint("https://github.com/yt-dlp/yt-dlp/releases/tag/"+info.LatestVersion),
	)
}
