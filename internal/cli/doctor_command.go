package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"yt-clip-batcher/internal/config"
	"yt-clip-batcher/internal/tools"

	"github.com/charmbracelet/lipgloss"
)

var (
	doctorOKStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	doctorFailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

func runDoctor(args []string) error {
	cfg := config.Load()

	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	scratch := fs.String("scratch", cfg.ScratchDir, "scratch directory to verify")
	ytdlpBin := fs.String("ytdlp", cfg.YTDLPBin, "yt-dlp binary override")
	ffmpegBin := fs.String("ffmpeg", cfg.FFmpegBin, "ffmpeg binary override")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := tools.Doctor(tools.DoctorOptions{
		YTDLPBin:   strings.TrimSpace(*ytdlpBin),
		FFmpegBin:  strings.TrimSpace(*ffmpegBin),
		ScratchDir: strings.TrimSpace(*scratch),
	})
	if err != nil {
		return err
	}

	if *jsonOut {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		for _, check := range result.Checks {
			mark := doctorOKStyle.Render("ok")
			if !check.OK {
				mark = doctorFailStyle.Render("fail")
			}
			fmt.Printf("%-20s %s  %s\n", check.Name, mark, check.Message)
		}
	}

	if !result.OK {
		return errors.New("doctor checks failed")
	}
	return nil
}
