// Command trimvideos batch-processes downloaded replays: drops the audio
// stream and trims each file to 19 seconds, either into a mirrored output
// tree or in place.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"myreplays/internal/adapters/ffmpeg"
	"myreplays/internal/app"
)

func main() {
	inputDir := flag.String("input-dir", "replays", "Directory holding the input videos")
	outputDir := flag.String("output-dir", "replays_19s_muted", "Output directory when not using -in-place")
	inPlace := flag.Bool("in-place", false, "Overwrite the original videos")
	recursive := flag.Bool("recursive", true, "Look for videos recursively")
	maxSeconds := flag.Float64("max-seconds", app.DefaultMaxSeconds, "Final maximum duration in seconds")
	exts := flag.String("ext", ".mp4", "Comma-separated video extensions to process")
	flag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Str("app", "trimvideos").Logger()
	log.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	info, err := os.Stat(*inputDir)
	if err != nil || !info.IsDir() {
		logger.Error().Str("input_dir", *inputDir).Msg("invalid input directory")
		os.Exit(1)
	}

	var extensions []string
	for _, e := range strings.Split(*exts, ",") {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		extensions = append(extensions, strings.ToLower(e))
	}

	trimmer := app.NewTrimmer(logger, ffmpeg.New(), app.TrimmerOptions{
		MaxSeconds: *maxSeconds,
		Extensions: extensions,
	})

	summary, err := trimmer.ProcessAll(ctx, *inputDir, *outputDir, *inPlace, *recursive)
	if err != nil {
		logger.Error().Err(err).Str("code", app.ErrorCode(err)).Msg("trim batch aborted")
		os.Exit(1)
	}

	fmt.Printf("Done: %d ok, %d skipped, %d failed out of %d\n",
		summary.Succeeded, summary.Skipped, len(summary.Failures), summary.Total())
	for _, f := range summary.Failures {
		fmt.Printf("  FAILED %s -> %s\n", f.Item, f.Reason)
	}
}
