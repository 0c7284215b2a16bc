package app

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"myreplays/internal/domain"
	"myreplays/internal/ports"
)

// DefaultMaxSeconds is the fixed trim duration of the mute+trim pipeline.
const DefaultMaxSeconds = 19.0

const inPlaceTmpSuffix = ".tmp.muted_trimmed.mp4"

// TrimMuteArgs is the argument template for one mute+trim invocation: drop
// the audio stream and truncate the output to maxSeconds. Kept as pure data
// so it is testable without invoking the tool.
func TrimMuteArgs(src, dst string, maxSeconds float64) []string {
	return []string{
		"-y",
		"-i", src,
		"-t", fmt.Sprintf("%g", maxSeconds),
		"-an",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-movflags", "+faststart",
		dst,
	}
}

type TrimmerOptions struct {
	// MaxSeconds defaults to DefaultMaxSeconds.
	MaxSeconds float64
	// Extensions recognized as video files, defaults to [".mp4"].
	Extensions []string
}

type Trimmer struct {
	logger zerolog.Logger
	runner ports.MediaRunner
	opts   TrimmerOptions
}

func NewTrimmer(logger zerolog.Logger, runner ports.MediaRunner, opts TrimmerOptions) *Trimmer {
	if opts.MaxSeconds <= 0 {
		opts.MaxSeconds = DefaultMaxSeconds
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".mp4"}
	}
	return &Trimmer{logger: logger, runner: runner, opts: opts}
}

// Discover walks inputDir and returns the video files to process, sorted so
// re-walking yields the same order. Non-recursive mode only looks at the
// top level.
func (t *Trimmer) Discover(inputDir string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}
		if t.isVideo(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (t *Trimmer) isVideo(path string) bool {
	if strings.HasSuffix(path, inPlaceTmpSuffix) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range t.opts.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ProcessAll trims every discovered file sequentially. A missing tool is
// fatal and aborts before the batch; per-file failures are recorded and the
// batch continues.
func (t *Trimmer) ProcessAll(ctx context.Context, inputDir, outputDir string, inPlace, recursive bool) (domain.BatchSummary, error) {
	if err := t.runner.Check(); err != nil {
		return domain.BatchSummary{}, NewCodedError(CodeToolNotFound, "media tool unavailable", err)
	}

	files, err := t.Discover(inputDir, recursive)
	if err != nil {
		return domain.BatchSummary{}, err
	}
	if len(files) == 0 {
		t.logger.Info().Str("input_dir", inputDir).Msg("no files to process")
		return domain.BatchSummary{}, nil
	}

	summary := domain.BatchSummary{}
	for idx, src := range files {
		n := idx + 1
		var dst string
		var err error
		if inPlace {
			dst = src
			err = t.processInPlace(ctx, src)
		} else {
			dst, err = t.processToOutput(ctx, src, inputDir, outputDir)
		}
		switch {
		case err != nil:
			t.logger.Error().Err(err).Str("file", src).Msgf("[%d/%d] failed", n, len(files))
			summary.Failures = append(summary.Failures, domain.Failure{Item: src, Reason: err.Error()})
		case dst == "":
			t.logger.Info().Str("file", src).Msgf("[%d/%d] already processed", n, len(files))
			summary.Skipped++
		default:
			t.logger.Info().Str("file", dst).Msgf("[%d/%d] ok", n, len(files))
			summary.Succeeded++
		}
	}

	t.logger.Info().
		Int("succeeded", summary.Succeeded).
		Int("skipped", summary.Skipped).
		Int("failed", len(summary.Failures)).
		Msg("trim batch finished")
	return summary, nil
}

// processToOutput mirrors src's path relative to inputDir under outputDir.
// An existing destination is skipped (returns "") so re-runs are incremental.
func (t *Trimmer) processToOutput(ctx context.Context, src, inputDir, outputDir string) (string, error) {
	rel, err := filepath.Rel(inputDir, src)
	if err != nil {
		return "", NewCodedError(CodeProcessing, "relative path", err)
	}
	dst := filepath.Join(outputDir, rel)

	if _, err := os.Stat(dst); err == nil {
		return "", nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", NewCodedError(CodeProcessing, "create "+filepath.Dir(dst), err)
	}
	if err := t.runner.Run(ctx, TrimMuteArgs(src, dst, t.opts.MaxSeconds)); err != nil {
		// Half-written outputs would be skipped as done on the next run.
		_ = os.Remove(dst)
		return "", NewCodedError(CodeProcessing, "trim failed", err)
	}
	return dst, nil
}

// processInPlace writes to a temp file beside src and renames it over the
// original only on success. The temp file is removed on every other path, so
// a failure leaves the original untouched.
func (t *Trimmer) processInPlace(ctx context.Context, src string) error {
	tmp := src + inPlaceTmpSuffix
	defer func() {
		if _, err := os.Stat(tmp); err == nil {
			_ = os.Remove(tmp)
		}
	}()

	if err := t.runner.Run(ctx, TrimMuteArgs(src, tmp, t.opts.MaxSeconds)); err != nil {
		return NewCodedError(CodeProcessing, "trim failed", err)
	}
	if err := os.Rename(tmp, src); err != nil {
		return NewCodedError(CodeProcessing, "replace original", err)
	}
	return nil
}
