package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"mp4tomp3/application/batch"
	"mp4tomp3/domain/conversion"
	"mp4tomp3/infrastructure/config"
	"mp4tomp3/infrastructure/ffmpeg"
	"mp4tomp3/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var (
	outputDir    string
	bitrate      string
	recursive    bool
	overwrite    bool
	workers      int
	showProgress bool
	ffmpegPath   string
)

var rootCmd = &cobra.Command{
	Use:   "mp4tomp3 [input]",
	Short: "Batch-convert MP4 video files to MP3 audio",
	Long: `mp4tomp3 converts MP4 video files to MP3 audio using ffmpeg.

The input may be a single file or a directory. In directory mode every
entry with a .mp4 extension (case-insensitive) is converted; an explicit
file path is converted regardless of its extension. Existing outputs are
skipped unless --overwrite is given.

The process exits 0 when every file converted or was skipped, 1 otherwise.

Examples:
  mp4tomp3 lecture.mp4
  mp4tomp3 ./video -o ./audio -b 128k
  mp4tomp3 ./video -r -y --workers 4`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config/config.yaml)")

	flags := rootCmd.Flags()
	flags.StringVarP(&outputDir, "output-dir", "o", "", "directory for converted MP3 files (default from config or ./audio)")
	flags.StringVarP(&bitrate, "bitrate", "b", "", "audio bitrate, e.g. 128k (default from config or 192k)")
	flags.BoolVarP(&recursive, "recursive", "r", false, "search subdirectories when input is a directory")
	flags.BoolVarP(&overwrite, "overwrite", "y", false, "overwrite existing output files")
	flags.IntVar(&workers, "workers", 0, "number of parallel conversions (default from config or 1)")
	flags.BoolVar(&showProgress, "progress", false, "show a progress bar instead of per-file lines")
	flags.StringVar(&ffmpegPath, "ffmpeg-path", "", "path to the ffmpeg executable (default from config or ffmpeg)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultConfigPath
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// The config file is optional; built-in defaults apply without it
		cfg = config.Default()
	}
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// DirEnsurer creates output directories (allows mocking in tests)
type DirEnsurer interface {
	EnsureDir(path string) error
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	inputPath := fallback("", cfg.Paths.VideoDirectory, "./video")
	if len(args) > 0 {
		inputPath = args[0]
	}

	input := batch.Input{
		InputPath: inputPath,
		OutputDir: fallback(outputDir, cfg.Paths.AudioDirectory, "./audio"),
		Bitrate:   fallback(bitrate, cfg.Audio.Bitrate, conversion.DefaultBitrate),
		Recursive: recursive,
		Overwrite: overwrite,
	}

	workerCount := workers
	if workerCount <= 0 {
		workerCount = cfg.Conversion.Workers
	}
	if workerCount < 1 {
		workerCount = 1
	}

	// Create dependencies using production implementations
	converter := ffmpeg.NewConverter(ffmpeg.WithFFmpegPath(fallback(ffmpegPath, cfg.FFmpeg.Path, "ffmpeg")))
	checker := filesystem.NewChecker()
	finder := filesystem.NewFinder()

	var reporter batch.Reporter = batch.NewTextReporter(os.Stdout)
	if showProgress {
		reporter = newProgressReporter(os.Stderr)
	}

	return RunConvertWithDependencies(
		cmd.Context(),
		converter,
		checker,
		checker,
		finder,
		reporter,
		input,
		workerCount,
		os.Stdout,
	)
}

// fallback returns the first non-empty value
func fallback(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// RunConvertWithDependencies runs the conversion with injected dependencies (for testing)
func RunConvertWithDependencies(
	ctx context.Context,
	converter conversion.AudioConverter,
	checker conversion.FileChecker,
	ensurer DirEnsurer,
	finder batch.SourceFinder,
	reporter batch.Reporter,
	input batch.Input,
	workers int,
	output OutputWriter,
) error {
	// Verify ffmpeg is available if the converter supports it
	if verifiable, ok := converter.(interface{ VerifyInstalled(context.Context) error }); ok {
		verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := verifiable.VerifyInstalled(verifyCtx); err != nil {
			return fmt.Errorf("ffmpeg verification failed: %w", err)
		}
	}

	// A missing input path aborts the run before any job starts
	if !checker.Exists(input.InputPath) {
		return fmt.Errorf("input path not found: %s", input.InputPath)
	}

	if input.OutputDir != "" {
		if err := ensurer.EnsureDir(input.OutputDir); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	service := batch.NewService(converter, checker, finder,
		batch.WithWorkers(workers),
		batch.WithReporter(reporter),
	)

	results, err := service.Run(ctx, input)
	if err != nil {
		return err
	}

	summary := conversion.Summarize(results)
	fmt.Fprintf(output, "\nDone: %d converted, %d skipped, %d failed\n",
		summary.Converted, summary.Skipped, summary.Failed)

	if summary.HasFailures() {
		return fmt.Errorf("%d of %d conversions failed", summary.Failed, summary.Total())
	}

	return nil
}
