// Command image-augment applies a randomized augmentation policy to images,
// writing N augmented variants of each input.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	imageaugment "github.com/menta2k/image-augment"
	"github.com/menta2k/image-augment/internal/config"
	"github.com/menta2k/image-augment/internal/utils"
	"github.com/menta2k/image-augment/pkg/imageio"
	"github.com/menta2k/image-augment/pkg/sampler"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func newRootCmd() *cobra.Command {
	var (
		in         string
		out        string
		configPath string
		seed       int64
		variants   int
		height     int
		width      int
		ext        string
		quality    int
		lossless   bool
		mode       string
		edge       string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "image-augment",
		Short: "Apply a randomized augmentation policy to images",
		Long: `image-augment applies randomized geometric and photometric transforms
(rotation, zoom, flips, brightness, contrast, ...) to images, producing
several augmented variants of each input. The policy is declared in a JSON
config file; without one a general-purpose default policy is used.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)

			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.LoadFromFile(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
				logger.Debug("loaded config", "path", configPath)
			}

			// Flag overrides on top of the config file.
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if cmd.Flags().Changed("variants") {
				cfg.Output.Variants = variants
			}
			if height > 0 && width > 0 {
				cfg.Size = config.SizeConfig{Height: height, Width: width}
			}
			if cmd.Flags().Changed("ext") {
				cfg.Output.Format = ext
			}
			if cmd.Flags().Changed("quality") {
				cfg.Output.Quality = quality
			}
			if cmd.Flags().Changed("lossless") {
				cfg.Output.Lossless = lossless
			}
			if cmd.Flags().Changed("mode") {
				cfg.Sample.Mode = mode
			}
			if cmd.Flags().Changed("edge") {
				cfg.Sample.Edge = edge
			}
			if out != "" {
				cfg.Output.Dir = out
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			inputs, err := gatherInputs(in)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				return fmt.Errorf("no image files found at %s", in)
			}

			transforms, err := cfg.Build()
			if err != nil {
				return err
			}

			opts := imageaugment.Options{
				Seed: cfg.Seed,
				Save: imageio.SaveOptions{
					Format:   cfg.Output.Format,
					Quality:  cfg.Output.Quality,
					Lossless: cfg.Output.Lossless,
				},
			}
			if cfg.Size.Height > 0 {
				opts.Size = &[2]int{cfg.Size.Height, cfg.Size.Width}
			}
			if cfg.Sample.Mode != "" || cfg.Sample.Edge != "" {
				s := sampler.Options{
					Mode: sampler.Mode(cfg.Sample.Mode),
					Edge: sampler.Edge(cfg.Sample.Edge),
				}
				opts.Sample = &s
			}
			engine := imageaugment.NewWithOptions(opts, transforms...)

			logger.Info("augmenting",
				"inputs", len(inputs),
				"transforms", len(transforms),
				"variants", cfg.Output.Variants,
				"seed", cfg.Seed)

			for _, path := range inputs {
				start := time.Now()
				paths, err := engine.AugmentFile(path, cfg.Output.Dir, cfg.Output.Variants)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				logger.Info("done", "input", path, "variants", len(paths), "took", time.Since(start).Round(time.Millisecond))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "input image file or directory")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (default from config)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "policy config file (JSON)")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().IntVarP(&variants, "variants", "n", 4, "augmented variants per input")
	cmd.Flags().IntVar(&height, "height", 0, "target height (requires --width)")
	cmd.Flags().IntVar(&width, "width", 0, "target width (requires --height)")
	cmd.Flags().StringVar(&ext, "ext", "jpg", "output format: jpg|png|webp")
	cmd.Flags().IntVar(&quality, "quality", 90, "JPEG/WebP output quality (1-100)")
	cmd.Flags().BoolVar(&lossless, "lossless", false, "WebP lossless mode")
	cmd.Flags().StringVar(&mode, "mode", "", "resampling mode: bilinear|nearest")
	cmd.Flags().StringVar(&edge, "edge", "", "edge handling: reflect|border|zeros")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	_ = cmd.MarkFlagRequired("in")

	cmd.AddCommand(newInitConfigCmd())
	return cmd
}

// newInitConfigCmd writes the default policy config for editing.
func newInitConfigCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write the default policy config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = config.GetConfigPath()
			}
			if err := config.Default().SaveToFile(path); err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "where to write the config")
	return cmd
}

func gatherInputs(in string) ([]string, error) {
	if utils.DirExists(in) {
		return utils.ListImageFiles(in)
	}
	if utils.FileExists(in) && utils.IsImageFile(in) {
		return []string{in}, nil
	}
	return nil, fmt.Errorf("input %s is not an image file or directory", in)
}
