package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bwalsh/md2rtf/internal/convert"
	"github.com/bwalsh/md2rtf/internal/pipeline"
	"github.com/bwalsh/md2rtf/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <note.md> [note.md...]",
	Short: "Convert Markdown notes to RTF and open the result",
	Long: `Convert runs the full pipeline on each note: vault discovery, image
embed rewriting, pandoc conversion, and RTF resizing. A single note is
opened in the viewer afterwards; batch runs skip the viewer.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Int("max-image-width", types.DefaultMaxImageWidth, "maximum image width in twips")
	convertCmd.Flags().Int("max-table-width", types.DefaultMaxTableWidth, "maximum table width in twips")
	convertCmd.Flags().String("pandoc", "", "path to the pandoc binary (skips bundled/PATH lookup)")
	convertCmd.Flags().String("viewer", "", "application used to open the result (default: OS handler)")
	convertCmd.Flags().Bool("no-open", false, "do not open the result in a viewer")
	convertCmd.Flags().Duration("timeout", 0, "abort the converter after this duration (0 = no limit)")
	convertCmd.Flags().String("log-file", types.DefaultConvertConfig().LogFile, "debug log file (empty = console only)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := buildConfig(cmd)
	if len(args) > 1 {
		// One viewer window per note would bury the desktop.
		cfg.NoOpen = true
	}

	log := newLogger(cfg.LogFile)

	conv, err := convert.NewPandocConverter(cfg.PandocPath)
	if err != nil {
		return err
	}
	log.WithField("pandoc", conv.Bin()).Debug("converter resolved")

	sess := pipeline.New(cfg, conv, log, os.Stdout)

	if len(args) == 1 {
		res, err := sess.Run(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
		fmt.Printf("Output file: %s\n", res.OutputPath)
		return nil
	}

	result := sess.RunBatch(cmd.Context(), args)
	if result.HasFailures() {
		return fmt.Errorf("%d of %d conversions failed", result.Failed, result.Total())
	}
	return nil
}

// buildConfig layers flag values over config-file and environment
// settings over defaults. Flags win when set explicitly.
func buildConfig(cmd *cobra.Command) types.ConvertConfig {
	cfg := types.DefaultConvertConfig()

	if viper.IsSet("layout.max_image_width") {
		cfg.Layout.MaxImageWidth = viper.GetInt("layout.max_image_width")
	}
	if viper.IsSet("layout.max_table_width") {
		cfg.Layout.MaxTableWidth = viper.GetInt("layout.max_table_width")
	}
	if viper.IsSet("pandoc_path") {
		cfg.PandocPath = viper.GetString("pandoc_path")
	}
	if viper.IsSet("viewer") {
		cfg.Viewer = viper.GetString("viewer")
	}
	if viper.IsSet("no_open") {
		cfg.NoOpen = viper.GetBool("no_open")
	}
	if viper.IsSet("timeout") {
		cfg.Timeout = viper.GetDuration("timeout")
	}
	if viper.IsSet("log_file") {
		cfg.LogFile = viper.GetString("log_file")
	}

	flags := cmd.Flags()
	if flags.Changed("max-image-width") {
		cfg.Layout.MaxImageWidth, _ = flags.GetInt("max-image-width")
	}
	if flags.Changed("max-table-width") {
		cfg.Layout.MaxTableWidth, _ = flags.GetInt("max-table-width")
	}
	if flags.Changed("pandoc") {
		cfg.PandocPath, _ = flags.GetString("pandoc")
	}
	if flags.Changed("viewer") {
		cfg.Viewer, _ = flags.GetString("viewer")
	}
	if flags.Changed("no-open") {
		cfg.NoOpen, _ = flags.GetBool("no-open")
	}
	if flags.Changed("timeout") {
		var d time.Duration
		d, _ = flags.GetDuration("timeout")
		cfg.Timeout = d
	}
	if flags.Changed("log-file") {
		cfg.LogFile, _ = flags.GetString("log-file")
	}

	return cfg
}

// newLogger builds the run logger: warnings and up on the console, the
// full debug trail in the log file when one is configured.
func newLogger(logFile string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)

	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.WithError(err).Warn("log file not writable, console only")
		} else {
			log.SetOutput(io.MultiWriter(os.Stderr, f))
			log.SetLevel(logrus.DebugLevel)
		}
	}

	return log
}
