package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vbauerster/mpb"
	"github.com/vbauerster/mpb/decor"
	"github.com/willbeason/bondsmith"
	"golang.org/x/term"

	"github.com/willbeason/dou-features/pkg/config"
	"github.com/willbeason/dou-features/pkg/features"
	"github.com/willbeason/dou-features/pkg/stats"
	"github.com/willbeason/dou-features/pkg/survey"
)

const IncEvery = 1 << 10

const (
	FlagOut     = "out"
	FlagConfig  = "config"
	FlagVerbose = "verbose"

	defaultWidth = 80
)

func init() {
	cmd.Flags().String(FlagOut, "", "output file path (default: stdout)")
	cmd.Flags().String(FlagConfig, "", "config file providing encoding overrides")
	cmd.Flags().BoolP(FlagVerbose, "v", false, "log debug output")
}

func main() {
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cmd = cobra.Command{
	Use:     "survey-stats CSV_FILE",
	Short:   "Collect statistics about the columns of the survey CSV and how they encode",
	Args:    cobra.ExactArgs(1),
	Version: "0.1.0",
	RunE:    runE,
}

var ErrSurveyStats = errors.New("getting survey statistics")

func runE(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	inPath := args[0]

	configFile, err := cmd.Flags().GetString(FlagConfig)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSurveyStats, err)
	}
	v := viper.New()
	err = config.Load(v, configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSurveyStats, err)
	}
	config.ConfigureLogging(v)

	encoder, err := features.NewEncoder(v.GetStringMapStringSlice(config.Encodings))
	if err != nil {
		return fmt.Errorf("%w: building encodings: %w", ErrSurveyStats, err)
	}

	file, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("%w: opening %q: %w", ErrSurveyStats, inPath, err)
	}
	defer func() {
		_ = file.Close()
	}()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("%w: getting stat for %q: %w", ErrSurveyStats, inPath, err)
	}

	// Not a terminal when output is piped; fall back to a fixed width.
	width, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil {
		width = defaultWidth
	}
	p := mpb.New(mpb.WithWidth(width), mpb.WithOutput(os.Stderr))

	bar := p.AddBar(stat.Size(),
		mpb.AppendDecorators(decor.AverageETA(decor.ET_STYLE_GO)),
		mpb.PrependDecorators(decor.Name(filepath.Base(inPath))),
		mpb.BarRemoveOnComplete(),
	)

	countReader := bondsmith.NewCountReader(file)
	reader, err := survey.NewReader(countReader)
	if err != nil {
		return fmt.Errorf("%w: reading %q: %w", ErrSurveyStats, inPath, err)
	}

	lastSeen := 0
	start := time.Now()
	profile, err := stats.Collect(ctx, reader, encoder, func(rows int) {
		if rows%IncEvery == 0 {
			curProgress := int(countReader.Count())
			bar.IncrBy(curProgress-lastSeen, time.Since(start))
			lastSeen = curProgress
		}
	})
	if err != nil {
		return fmt.Errorf("%w: reading %q: %w", ErrSurveyStats, inPath, err)
	}
	bar.IncrBy(int(countReader.Count())-lastSeen, time.Since(start))

	outPath, err := cmd.Flags().GetString(FlagOut)
	if err != nil {
		return err
	}

	outFile := os.Stdout
	if outPath != "" {
		outFile, err = os.Create(outPath)
		if err != nil {
			return fmt.Errorf("%w: creating %q: %w", ErrSurveyStats, outPath, err)
		}
		defer func() {
			_ = outFile.Close()
		}()
	}

	_, err = profile.WriteTo(outFile)
	if err != nil {
		return fmt.Errorf("%w: writing statistics: %w", ErrSurveyStats, err)
	}
	return nil
}
