package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dwg-dashboard/internal/adapters/driven/dxf"
	"github.com/custodia-labs/dwg-dashboard/internal/adapters/driven/oda"
	"github.com/custodia-labs/dwg-dashboard/internal/analysis"
	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

const (
	kindLayers       = "layers"
	kindMeasurements = "measurements"
	kindPreview      = "preview"
)

func newAnalyseCmd(kind, short string) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " <file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			level, _ := cmd.Flags().GetString("log-level")
			logger := newLogger(cmd, level)
			analysis.SetLogger(logger)

			drawing, err := loadDrawing(cmd.Context(), args[0], logger)
			if err != nil {
				return err
			}

			result, err := analyse(kind, drawing)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), format, result)
		},
	}
}

func analyse(kind string, d *domain.Drawing) (any, error) {
	switch kind {
	case kindLayers:
		return analysis.AggregateLayers(d)
	case kindMeasurements:
		return analysis.ExtractMeasurements(d)
	case kindPreview:
		return analysis.ExtractPreview(d)
	}
	return nil, fmt.Errorf("unknown analysis %q", kind)
}

// loadDrawing parses path, converting DWG files to DXF first
func loadDrawing(ctx context.Context, path string, logger *slog.Logger) (*domain.Drawing, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	fileType, ok := domain.FileTypeFromName(path)
	if !ok {
		return nil, domain.ErrUnsupportedFormat
	}

	dxfPath := path
	if fileType == domain.FileTypeDWG {
		converter, err := oda.NewConverter(oda.Config{Logger: logger})
		if err != nil {
			return nil, err
		}
		dxfPath, err = converter.Convert(ctx, path)
		if err != nil {
			return nil, err
		}
		defer os.RemoveAll(filepath.Dir(dxfPath))
	}

	f, err := os.Open(dxfPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return dxf.NewParser(logger).Parse(ctx, f)
}

func newLogger(cmd *cobra.Command, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
}
