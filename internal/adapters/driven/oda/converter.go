// Package oda converts DWG drawings to DXF with the ODA File Converter.
package oda

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
	"github.com/custodia-labs/dwg-dashboard/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.FormatConverter = (*Converter)(nil)

const (
	// EnvConverterPath overrides the converter binary location
	EnvConverterPath = "ODA_CONVERTER_PATH"

	// DefaultTimeout bounds a single conversion
	DefaultTimeout = 30 * time.Second

	binaryName    = "ODAFileConverter"
	outputVersion = "ACAD2018"
	outputFormat  = "DXF"
)

// defaultLocations are checked in order after the environment override
var defaultLocations = []string{
	"/tmp/oda/ODAFileConverter",
	"/opt/oda/ODAFileConverter",
	"./ODAFileConverter",
}

// Config holds converter settings
type Config struct {
	// BinaryPath is used as-is when set; otherwise the binary is located.
	BinaryPath string
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Converter runs the ODA File Converter as a child process
type Converter struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewConverter creates a Converter. It fails with
// domain.ErrConversionUnavailable when the binary cannot be found.
func NewConverter(cfg Config) (*Converter, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	binary := cfg.BinaryPath
	if binary == "" {
		var ok bool
		if binary, ok = Locate(); !ok {
			return nil, domain.ErrConversionUnavailable
		}
	} else if !executable(binary) {
		return nil, fmt.Errorf("%w: %s is not executable", domain.ErrConversionUnavailable, binary)
	}

	return &Converter{binary: binary, timeout: timeout, logger: logger}, nil
}

// Locate finds the converter binary: the environment override first, then
// the well-known install locations, then $PATH.
func Locate() (string, bool) {
	if p := os.Getenv(EnvConverterPath); p != "" && executable(p) {
		return p, true
	}
	for _, p := range defaultLocations {
		if executable(p) {
			return p, true
		}
	}
	if p, err := exec.LookPath(binaryName); err == nil {
		return p, true
	}
	return "", false
}

func executable(path string) bool {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return false
	}
	return fi.Mode().Perm()&0o111 != 0
}

// Binary returns the path of the converter in use
func (c *Converter) Binary() string {
	return c.binary
}

// Convert converts the DWG at dwgPath. The converter works on directories,
// so the input is copied into its own directory and the DXF is written to a
// second one which the caller must remove.
func (c *Converter) Convert(ctx context.Context, dwgPath string) (string, error) {
	inDir, err := os.MkdirTemp("", "oda-in-*")
	if err != nil {
		return "", fmt.Errorf("failed to create input dir: %w", err)
	}
	defer os.RemoveAll(inDir)

	base := strings.TrimSuffix(filepath.Base(dwgPath), filepath.Ext(dwgPath))
	if err := copyFile(filepath.Join(inDir, base+".dwg"), dwgPath); err != nil {
		return "", err
	}

	outDir, err := os.MkdirTemp("", "oda-out-*")
	if err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	dxfPath, err := c.run(ctx, inDir, outDir, base)
	if err != nil {
		os.RemoveAll(outDir)
		return "", err
	}
	return dxfPath, nil
}

func (c *Converter) run(ctx context.Context, inDir, outDir, base string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	cmd := exec.CommandContext(ctx, c.binary, inDir, outDir, outputVersion, outputFormat, "0", "1")

	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: timed out after %s", domain.ErrConversionFailed, c.timeout)
		}
		return "", fmt.Errorf("%w: %v: %s", domain.ErrConversionFailed, err, strings.TrimSpace(stderr.String()))
	}

	dxfPath, ok := findOutput(outDir, base)
	if !ok {
		return "", fmt.Errorf("%w: no DXF produced", domain.ErrConversionFailed)
	}

	c.logger.Debug("dwg converted",
		"output", dxfPath,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return dxfPath, nil
}

// findOutput returns the converted file, accepting any DXF in outDir when
// the converter changed the name's case
func findOutput(outDir, base string) (string, bool) {
	expected := filepath.Join(outDir, base+".dxf")
	if _, err := os.Stat(expected); err == nil {
		return expected, true
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".dxf") {
			return filepath.Join(outDir, e.Name()), true
		}
	}
	return "", false
}

func copyFile(dst, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open dwg: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to stage dwg: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to stage dwg: %w", err)
	}
	return out.Close()
}
