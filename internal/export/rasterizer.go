package export

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os/exec"
	"strings"

	"github.com/smallbiznis/invoicemaker/internal/config"
)

// CommandRasterizer pipes HTML through a wkhtmltoimage-compatible command
// configured as export.rasterizerCommand. The setting is read on every call.
type CommandRasterizer struct {
	settings *config.ExportConfigHolder
}

func NewCommandRasterizer(settings *config.ExportConfigHolder) *CommandRasterizer {
	return &CommandRasterizer{settings: settings}
}

func (r *CommandRasterizer) Rasterize(ctx context.Context, html string) (Image, error) {
	fields := strings.Fields(r.settings.Get().RasterizerCommand)
	if len(fields) == 0 {
		return Image{}, ErrNoRasterizer
	}

	args := append(fields[1:], "--format", "png", "--quiet", "-", "-")
	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Stdin = strings.NewReader(html)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Image{}, fmt.Errorf("%s: %w: %s", fields[0], err, strings.TrimSpace(stderr.String()))
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(stdout.Bytes()))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	return Image{PNG: stdout.Bytes(), Width: cfg.Width, Height: cfg.Height}, nil
}
