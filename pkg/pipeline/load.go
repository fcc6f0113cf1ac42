package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/matzehuels/pinboard/pkg/board"
	"github.com/matzehuels/pinboard/pkg/observability"
)

// LoadBoard returns the board named by opts: the inline board when set,
// otherwise the board file at opts.BoardPath.
func LoadBoard(ctx context.Context, opts Options) (*board.Board, error) {
	source := opts.BoardPath
	if opts.Board != nil {
		source = "inline"
	}
	observability.Pipeline().OnLoadStart(ctx, source)
	start := time.Now()

	b, err := loadBoard(opts)
	if err == nil && opts.Prober != nil {
		err = probeBoard(ctx, opts, b)
	}

	pins := 0
	if b != nil {
		pins = b.Len()
	}
	observability.Pipeline().OnLoadComplete(ctx, source, pins, time.Since(start), err)
	return b, err
}

func loadBoard(opts Options) (*board.Board, error) {
	if opts.Board == nil {
		return board.ReadFile(opts.BoardPath)
	}
	b := opts.Board
	b.Normalize()
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// probeBoard sizes images the board left blank. Local image paths resolve
// against the board file's directory.
func probeBoard(ctx context.Context, opts Options, b *board.Board) error {
	baseDir := ""
	if opts.Board == nil {
		baseDir = filepath.Dir(opts.BoardPath)
	}
	n, err := opts.Prober.Probe(ctx, b, baseDir)
	if n > 0 && opts.Logger != nil {
		opts.Logger.Debug("probed image sizes", "pins", n)
	}
	return err
}
