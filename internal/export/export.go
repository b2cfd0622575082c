// Package export runs the scene-to-.osl pipeline: import, translate, write.
package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/oslexport/internal/config"
	"github.com/Faultbox/oslexport/internal/importer"
	"github.com/Faultbox/oslexport/internal/scenegraph"
	"github.com/Faultbox/oslexport/internal/translate"
	"github.com/Faultbox/oslexport/pkg/osl"
)

// Result describes one finished export.
type Result struct {
	Input    string
	Output   string
	Bytes    int64
	Objects  map[scenegraph.Kind]int
	Scene    *osl.Scene
	Duration time.Duration
}

// Exporter converts scene files using one configuration.
type Exporter struct {
	cfg    *config.Config
	loader *importer.Loader
	log    *zap.Logger
}

// New creates an exporter. A nil logger discards output.
func New(cfg *config.Config, log *zap.Logger) *Exporter {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{
		cfg: cfg,
		loader: &importer.Loader{
			Fallback: cfg.Import.DefaultFormat,
			Log:      log.Named("import"),
		},
		log: log,
	}
}

// OutputPath derives the .osl path for input: the input file name with its
// extension replaced, placed next to the input or in OutputDir when set.
func OutputPath(input string, cfg config.ExportConfig) string {
	ext := cfg.Extension
	if ext == "" {
		ext = ".osl"
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ext

	dir := filepath.Dir(input)
	if cfg.OutputDir != "" {
		dir = cfg.OutputDir
	}
	return filepath.Join(dir, base)
}

// Build loads input and translates it without writing anything.
func (e *Exporter) Build(input string) (*osl.Scene, *scenegraph.Graph, error) {
	g, err := e.loader.Load(input)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", input, err)
	}
	sc, err := translate.Build(g, e.log.Named("translate"))
	if err != nil {
		return nil, g, err
	}
	return sc, g, nil
}

// Run exports input to output. An empty output uses OutputPath.
func (e *Exporter) Run(input, output string) (*Result, error) {
	start := time.Now()
	if output == "" {
		output = OutputPath(input, e.cfg.Export)
	}

	sc, g, err := e.Build(input)
	if err != nil {
		return nil, err
	}
	if !sc.HasCamera() {
		return nil, fmt.Errorf("exporting %s: %w", input, osl.ErrMissingCamera)
	}
	loaded := time.Since(start)

	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &osl.IOError{Op: "create output directory", Err: err}
		}
	}

	n, err := WriteFile(sc, output, e.cfg.Export.FileMode.Perm())
	if err != nil {
		return nil, fmt.Errorf("writing %s: %w", output, err)
	}

	res := &Result{
		Input:    input,
		Output:   output,
		Bytes:    n,
		Objects:  g.Counts(),
		Scene:    sc,
		Duration: time.Since(start),
	}
	e.log.Info("exported scene",
		zap.String("input", input),
		zap.String("output", output),
		zap.Int64("bytes", n),
		zap.Int("materials", sc.MaterialCount()),
		zap.Int("lights", sc.LightCount()),
		zap.Int("triangles", sc.TriangleCount()),
		zap.Duration("translate", loaded),
		zap.Duration("total", res.Duration),
	)
	return res, nil
}

// WriteFile writes sc to path atomically. The scene is encoded into a
// temporary file in the same directory which replaces path only after it
// was written and synced completely; on any failure path is left untouched.
func WriteFile(sc *osl.Scene, path string, mode os.FileMode) (int64, error) {
	if !sc.HasCamera() {
		return 0, osl.ErrMissingCamera
	}
	if mode == 0 {
		mode = 0644
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, &osl.IOError{Op: "create temporary file", Err: err}
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	n, err := sc.WriteTo(bw)
	if err != nil {
		return 0, err
	}
	if err := bw.Flush(); err != nil {
		return 0, &osl.IOError{Op: "flush", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return 0, &osl.IOError{Op: "sync", Err: err}
	}
	if err := tmp.Chmod(mode); err != nil {
		return 0, &osl.IOError{Op: "chmod", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return 0, &osl.IOError{Op: "close", Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return 0, &osl.IOError{Op: "rename", Err: err}
	}
	committed = true
	return n, nil
}
