// Package importer loads scene graphs from files on disk.
package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/oslexport/internal/importer/gltfscene"
	"github.com/Faultbox/oslexport/internal/importer/yamlscene"
	"github.com/Faultbox/oslexport/internal/scenegraph"
)

// Supported scene formats.
const (
	FormatYAML = "yaml"
	FormatGLTF = "gltf"
)

// ErrUnknownFormat is returned when no importer handles a file.
var ErrUnknownFormat = errors.New("unknown scene format")

// Loader picks an importer by file extension.
type Loader struct {
	// Fallback is used for extensions no importer claims. Empty means
	// such files are rejected.
	Fallback string
	Log      *zap.Logger
}

// Load reads path with a default Loader.
func Load(path string) (*scenegraph.Graph, error) {
	return (&Loader{}).Load(path)
}

// Load reads and converts the scene at path.
func (l *Loader) Load(path string) (*scenegraph.Graph, error) {
	format, err := l.Detect(path)
	if err != nil {
		return nil, err
	}

	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Debug("loading scene", zap.String("path", path), zap.String("format", format))

	switch format {
	case FormatYAML:
		return yamlscene.ParseFile(path)
	case FormatGLTF:
		return gltfscene.New(log.Named("gltf")).ParseFile(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Detect returns the format of path.
func (l *Loader) Detect(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".gltf", ".glb":
		return FormatGLTF, nil
	}
	if l.Fallback != "" {
		return l.Fallback, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}
