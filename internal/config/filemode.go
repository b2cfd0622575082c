package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FileMode is a permission mode written to YAML in octal (0644).
type FileMode os.FileMode

// Perm returns the mode as an os.FileMode.
func (m FileMode) Perm() os.FileMode {
	return os.FileMode(m).Perm()
}

// MarshalYAML writes the mode as an octal integer.
func (m FileMode) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!int",
		Value: fmt.Sprintf("%#o", uint32(m)),
	}, nil
}

// UnmarshalYAML accepts octal (0644, 0o644) and decimal (420) modes.
func (m *FileMode) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("file mode must be a scalar, line %d", node.Line)
	}
	v, err := strconv.ParseUint(node.Value, 0, 32)
	if err != nil {
		return fmt.Errorf("invalid file mode %q: %w", node.Value, err)
	}
	*m = FileMode(v)
	return nil
}
