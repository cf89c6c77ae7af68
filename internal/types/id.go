// README: Shared identifier type and generator used across modules.
package types

import (
	"strings"

	"github.com/google/uuid"
)

type ID string

// NewID returns a prefixed, dash-free UUID (e.g. "itin_3f2a...").
func NewID(prefix string) ID {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	if prefix == "" {
		return ID(raw)
	}
	return ID(prefix + "_" + raw)
}

func (id ID) String() string { return string(id) }
