package serialization

import "time"

// Format constants.
const (
	MagicBytes      = "GFLW"
	FormatVersion   = 1
	HeaderAlignment = 64                 // Data section starts on a 64-byte boundary
	ChecksumSize    = 32                 // SHA-256
	FixedHeaderSize = 4 + 4 + 4 + 8 + 32 // magic, version, flags, header size, checksum
	MaxHeaderSize   = 64 << 20
)

// Flags for the .gflow format.
const (
	FlagHasOptimizer uint32 = 1 << 0 // optimizer state included
	FlagHasMetadata  uint32 = 1 << 1 // custom metadata included
)

// Header represents the JSON header in a .gflow file.
type Header struct {
	FormatVersion   int               `json:"format_version"`
	GradflowVersion string            `json:"gradflow_version"`
	ModelType       string            `json:"model_type"`
	CreatedAt       time.Time         `json:"created_at"`
	Arrays          []ArrayMeta       `json:"arrays"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	CheckpointMeta  *CheckpointMeta   `json:"checkpoint,omitempty"`
}

// CheckpointMeta contains training state information for checkpoints.
type CheckpointMeta struct {
	Epoch         int     `json:"epoch"`
	Loss          float64 `json:"loss"`
	OptimizerType string  `json:"optimizer_type"`
}

// ArrayMeta describes one array in the data section.
type ArrayMeta struct {
	Name   string `json:"name"`
	Rows   int    `json:"rows"`
	Cols   int    `json:"cols"`
	Offset int64  `json:"offset"` // bytes from the start of the data section
	Size   int64  `json:"size"`   // bytes
}

// padding returns the number of zero bytes that align pos to HeaderAlignment.
func padding(pos int64) int64 {
	return (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment
}
