package serialization

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"io"
	"maps"
	"math"
	"os"
	"slices"
	"time"

	"github.com/born-ml/gradflow/internal/tensor"
	"github.com/pkg/errors"
)

const gradflowVersion = "0.1.0"

// Write encodes stateDict into w. Arrays are stored in name order, so equal
// inputs produce equal bytes apart from header.CreatedAt.
//
// FormatVersion, GradflowVersion, Arrays and an empty CreatedAt are filled in
// by Write.
func Write(w io.Writer, stateDict map[string]*tensor.Array, header Header) error {
	names := slices.Sorted(maps.Keys(stateDict))

	var data bytes.Buffer
	header.Arrays = make([]ArrayMeta, 0, len(names))
	for _, name := range names {
		arr := stateDict[name]
		if arr == nil {
			return errors.Wrapf(ErrInvalidArray, "array %q is nil", name)
		}
		offset := int64(data.Len())
		for _, v := range arr.Data() {
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			data.Write(buf[:])
		}
		header.Arrays = append(header.Arrays, ArrayMeta{
			Name:   name,
			Rows:   arr.Rows(),
			Cols:   arr.Cols(),
			Offset: offset,
			Size:   int64(data.Len()) - offset,
		})
	}

	header.FormatVersion = FormatVersion
	header.GradflowVersion = gradflowVersion
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "marshal header")
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.CheckpointMeta != nil && header.CheckpointMeta.OptimizerType != "" {
		flags |= FlagHasOptimizer
	}

	var fixed bytes.Buffer
	fixed.WriteString(MagicBytes)
	_ = binary.Write(&fixed, binary.LittleEndian, uint32(FormatVersion))
	_ = binary.Write(&fixed, binary.LittleEndian, flags)
	_ = binary.Write(&fixed, binary.LittleEndian, uint64(len(headerJSON)))
	checksum := sha256.Sum256(data.Bytes())
	fixed.Write(checksum[:])

	pad := padding(int64(FixedHeaderSize + len(headerJSON)))
	for _, chunk := range [][]byte{fixed.Bytes(), headerJSON, make([]byte, pad), data.Bytes()} {
		if _, err := w.Write(chunk); err != nil {
			return errors.Wrap(err, "write checkpoint")
		}
	}
	return nil
}

// Save writes stateDict to a new file at path.
func Save(path string, stateDict map[string]*tensor.Array, header Header) (err error) {
	//nolint:gosec // G304: checkpoint path is chosen by the user
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create checkpoint")
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close checkpoint")
		}
	}()
	return Write(file, stateDict, header)
}
