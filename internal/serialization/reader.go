package serialization

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"

	"github.com/born-ml/gradflow/internal/tensor"
	"github.com/pkg/errors"
)

// Read decodes a checkpoint written by Write. The data checksum and every
// array's bounds are verified before any array is returned.
func Read(r io.Reader) (map[string]*tensor.Array, Header, error) {
	var header Header

	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, header, errors.Wrap(err, "read fixed header")
	}
	if string(fixed[:4]) != MagicBytes {
		return nil, header, errors.Wrapf(ErrInvalidMagic, "%q", fixed[:4])
	}
	if version := binary.LittleEndian.Uint32(fixed[4:8]); version != FormatVersion {
		return nil, header, errors.Wrapf(ErrUnsupportedVersion, "%d", version)
	}
	headerSize := binary.LittleEndian.Uint64(fixed[12:20])
	if headerSize > MaxHeaderSize {
		return nil, header, errors.Wrapf(ErrHeaderTooLarge, "%d bytes", headerSize)
	}
	var stored [ChecksumSize]byte
	copy(stored[:], fixed[20:])

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, header, errors.Wrap(err, "read header")
	}
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, header, errors.Wrap(err, "parse header")
	}

	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize
	pad := padding(int64(FixedHeaderSize) + int64(headerSize))
	if _, err := io.CopyN(io.Discard, r, pad); err != nil {
		return nil, header, errors.Wrap(err, "read padding")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, header, errors.Wrap(err, "read data")
	}
	if sha256.Sum256(data) != stored {
		return nil, header, ErrChecksumMismatch
	}

	stateDict := make(map[string]*tensor.Array, len(header.Arrays))
	for _, meta := range header.Arrays {
		arr, err := decodeArray(data, meta)
		if err != nil {
			return nil, header, err
		}
		stateDict[meta.Name] = arr
	}
	return stateDict, header, nil
}

// Load reads a checkpoint file written by Save.
func Load(path string) (map[string]*tensor.Array, Header, error) {
	//nolint:gosec // G304: checkpoint path is chosen by the user
	file, err := os.Open(path)
	if err != nil {
		return nil, Header{}, errors.Wrap(err, "open checkpoint")
	}
	defer func() { _ = file.Close() }()
	return Read(file)
}

func decodeArray(data []byte, meta ArrayMeta) (*tensor.Array, error) {
	shape := tensor.Shape{Rows: meta.Rows, Cols: meta.Cols}
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrapf(ErrInvalidArray, "array %q: %v", meta.Name, err)
	}
	if meta.Size < 0 || meta.Size%8 != 0 || meta.Size/8 != int64(shape.NumElements()) {
		return nil, errors.Wrapf(ErrInvalidArray, "array %q: %d bytes cannot hold %s", meta.Name, meta.Size, shape)
	}
	// Offset+Size can overflow for a forged header; compare against the remainder.
	if meta.Offset < 0 || meta.Offset > int64(len(data))-meta.Size {
		return nil, errors.Wrapf(ErrOutOfBounds, "array %q: %d bytes at offset %d of %d bytes",
			meta.Name, meta.Size, meta.Offset, len(data))
	}

	values := make([]float64, shape.NumElements())
	if err := binary.Read(bytes.NewReader(data[meta.Offset:meta.Offset+meta.Size]), binary.LittleEndian, values); err != nil {
		return nil, errors.Wrapf(err, "array %q", meta.Name)
	}
	return tensor.New(shape.Rows, shape.Cols, values)
}
