// Package serialization saves and loads named arrays in the .gflow
// checkpoint format.
//
//	Format Structure:
//	  [4 bytes: Magic "GFLW"]
//	  [4 bytes: Version (uint32 LE)]
//	  [4 bytes: Flags (uint32 LE)]
//	  [8 bytes: Header Size (uint64 LE)]
//	  [32 bytes: SHA-256 of the data section]
//	  [Header: JSON metadata]
//	  [Padding to a 64-byte boundary]
//	  [Array data: float64 LE, row-major, in header order]
//
// Example usage:
//
//	state := nn.StateDict(g, model.Parameters())
//	if err := serialization.Save("model.gflow", state, serialization.Header{ModelType: "mlp"}); err != nil {
//	    return err
//	}
//
//	state, header, err := serialization.Load("model.gflow")
package serialization
