// Package mmdbfile is the File Assembler: it concatenates the search
// tree, the 16-byte data-section marker, the data section, the metadata
// separator, and the metadata map, and writes the result to disk
// atomically.
package mmdbfile

import (
	"os"
	"path/filepath"

	ipErrors "github.com/sjzar/ip2mmdb/pkg/errors"
)

// dataSectionMarker is the 16 zero bytes separating the search tree from
// the data section.
var dataSectionMarker = make([]byte, 16)

// metadataSeparator is the literal byte sequence preceding the metadata
// map: 0xAB 0xCD 0xEF followed by the ASCII bytes "MaxMind.com".
var metadataSeparator = append([]byte{0xAB, 0xCD, 0xEF}, []byte("MaxMind.com")...)

// Assemble concatenates the five regions of the file layout in order:
// search tree || marker || data section || metadata separator || metadata.
func Assemble(treeBytes, dataSection []byte, meta Metadata) ([]byte, error) {
	out := make([]byte, 0, len(treeBytes)+len(dataSectionMarker)+len(dataSection)+len(metadataSeparator)+64)
	out = append(out, treeBytes...)
	out = append(out, dataSectionMarker...)
	out = append(out, dataSection...)
	out = append(out, metadataSeparator...)

	out, err := appendMetadata(out, meta)
	if err != nil {
		return nil, ipErrors.Stage("file-assembly", err)
	}
	return out, nil
}

// WriteAtomic writes content to path by first writing it to a temporary
// file in the same directory, then renaming it into place. This ensures
// that an interrupted or failed build never leaves a partial MMDB file at
// path: the file only ever appears fully formed.
func WriteAtomic(path string, content []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".mmdb-build-*")
	if err != nil {
		return ipErrors.Stage("file-assembly", ipErrors.ErrOutputWrite)
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, werr := tmp.Write(content); werr != nil {
		_ = tmp.Close()
		return ipErrors.Stage("file-assembly", ipErrors.ErrOutputWrite)
	}
	if serr := tmp.Sync(); serr != nil {
		_ = tmp.Close()
		return ipErrors.Stage("file-assembly", ipErrors.ErrOutputWrite)
	}
	if cerr := tmp.Close(); cerr != nil {
		return ipErrors.Stage("file-assembly", ipErrors.ErrOutputWrite)
	}

	if rerr := os.Rename(tmpPath, path); rerr != nil {
		return ipErrors.Stage("file-assembly", ipErrors.ErrOutputWrite)
	}

	return nil
}

// OutputPath derives the MMDB output path for an input CSV path: the
// input path with ".MMDB" appended.
func OutputPath(inputPath string) string {
	return inputPath + ".MMDB"
}
