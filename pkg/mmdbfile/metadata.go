package mmdbfile

import (
	"github.com/sjzar/ip2mmdb/pkg/mmdbdata"
)

// Metadata holds the values written into the trailing metadata map.
type Metadata struct {
	DatabaseType string
	Description  string // English-language description text
	BuildEpoch   int64
	NodeCount    int
	RecordSize   int
}

// metadataKeyCount is the number of top-level keys written.
const metadataKeyCount = 9

// appendMetadata serializes m as an MMDB map record, written directly
// (not via a pointer) immediately after the metadata start marker.
func appendMetadata(buf []byte, m Metadata) ([]byte, error) {
	var err error
	if buf, err = mmdbdata.AppendMapHeader(buf, metadataKeyCount); err != nil {
		return nil, err
	}

	write := func(key string, encode func([]byte) ([]byte, error)) {
		if err != nil {
			return
		}
		buf, err = mmdbdata.AppendString(buf, key)
		if err != nil {
			return
		}
		buf, err = encode(buf)
	}

	write("binary_format_major_version", func(b []byte) ([]byte, error) {
		return mmdbdata.AppendUint(b, 2), nil
	})
	write("binary_format_minor_version", func(b []byte) ([]byte, error) {
		return mmdbdata.AppendUint(b, 0), nil
	})
	write("build_epoch", func(b []byte) ([]byte, error) {
		return mmdbdata.AppendUint(b, uint64(m.BuildEpoch)), nil
	})
	write("database_type", func(b []byte) ([]byte, error) {
		return mmdbdata.AppendString(b, m.DatabaseType)
	})
	write("description", func(b []byte) ([]byte, error) {
		b, err := mmdbdata.AppendMapHeader(b, 1)
		if err != nil {
			return nil, err
		}
		b, err = mmdbdata.AppendString(b, "en")
		if err != nil {
			return nil, err
		}
		return mmdbdata.AppendString(b, m.Description)
	})
	write("ip_version", func(b []byte) ([]byte, error) {
		return mmdbdata.AppendUint(b, 4), nil
	})
	write("languages", func(b []byte) ([]byte, error) {
		b, err := mmdbdata.AppendArrayHeader(b, 1)
		if err != nil {
			return nil, err
		}
		return mmdbdata.AppendString(b, "en")
	})
	write("node_count", func(b []byte) ([]byte, error) {
		return mmdbdata.AppendUint(b, uint64(m.NodeCount)), nil
	})
	write("record_size", func(b []byte) ([]byte, error) {
		return mmdbdata.AppendUint(b, uint64(m.RecordSize)), nil
	})

	if err != nil {
		return nil, err
	}
	return buf, nil
}
