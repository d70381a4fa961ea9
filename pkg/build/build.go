// Package build orchestrates the five-stage conversion pipeline behind a
// single entry point: range expansion, prefix tree construction, data
// section encoding, search tree emission, and file assembly. It is
// single-threaded and pipelined, each stage consuming the previous
// stage's output in full before the next begins, and carries no state
// across separate Run calls.
package build

import (
	"bytes"
	"fmt"
	"io"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	ipErrors "github.com/sjzar/ip2mmdb/pkg/errors"
	"github.com/sjzar/ip2mmdb/pkg/ipsource"
	"github.com/sjzar/ip2mmdb/pkg/mmdbdata"
	"github.com/sjzar/ip2mmdb/pkg/mmdbfile"
	"github.com/sjzar/ip2mmdb/pkg/mmdbtree"
	"github.com/sjzar/ip2mmdb/pkg/radixtree"
)

// Options configures one build.
type Options struct {
	InputPath string
	// OutputPath overrides the default "<input>.MMDB" path.
	OutputPath string
	// NoProgress disables the CSV-scan progress bar.
	NoProgress bool
	// Verify round-trips the written file through an independent MMDB
	// reader before returning.
	Verify bool
	// BuildEpoch fixes the metadata "build_epoch" value, for
	// reproducible builds in tests. Zero means "use time.Now()".
	BuildEpoch int64
}

// Result summarizes a completed build.
type Result struct {
	InputPath  string
	OutputPath string
	Mode       ipsource.Mode
	RowCount   int
	CIDRCount  int
	NodeCount  int
	RecordSize int
	DataBytes  int
	TotalBytes int
	Elapsed    time.Duration
}

// Run executes the full build pipeline against opts.InputPath and writes
// the resulting MMDB file.
func Run(opts Options, log *logrus.Logger) (*Result, error) {
	start := time.Now()

	if log == nil {
		log = logrus.New()
	}

	if !strings.EqualFold(filepath.Ext(opts.InputPath), ".csv") {
		return nil, ipErrors.Stage("input", ipErrors.ErrInputNotCSV)
	}

	f, err := os.Open(opts.InputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ipErrors.Stage("input", ipErrors.ErrInputNotFound)
		}
		return nil, ipErrors.Stage("input", err)
	}
	defer f.Close()

	var src io.Reader = f
	var bar *progressbar.ProgressBar
	if !opts.NoProgress {
		if fi, statErr := f.Stat(); statErr == nil && fi.Size() > 0 {
			bar = progressbar.DefaultBytes(fi.Size(), "scanning csv")
			src = io.TeeReader(f, bar)
		}
	}

	reader := ipsource.NewReader(src)

	var (
		mode      ipsource.Mode
		rt        *radixtree.Tree
		dataBld   *mmdbdata.Builder
		rowCount  int
		cidrCount int
		firstCIDR *ipsource.CIDR
		firstKey  string
	)

	for {
		entry, rerr := reader.Next()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, ipErrors.Stage("range-expand", rerr)
		}

		if rt == nil {
			mode = entry.Mode
			rt = radixtree.New()
			if mode == ipsource.ModeCity {
				dataBld = mmdbdata.NewBuilder(mmdbdata.ModeCity)
			} else {
				dataBld = mmdbdata.NewBuilder(mmdbdata.ModeCountry)
			}
			log.WithField("mode", mode.String()).Info("detected schema from first row")
		}

		row := entry.Row
		payloadKey := row.PayloadKey(mode)
		if mode == ipsource.ModeCity {
			dataBld.AddCity(payloadKey, row.CountryISO, row.CountryName, row.Region, row.City, row.Latitude, row.Longitude, row.Postcode)
		} else {
			dataBld.AddCountry(payloadKey, row.CountryISO, row.CountryName)
		}

		for i := range entry.CIDRs {
			rt.Insert(entry.CIDRs[i].Bits(), payloadKey)
		}
		if firstCIDR == nil && len(entry.CIDRs) > 0 {
			c := entry.CIDRs[0]
			firstCIDR = &c
			firstKey = payloadKey
		}

		rowCount++
		cidrCount += len(entry.CIDRs)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if rt == nil {
		return nil, ipErrors.Stage("range-expand", ipErrors.ErrMalformedRow)
	}

	log.WithFields(logrus.Fields{"rows": rowCount, "cidrs": cidrCount}).Info("constructing data section")
	dataResult, err := dataBld.Encode()
	if err != nil {
		return nil, err
	}

	recordSize := mode.RecordSize()
	log.WithField("record_size", recordSize).Info("emitting search tree")
	tree, err := mmdbtree.Emit(rt, recordSize, dataResult.PayloadOffsets, len(dataResult.Data))
	if err != nil {
		return nil, ipErrors.Stage("search-tree", err)
	}
	treeBytes, err := tree.Bytes()
	if err != nil {
		return nil, ipErrors.Stage("search-tree", err)
	}

	buildEpoch := opts.BuildEpoch
	if buildEpoch == 0 {
		buildEpoch = time.Now().Unix()
	}
	meta := mmdbfile.Metadata{
		DatabaseType: mode.DatabaseType(),
		Description:  fmt.Sprintf("%s database", mode.DatabaseType()),
		BuildEpoch:   buildEpoch,
		NodeCount:    tree.NodeCount,
		RecordSize:   recordSize,
	}

	content, err := mmdbfile.Assemble(treeBytes, dataResult.Data, meta)
	if err != nil {
		return nil, err
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = mmdbfile.OutputPath(opts.InputPath)
	}

	log.WithField("output", outputPath).Info("writing output file")
	if err := mmdbfile.WriteAtomic(outputPath, content); err != nil {
		return nil, err
	}

	result := &Result{
		InputPath:  opts.InputPath,
		OutputPath: outputPath,
		Mode:       mode,
		RowCount:   rowCount,
		CIDRCount:  cidrCount,
		NodeCount:  tree.NodeCount,
		RecordSize: recordSize,
		DataBytes:  len(dataResult.Data),
		TotalBytes: len(content),
		Elapsed:    time.Since(start),
	}

	if opts.Verify && firstCIDR != nil {
		ip := netip.AddrFrom4([4]byte{
			byte(firstCIDR.Network >> 24), byte(firstCIDR.Network >> 16),
			byte(firstCIDR.Network >> 8), byte(firstCIDR.Network),
		})
		var got map[string]any
		if verr := mmdbfile.VerifyRoundTrip(outputPath, ip, &got); verr != nil {
			return result, ipErrors.Stage("verify", verr)
		}
		log.WithField("payload_key", firstKey).Info("verified round trip against independent reader")
	}

	return result, nil
}

// Summary renders a human-readable table of the build's key figures.
func (r *Result) Summary() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"field", "value"})
	table.Append([]string{"input", r.InputPath})
	table.Append([]string{"output", r.OutputPath})
	table.Append([]string{"mode", r.Mode.String()})
	table.Append([]string{"rows", fmt.Sprintf("%d", r.RowCount)})
	table.Append([]string{"cidrs", fmt.Sprintf("%d", r.CIDRCount)})
	table.Append([]string{"nodes", fmt.Sprintf("%d", r.NodeCount)})
	table.Append([]string{"record_size", fmt.Sprintf("%d", r.RecordSize)})
	table.Append([]string{"data bytes", fmt.Sprintf("%d", r.DataBytes)})
	table.Append([]string{"total bytes", fmt.Sprintf("%d", r.TotalBytes)})
	table.Append([]string{"elapsed", r.Elapsed.String()})
	table.Render()
	return buf.String()
}
