package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/pflag"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dep2p/go-connlog/internal/core/eventlog"
)

// exportMagic 原始格式导出文件头
var exportMagic = []byte("CLX1")

// errBadExport 导出文件格式错误
var errBadExport = errors.New("malformed export")

const (
	formatRaw   = "raw"
	formatJSONL = "jsonl"
)

// exportArchive 把归档记录写成 zstd 压缩流
//
// raw 格式：文件头之后每条记录为 varint 序号 + 长度前缀的编码字节。
// jsonl 格式：每行一个 JSON 对象。
func exportArchive(w io.Writer, archive *eventlog.StoreLogger, opts eventlog.ScanOptions,
	format string, level zstd.EncoderLevel) (int, error) {
	if format != formatRaw && format != formatJSONL {
		return 0, fmt.Errorf("unknown format %q", format)
	}

	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(level))
	if err != nil {
		return 0, err
	}

	var (
		n      int
		buf    []byte
		encErr error
	)
	if format == formatRaw {
		_, encErr = zw.Write(exportMagic)
	}
	enc := json.NewEncoder(zw)

	if encErr == nil {
		encErr = archive.Scan(opts, func(e eventlog.Entry) bool {
			if format == formatJSONL {
				if err := enc.Encode(e); err != nil {
					encErr = err
					return false
				}
				n++
				return true
			}

			raw, err := archive.Raw(e.Seq)
			if err != nil {
				encErr = fmt.Errorf("record %d: %w", e.Seq, err)
				return false
			}
			buf = protowire.AppendVarint(buf[:0], e.Seq)
			buf = protowire.AppendBytes(buf, raw)
			if _, err := zw.Write(buf); err != nil {
				encErr = err
				return false
			}
			n++
			return true
		})
	}

	if err := zw.Close(); err != nil && encErr == nil {
		encErr = err
	}
	return n, encErr
}

// readExport 读取 raw 格式导出文件
func readExport(r io.Reader, fn func(eventlog.Entry) bool) error {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return err
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(data, exportMagic) {
		return fmt.Errorf("%w: missing header", errBadExport)
	}
	data = data[len(exportMagic):]

	for len(data) > 0 {
		seq, n := protowire.ConsumeVarint(data)
		if n < 0 {
			return fmt.Errorf("%w: %v", errBadExport, protowire.ParseError(n))
		}
		data = data[n:]
		raw, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return fmt.Errorf("%w: record %d: %v", errBadExport, seq, protowire.ParseError(n))
		}
		data = data[n:]

		record, err := eventlog.Unmarshal(raw)
		if err != nil {
			return fmt.Errorf("record %d: %w", seq, err)
		}
		if !fn(eventlog.Entry{Seq: seq, EventType: record.EventType, Record: record}) {
			return nil
		}
	}
	return nil
}

// runExport 执行 export 子命令
func runExport(args []string, stdout io.Writer) error {
	var (
		dataDir string
		prefix  string
		out     string
		format  string
		level   int
		sf      scanFlags
	)
	fs := pflag.NewFlagSet("connlog export", pflag.ContinueOnError)
	fs.StringVar(&dataDir, "data-dir", "", "data directory (default ./data)")
	fs.StringVar(&prefix, "prefix", "", "archive key prefix (default connlog/)")
	fs.StringVarP(&out, "out", "o", "", "output file (required)")
	fs.StringVar(&format, "format", formatRaw, "export format: raw or jsonl")
	fs.IntVar(&level, "level", int(zstd.SpeedDefault), "zstd level 1 (fastest) to 4 (best)")
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if out == "" {
		return errors.New("--out is required")
	}
	opts, err := sf.options()
	if err != nil {
		return err
	}

	eng, archive, err := openArchive(dataDir, prefix)
	if err != nil {
		return err
	}
	defer eng.Close()

	f, err := os.Create(out) //nolint:gosec // G304: 用户指定的输出路径
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)

	n, err := exportArchive(bw, archive, opts, format, zstd.EncoderLevel(level))
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "exported %d records to %s\n", n, out)
	return nil
}
