package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/dep2p/go-connlog/internal/core/eventlog"
	"github.com/dep2p/go-connlog/pkg/types"
)

// scanFlags 归档过滤参数
type scanFlags struct {
	eventType string
	after     uint64
	limit     int
}

func (s *scanFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&s.eventType, "event-type", "", "only records of this type (start_client_session, client_session, error_code)")
	fs.Uint64Var(&s.after, "after", 0, "only records with a sequence number greater than this")
	fs.IntVar(&s.limit, "limit", 0, "maximum number of records (0 = all)")
}

func (s *scanFlags) options() (eventlog.ScanOptions, error) {
	et, err := parseEnum[types.EventType]("event type", s.eventType)
	if err != nil {
		return eventlog.ScanOptions{}, err
	}
	return eventlog.ScanOptions{EventType: et, AfterSeq: s.after, Limit: s.limit}, nil
}

// matches 对导出文件应用与归档相同的过滤
func (s *scanFlags) matches(opts eventlog.ScanOptions, e eventlog.Entry) bool {
	if opts.EventType != types.EventTypeUnknown && e.EventType != opts.EventType {
		return false
	}
	return e.Seq > opts.AfterSeq
}

// summarize 返回一条记录的单行摘要
func summarize(e eventlog.Entry) string {
	line := fmt.Sprintf("%6d  %-20s", e.Seq, e.EventType)
	r := e.Record
	switch {
	case r.ClientSession != nil:
		s := r.ClientSession
		var conns, payloads, upgrades int
		for _, ss := range s.StrategySessions {
			conns += len(ss.Connections)
			upgrades += len(ss.UpgradeAttempts)
			for _, lc := range ss.Connections {
				for _, pc := range lc.PhysicalConnections {
					payloads += len(pc.SentPayloads) + len(pc.ReceivedPayloads)
				}
			}
		}
		line += fmt.Sprintf("  session=%s duration=%s strategies=%d connections=%d payloads=%d upgrades=%d",
			s.SessionID, s.Duration, len(s.StrategySessions), conns, payloads, upgrades)
	case r.ErrorCode != nil:
		ec := r.ErrorCode
		line += fmt.Sprintf("  event=%s medium=%s code=%s", ec.Event, ec.Medium, ec.ResultCode)
		if ec.Description != "" {
			line += fmt.Sprintf(" description=%q", ec.Description)
		}
	}
	return line
}

// dumpEntries 把记录写到 w，asJSON 时每行一个 JSON 对象
func dumpEntries(w io.Writer, asJSON bool) (func(eventlog.Entry) bool, func() error) {
	var err error
	enc := json.NewEncoder(w)
	fn := func(e eventlog.Entry) bool {
		if asJSON {
			err = enc.Encode(e)
		} else {
			_, err = fmt.Fprintln(w, summarize(e))
		}
		return err == nil
	}
	return fn, func() error { return err }
}

// runDump 执行 dump 子命令
func runDump(args []string, stdout io.Writer) error {
	var (
		dataDir    string
		prefix     string
		fromExport string
		asJSON     bool
		sf         scanFlags
	)
	fs := pflag.NewFlagSet("connlog dump", pflag.ContinueOnError)
	fs.StringVar(&dataDir, "data-dir", "", "data directory (default ./data)")
	fs.StringVar(&prefix, "prefix", "", "archive key prefix (default connlog/)")
	fs.StringVar(&fromExport, "from-export", "", "read a raw export file instead of the archive")
	fs.BoolVar(&asJSON, "json", false, "print records as JSON lines")
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts, err := sf.options()
	if err != nil {
		return err
	}

	fn, writeErr := dumpEntries(stdout, asJSON)

	if fromExport != "" {
		f, err := os.Open(fromExport)
		if err != nil {
			return err
		}
		defer f.Close()

		n := 0
		err = readExport(f, func(e eventlog.Entry) bool {
			if !sf.matches(opts, e) {
				return true
			}
			n++
			return fn(e) && (opts.Limit <= 0 || n < opts.Limit)
		})
		return multierr.Combine(err, writeErr())
	}

	eng, archive, err := openArchive(dataDir, prefix)
	if err != nil {
		return err
	}
	defer eng.Close()

	last, err := archive.LastSeq()
	if err != nil {
		return err
	}
	if !asJSON {
		fmt.Fprintf(stdout, "# last seq %d\n", last)
	}
	return multierr.Combine(archive.Scan(opts, fn), writeErr())
}
