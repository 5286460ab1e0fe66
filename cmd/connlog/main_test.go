package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-connlog"
	"github.com/dep2p/go-connlog/internal/core/eventlog"
	"github.com/dep2p/go-connlog/pkg/types"
	"github.com/dep2p/go-connlog/tests/mocks"
)

const sampleScript = `
# 单载荷会话
{"op":"start_session"}
{"op":"start_advertising","strategy":"p2p_star","mediums":["ble"]}
{"op":"connection_established","endpoint":"e1","medium":"ble","token":"tok1"}
{"op":"outgoing_payload_started","endpoint":"e1","payload_id":1,"payload_type":"file","size":1000}
{"op":"wait","duration":"2s"}
{"op":"chunk_sent","endpoint":"e1","payload_id":1,"size":400}
{"op":"chunk_sent","endpoint":"e1","payload_id":1,"size":600}
{"op":"outgoing_payload_done","endpoint":"e1","payload_id":1,"status":"success","code":1}
{"op":"connection_closed","endpoint":"e1","medium":"ble","reason":"local_disconnection","result":"success"}
{"op":"error_code","event":"connect","medium":"wifi_lan","code":4001,"description":"refused"}
`

func writeScript(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(sampleScript), 0o600))
	return path
}

// TestParseEnum 测试按名称与数值解析枚举
func TestParseEnum(t *testing.T) {
	m, err := parseEnum[types.Medium]("medium", "BLE")
	require.NoError(t, err)
	assert.Equal(t, types.MediumBLE, m)

	s, err := parseEnum[types.Strategy]("strategy", "p2p_cluster")
	require.NoError(t, err)
	assert.Equal(t, types.StrategyP2PCluster, s)

	st, err := parseEnum[types.PayloadStatus]("payload status", "1")
	require.NoError(t, err)
	assert.Equal(t, types.PayloadStatusSuccess, st)

	zero, err := parseEnum[types.Medium]("medium", "")
	require.NoError(t, err)
	assert.Equal(t, types.MediumUnknown, zero)

	_, err = parseEnum[types.Medium]("medium", "carrier_pigeon")
	assert.ErrorContains(t, err, "unknown medium")

	_, err = parseMediums([]string{"ble", "nope"})
	assert.Error(t, err)
}

// TestReadScript 测试脚本解析
func TestReadScript(t *testing.T) {
	events, err := readScript(strings.NewReader(sampleScript))
	require.NoError(t, err)
	require.Len(t, events, 10)
	assert.Equal(t, "start_session", events[0].Op)
	assert.Equal(t, 2*time.Second, events[4].Duration.Duration())

	_, err = readScript(strings.NewReader(`{"op":"wait","bogus":1}`))
	assert.ErrorContains(t, err, "line 1")

	_, err = readScript(strings.NewReader("\n{\"endpoint\":\"e1\"}"))
	assert.ErrorContains(t, err, "line 2: missing op")
}

// TestPlayer_Apply 测试脚本驱动记录器
func TestPlayer_Apply(t *testing.T) {
	sink := mocks.NewMockEventLogger()
	clk := clock.NewMock()
	rec := connlog.NewRecorder(sink, connlog.WithRecorderClock(clk))
	defer rec.Close()

	events, err := readScript(strings.NewReader(sampleScript))
	require.NoError(t, err)

	p := &player{rec: rec, clk: clk}
	for _, ev := range events {
		require.NoError(t, p.apply(ev), ev.Op)
	}
	require.Error(t, p.apply(scriptEvent{Op: "teleport"}))

	rec.LogSession()
	rec.Sync()

	sessions := sink.Sessions()
	require.Len(t, sessions, 1)
	conns := sessions[0].StrategySessions[0].Connections
	require.Len(t, conns, 1)
	payload := conns[0].PhysicalConnections[0].SentPayloads[0]
	assert.Equal(t, int64(1000), payload.BytesTransferred)
	assert.Equal(t, 2, payload.ChunkCount)
	assert.Equal(t, 2*time.Second, payload.Duration)

	errs := sink.EventsOfType(types.EventTypeErrorCode)
	require.Len(t, errs, 1)
	assert.Equal(t, types.CodeConnectivityRefused, errs[0].Record.ErrorCode.ResultCode)
	assert.Equal(t, "refused", errs[0].Record.ErrorCode.Description)
}

// TestReplayDumpExport 测试 replay 归档后 dump 与 export 读回
func TestReplayDumpExport(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t)

	var out bytes.Buffer
	require.NoError(t, run([]string{"replay", "--data-dir", dir, script}, &out))
	assert.Contains(t, out.String(), "strategies=1")

	// dump: start_client_session、error_code、client_session
	out.Reset()
	require.NoError(t, run([]string{"dump", "--data-dir", dir}, &out))
	dump := out.String()
	assert.Contains(t, dump, "# last seq 3")
	assert.Contains(t, dump, "start_client_session")
	assert.Contains(t, dump, `description="refused"`)
	assert.Contains(t, dump, "connections=1 payloads=1")

	out.Reset()
	require.NoError(t, run([]string{"dump", "--data-dir", dir, "--event-type", "error_code"}, &out))
	assert.Equal(t, 2, strings.Count(out.String(), "\n"))

	// raw 导出后再读回
	rawPath := filepath.Join(dir, "export.clx")
	out.Reset()
	require.NoError(t, run([]string{"export", "--data-dir", dir, "-o", rawPath}, &out))
	assert.Contains(t, out.String(), "exported 3 records")

	f, err := os.Open(rawPath)
	require.NoError(t, err)
	defer f.Close()
	var seqs []uint64
	require.NoError(t, readExport(f, func(e eventlog.Entry) bool {
		seqs = append(seqs, e.Seq)
		return true
	}))
	assert.Equal(t, []uint64{1, 2, 3}, seqs)

	out.Reset()
	require.NoError(t, run([]string{"dump", "--from-export", rawPath, "--after", "1", "--limit", "1"}, &out))
	assert.Contains(t, out.String(), "error_code")
	assert.NotContains(t, out.String(), "client_session")

	// jsonl 导出
	jsonPath := filepath.Join(dir, "export.jsonl.zst")
	require.NoError(t, run([]string{"export", "--data-dir", dir, "-o", jsonPath, "--format", "jsonl"}, &out))

	jf, err := os.Open(jsonPath)
	require.NoError(t, err)
	defer jf.Close()
	zr, err := zstd.NewReader(jf)
	require.NoError(t, err)
	defer zr.Close()
	lines := 0
	sc := bufio.NewScanner(zr)
	for sc.Scan() {
		lines++
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, 3, lines)
}

// TestReadExport_Malformed 测试导出文件头校验
func TestReadExport_Malformed(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = zw.Write([]byte("nope"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	err = readExport(&buf, func(eventlog.Entry) bool { return true })
	assert.ErrorIs(t, err, errBadExport)
}

// TestRun_Commands 测试命令分发
func TestRun_Commands(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"version"}, &out))
	assert.Contains(t, out.String(), connlog.Version)

	out.Reset()
	require.NoError(t, run([]string{"help"}, &out))
	assert.Contains(t, out.String(), "replay")

	assert.Error(t, run(nil, &out))
	assert.ErrorContains(t, run([]string{"frobnicate"}, &out), "unknown command")
	assert.ErrorContains(t, run([]string{"export"}, &out), "--out is required")
	assert.Error(t, run([]string{"replay"}, &out))
}
