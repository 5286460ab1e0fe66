package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/spf13/pflag"

	"github.com/dep2p/go-connlog"
	"github.com/dep2p/go-connlog/config"
	"github.com/dep2p/go-connlog/pkg/interfaces"
	"github.com/dep2p/go-connlog/pkg/types"
)

// scriptEvent 事件脚本中的一行
//
// 枚举字段接受名称（如 "ble"、"p2p_star"）或数值，时长接受 "1.5s" 形式。
type scriptEvent struct {
	Op string `json:"op"`

	Strategy  string   `json:"strategy,omitempty"`
	Mediums   []string `json:"mediums,omitempty"`
	Medium    string   `json:"medium,omitempty"`
	Endpoint  string   `json:"endpoint,omitempty"`
	Endpoints []string `json:"endpoints,omitempty"`
	Token     string   `json:"token,omitempty"`

	PayloadID   int64  `json:"payload_id,omitempty"`
	PayloadType string `json:"payload_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
	Status      string `json:"status,omitempty"`

	AttemptType string `json:"attempt_type,omitempty"`
	Result      string `json:"result,omitempty"`
	Direction   string `json:"direction,omitempty"`
	Reason      string `json:"reason,omitempty"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
	Stage       string `json:"stage,omitempty"`
	Code        int32  `json:"code,omitempty"`

	Event       string `json:"event,omitempty"`
	Description string `json:"description,omitempty"`

	Duration config.Duration `json:"duration,omitempty"`
}

// readScript 读取 JSON Lines 事件脚本，忽略空行与 # 注释
func readScript(r io.Reader) ([]scriptEvent, error) {
	var events []scriptEvent
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var ev scriptEvent
		dec := json.NewDecoder(strings.NewReader(text))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if ev.Op == "" {
			return nil, fmt.Errorf("line %d: missing op", line)
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// player 把脚本事件交给记录器
type player struct {
	rec interfaces.Recorder
	clk *clock.Mock
}

// apply 执行一条脚本事件
//
// "wait" 推进模拟时钟，未使用模拟时钟时忽略。
func (p *player) apply(ev scriptEvent) error {
	switch ev.Op {
	case "wait":
		if p.clk != nil {
			p.clk.Add(ev.Duration.Duration())
		}

	case "start_advertising", "start_discovery":
		strategy, err := parseEnum[types.Strategy]("strategy", ev.Strategy)
		if err != nil {
			return err
		}
		mediums, err := parseMediums(ev.Mediums)
		if err != nil {
			return err
		}
		if ev.Op == "start_advertising" {
			p.rec.StartAdvertising(strategy, mediums, nil)
		} else {
			p.rec.StartDiscovery(strategy, mediums, nil)
		}
	case "stop_advertising":
		p.rec.StopAdvertising()
	case "stop_discovery":
		p.rec.StopDiscovery()
	case "endpoint_found":
		m, err := parseEnum[types.Medium]("medium", ev.Medium)
		if err != nil {
			return err
		}
		p.rec.OnEndpointFound(m)
	case "start_listening":
		strategy, err := parseEnum[types.Strategy]("strategy", ev.Strategy)
		if err != nil {
			return err
		}
		p.rec.StartListeningForIncomingConnections(strategy)
	case "stop_listening":
		p.rec.StopListeningForIncomingConnections()

	case "request_connection":
		strategy, err := parseEnum[types.Strategy]("strategy", ev.Strategy)
		if err != nil {
			return err
		}
		p.rec.RequestConnection(strategy, ev.Endpoint)
	case "request_received":
		p.rec.ConnectionRequestReceived(ev.Endpoint)
	case "request_sent":
		p.rec.ConnectionRequestSent(ev.Endpoint)
	case "local_accepted":
		p.rec.LocalEndpointAccepted(ev.Endpoint)
	case "local_rejected":
		p.rec.LocalEndpointRejected(ev.Endpoint)
	case "remote_accepted":
		p.rec.RemoteEndpointAccepted(ev.Endpoint)
	case "remote_rejected":
		p.rec.RemoteEndpointRejected(ev.Endpoint)

	case "incoming_attempt", "outgoing_attempt":
		return p.attempt(ev)

	case "connection_established":
		m, err := parseEnum[types.Medium]("medium", ev.Medium)
		if err != nil {
			return err
		}
		p.rec.ConnectionEstablished(ev.Endpoint, m, ev.Token)
	case "connection_closed":
		return p.closed(ev)

	case "incoming_payload_started", "outgoing_payload_started":
		pt, err := parseEnum[types.PayloadType]("payload type", ev.PayloadType)
		if err != nil {
			return err
		}
		if ev.Op == "incoming_payload_started" {
			p.rec.IncomingPayloadStarted(ev.Endpoint, ev.PayloadID, pt, ev.Size)
		} else {
			p.rec.OutgoingPayloadStarted(endpointsOf(ev), ev.PayloadID, pt, ev.Size)
		}
	case "chunk_received":
		p.rec.PayloadChunkReceived(ev.Endpoint, ev.PayloadID, ev.Size)
	case "chunk_sent":
		p.rec.PayloadChunkSent(ev.Endpoint, ev.PayloadID, ev.Size)
	case "incoming_payload_done", "outgoing_payload_done":
		status, err := parseEnum[types.PayloadStatus]("payload status", ev.Status)
		if err != nil {
			return err
		}
		code := types.OperationResultCode(ev.Code)
		if ev.Op == "incoming_payload_done" {
			p.rec.IncomingPayloadDone(ev.Endpoint, ev.PayloadID, status, code)
		} else {
			p.rec.OutgoingPayloadDone(ev.Endpoint, ev.PayloadID, status, code)
		}

	case "upgrade_started":
		return p.upgradeStarted(ev)
	case "upgrade_success":
		p.rec.BandwidthUpgradeSuccess(ev.Endpoint)
	case "upgrade_error":
		return p.upgradeError(ev)

	case "error_code":
		return p.errorCode(ev)
	case "start_session":
		p.rec.LogStartSession()
	case "log_session":
		p.rec.LogSession()

	default:
		return fmt.Errorf("unknown op %q", ev.Op)
	}
	return nil
}

func (p *player) attempt(ev scriptEvent) error {
	attemptType, err := parseEnum[types.ConnectionAttemptType]("attempt type", ev.AttemptType)
	if err != nil {
		return err
	}
	m, err := parseEnum[types.Medium]("medium", ev.Medium)
	if err != nil {
		return err
	}
	result, err := parseEnum[types.ConnectionAttemptResult]("attempt result", ev.Result)
	if err != nil {
		return err
	}
	var md *types.ConnectionAttemptMetadata
	if ev.Code != 0 {
		md = types.BuildConnectionAttemptMetadata(0, 0, 0, 0,
			types.WithResultCode(types.OperationResultCode(ev.Code)))
	}
	if ev.Op == "incoming_attempt" {
		p.rec.IncomingConnectionAttempt(attemptType, m, result, ev.Duration.Duration(), ev.Token, md)
	} else {
		p.rec.OutgoingConnectionAttempt(ev.Endpoint, attemptType, m, result, ev.Duration.Duration(), ev.Token, md)
	}
	return nil
}

func (p *player) closed(ev scriptEvent) error {
	m, err := parseEnum[types.Medium]("medium", ev.Medium)
	if err != nil {
		return err
	}
	reason, err := parseEnum[types.DisconnectionReason]("disconnection reason", ev.Reason)
	if err != nil {
		return err
	}
	result, err := parseEnum[types.SafeDisconnectionResult]("safe disconnection result", ev.Result)
	if err != nil {
		return err
	}
	p.rec.ConnectionClosed(ev.Endpoint, m, reason, result)
	return nil
}

func (p *player) upgradeStarted(ev scriptEvent) error {
	from, err := parseEnum[types.Medium]("medium", ev.From)
	if err != nil {
		return err
	}
	to, err := parseEnum[types.Medium]("medium", ev.To)
	if err != nil {
		return err
	}
	direction, err := parseEnum[types.ConnectionAttemptDirection]("direction", ev.Direction)
	if err != nil {
		return err
	}
	p.rec.BandwidthUpgradeStarted(ev.Endpoint, from, to, direction, ev.Token)
	return nil
}

func (p *player) upgradeError(ev scriptEvent) error {
	result, err := parseEnum[types.BandwidthUpgradeResult]("upgrade result", ev.Result)
	if err != nil {
		return err
	}
	stage, err := parseEnum[types.BandwidthUpgradeErrorStage]("upgrade stage", ev.Stage)
	if err != nil {
		return err
	}
	p.rec.BandwidthUpgradeError(ev.Endpoint, result, stage, types.OperationResultCode(ev.Code))
	return nil
}

func (p *player) errorCode(ev scriptEvent) error {
	event, err := parseEnum[types.ErrorEvent]("error event", ev.Event)
	if err != nil {
		return err
	}
	m, err := parseEnum[types.Medium]("medium", ev.Medium)
	if err != nil {
		return err
	}
	p.rec.OnErrorCode(types.ErrorCodeParams{
		Event:           event,
		Description:     ev.Description,
		Medium:          m,
		ResultCode:      types.OperationResultCode(ev.Code),
		ConnectionToken: ev.Token,
	})
	return nil
}

func endpointsOf(ev scriptEvent) []string {
	if len(ev.Endpoints) > 0 {
		return ev.Endpoints
	}
	if ev.Endpoint != "" {
		return []string{ev.Endpoint}
	}
	return nil
}

// runReplay 执行 replay 子命令
func runReplay(args []string, stdout io.Writer) error {
	var (
		configFile string
		dataDir    string
		realClock  bool
		printJSON  bool
	)
	fs := pflag.NewFlagSet("connlog replay", pflag.ContinueOnError)
	fs.StringVar(&configFile, "config", "", "config file (json or yaml)")
	fs.StringVar(&dataDir, "data-dir", "", "archive the session under this directory")
	fs.BoolVar(&realClock, "real-clock", false, "use the system clock instead of a mock clock driven by wait events")
	fs.BoolVar(&printJSON, "json", false, "print the delivered session as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: connlog replay [flags] <script.jsonl | ->")
	}

	events, err := loadScript(fs.Arg(0))
	if err != nil {
		return err
	}

	var opts []connlog.Option
	if configFile != "" {
		opts = append(opts, connlog.WithConfigFile(configFile))
	}
	if dataDir != "" {
		opts = append(opts, connlog.WithArchive(dataDir))
	}
	p := &player{}
	if !realClock {
		p.clk = clock.NewMock()
		opts = append(opts, connlog.WithClock(p.clk))
	}

	ctx := context.Background()
	svc, err := connlog.Open(ctx, opts...)
	if err != nil {
		return err
	}
	p.rec = svc.Recorder()

	for i, ev := range events {
		if err := p.apply(ev); err != nil {
			_ = svc.Close(ctx)
			return fmt.Errorf("event %d (%s): %w", i+1, ev.Op, err)
		}
	}

	// 关闭时输出会话并等待投递完成
	if err := svc.Close(ctx); err != nil {
		return err
	}

	sessions := svc.Sessions()
	if printJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}
	for _, s := range sessions {
		fmt.Fprintf(stdout, "session %s duration=%s strategies=%d\n",
			s.SessionID, s.Duration.Round(time.Millisecond), len(s.StrategySessions))
	}
	return nil
}

func loadScript(path string) ([]scriptEvent, error) {
	if path == "-" {
		return readScript(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readScript(f)
}
