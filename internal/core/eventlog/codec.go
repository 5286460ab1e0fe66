package eventlog

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dep2p/go-connlog/pkg/types"
)

// ErrMalformed 记录编码损坏
var ErrMalformed = errors.New("eventlog: malformed record")

// ============================================================================
//                              编码
// ============================================================================
//
// 记录使用 protobuf 线格式手工编码，字段号固定：
//
//	ConnectionsLog   1 event_type  2 version  3 client_session  4 error_code
//	ClientSession    1 id  2 duration_ms  3 strategy_session*
//	StrategySession  1 strategy  2 role*  3 duration_ms  4 advertising*  5 discovery*
//	                 6 listening*  7 request*  8 attempt*  9 connection*  10 upgrade*
//
// 标量零值省略；重复的枚举字段逐个写出，零值也保留。

// Marshal 编码一条记录
func Marshal(record *types.ConnectionsLog) []byte {
	if record == nil {
		return nil
	}
	var b []byte
	b = appendVarint(b, 1, uint64(record.EventType))
	b = appendString(b, 2, record.Version)
	if record.ClientSession != nil {
		b = appendMessage(b, 3, marshalClientSession(record.ClientSession))
	}
	if record.ErrorCode != nil {
		b = appendMessage(b, 4, marshalErrorCode(record.ErrorCode))
	}
	return b
}

func marshalClientSession(s *types.ClientSessionRecord) []byte {
	var b []byte
	b = appendString(b, 1, s.SessionID)
	b = appendDuration(b, 2, s.Duration)
	for i := range s.StrategySessions {
		b = appendMessage(b, 3, marshalStrategySession(&s.StrategySessions[i]))
	}
	return b
}

func marshalStrategySession(s *types.StrategySessionRecord) []byte {
	var b []byte
	b = appendVarint(b, 1, enum(s.Strategy))
	for _, role := range s.Roles {
		b = appendRepeatedEnum(b, 2, enum(role))
	}
	b = appendDuration(b, 3, s.Duration)
	for i := range s.AdvertisingPhases {
		b = appendMessage(b, 4, marshalAdvertisingPhase(&s.AdvertisingPhases[i]))
	}
	for i := range s.DiscoveryPhases {
		b = appendMessage(b, 5, marshalDiscoveryPhase(&s.DiscoveryPhases[i]))
	}
	for i := range s.ListeningPhases {
		b = appendMessage(b, 6, marshalListeningPhase(&s.ListeningPhases[i]))
	}
	for i := range s.ConnectionRequests {
		b = appendMessage(b, 7, marshalRequest(&s.ConnectionRequests[i]))
	}
	for i := range s.ConnectionAttempts {
		b = appendMessage(b, 8, marshalAttempt(&s.ConnectionAttempts[i]))
	}
	for i := range s.Connections {
		b = appendMessage(b, 9, marshalLogicalConnection(&s.Connections[i]))
	}
	for i := range s.UpgradeAttempts {
		b = appendMessage(b, 10, marshalUpgrade(&s.UpgradeAttempts[i]))
	}
	return b
}

func marshalAdvertisingPhase(p *types.AdvertisingPhaseRecord) []byte {
	b := marshalPhaseCommon(p.Mediums, p.Duration, p.StopReason,
		p.ExtendedAdvertisementSupported, p.ConnectedAPFrequency, p.NFCAvailable, p.Results)
	return b
}

func marshalDiscoveryPhase(p *types.DiscoveryPhaseRecord) []byte {
	b := marshalPhaseCommon(p.Mediums, p.Duration, p.StopReason,
		p.ExtendedAdvertisementSupported, p.ConnectedAPFrequency, p.NFCAvailable, p.Results)
	for _, mc := range p.EndpointsFound {
		var m []byte
		m = appendRepeatedEnum(m, 1, enum(mc.Medium))
		m = appendVarint(m, 2, uint64(int64(mc.Count)))
		b = appendMessage(b, 8, m)
	}
	return b
}

// marshalPhaseCommon 广播与发现阶段共享字段 1-7
func marshalPhaseCommon(mediums []types.Medium, d time.Duration, stop types.PhaseStopReason,
	extended bool, apFrequency int, nfc bool, results []types.OperationResultWithMedium) []byte {
	var b []byte
	for _, m := range mediums {
		b = appendRepeatedEnum(b, 1, enum(m))
	}
	b = appendDuration(b, 2, d)
	b = appendVarint(b, 3, enum(stop))
	b = appendBool(b, 4, extended)
	b = appendVarint(b, 5, uint64(int64(apFrequency)))
	b = appendBool(b, 6, nfc)
	for _, r := range results {
		var m []byte
		m = appendRepeatedEnum(m, 1, enum(r.Medium))
		m = appendVarint(m, 2, enum(r.ResultCode))
		m = appendVarint(m, 3, uint64(int64(r.UpdateIndex)))
		b = appendMessage(b, 7, m)
	}
	return b
}

func marshalListeningPhase(p *types.ListeningPhaseRecord) []byte {
	var b []byte
	b = appendDuration(b, 1, p.Duration)
	b = appendVarint(b, 2, enum(p.StopReason))
	return b
}

func marshalRequest(r *types.ConnectionRequestRecord) []byte {
	var b []byte
	b = appendVarint(b, 1, enum(r.Direction))
	b = appendVarint(b, 2, enum(r.LocalResponse))
	b = appendVarint(b, 3, enum(r.RemoteResponse))
	b = appendDuration(b, 4, r.RequestDelay)
	b = appendDuration(b, 5, r.LocalResponseDelay)
	b = appendDuration(b, 6, r.RemoteResponseDelay)
	return b
}

func marshalAttempt(a *types.ConnectionAttemptRecord) []byte {
	var b []byte
	b = appendVarint(b, 1, enum(a.Direction))
	b = appendVarint(b, 2, enum(a.Type))
	b = appendVarint(b, 3, enum(a.Medium))
	b = appendVarint(b, 4, enum(a.Result))
	b = appendDuration(b, 5, a.Duration)
	b = appendString(b, 6, a.ConnectionToken)
	b = appendVarint(b, 7, enum(a.ResultCode))
	if a.Metadata != nil {
		b = appendMessage(b, 8, marshalAttemptMetadata(a.Metadata))
	}
	return b
}

func marshalAttemptMetadata(m *types.ConnectionAttemptMetadata) []byte {
	var b []byte
	b = appendVarint(b, 1, enum(m.Technology))
	b = appendVarint(b, 2, enum(m.Band))
	b = appendVarint(b, 3, uint64(int64(m.Frequency)))
	b = appendVarint(b, 4, uint64(int64(m.TryCount)))
	b = appendString(b, 5, m.NetworkOperator)
	b = appendString(b, 6, m.CountryCode)
	b = appendBool(b, 7, m.TDLSUsed)
	b = appendBool(b, 8, m.WiFiHotspotEnabled)
	b = appendVarint(b, 9, uint64(int64(m.MaxWiFiTxSpeed)))
	b = appendVarint(b, 10, uint64(int64(m.MaxWiFiRxSpeed)))
	b = appendVarint(b, 11, uint64(int64(m.ChannelWidth)))
	b = appendVarint(b, 12, enum(m.ResultCode))
	return b
}

func marshalLogicalConnection(c *types.LogicalConnectionRecord) []byte {
	var b []byte
	for i := range c.PhysicalConnections {
		b = appendMessage(b, 1, marshalPhysicalConnection(&c.PhysicalConnections[i]))
	}
	return b
}

func marshalPhysicalConnection(p *types.PhysicalConnectionRecord) []byte {
	var b []byte
	b = appendVarint(b, 1, enum(p.Medium))
	b = appendString(b, 2, p.ConnectionToken)
	b = appendDuration(b, 3, p.Duration)
	b = appendVarint(b, 4, enum(p.DisconnectionReason))
	b = appendVarint(b, 5, enum(p.SafeDisconnectionResult))
	for i := range p.SentPayloads {
		b = appendMessage(b, 6, marshalPayload(&p.SentPayloads[i]))
	}
	for i := range p.ReceivedPayloads {
		b = appendMessage(b, 7, marshalPayload(&p.ReceivedPayloads[i]))
	}
	return b
}

func marshalPayload(p *types.PayloadRecord) []byte {
	var b []byte
	b = appendVarint(b, 1, enum(p.Type))
	b = appendVarint(b, 2, uint64(p.TotalSizeBytes))
	b = appendVarint(b, 3, uint64(p.BytesTransferred))
	b = appendVarint(b, 4, uint64(int64(p.ChunkCount)))
	b = appendDuration(b, 5, p.Duration)
	b = appendVarint(b, 6, enum(p.Status))
	b = appendVarint(b, 7, enum(p.ResultCode))
	return b
}

func marshalUpgrade(u *types.BandwidthUpgradeAttemptRecord) []byte {
	var b []byte
	b = appendVarint(b, 1, enum(u.Direction))
	b = appendVarint(b, 2, enum(u.FromMedium))
	b = appendVarint(b, 3, enum(u.ToMedium))
	b = appendDuration(b, 4, u.Duration)
	b = appendVarint(b, 5, enum(u.Result))
	b = appendVarint(b, 6, enum(u.ErrorStage))
	b = appendString(b, 7, u.ConnectionToken)
	b = appendVarint(b, 8, enum(u.ResultCode))
	return b
}

func marshalErrorCode(e *types.ErrorCodeRecord) []byte {
	var b []byte
	b = appendVarint(b, 1, enum(e.Event))
	b = appendString(b, 2, e.Description)
	b = appendVarint(b, 3, enum(e.Medium))
	b = appendVarint(b, 4, enum(e.ResultCode))
	b = appendString(b, 5, e.ConnectionToken)
	return b
}

// ============================================================================
//                              解码
// ============================================================================

// Unmarshal 解码 Marshal 产生的字节，未知字段被跳过
func Unmarshal(data []byte) (*types.ConnectionsLog, error) {
	record := &types.ConnectionsLog{}
	err := walk(data, func(num protowire.Number, f field) error {
		switch num {
		case 1:
			record.EventType = types.EventType(f.int())
		case 2:
			record.Version = string(f.data)
		case 3:
			s, err := unmarshalClientSession(f.data)
			if err != nil {
				return err
			}
			record.ClientSession = s
		case 4:
			e, err := unmarshalErrorCode(f.data)
			if err != nil {
				return err
			}
			record.ErrorCode = e
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func unmarshalClientSession(data []byte) (*types.ClientSessionRecord, error) {
	s := &types.ClientSessionRecord{}
	err := walk(data, func(num protowire.Number, f field) error {
		switch num {
		case 1:
			s.SessionID = string(f.data)
		case 2:
			s.Duration = f.duration()
		case 3:
			ss, err := unmarshalStrategySession(f.data)
			if err != nil {
				return err
			}
			s.StrategySessions = append(s.StrategySessions, ss)
		}
		return nil
	})
	return s, err
}

func unmarshalStrategySession(data []byte) (types.StrategySessionRecord, error) {
	var s types.StrategySessionRecord
	err := walk(data, func(num protowire.Number, f field) error {
		switch num {
		case 1:
			s.Strategy = types.Strategy(f.int())
		case 2:
			s.Roles = append(s.Roles, types.SessionRole(f.int()))
		case 3:
			s.Duration = f.duration()
		case 4:
			p, err := unmarshalAdvertisingPhase(f.data)
			if err != nil {
				return err
			}
			s.AdvertisingPhases = append(s.AdvertisingPhases, p)
		case 5:
			p, err := unmarshalDiscoveryPhase(f.data)
			if err != nil {
				return err
			}
			s.DiscoveryPhases = append(s.DiscoveryPhases, p)
		case 6:
			var p types.ListeningPhaseRecord
			if err := walk(f.data, func(num protowire.Number, f field) error {
				switch num {
				case 1:
					p.Duration = f.duration()
				case 2:
					p.StopReason = types.PhaseStopReason(f.int())
				}
				return nil
			}); err != nil {
				return err
			}
			s.ListeningPhases = append(s.ListeningPhases, p)
		case 7:
			r, err := unmarshalRequest(f.data)
			if err != nil {
				return err
			}
			s.ConnectionRequests = append(s.ConnectionRequests, r)
		case 8:
			a, err := unmarshalAttempt(f.data)
			if err != nil {
				return err
			}
			s.ConnectionAttempts = append(s.ConnectionAttempts, a)
		case 9:
			c, err := unmarshalLogicalConnection(f.data)
			if err != nil {
				return err
			}
			s.Connections = append(s.Connections, c)
		case 10:
			u, err := unmarshalUpgrade(f.data)
			if err != nil {
				return err
			}
			s.UpgradeAttempts = append(s.UpgradeAttempts, u)
		}
		return nil
	})
	return s, err
}

// phaseCommon 广播与发现阶段共享字段
type phaseCommon struct {
	mediums     []types.Medium
	duration    time.Duration
	stop        types.PhaseStopReason
	extended    bool
	apFrequency int
	nfc         bool
	results     []types.OperationResultWithMedium
	found       []types.MediumCount
}

func unmarshalPhaseCommon(data []byte) (phaseCommon, error) {
	var p phaseCommon
	err := walk(data, func(num protowire.Number, f field) error {
		switch num {
		case 1:
			p.mediums = append(p.mediums, types.Medium(f.int()))
		case 2:
			p.duration = f.duration()
		case 3:
			p.stop = types.PhaseStopReason(f.int())
		case 4:
			p.extended = f.v != 0
		case 5:
			p.apFrequency = int(f.int())
		case 6:
			p.nfc = f.v != 0
		case 7:
			var r types.OperationResultWithMedium
			if err := walk(f.data, func(num protowire.Number, f field) error {
				switch num {
				case 1:
					r.Medium = types.Medium(f.int())
				case 2:
					r.ResultCode = types.OperationResultCode(f.int())
				case 3:
					r.UpdateIndex = int(f.int())
				}
				return nil
			}); err != nil {
				return err
			}
			p.results = append(p.results, r)
		case 8:
			var mc types.MediumCount
			if err := walk(f.data, func(num protowire.Number, f field) error {
				switch num {
				case 1:
					mc.Medium = types.Medium(f.int())
				case 2:
					mc.Count = int(f.int())
				}
				return nil
			}); err != nil {
				return err
			}
			p.found = append(p.found, mc)
		}
		return nil
	})
	return p, err
}

func unmarshalAdvertisingPhase(data []byte) (types.AdvertisingPhaseRecord, error) {
	p, err := unmarshalPhaseCommon(data)
	return types.AdvertisingPhaseRecord{
		Mediums:                        p.mediums,
		Duration:                       p.duration,
		StopReason:                     p.stop,
		ExtendedAdvertisementSupported: p.extended,
		ConnectedAPFrequency:           p.apFrequency,
		NFCAvailable:                   p.nfc,
		Results:                        p.results,
	}, err
}

func unmarshalDiscoveryPhase(data []byte) (types.DiscoveryPhaseRecord, error) {
	p, err := unmarshalPhaseCommon(data)
	return types.DiscoveryPhaseRecord{
		Mediums:                        p.mediums,
		Duration:                       p.duration,
		StopReason:                     p.stop,
		ExtendedAdvertisementSupported: p.extended,
		ConnectedAPFrequency:           p.apFrequency,
		NFCAvailable:                   p.nfc,
		EndpointsFound:                 p.found,
		Results:                        p.results,
	}, err
}

func unmarshalRequest(data []byte) (types.ConnectionRequestRecord, error) {
	var r types.ConnectionRequestRecord
	err := walk(data, func(num protowire.Number, f field) error {
		switch num {
		case 1:
			r.Direction = types.ConnectionAttemptDirection(f.int())
		case 2:
			r.LocalResponse = types.ConnectionRequestResponse(f.int())
		case 3:
			r.RemoteResponse = types.ConnectionRequestResponse(f.int())
		case 4:
			r.RequestDelay = f.duration()
		case 5:
			r.LocalResponseDelay = f.duration()
		case 6:
			r.RemoteResponseDelay = f.duration()
		}
		return nil
	})
	return r, err
}

func unmarshalAttempt(data []byte) (types.ConnectionAttemptRecord, error) {
	var a types.ConnectionAttemptRecord
	err := walk(data, func(num protowire.Number, f field) error {
		switch num {
		case 1:
			a.Direction = types.ConnectionAttemptDirection(f.int())
		case 2:
			a.Type = types.ConnectionAttemptType(f.int())
		case 3:
			a.Medium = types.Medium(f.int())
		case 4:
			a.Result = types.ConnectionAttemptResult(f.int())
		case 5:
			a.Duration = f.duration()
		case 6:
			a.ConnectionToken = string(f.data)
		case 7:
			a.ResultCode = types.OperationResultCode(f.int())
		case 8:
			md, err := unmarshalAttemptMetadata(f.data)
			if err != nil {
				return err
			}
			a.Metadata = md
		}
		return nil
	})
	return a, err
}

func unmarshalAttemptMetadata(data []byte) (*types.ConnectionAttemptMetadata, error) {
	m := &types.ConnectionAttemptMetadata{}
	err := walk(data, func(num protowire.Number, f field) error {
		switch num {
		case 1:
			m.Technology = types.ConnectionTechnology(f.int())
		case 2:
			m.Band = types.ConnectionBand(f.int())
		case 3:
			m.Frequency = int(f.int())
		case 4:
			m.TryCount = int(f.int())
		case 5:
			m.NetworkOperator = string(f.data)
		case 6:
			m.CountryCode = string(f.data)
		case 7:
			m.TDLSUsed = f.v != 0
		case 8:
			m.WiFiHotspotEnabled = f.v != 0
		case 9:
			m.MaxWiFiTxSpeed = int(f.int())
		case 10:
			m.MaxWiFiRxSpeed = int(f.int())
		case 11:
			m.ChannelWidth = int(f.int())
		case 12:
			m.ResultCode = types.OperationResultCode(f.int())
		}
		return nil
	})
	return m, err
}

func unmarshalLogicalConnection(data []byte) (types.LogicalConnectionRecord, error) {
	var c types.LogicalConnectionRecord
	err := walk(data, func(num protowire.Number, f field) error {
		if num != 1 {
			return nil
		}
		p, err := unmarshalPhysicalConnection(f.data)
		if err != nil {
			return err
		}
		c.PhysicalConnections = append(c.PhysicalConnections, p)
		return nil
	})
	return c, err
}

func unmarshalPhysicalConnection(data []byte) (types.PhysicalConnectionRecord, error) {
	var p types.PhysicalConnectionRecord
	err := walk(data, func(num protowire.Number, f field) error {
		switch num {
		case 1:
			p.Medium = types.Medium(f.int())
		case 2:
			p.ConnectionToken = string(f.data)
		case 3:
			p.Duration = f.duration()
		case 4:
			p.DisconnectionReason = types.DisconnectionReason(f.int())
		case 5:
			p.SafeDisconnectionResult = types.SafeDisconnectionResult(f.int())
		case 6, 7:
			payload, err := unmarshalPayload(f.data)
			if err != nil {
				return err
			}
			if num == 6 {
				p.SentPayloads = append(p.SentPayloads, payload)
			} else {
				p.ReceivedPayloads = append(p.ReceivedPayloads, payload)
			}
		}
		return nil
	})
	return p, err
}

func unmarshalPayload(data []byte) (types.PayloadRecord, error) {
	var p types.PayloadRecord
	err := walk(data, func(num protowire.Number, f field) error {
		switch num {
		case 1:
			p.Type = types.PayloadType(f.int())
		case 2:
			p.TotalSizeBytes = f.int()
		case 3:
			p.BytesTransferred = f.int()
		case 4:
			p.ChunkCount = int(f.int())
		case 5:
			p.Duration = f.duration()
		case 6:
			p.Status = types.PayloadStatus(f.int())
		case 7:
			p.ResultCode = types.OperationResultCode(f.int())
		}
		return nil
	})
	return p, err
}

func unmarshalUpgrade(data []byte) (types.BandwidthUpgradeAttemptRecord, error) {
	var u types.BandwidthUpgradeAttemptRecord
	err := walk(data, func(num protowire.Number, f field) error {
		switch num {
		case 1:
			u.Direction = types.ConnectionAttemptDirection(f.int())
		case 2:
			u.FromMedium = types.Medium(f.int())
		case 3:
			u.ToMedium = types.Medium(f.int())
		case 4:
			u.Duration = f.duration()
		case 5:
			u.Result = types.BandwidthUpgradeResult(f.int())
		case 6:
			u.ErrorStage = types.BandwidthUpgradeErrorStage(f.int())
		case 7:
			u.ConnectionToken = string(f.data)
		case 8:
			u.ResultCode = types.OperationResultCode(f.int())
		}
		return nil
	})
	return u, err
}

func unmarshalErrorCode(data []byte) (*types.ErrorCodeRecord, error) {
	e := &types.ErrorCodeRecord{}
	err := walk(data, func(num protowire.Number, f field) error {
		switch num {
		case 1:
			e.Event = types.ErrorEvent(f.int())
		case 2:
			e.Description = string(f.data)
		case 3:
			e.Medium = types.Medium(f.int())
		case 4:
			e.ResultCode = types.OperationResultCode(f.int())
		case 5:
			e.ConnectionToken = string(f.data)
		}
		return nil
	})
	return e, err
}

// ============================================================================
//                              线格式辅助
// ============================================================================

type enumValue interface {
	~int32
}

func enum[T enumValue](v T) uint64 {
	return uint64(int64(v))
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	return appendRepeatedEnum(b, num, v)
}

func appendRepeatedEnum(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	return appendVarint(b, num, 1)
}

func appendDuration(b []byte, num protowire.Number, d time.Duration) []byte {
	return appendVarint(b, num, uint64(d.Milliseconds()))
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// appendMessage 写出嵌套消息，空消息也保留以维持重复字段的个数
func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// field 一个已解析的字段值
type field struct {
	typ  protowire.Type
	v    uint64
	data []byte
}

func (f field) int() int64 {
	return int64(f.v)
}

func (f field) duration() time.Duration {
	return time.Duration(int64(f.v)) * time.Millisecond
}

// walk 依次解析 data 中的字段，跳过变长与定长之外的字段
func walk(data []byte, fn func(num protowire.Number, f field) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return malformed(n)
		}
		data = data[n:]

		var f field
		f.typ = typ
		switch typ {
		case protowire.VarintType:
			f.v, n = protowire.ConsumeVarint(data)
		case protowire.BytesType:
			f.data, n = protowire.ConsumeBytes(data)
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return malformed(n)
			}
			data = data[n:]
			continue
		}
		if n < 0 {
			return malformed(n)
		}
		data = data[n:]

		if err := fn(num, f); err != nil {
			return err
		}
	}
	return nil
}

func malformed(n int) error {
	return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
}
