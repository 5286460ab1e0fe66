package eventlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-connlog/internal/core/storage/engine"
	"github.com/dep2p/go-connlog/internal/core/storage/engine/badger"
	"github.com/dep2p/go-connlog/internal/core/storage/kv"
	"github.com/dep2p/go-connlog/pkg/types"
)

func newTestStore(t *testing.T) *kv.Store {
	t.Helper()

	eng, err := badger.New(engine.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return kv.New(eng, []byte("cl/"))
}

func collect(t *testing.T, s *StoreLogger, opts ScanOptions) []Entry {
	t.Helper()

	var out []Entry
	require.NoError(t, s.Scan(opts, func(e Entry) bool {
		out = append(out, e)
		return true
	}))
	return out
}

func TestStoreLogger_LogAndScan(t *testing.T) {
	s := NewStoreLogger(newTestStore(t).SubStore([]byte("connlog/")))
	ctx := context.Background()

	start := &types.ConnectionsLog{
		EventType:     types.EventTypeStartClientSession,
		ClientSession: &types.ClientSessionRecord{SessionID: "s1"},
	}
	require.NoError(t, s.Log(ctx, start, types.EventTypeStartClientSession))
	require.NoError(t, s.Log(ctx, sampleErrorLog(), types.EventTypeErrorCode))
	require.NoError(t, s.Log(ctx, sampleSessionLog(), types.EventTypeClientSession))

	last, err := s.LastSeq()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), last)

	all := collect(t, s, ScanOptions{})
	require.Len(t, all, 3)
	assert.Equal(t, []uint64{1, 2, 3}, []uint64{all[0].Seq, all[1].Seq, all[2].Seq})
	assert.Equal(t, sampleSessionLog(), all[2].Record)

	sessions := collect(t, s, ScanOptions{EventType: types.EventTypeClientSession})
	require.Len(t, sessions, 1)
	assert.Equal(t, uint64(3), sessions[0].Seq)

	after := collect(t, s, ScanOptions{AfterSeq: 1, Limit: 1})
	require.Len(t, after, 1)
	assert.Equal(t, types.EventTypeErrorCode, after[0].EventType)

	raw, err := s.Raw(2)
	require.NoError(t, err)
	assert.Equal(t, Marshal(sampleErrorLog()), raw)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestStoreLogger_EventTypeFromCall(t *testing.T) {
	s := NewStoreLogger(newTestStore(t))

	record := sampleErrorLog()
	record.EventType = types.EventTypeUnknown
	require.NoError(t, s.Log(context.Background(), record, types.EventTypeErrorCode))

	entries := collect(t, s, ScanOptions{})
	require.Len(t, entries, 1)
	assert.Equal(t, types.EventTypeErrorCode, entries[0].EventType)
	// 调用方的记录不被修改
	assert.Equal(t, types.EventTypeUnknown, record.EventType)
}

func TestStoreLogger_PurgeKeepsSeq(t *testing.T) {
	s := NewStoreLogger(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, s.Log(ctx, sampleErrorLog(), types.EventTypeErrorCode))
	require.NoError(t, s.Log(ctx, sampleErrorLog(), types.EventTypeErrorCode))

	deleted, err := s.Purge()
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.Empty(t, collect(t, s, ScanOptions{}))

	require.NoError(t, s.Log(ctx, sampleErrorLog(), types.EventTypeErrorCode))
	entries := collect(t, s, ScanOptions{})
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(3), entries[0].Seq)
}

func TestStoreLogger_Errors(t *testing.T) {
	store := newTestStore(t)
	s := NewStoreLogger(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Log(ctx, sampleErrorLog(), types.EventTypeErrorCode), context.Canceled)

	last, err := s.LastSeq()
	require.NoError(t, err)
	assert.Zero(t, last)

	require.NoError(t, store.Put(recordKey(7), []byte{0xff}))
	err = s.Scan(ScanOptions{}, func(Entry) bool { return true })
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("e0"), prefixEnd([]byte("e/")))
	assert.Equal(t, []byte{0x02}, prefixEnd([]byte{0x01, 0xff}))
	assert.Nil(t, prefixEnd([]byte{0xff}))
}
