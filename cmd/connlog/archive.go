package main

import (
	"fmt"

	"github.com/dep2p/go-connlog/config"
	"github.com/dep2p/go-connlog/internal/core/eventlog"
	"github.com/dep2p/go-connlog/internal/core/storage"
	"github.com/dep2p/go-connlog/internal/core/storage/engine"
)

// openArchive 以只读方式打开数据目录中的归档
//
// 调用方负责关闭返回的引擎。
func openArchive(dataDir, prefix string) (engine.Engine, *eventlog.StoreLogger, error) {
	sc := config.DefaultStorageConfig()
	if dataDir != "" {
		sc.DataDir = dataDir
	}
	if prefix == "" {
		prefix = config.DefaultEventLogConfig().ArchivePrefix
	}

	eng, store, err := storage.Open(sc.DBPath(), true)
	if err != nil {
		return nil, nil, fmt.Errorf("open archive %s: %w", sc.DBPath(), err)
	}
	return eng, eventlog.NewStoreLogger(store.SubStore([]byte(prefix))), nil
}
