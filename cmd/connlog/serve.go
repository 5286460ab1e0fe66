package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/dep2p/go-connlog/config"
	"github.com/dep2p/go-connlog/internal/app"
)

// runServe 以服务方式运行记录器，直到收到退出信号
//
// 诊断服务始终开启；会话在退出时输出。
func runServe(args []string, stdout io.Writer) error {
	var (
		configFile string
		dataDir    string
		addr       string
		logFile    string
	)
	fs := pflag.NewFlagSet("connlog serve", pflag.ContinueOnError)
	fs.StringVar(&configFile, "config", "", "config file (json or yaml)")
	fs.StringVar(&dataDir, "data-dir", "", "enable the archive under this directory")
	fs.StringVar(&addr, "addr", "", "introspect listen address (default 127.0.0.1:6061)")
	fs.StringVar(&logFile, "log", "", "log file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.NewConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.LoadFile(configFile); err != nil {
			return err
		}
	}
	if dataDir != "" {
		cfg.EventLog.EnableArchive = true
		cfg.Storage.DataDir = dataDir
	}
	cfg.Introspect.Enabled = true
	if addr != "" {
		cfg.Introspect.Addr = addr
	}

	a, err := app.RunApp(context.Background(), app.NewBootstrap(cfg, app.WithLogFile(logFile)))
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "connlog serving on http://%s/debug/connlog (session %s)\n",
		a.Runtime().Introspect.Addr(), a.Recorder().SessionID())

	a.Wait()
	return a.Stop()
}
