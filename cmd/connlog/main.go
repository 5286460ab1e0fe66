// Package main 提供 connlog 命令行入口
//
// 子命令：
//
//	replay   用 JSON Lines 事件脚本驱动记录器，输出（并可归档）会话
//	dump     列出归档中的记录
//	export   把归档导出为 zstd 压缩文件
//	serve    以服务方式运行记录器与诊断服务
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/dep2p/go-connlog"
)

type command struct {
	name    string
	summary string
	run     func(args []string, stdout io.Writer) error
}

var commands = []command{
	{"replay", "drive the recorder from a JSON-lines event script", runReplay},
	{"dump", "list archived records", runDump},
	{"export", "export archived records as a zstd-compressed file", runExport},
	{"serve", "run the recorder with the introspect server until interrupted", runServe},
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		printUsage(stdout)
		return errors.New("missing command")
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage(stdout)
		return nil
	case "--version", "version":
		fmt.Fprintf(stdout, "connlog %s\n", connlog.Version)
		return nil
	}

	for _, c := range commands {
		if c.name == args[0] {
			err := c.run(args[1:], stdout)
			if errors.Is(err, pflag.ErrHelp) {
				return nil
			}
			return err
		}
	}
	printUsage(stdout)
	return fmt.Errorf("unknown command %q", args[0])
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: connlog <command> [flags]")
	fmt.Fprintln(w)
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
}
