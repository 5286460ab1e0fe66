package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dep2p/go-connlog/pkg/types"
)

// enumLimit 按名称查找时遍历的最大取值
const enumLimit = 64

type namedEnum interface {
	~int32
	String() string
}

// parseEnum 按 String() 名称或十进制数值解析枚举，空串返回零值
func parseEnum[T namedEnum](kind, s string) (T, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return T(n), nil
	}
	for v := T(0); v < enumLimit; v++ {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}

func parseMediums(names []string) ([]types.Medium, error) {
	out := make([]types.Medium, 0, len(names))
	for _, name := range names {
		m, err := parseEnum[types.Medium]("medium", name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
