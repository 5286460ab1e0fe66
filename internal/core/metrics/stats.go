package metrics

// Stats 流量统计快照
type Stats struct {
	TotalIn  int64   `json:"total_in"`
	TotalOut int64   `json:"total_out"`
	RateIn   float64 `json:"rate_in"`
	RateOut  float64 `json:"rate_out"`

	// Payloads 计入的载荷数量
	Payloads int64 `json:"payloads"`
}
