package constants

import "time"

const (
	// 报表缓存以周期为 key ，用户 ID 为 hash field ，保存时按周期整体失效
	CacheKeySummaryPeriod = "cq:summary:%04d:%02d"
	// 周期的数据版本，每次保存递增，写缓存前需要版本未变
	CacheKeySummaryGeneration = "cq:summary-gen:%04d:%02d"
)

const (
	CacheExpireSummary           = 10 * time.Minute
	CacheExpireSummaryGeneration = 24 * time.Hour // 需要长于任何一次报表计算
)
