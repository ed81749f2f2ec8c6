package api

import (
	"time"

	"kas/cache"
)

// queryCache 读接口的查询缓存，键为 (操作, 参数)
// 失效规则：任何交易写入使交易列表与仪表盘统计失效；
// 项目写入使项目列表与统计失效（active_projects 计入统计）；
// 类别/公告写入只影响各自的列表。
var queryCache = cache.New(256, 30*time.Second)

func init() {
	queryCache.RegisterInvalidation("transactions", "transactions", "dashboard-stats")
	queryCache.RegisterInvalidation("projects", "projects", "dashboard-stats")
	queryCache.RegisterInvalidation("categories", "categories")
	queryCache.RegisterInvalidation("announcements", "announcements")
}
