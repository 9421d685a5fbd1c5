package schedule

import (
	"math"
	"time"
)

// DateLayout 日历投影使用的日期格式（对外导出）
const DateLayout = "2006-01-02"

// ProjectDates 将节点的时间偏移投影为日历日期（对外导出）
// startDate 为ISO日期（2006-01-02）；无法解析时返回空映射而非错误，
// 其余计算不受日历锚定影响
// 偏移按四舍五入（远离零方向）取整天；周末与工作日同等计入
func ProjectDates(nodes map[string]*Node, startDate string) map[string]CalendarRange {
	ranges := make(map[string]CalendarRange)

	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return ranges
	}

	for id, node := range nodes {
		ranges[id] = CalendarRange{
			StartDate: start.AddDate(0, 0, int(math.Round(node.EarlyStart))).Format(DateLayout),
			EndDate:   start.AddDate(0, 0, int(math.Round(node.EarlyFinish))).Format(DateLayout),
		}
	}

	return ranges
}
