package common

import (
	"context"
	"fmt"
	"math"

	"github.com/bytedance/gopkg/util/gopool"
	"github.com/ezlinkai/campaign-studio/common/logger"
)

var campaignGoPool gopool.Pool

func init() {
	campaignGoPool = gopool.NewPool("gopool.CampaignPool", math.MaxInt32, gopool.NewConfig())
	campaignGoPool.SetPanicHandler(func(ctx context.Context, i interface{}) {
		logger.Error(ctx, fmt.Sprintf("panic in gopool.CampaignPool: %v", i))
	})
}

// CampaignCtxGo 后台执行生成任务，panic 只记录不扩散
func CampaignCtxGo(ctx context.Context, f func()) {
	campaignGoPool.CtxGo(ctx, f)
}
