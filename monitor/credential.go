package monitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/ezlinkai/campaign-studio/common/helper"
	"github.com/ezlinkai/campaign-studio/common/logger"
	"github.com/ezlinkai/campaign-studio/common/message"
)

// CredentialHealth 主凭据状态
type CredentialHealth struct {
	Valid         bool   `json:"valid"`
	MaskedKey     string `json:"masked_key"`
	Provider      string `json:"provider,omitempty"`
	Reason        string `json:"reason,omitempty"`
	InvalidatedAt int64  `json:"invalidated_at,omitempty"`
	Invalidations int    `json:"invalidations"`
}

var (
	healthLock sync.RWMutex
	health     = CredentialHealth{Valid: true}
	notify     = notifyOperator
)

func notifyOperator(subject string, content string) {
	if err := message.Notify(subject, content); err != nil {
		logger.SysError(fmt.Sprintf("failed to send notification: %s", err.Error()))
	}
}

// CredentialInvalid marks the primary credential as rejected by provider and
// notifies the operator once per invalidation.
func CredentialInvalid(provider string, key string, reason string) {
	healthLock.Lock()
	alreadyInvalid := !health.Valid
	health.Valid = false
	health.MaskedKey = helper.MaskKey(key)
	health.Provider = provider
	health.Reason = reason
	health.InvalidatedAt = helper.GetTimestamp()
	if !alreadyInvalid {
		health.Invalidations++
	}
	masked := health.MaskedKey
	healthLock.Unlock()

	if alreadyInvalid {
		return
	}
	logger.SysError(fmt.Sprintf("primary credential %s rejected by %s: %s", masked, provider, reason))
	subject := fmt.Sprintf("Campaign Studio 主凭据已失效（%s）", provider)
	content := fmt.Sprintf(`
<h3>主凭据失效通知</h3>
<p><strong>Provider：</strong>%s</p>
<p><strong>Key：</strong>%s</p>
<p><strong>原因：</strong>%s</p>
<p><strong>时间：</strong>%s</p>
<hr>
<p>生成流程已中止，请重新配置有效的 API Key。</p>
`, provider, masked, reason, time.Now().Format("2006-01-02 15:04:05"))
	notify(subject, content)
}

// CredentialRestored 用户重新提交凭据后恢复
func CredentialRestored(key string) {
	healthLock.Lock()
	wasInvalid := !health.Valid
	health.Valid = true
	health.MaskedKey = helper.MaskKey(key)
	health.Reason = ""
	healthLock.Unlock()
	if wasInvalid {
		logger.SysLog(fmt.Sprintf("primary credential replaced: %s", helper.MaskKey(key)))
	}
}

func Health() CredentialHealth {
	healthLock.RLock()
	defer healthLock.RUnlock()
	return health
}
