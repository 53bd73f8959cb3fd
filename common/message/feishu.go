package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ezlinkai/campaign-studio/common/config"
)

// 复用 HTTP 客户端
var feishuClient = &http.Client{Timeout: 10 * time.Second}

// SendFeishuNotification 发送飞书卡片通知，多个 Webhook URL 用换行符分隔
func SendFeishuNotification(title string, content string) error {
	if config.FeishuWebhookUrls == "" {
		return nil
	}
	titleWithSystem := title
	if config.SystemName != "" {
		titleWithSystem = fmt.Sprintf("[%s] %s", config.SystemName, title)
	}
	return sendToFeishuWebhooks(buildFeishuCardMessage(titleWithSystem, content, "red"))
}

func sendToFeishuWebhooks(feishuMsg map[string]interface{}) error {
	jsonData, err := json.Marshal(feishuMsg)
	if err != nil {
		return fmt.Errorf("构建飞书消息失败: %s", err.Error())
	}

	successCount := 0
	var lastError string
	for _, webhookUrl := range strings.Split(config.FeishuWebhookUrls, "\n") {
		webhookUrl = strings.TrimSpace(webhookUrl)
		if webhookUrl == "" {
			continue
		}
		if err := sendSingleFeishuRequest(webhookUrl, jsonData); err != nil {
			lastError = err.Error()
		} else {
			successCount++
		}
	}
	if successCount == 0 && lastError != "" {
		return fmt.Errorf("所有飞书 Webhook 发送失败: %s", lastError)
	}
	return nil
}

func sendSingleFeishuRequest(webhookUrl string, jsonData []byte) error {
	resp, err := feishuClient.Post(webhookUrl, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("发送失败: %s", err.Error())
	}
	defer resp.Body.Close()

	var feishuResp struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&feishuResp); err != nil {
		// 无法解析但 HTTP 状态码正常，也认为成功
		if resp.StatusCode == http.StatusOK {
			return nil
		}
		return fmt.Errorf("解析响应失败，HTTP状态码: %d", resp.StatusCode)
	}
	if feishuResp.Code != 0 {
		return fmt.Errorf("飞书返回错误: %s", feishuResp.Msg)
	}
	return nil
}

func buildFeishuCardMessage(title string, content string, color string) map[string]interface{} {
	return map[string]interface{}{
		"msg_type": "interactive",
		"card": map[string]interface{}{
			"header": map[string]interface{}{
				"title": map[string]interface{}{
					"tag":     "plain_text",
					"content": title,
				},
				"template": color,
			},
			"elements": []map[string]interface{}{
				{
					"tag": "div",
					"text": map[string]interface{}{
						"tag":     "lark_md",
						"content": content,
					},
				},
			},
		},
	}
}
