package message

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ezlinkai/campaign-studio/common/config"
)

type request struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	Channel     string `json:"channel"`
	Token       string `json:"token"`
}

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

var pusherClient = &http.Client{Timeout: 10 * time.Second}

func SendMessage(title string, description string, content string) error {
	if config.MessagePusherAddress == "" {
		return errors.New("message pusher address is not set")
	}
	// 在标题前加入系统名称标识，方便区分不同站点
	titleWithSystem := title
	if config.SystemName != "" {
		titleWithSystem = fmt.Sprintf("[%s] %s", config.SystemName, title)
	}
	req := request{
		Title:       titleWithSystem,
		Description: description,
		Content:     content,
		Token:       config.MessagePusherToken,
	}
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	resp, err := pusherClient.Post(config.MessagePusherAddress, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var res response
	if err = json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return err
	}
	if !res.Success {
		return errors.New(res.Message)
	}
	return nil
}

// Notify 发送到所有已配置的渠道，任一成功即返回 nil
func Notify(title string, content string) error {
	var errs []error
	sent := false
	if config.MessagePusherAddress != "" {
		if err := SendMessage(title, title, content); err != nil {
			errs = append(errs, err)
		} else {
			sent = true
		}
	}
	if config.FeishuWebhookUrls != "" {
		if err := SendFeishuNotification(title, content); err != nil {
			errs = append(errs, err)
		} else {
			sent = true
		}
	}
	if sent || len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
