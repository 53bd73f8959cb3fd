package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"regexp"
	"strings"

	_ "golang.org/x/image/webp"
)

// data:image/png;base64,xxxx
var dataURLPattern = regexp.MustCompile(`^data:([^;,]+);base64,(.*)$`)

const maxRemoteImageSize = 20 << 20

// IsDataURL reports whether ref is an inline base64 data URL.
func IsDataURL(ref string) bool {
	return strings.HasPrefix(ref, "data:")
}

// ParseDataURL 拆分 data URL，返回 mime 与 base64 数据
func ParseDataURL(ref string) (mimeType string, data string, err error) {
	matches := dataURLPattern.FindStringSubmatch(ref)
	if len(matches) != 3 {
		return "", "", fmt.Errorf("not a base64 data url")
	}
	return matches[1], matches[2], nil
}

func ToDataURL(mimeType string, data string) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, data)
}

// FetchImage 下载远程图片并嗅探类型
func FetchImage(ctx context.Context, client *http.Client, url string) (mimeType string, data []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	resp, err := client.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("fetch image failed with status %d", resp.StatusCode)
	}
	data, err = io.ReadAll(io.LimitReader(resp.Body, maxRemoteImageSize))
	if err != nil {
		return "", nil, err
	}
	mimeType = http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", nil, fmt.Errorf("remote content is not an image: %s", mimeType)
	}
	return mimeType, data, nil
}

// Resolve returns raw bytes and mime of an image reference (data URL or remote URL).
func Resolve(ctx context.Context, client *http.Client, ref string) (string, []byte, error) {
	if IsDataURL(ref) {
		mimeType, data, err := ParseDataURL(ref)
		if err != nil {
			return "", nil, err
		}
		raw, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return "", nil, err
		}
		return mimeType, raw, nil
	}
	return FetchImage(ctx, client, ref)
}

// DecodeBase64Config 校验 base64 图片能被解码，返回尺寸与格式
func DecodeBase64Config(encoded string) (width int, height int, format string, err error) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return 0, 0, "", err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(decoded))
	if err != nil {
		return 0, 0, "", err
	}
	return cfg.Width, cfg.Height, format, nil
}

// ExtensionFromMimeType 根据 MIME 类型获取文件扩展名
func ExtensionFromMimeType(mimeType string) string {
	mimeType = strings.ToLower(mimeType)
	switch {
	case strings.Contains(mimeType, "jpeg"), strings.Contains(mimeType, "jpg"):
		return ".jpg"
	case strings.Contains(mimeType, "gif"):
		return ".gif"
	case strings.Contains(mimeType, "webp"):
		return ".webp"
	default:
		return ".png"
	}
}
