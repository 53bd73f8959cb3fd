package cloudflare

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	commonConfig "github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/common/helper"
	"github.com/ezlinkai/campaign-studio/common/logger"
)

func Enabled() bool {
	return commonConfig.CfR2storeEnabled &&
		commonConfig.CfFileAccessKey != "" &&
		commonConfig.CfFileSecretKey != "" &&
		commonConfig.CfBucketFileName != "" &&
		commonConfig.CfFileEndpoint != ""
}

func newClient(ctx context.Context) (*s3.Client, error) {
	endpoint := commonConfig.CfFileEndpoint
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			commonConfig.CfFileAccessKey, commonConfig.CfFileSecretKey, "")),
		config.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{URL: endpoint}, nil
			}),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %v", err)
	}
	// Path-Style 避免虚拟主机风格的子域名 TLS 问题
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	}), nil
}

// ObjectKey builds "<prefix>/<yyyymmdd-hhmmss>-<id><ext>".
func ObjectKey(prefix string, ext string) string {
	filename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102-150405"), helper.GetUUID()[:12], ext)
	return path.Join(prefix, filename)
}

// UploadObject 上传导出文件到 R2，返回公开访问 URL
func UploadObject(ctx context.Context, objectKey string, body []byte, contentType string) (string, error) {
	if !Enabled() {
		return "", fmt.Errorf("R2 configuration is incomplete")
	}
	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(commonConfig.CfBucketFileName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %v", err)
	}

	var resultUrl string
	if commonConfig.CfFilePublicURL != "" {
		resultUrl = fmt.Sprintf("%s/%s", strings.TrimRight(commonConfig.CfFilePublicURL, "/"), objectKey)
	} else {
		resultUrl = fmt.Sprintf("%s/%s/%s", strings.TrimRight(commonConfig.CfFileEndpoint, "/"), commonConfig.CfBucketFileName, objectKey)
	}
	logger.SysLog(fmt.Sprintf("export uploaded to R2: %s (size: %d bytes)", resultUrl, len(body)))
	return resultUrl, nil
}
