package config

import (
	"os"
	"strings"
	"time"

	"github.com/ezlinkai/campaign-studio/common/env"
	"github.com/google/uuid"
)

var SystemName = "EZLINK AI"
var ServiceName = env.String("SERVICE_NAME", "campaign-studio")
var InstanceId = env.String("INSTANCE_ID", uuid.New().String()[:8])
var ServerAddress = "http://localhost:3000"

// Any options with "Secret", "Token", "Key" in its name must never be returned by the status API

var SessionSecret = uuid.New().String()

// AccessToken protects the API when set; empty leaves the studio open.
var AccessToken = env.String("ACCESS_TOKEN", "")

var ItemsPerPage = 10
var MaxRecentItems = 100

var DebugEnabled = strings.ToLower(os.Getenv("DEBUG")) == "true"
var DebugSQLEnabled = strings.ToLower(os.Getenv("DEBUG_SQL")) == "true"

// 主 provider（Gemini）
var GeminiAPIKey = env.String("GEMINI_API_KEY", os.Getenv("API_KEY"))
var GeminiBaseURL = env.String("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
var GeminiVersion = env.String("GEMINI_VERSION", "v1beta")

var PlanningModel = env.String("PLANNING_MODEL", "gemini-3-pro-preview")
var ImageModelFast = env.String("IMAGE_MODEL_FAST", "gemini-2.5-flash-image")
var ImageModelHQ = env.String("IMAGE_MODEL_HQ", "gemini-3-pro-image-preview")
var NarrationModel = env.String("NARRATION_MODEL", "gemini-2.5-flash-preview-tts")
var VideoModel = env.String("VIDEO_MODEL", "veo-3.1-fast-generate-preview")

var DefaultVoice = env.String("DEFAULT_VOICE", "Puck")
var NarrationSampleRate = 24000
var NarrationChannels = 1

// 桥接 provider，token 由用户在会话中提供
var BridgeBaseURL = env.String("BRIDGE_BASE_URL", "https://labs.google.com")
var BridgeImageCount = env.Int("BRIDGE_IMAGE_COUNT", 2)

var AspectRatio = "9:16"
var DefaultShotCount = env.Int("DEFAULT_SHOT_COUNT", 5)

var VideoPollInterval = env.Duration("VIDEO_POLL_INTERVAL_MS", 10*time.Second)
var VideoStatusInterval = env.Duration("VIDEO_STATUS_INTERVAL_MS", 8*time.Second)
var VideoResolution = env.String("VIDEO_RESOLUTION", "720p")

var RelayTimeout = env.Int("RELAY_TIMEOUT", 0) // unit is second
var RelayProxy = env.String("RELAY_PROXY", "")
var UserContentRequestProxy = env.String("USER_CONTENT_REQUEST_PROXY", "")
var UserContentRequestTimeout = env.Int("USER_CONTENT_REQUEST_TIMEOUT", 30)

// 动画预览
var AnimaticTickInterval = env.Duration("ANIMATIC_TICK_MS", 100*time.Millisecond)
var AnimaticSlideDuration = env.Duration("ANIMATIC_SLIDE_MS", 3000*time.Millisecond)
var FFmpegBinary = env.String("FFMPEG_BINARY", "ffmpeg")
var AnimaticWidth = env.Int("ANIMATIC_WIDTH", 720)
var AnimaticHeight = env.Int("ANIMATIC_HEIGHT", 1280)

// Cloudflare R2 导出
var CfR2storeEnabled = env.Bool("CF_R2_ENABLED", false)
var CfBucketFileName = env.String("CF_BUCKET_FILE_NAME", "")
var CfFileAccessKey = env.String("CF_FILE_ACCESS_KEY", "")
var CfFileSecretKey = env.String("CF_FILE_SECRET_KEY", "")
var CfFileEndpoint = env.String("CF_FILE_ENDPOINT", "")
var CfFilePublicURL = env.String("CF_FILE_PUBLIC_URL", "")

var MessagePusherAddress = env.String("MESSAGE_PUSHER_ADDRESS", "")
var MessagePusherToken = env.String("MESSAGE_PUSHER_TOKEN", "")
var FeishuWebhookUrls = env.String("FEISHU_WEBHOOK_URLS", "")

var GlobalApiRateLimitNum = env.Int("GLOBAL_API_RATE_LIMIT", 240)

const GlobalApiRateLimitDuration int64 = 3 * 60

var GenerateRateLimitNum = env.Int("GENERATE_RATE_LIMIT", 20)

const GenerateRateLimitDuration int64 = 60

var RateLimitKeyExpirationDuration = 20 * time.Minute

var LogRetentionDays = env.Int("LOG_RETENTION_DAYS", 30)
var LogRetentionCron = env.String("LOG_RETENTION_CRON", "0 3 * * *")

var StaticDir = env.String("STATIC_DIR", "")

// CorsOrigins 逗号分隔的前端来源，为空时允许任意来源
var CorsOrigins = env.String("CORS_ORIGINS", "")
var StyleCatalogPath = env.String("STYLE_CATALOG_PATH", "")

// CloudWatch 生成指标上报
var CloudWatchEnabled = env.Bool("CLOUDWATCH_ENABLED", false)
var CloudWatchRegion = env.String("CLOUDWATCH_REGION", "us-east-1")
var CloudWatchNamespace = env.String("CLOUDWATCH_NAMESPACE", "CampaignStudio")
var CloudWatchFlushInterval = env.Int("CLOUDWATCH_FLUSH_INTERVAL", 60)
var CloudWatchSampleInterval = env.Int("CLOUDWATCH_SAMPLE_INTERVAL", 10)
