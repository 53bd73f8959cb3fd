package model

import "time"

type PlanRequest struct {
	Model             string
	SystemInstruction string
	UserQuery         string
	UseGoogleSearch   bool
}

// ReferenceImage is an inline image, base64 encoded.
type ReferenceImage struct {
	MimeType string `json:"mimeType" validate:"required"`
	Data     string `json:"data" validate:"required,base64"`
}

type ImageRequest struct {
	Prompt             string
	References         []ReferenceImage
	StyleId            string
	ConsistencyProfile string
	HighQuality        bool
	AspectRatio        string
}

// ImageResult holds image references: data URLs or remote URLs.
type ImageResult struct {
	Images []string
	Model  string
}

type SpeechRequest struct {
	Text  string
	Voice string
}

// SpeechResult is raw little-endian 16-bit PCM.
type SpeechResult struct {
	PCM        []byte
	SampleRate int
	Channels   int
	MimeType   string
}

type VideoRequest struct {
	Prompt         string
	Image          *ReferenceImage
	AspectRatio    string
	Resolution     string
	NumberOfVideos int
}

// VideoJob 长任务状态
type VideoJob struct {
	Name      string
	Done      bool
	VideoURI  string
	Error     string
	CreatedAt time.Time
}
