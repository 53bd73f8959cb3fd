package veo

// Request 与 Vertex AI Veo 请求结构一致，Gemini API 的 predictLongRunning 也接受
type Request struct {
	Instances  []Instance `json:"instances"`
	Parameters Parameters `json:"parameters"`
}

type Instance struct {
	Prompt string `json:"prompt"`
	Image  *Image `json:"image,omitempty"` // 可选，图生视频
}

type Image struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded,omitempty"`
	MimeType           string `json:"mimeType,omitempty"`
}

type Parameters struct {
	AspectRatio      string `json:"aspectRatio,omitempty"`
	Resolution       string `json:"resolution,omitempty"`
	NegativePrompt   string `json:"negativePrompt,omitempty"`
	PersonGeneration string `json:"personGeneration,omitempty"`
	SampleCount      int    `json:"sampleCount,omitempty"`
}

type Operation struct {
	Name     string             `json:"name"`
	Done     bool               `json:"done"`
	Error    *OperationError    `json:"error,omitempty"`
	Response *OperationResponse `json:"response,omitempty"`
}

type OperationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type OperationResponse struct {
	GenerateVideoResponse struct {
		GeneratedSamples []GeneratedSample `json:"generatedSamples"`
	} `json:"generateVideoResponse"`
}

type GeneratedSample struct {
	Video struct {
		URI string `json:"uri"`
	} `json:"video"`
}
