package service

import (
	"errors"

	"github.com/ezlinkai/campaign-studio/model"
)

var (
	ErrValidation        = errors.New("invalid campaign brief")
	ErrEmptyScript       = errors.New("script is empty")
	ErrCredentialInvalid = errors.New("primary credential rejected, re-authentication required")
	ErrPlanParse         = errors.New("malformed plan response")
	ErrVideoBusy         = model.ErrVideoBusy
	ErrShotNotRenderable = model.ErrShotNotRenderable
	ErrExportDisabled    = errors.New("R2 export is not configured")
)

const (
	MessageMissingProduct  = "Upload produk utama."
	MessageEmptyScript     = "Naskah kosong."
	MessageBridgeEmpty     = "Neural Bridge returned empty image set."
	MessageVideoFailed     = "Video generation failed. Please try again."
	MessageReauthRequired  = "API key tidak valid atau kedaluwarsa. Silakan pilih ulang API key."
	MessageNotRenderedAuth = "Not rendered: re-authentication required."
)
