package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ezlinkai/campaign-studio/common"
	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/common/helper"
	"github.com/ezlinkai/campaign-studio/common/image"
	"github.com/ezlinkai/campaign-studio/common/logger"
	"github.com/ezlinkai/campaign-studio/composer"
	"github.com/ezlinkai/campaign-studio/model"
	"github.com/ezlinkai/campaign-studio/monitor"
	"github.com/ezlinkai/campaign-studio/relay/channel"
	relaymodel "github.com/ezlinkai/campaign-studio/relay/model"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// RunOptions carries per-session settings that are not part of the brief.
type RunOptions struct {
	BridgeToken string
	RequestId   string
}

// ValidateBrief checks the brief against its style before any provider call.
func ValidateBrief(brief *model.CampaignBrief) (*config.ContentStyle, error) {
	if brief == nil {
		return nil, errors.Wrap(ErrValidation, "brief is required")
	}
	if err := validate.Struct(brief); err != nil {
		return nil, errors.Wrap(ErrValidation, err.Error())
	}
	style, ok := config.GetStyle(brief.Style)
	if !ok {
		return nil, errors.Wrapf(ErrValidation, "unknown style %q", brief.Style)
	}
	if style.RequiresInput(config.InputProductImage) && brief.ProductImage == nil {
		return nil, errors.Wrap(ErrValidation, MessageMissingProduct)
	}
	if style.RequiresInput(config.InputModelImage) && brief.ModelImage == nil && strings.TrimSpace(brief.ModelPrompt) == "" {
		return nil, errors.Wrap(ErrValidation, "Upload foto model atau isi deskripsi model.")
	}
	if style.RequiresInput(config.InputBackgroundImage) && brief.BackgroundImage == nil && strings.TrimSpace(brief.BackgroundPrompt) == "" {
		return nil, errors.Wrap(ErrValidation, "Upload background atau isi deskripsi background.")
	}
	if style.RequiresInput(config.InputOutfitBatch) && countImages(brief.OutfitImages) == 0 {
		return nil, errors.Wrap(ErrValidation, "Upload minimal satu outfit.")
	}
	if style.RequiresInput(config.InputRealEstateBatch) && countImages(brief.LocationImages) == 0 {
		return nil, errors.Wrap(ErrValidation, "Upload minimal satu foto ruangan.")
	}
	for name, f := range briefImages(brief) {
		if _, _, _, err := image.DecodeBase64Config(f.Data); err != nil {
			return nil, errors.Wrapf(ErrValidation, "%s is not a valid image: %s", name, err.Error())
		}
	}
	return style, nil
}

func countImages(files []*model.FileData) int {
	n := 0
	for _, f := range files {
		if f != nil && f.Data != "" {
			n++
		}
	}
	return n
}

func briefImages(brief *model.CampaignBrief) map[string]*model.FileData {
	images := map[string]*model.FileData{}
	add := func(name string, f *model.FileData) {
		if f != nil && f.Data != "" {
			images[name] = f
		}
	}
	add("product_image", brief.ProductImage)
	add("model_image", brief.ModelImage)
	add("background_image", brief.BackgroundImage)
	for i, f := range brief.OutfitImages {
		add(fmt.Sprintf("outfit_images[%d]", i), f)
	}
	for i, f := range brief.LocationImages {
		add(fmt.Sprintf("location_images[%d]", i), f)
	}
	return images
}

// references 参考图顺序固定：产品在前，模特在后
func references(brief *model.CampaignBrief) []relaymodel.ReferenceImage {
	refs := make([]relaymodel.ReferenceImage, 0, 2)
	for _, f := range []*model.FileData{brief.ProductImage, brief.ModelImage} {
		if f != nil && f.Data != "" {
			refs = append(refs, relaymodel.ReferenceImage{MimeType: f.MimeType, Data: f.Data})
		}
	}
	return refs
}

func (s *Studio) prepare(brief *model.CampaignBrief, opts RunOptions) (*config.ContentStyle, *model.CampaignBrief, error) {
	style, err := ValidateBrief(brief)
	if err != nil {
		return nil, nil, err
	}
	if opts.BridgeToken == "" && s.Credentials.Key() == "" {
		return nil, nil, ErrCredentialInvalid
	}
	working := &model.CampaignBrief{}
	if err := copier.CopyWithOption(working, brief, copier.Option{DeepCopy: true}); err != nil {
		return nil, nil, err
	}
	if working.AudioType == "" {
		working.AudioType = style.DefaultAudioType()
	}
	return style, working, nil
}

// StartCampaign validates the brief, begins a run and executes it in the
// background. It returns the run generation.
func (s *Studio) StartCampaign(ctx context.Context, brief *model.CampaignBrief, opts RunOptions) (uint64, error) {
	style, working, err := s.prepare(brief, opts)
	if err != nil {
		return 0, err
	}
	gen := s.Store.BeginRun(working)
	runCtx := context.WithValue(context.Background(), logger.RequestIdKey, opts.RequestId)
	runCtx = logger.WithRun(runCtx, int64(gen))
	common.CampaignCtxGo(runCtx, func() {
		_ = s.run(runCtx, gen, style, working, opts)
	})
	return gen, nil
}

// RunCampaign is the synchronous form of StartCampaign.
func (s *Studio) RunCampaign(ctx context.Context, brief *model.CampaignBrief, opts RunOptions) (uint64, error) {
	style, working, err := s.prepare(brief, opts)
	if err != nil {
		return 0, err
	}
	gen := s.Store.BeginRun(working)
	ctx = logger.WithRun(ctx, int64(gen))
	return gen, s.run(ctx, gen, style, working, opts)
}

type runStats struct {
	started   time.Time
	provider  string
	shots     int
	succeeded int
	failed    int
}

func (s *Studio) run(ctx context.Context, gen uint64, style *config.ContentStyle, brief *model.CampaignBrief, opts RunOptions) error {
	stats := &runStats{started: time.Now(), provider: s.Primary.GetChannelName()}
	var bridgeAdaptor channel.ImageAdaptor
	if opts.BridgeToken != "" && s.Bridge != nil {
		bridgeAdaptor = s.Bridge(opts.BridgeToken)
		stats.provider = bridgeAdaptor.GetChannelName()
	}

	defer monitor.JobStarted()()

	_ = s.Store.SetPhase(gen, model.PhasePlanning, "Merancang Strategi...")
	planStarted := time.Now()
	plan, err := s.plan(ctx, style, brief)
	monitor.RecordAttempt(monitor.KindPlan, time.Since(planStarted), err == nil, relaymodel.IsCredentialInvalid(err))
	if err != nil {
		logger.Error(ctx, "planning failed: "+err.Error())
		phase := model.PhaseError
		if relaymodel.IsCredentialInvalid(err) {
			s.Credentials.Invalidate(s.Planner.GetChannelName(), err.Error())
			phase = model.PhaseAuthRequired
			err = errors.Wrap(ErrCredentialInvalid, err.Error())
		}
		_ = s.Store.SetError(gen, "Gagal: "+errorMessage(err))
		_ = s.Store.SetPhase(gen, phase, "")
		s.recordRun(ctx, gen, brief, stats, string(phase), err.Error(), "")
		return err
	}

	n := plan.ShotCount()
	stats.shots = n
	shots := make([]model.Shot, n)
	for i := 0; i < n; i++ {
		in := composer.Input{
			VisualPrompt: plan.ShotPrompt(i),
			ScriptLine:   plan.ShotScript(i),
			StyleId:      style.Id,
			ShotIndex:    i,
			ShotCount:    n,
			AudioType:    brief.AudioType,
			Tone:         brief.Tone,
		}
		prompts := map[string]string{}
		for p, v := range composer.ResolveAll(in, plan.PlatformPrompt(i)) {
			prompts[string(p)] = v
		}
		shots[i] = model.NewLoadingShot(i+1, plan.ShotPrompt(i), plan.ShotScript(i), prompts)
		shots[i].FlowLabel = style.FlowLabel(i)
	}
	metadata := model.Metadata{
		Title:         plan.Title(),
		Hashtags:      plan.Hashtags(),
		ScriptOutline: plan.SeedScript(),
	}
	profile := string(plan.ConsistencyProfile)
	if err = s.Store.ApplyPlan(gen, metadata, profile, metadata.ScriptOutline, shots); err != nil {
		return err
	}
	logger.Infof(ctx, "plan accepted: %d shots, title %q", n, metadata.Title)

	if n == 0 {
		_ = s.Store.SetPhase(gen, model.PhaseDone, "")
		s.recordRun(ctx, gen, brief, stats, string(model.PhaseDone), "", metadata.Title)
		return nil
	}
	_ = s.Store.SetPhase(gen, model.PhaseRendering, "Rendering Visual...")

	refs := references(brief)
	for i := 0; i < n; i++ {
		if !s.Store.IsActive(gen) {
			logger.Info(ctx, "run superseded, stop rendering")
			return model.ErrStaleRun
		}
		started := time.Now()
		request := &relaymodel.ImageRequest{
			Prompt:             shots[i].VisualPrompt,
			StyleId:            style.Id,
			ConsistencyProfile: profile,
			HighQuality:        brief.HighQuality,
			AspectRatio:        config.AspectRatio,
		}
		var imageURL string
		if bridgeAdaptor != nil {
			logger.Infof(ctx, "Requesting Neural Asset %d/%d...", i+1, n)
			imageURL, err = s.bridgeImage(ctx, bridgeAdaptor, request)
		} else {
			request.References = refs
			imageURL, err = s.primaryImage(ctx, request)
		}
		if !s.Store.IsActive(gen) {
			return model.ErrStaleRun
		}

		if err != nil && bridgeAdaptor == nil && relaymodel.IsCredentialInvalid(err) {
			logger.Error(ctx, fmt.Sprintf("shot %d: primary credential rejected, abort pass", i+1))
			stats.failed++
			// provider message is kept in the shot log
			s.recordShot(ctx, gen, i, stats.provider, err, started)
			for j := i; j < n; j++ {
				_ = s.Store.SetShotRender(gen, j, model.RenderFailed{Message: MessageNotRenderedAuth})
			}
			s.Credentials.Invalidate(s.Primary.GetChannelName(), err.Error())
			_ = s.Store.SetError(gen, MessageReauthRequired)
			_ = s.Store.SetPhase(gen, model.PhaseAuthRequired, "")
			s.recordRun(ctx, gen, brief, stats, string(model.PhaseAuthRequired), err.Error(), metadata.Title)
			return errors.Wrap(ErrCredentialInvalid, err.Error())
		}

		if err != nil {
			logger.Warn(ctx, fmt.Sprintf("shot %d failed: %s", i+1, err.Error()))
			stats.failed++
			_ = s.Store.SetShotRender(gen, i, model.RenderFailed{Message: errorMessage(err)})
			s.recordShot(ctx, gen, i, stats.provider, err, started)
		} else {
			stats.succeeded++
			_ = s.Store.SetShotRender(gen, i, model.RenderSuccess{Image: imageURL})
			s.recordShot(ctx, gen, i, stats.provider, nil, started)
		}
		_ = s.Store.SetPhase(gen, model.PhaseRendering, fmt.Sprintf("Shot %d/%d Selesai...", i+1, n))
	}

	_ = s.Store.SetPhase(gen, model.PhaseDone, "")
	s.recordRun(ctx, gen, brief, stats, string(model.PhaseDone), "", metadata.Title)
	logger.Infof(ctx, "run finished: %d succeeded, %d failed", stats.succeeded, stats.failed)
	return nil
}

func (s *Studio) plan(ctx context.Context, style *config.ContentStyle, brief *model.CampaignBrief) (*relaymodel.CreativePlan, error) {
	instruction := composer.BuildPlanInstruction(composer.PlanBrief{
		Topic:            brief.Topic,
		StyleId:          style.Id,
		Language:         brief.Language,
		Tone:             brief.Tone,
		ShotCount:        composer.ShotCountHint(style, countImages(brief.OutfitImages), countImages(brief.LocationImages)),
		ModelPrompt:      brief.ModelPrompt,
		BackgroundPrompt: brief.BackgroundPrompt,
		AudioType:        brief.AudioType,
	})
	text, err := s.Planner.CreatePlan(ctx, &relaymodel.PlanRequest{
		SystemInstruction: instruction.SystemInstruction,
		UserQuery:         instruction.UserQuery,
		UseGoogleSearch:   instruction.UseGoogleSearch,
	})
	if err != nil {
		return nil, err
	}
	plan, err := relaymodel.ParsePlan(text)
	if err != nil {
		return nil, errors.Wrap(ErrPlanParse, err.Error())
	}
	return plan, nil
}

func (s *Studio) bridgeImage(ctx context.Context, adaptor channel.ImageAdaptor, request *relaymodel.ImageRequest) (string, error) {
	result, err := adaptor.GenerateImage(ctx, request)
	if err != nil {
		return "", err
	}
	if len(result.Images) == 0 {
		return "", errors.New(MessageBridgeEmpty)
	}
	return result.Images[0], nil
}

func (s *Studio) primaryImage(ctx context.Context, request *relaymodel.ImageRequest) (string, error) {
	result, err := s.Primary.GenerateImage(ctx, request)
	if err != nil {
		return "", err
	}
	if len(result.Images) == 0 {
		return "", errors.New("Gagal render gambar.")
	}
	return result.Images[0], nil
}

// errorMessage 优先返回 provider 原始错误信息
func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	if pe, ok := relaymodel.AsProviderError(err); ok && pe.Message != "" {
		return pe.Message
	}
	if errors.Is(err, ErrPlanParse) {
		return "respons rencana tidak valid"
	}
	return err.Error()
}

func (s *Studio) recordRun(ctx context.Context, gen uint64, brief *model.CampaignBrief, stats *runStats, status string, message string, title string) {
	monitor.RecordRun()
	requestId, _ := ctx.Value(logger.RequestIdKey).(string)
	model.RecordRunLog(ctx, &model.RunLog{
		RequestId:   requestId,
		Run:         gen,
		Style:       brief.Style,
		Language:    brief.Language,
		Status:      status,
		ShotCount:   stats.shots,
		Succeeded:   stats.succeeded,
		Failed:      stats.failed,
		Title:       title,
		Message:     helper.Truncate(message, 1000),
		Duration:    time.Since(stats.started).Seconds(),
		Provider:    stats.provider,
		HighQuality: brief.HighQuality,
	})
}

func (s *Studio) recordShot(ctx context.Context, gen uint64, index int, provider string, err error, started time.Time) {
	monitor.RecordAttempt(monitor.KindImage, time.Since(started), err == nil, relaymodel.IsCredentialInvalid(err))
	status, message := "success", ""
	if err != nil {
		status, message = "failed", errorMessage(err)
	}
	model.RecordShotLog(ctx, &model.ShotLog{
		Run:      gen,
		Kind:     model.ShotLogKindImage,
		Index:    index,
		Provider: provider,
		Status:   status,
		Message:  helper.Truncate(message, 1000),
		Duration: time.Since(started).Seconds(),
	})
}
