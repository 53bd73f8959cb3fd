package monitor

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/common/logger"
)

// 生成任务种类，对应 CloudWatch 的 Kind 维度
const (
	KindPlan      = "plan"
	KindImage     = "image"
	KindVideo     = "video"
	KindNarration = "narration"
)

// attemptStats 单个种类在一个上报周期内的统计
type attemptStats struct {
	SuccessLatencies []float64
	FailureLatencies []float64
	AuthFailures     int64
}

// metricBuffer 上报周期内的缓冲区
type metricBuffer struct {
	kinds     map[string]*attemptStats
	runs      int64
	maxActive int64
	mutex     sync.Mutex
}

func newMetricBuffer() *metricBuffer {
	return &metricBuffer{kinds: map[string]*attemptStats{}}
}

func (b *metricBuffer) stats(kind string) *attemptStats {
	s, ok := b.kinds[kind]
	if !ok {
		s = &attemptStats{}
		b.kinds[kind] = s
	}
	return s
}

type MetricsReporter struct {
	client           *cloudwatch.Client
	namespace        string
	buffer           *metricBuffer
	goroutineSamples []int
	sampleMutex      sync.Mutex
	activeJobs       int64
	flushTicker      *time.Ticker
	sampleTicker     *time.Ticker
	ctx              context.Context
	cancel           context.CancelFunc
}

var globalReporter *MetricsReporter
var reporterMutex sync.Mutex

// StartMetricsReporter 启动生成指标上报，未开启时直接返回
func StartMetricsReporter(ctx context.Context) error {
	if !config.CloudWatchEnabled {
		return nil
	}
	reporterMutex.Lock()
	defer reporterMutex.Unlock()
	if globalReporter != nil {
		return fmt.Errorf("metrics reporter already started")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.CloudWatchRegion))
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}
	reporterCtx, cancel := context.WithCancel(ctx)
	reporter := &MetricsReporter{
		client:       cloudwatch.NewFromConfig(cfg),
		namespace:    config.CloudWatchNamespace,
		buffer:       newMetricBuffer(),
		flushTicker:  time.NewTicker(time.Duration(config.CloudWatchFlushInterval) * time.Second),
		sampleTicker: time.NewTicker(time.Duration(config.CloudWatchSampleInterval) * time.Second),
		ctx:          reporterCtx,
		cancel:       cancel,
	}
	globalReporter = reporter
	go reporter.flushLoop()
	go reporter.sampleLoop()

	logger.SysLog(fmt.Sprintf("metrics reporter started (namespace: %s, region: %s, flush: %ds)",
		config.CloudWatchNamespace, config.CloudWatchRegion, config.CloudWatchFlushInterval))
	return nil
}

func StopMetricsReporter() {
	reporterMutex.Lock()
	defer reporterMutex.Unlock()
	if globalReporter == nil {
		return
	}
	globalReporter.cancel()
	globalReporter.flushTicker.Stop()
	globalReporter.sampleTicker.Stop()
	globalReporter.flush(context.Background())
	globalReporter = nil
	logger.SysLog("metrics reporter stopped")
}

func currentReporter() *MetricsReporter {
	reporterMutex.Lock()
	defer reporterMutex.Unlock()
	return globalReporter
}

// RecordAttempt 记录一次 provider 调用的结果和耗时
func RecordAttempt(kind string, latency time.Duration, success bool, authFailure bool) {
	if r := currentReporter(); r != nil {
		r.buffer.record(kind, latency, success, authFailure)
	}
}

// RecordRun 记录一次完整的生成批次
func RecordRun() {
	if r := currentReporter(); r != nil {
		r.buffer.mutex.Lock()
		r.buffer.runs++
		r.buffer.mutex.Unlock()
	}
}

// JobStarted 返回在任务结束时调用的函数，用于统计并发的后台任务
func JobStarted() func() {
	r := currentReporter()
	if r == nil {
		return func() {}
	}
	current := atomic.AddInt64(&r.activeJobs, 1)
	r.buffer.mutex.Lock()
	if current > r.buffer.maxActive {
		r.buffer.maxActive = current
	}
	r.buffer.mutex.Unlock()
	return func() {
		atomic.AddInt64(&r.activeJobs, -1)
	}
}

func (b *metricBuffer) record(kind string, latency time.Duration, success bool, authFailure bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	s := b.stats(kind)
	ms := float64(latency.Milliseconds())
	if success {
		s.SuccessLatencies = append(s.SuccessLatencies, ms)
	} else {
		s.FailureLatencies = append(s.FailureLatencies, ms)
	}
	if authFailure {
		s.AuthFailures++
	}
}

func (r *MetricsReporter) sampleLoop() {
	r.sample()
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-r.sampleTicker.C:
			r.sample()
		}
	}
}

func (r *MetricsReporter) sample() {
	r.sampleMutex.Lock()
	r.goroutineSamples = append(r.goroutineSamples, runtime.NumGoroutine())
	r.sampleMutex.Unlock()
}

func (r *MetricsReporter) flushLoop() {
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-r.flushTicker.C:
			r.flush(r.ctx)
		}
	}
}

func (r *MetricsReporter) flush(ctx context.Context) {
	r.buffer.mutex.Lock()
	data := r.buffer
	r.buffer = newMetricBuffer()
	r.buffer.mutex.Unlock()

	r.sampleMutex.Lock()
	samples := r.goroutineSamples
	r.goroutineSamples = nil
	r.sampleMutex.Unlock()

	metricData := buildMetricData(data, samples, time.Now())
	if len(metricData) > 0 {
		r.sendMetrics(ctx, metricData)
	}
}

func kindDimension(kind string) []types.Dimension {
	return []types.Dimension{{Name: aws.String("Kind"), Value: aws.String(kind)}}
}

func datum(name string, value float64, unit types.StandardUnit, ts *time.Time, dims []types.Dimension) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  ts,
		Dimensions: dims,
	}
}

// buildMetricData 把一个周期的缓冲区转换成 CloudWatch 指标
func buildMetricData(data *metricBuffer, goroutines []int, now time.Time) []types.MetricDatum {
	ts := aws.Time(now)
	var out []types.MetricDatum

	kinds := make([]string, 0, len(data.kinds))
	for kind := range data.kinds {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		s := data.kinds[kind]
		dims := kindDimension(kind)
		total := len(s.SuccessLatencies) + len(s.FailureLatencies)
		if total == 0 {
			continue
		}
		out = append(out, datum("Attempts", float64(total), types.StandardUnitCount, ts, dims))
		out = append(out, datum("FailureRate", float64(len(s.FailureLatencies))/float64(total)*100, types.StandardUnitPercent, ts, dims))
		out = append(out, latencyMetrics("SuccessLatency", s.SuccessLatencies, ts, dims)...)
		out = append(out, latencyMetrics("FailureLatency", s.FailureLatencies, ts, dims)...)
		if s.AuthFailures > 0 {
			out = append(out, datum("CredentialFailures", float64(s.AuthFailures), types.StandardUnitCount, ts, dims))
		}
	}
	if data.runs > 0 {
		out = append(out, datum("Runs", float64(data.runs), types.StandardUnitCount, ts, nil))
	}
	if data.maxActive > 0 {
		out = append(out, datum("MaxActiveJobs", float64(data.maxActive), types.StandardUnitCount, ts, nil))
	}
	if len(goroutines) > 0 {
		avg, max := calculateStats(goroutines)
		out = append(out,
			datum("GoroutineCount", avg, types.StandardUnitCount, ts, nil),
			datum("MaxGoroutineCount", max, types.StandardUnitCount, ts, nil),
		)
	}
	return out
}

// latencyMetrics 平均值、P50、P95 与最大值
func latencyMetrics(name string, latencies []float64, ts *time.Time, dims []types.Dimension) []types.MetricDatum {
	if len(latencies) == 0 {
		return nil
	}
	sorted := make([]float64, len(latencies))
	copy(sorted, latencies)
	sort.Float64s(sorted)
	return []types.MetricDatum{
		datum(name+"Avg", calculateAverage(sorted), types.StandardUnitMilliseconds, ts, dims),
		datum(name+"P50", calculatePercentile(sorted, 0.50), types.StandardUnitMilliseconds, ts, dims),
		datum(name+"P95", calculatePercentile(sorted, 0.95), types.StandardUnitMilliseconds, ts, dims),
		datum(name+"Max", sorted[len(sorted)-1], types.StandardUnitMilliseconds, ts, dims),
	}
}

// sendMetrics 分批发送，每次最多 1000 个
func (r *MetricsReporter) sendMetrics(ctx context.Context, metricData []types.MetricDatum) {
	const maxMetricsPerRequest = 1000
	for i := 0; i < len(metricData); i += maxMetricsPerRequest {
		end := i + maxMetricsPerRequest
		if end > len(metricData) {
			end = len(metricData)
		}
		_, err := r.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(r.namespace),
			MetricData: metricData[i:end],
		})
		if err != nil {
			logger.SysError("failed to send metrics: " + err.Error())
		}
	}
}

func calculateAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func calculatePercentile(sortedValues []float64, percentile float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	index := int(float64(len(sortedValues)) * percentile)
	if index >= len(sortedValues) {
		index = len(sortedValues) - 1
	}
	return sortedValues[index]
}

func calculateStats(values []int) (avg float64, max float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0
	maxVal := values[0]
	for _, v := range values {
		sum += v
		if v > maxVal {
			maxVal = v
		}
	}
	return float64(sum) / float64(len(values)), float64(maxVal)
}
