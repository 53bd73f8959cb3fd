package composer

import "unicode/utf8"

type AudioStrategy string

const (
	StrategyLipsync    AudioStrategy = "lipsync"
	StrategyDubbing    AudioStrategy = "dubbing"
	StrategyNone       AudioStrategy = "none"
	StrategySelectable AudioStrategy = "selectable"
	StrategyHybridAds  AudioStrategy = "hybrid_ads"
	StrategyHybridUGC  AudioStrategy = "hybrid_ugc"
	StrategyHybridVlog AudioStrategy = "hybrid_vlog"
)

// hybrid_ugc keeps this shot silent regardless of shot count.
const ugcSilentIndex = 3

const defaultShotCount = 5

// SpeechContext is everything a speech rule may look at.
type SpeechContext struct {
	Index     int
	Count     int
	AudioType string
	Line      string
}

type SpeechRule func(SpeechContext) bool

var speechPolicy = map[AudioStrategy]SpeechRule{
	StrategyLipsync: func(SpeechContext) bool { return true },
	StrategyDubbing: func(SpeechContext) bool { return false },
	StrategyNone:    func(SpeechContext) bool { return false },
	StrategySelectable: func(c SpeechContext) bool {
		return c.AudioType == string(StrategyLipsync)
	},
	StrategyHybridAds: func(c SpeechContext) bool {
		count := c.Count
		if count <= 0 {
			count = defaultShotCount
		}
		return c.Index == 0 || c.Index == count-1
	},
	StrategyHybridUGC: func(c SpeechContext) bool {
		return c.Index != ugcSilentIndex
	},
	StrategyHybridVlog: func(c SpeechContext) bool {
		return nonTrivial(c.Line)
	},
}

// Speaks reports whether the subject of a shot lip-syncs its line.
// Unknown strategies never speak.
func Speaks(strategy AudioStrategy, c SpeechContext) bool {
	rule, ok := speechPolicy[strategy]
	if !ok {
		return false
	}
	return rule(c)
}

// OmitsNarration is true when no voice line may appear in the prompt at all.
func OmitsNarration(strategy AudioStrategy) bool {
	return strategy == StrategyNone
}

func IsKnownStrategy(strategy AudioStrategy) bool {
	_, ok := speechPolicy[strategy]
	return ok
}

func nonTrivial(line string) bool {
	return utf8.RuneCountInString(line) > 2
}
