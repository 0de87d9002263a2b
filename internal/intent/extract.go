package intent

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Saumya1404/SHL/internal/utils"
)

const (
	baseConfidence    = 0.3
	perHitConfidence  = 0.2
	defaultHourMinute = 60
)

var (
	minutesPattern = regexp.MustCompile(`(\d+)\s*(minute|min|mins)`)
	hoursPattern   = regexp.MustCompile(`(\d+)\s*(hour|hr|hrs)`)
)

// Extract deterministically parses query into an Intent. It never fails:
// a query without any signal yields a minimally populated intent.
func Extract(query string) *Intent {
	text := utils.Fold(utils.NormalizeText(query))

	technical, behavioral := DetectSkills(text)

	in := &Intent{
		TechnicalSkills:    technical,
		BehavioralSkills:   behavioral,
		NeedsTechnical:     len(technical) > 0,
		NeedsBehavioral:    len(behavioral) > 0,
		MaxDurationMinutes: ParseDuration(text),
	}
	in.NeedsBalance = in.NeedsTechnical && in.NeedsBehavioral
	in.TechnicalConfidence = confidence(len(technical))
	in.BehavioralConfidence = confidence(len(behavioral))

	return in
}

// ParseDuration returns the duration ceiling in minutes expressed by query,
// or nil. Minutes win over hours; a bare "hour" means 60.
func ParseDuration(query string) *int {
	text := utils.Fold(query)

	if m := minutesPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return &n
		}
	}

	if m := hoursPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n <= math.MaxInt/60 {
			n *= 60
			return &n
		}
	}

	if strings.Contains(text, "hour") {
		n := defaultHourMinute
		return &n
	}

	return nil
}

// DetectSkills returns the technical and behavioral vocabulary terms found in
// text, in vocabulary order.
func DetectSkills(text string) (technical, behavioral []string) {
	text = utils.Fold(text)
	return matchVocabulary(text, technicalVocabulary), matchVocabulary(text, behavioralVocabulary)
}

func matchVocabulary(text string, vocabulary []string) []string {
	hits := make([]string, 0)
	for _, term := range vocabulary {
		if strings.Contains(text, term) {
			hits = append(hits, term)
		}
	}
	return normalizeTerms(hits)
}

// confidence saturates quickly so that naive keyword hits are never over-trusted.
func confidence(hits int) float64 {
	if hits <= 0 {
		return 0
	}
	return math.Min(1.0, baseConfidence+perHitConfidence*float64(hits))
}
