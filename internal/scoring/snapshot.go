package scoring

// TopicScore is one participant rating on the 1-5 scale.
type TopicScore struct {
	Current float64 `json:"current" yaml:"current"`
	Target  float64 `json:"target" yaml:"target"`
}

// Normalized returns the rating with both values coerced onto the scale.
func (s TopicScore) Normalized() TopicScore {
	return TopicScore{Current: NormalizeScore(s.Current), Target: NormalizeScore(s.Target)}
}

// Snapshot is a consistent, read-only view of a participant's ratings.
// A topic counts toward an average only when it is touched and rated.
type Snapshot struct {
	Ratings map[string]TopicScore `json:"responses"`
	Touched map[string]bool       `json:"touched"`
}

// NewSnapshot copies the given maps so later caller mutations cannot leak in.
func NewSnapshot(ratings map[string]TopicScore, touched map[string]bool) Snapshot {
	r := make(map[string]TopicScore, len(ratings))
	for k, v := range ratings {
		r[k] = v
	}
	t := make(map[string]bool, len(touched))
	for k, v := range touched {
		t[k] = v
	}
	return Snapshot{Ratings: r, Touched: t}
}

// Answered reports the normalized rating for a topic if it contributes to scoring.
func (s Snapshot) Answered(topicID string) (TopicScore, bool) {
	if !s.Touched[topicID] {
		return TopicScore{}, false
	}
	score, ok := s.Ratings[topicID]
	if !ok {
		return TopicScore{}, false
	}
	return score.Normalized(), true
}
