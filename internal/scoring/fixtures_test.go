package scoring

import "github.com/MikeSquared-Agency/Compass/internal/assessment"

func topics(ids ...string) []assessment.Topic {
	out := make([]assessment.Topic, 0, len(ids))
	for _, id := range ids {
		out = append(out, assessment.Topic{ID: id, Label: "Topic " + id})
	}
	return out
}

func testAssessment() *assessment.Assessment {
	return &assessment.Assessment{
		ID: "ai-readiness",
		Dimensions: []assessment.Dimension{
			{ID: "strategy", Title: "Strategy", Topics: topics("s1", "s2")},
			{ID: "data", Title: "Data", Topics: topics("d1", "d2", "d3", "d4")},
		},
	}
}

func touchedAll(ratings map[string]TopicScore) Snapshot {
	touched := make(map[string]bool, len(ratings))
	for id := range ratings {
		touched[id] = true
	}
	return NewSnapshot(ratings, touched)
}
