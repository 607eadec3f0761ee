// Package assessment holds the static assessment definition tree: dimensions,
// their topics and the five level anchors participants rate against.
package assessment

// LevelCount is the number of anchors every topic carries, one per scale point.
const LevelCount = 5

type Assessment struct {
	ID          string      `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Dimensions  []Dimension `json:"dimensions" yaml:"dimensions"`
}

type Dimension struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Topics      []Topic `json:"topics" yaml:"topics"`
}

type Topic struct {
	ID     string   `json:"id" yaml:"id"`
	Label  string   `json:"label" yaml:"label"`
	Prompt string   `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Levels []string `json:"levels" yaml:"levels"`
}

// TopicCount returns the number of topics across all dimensions.
func (a *Assessment) TopicCount() int {
	n := 0
	for _, d := range a.Dimensions {
		n += len(d.Topics)
	}
	return n
}

// Dimension looks up a dimension by id.
func (a *Assessment) Dimension(id string) (Dimension, bool) {
	for _, d := range a.Dimensions {
		if d.ID == id {
			return d, true
		}
	}
	return Dimension{}, false
}

// DimensionOf returns the dimension that owns the given topic.
func (a *Assessment) DimensionOf(topicID string) (Dimension, bool) {
	for _, d := range a.Dimensions {
		for _, t := range d.Topics {
			if t.ID == topicID {
				return d, true
			}
		}
	}
	return Dimension{}, false
}
