package config

import "fmt"

// Validate checks every recognized option against its documented range.
// The first violation is returned; an invalid config is never applied
// partially.
func (c *Config) Validate() error {
	if c.Model.Order < 1 || c.Model.Order > 4 {
		return fmt.Errorf("config: model.order %d out of range [1,4]", c.Model.Order)
	}
	if c.Ranker.Alpha < 0 || c.Ranker.Alpha > 1 {
		return fmt.Errorf("config: ranker.alpha %v out of range [0,1]", c.Ranker.Alpha)
	}
	if c.Ranker.TopN < 1 {
		return fmt.Errorf("config: ranker.topN %d must be at least 1", c.Ranker.TopN)
	}
	if c.Classifier.MinConfidence < 0 || c.Classifier.MinConfidence > 1 {
		return fmt.Errorf("config: classifier.minConfidence %v out of range [0,1]", c.Classifier.MinConfidence)
	}
	return nil
}
