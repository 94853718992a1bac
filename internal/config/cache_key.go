package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// TopicProgressKey returns the key of a learner's unlock record for one topic of one course.
func (r *CacheKeyStruct) TopicProgressKey(learnerID, courseID, topicID int) string {
	return fmt.Sprintf("learner:%d:topicProgress_%d_%d", learnerID, courseID, topicID)
}

// CatalogTopicKey returns the cache key for a topic body
func (r *CacheKeyStruct) CatalogTopicKey(topicID int) string {
	return fmt.Sprintf("catalog:topic:%d", topicID)
}

// CatalogTopicListKey returns the cache key for a course's ordered topic list
func (r *CacheKeyStruct) CatalogTopicListKey(courseID int) string {
	return fmt.Sprintf("catalog:course:%d:topics", courseID)
}

// CatalogQuizKey returns the cache key for a topic's quiz
func (r *CacheKeyStruct) CatalogQuizKey(topicID int) string {
	return fmt.Sprintf("catalog:topic:%d:quiz", topicID)
}

// LearnerEventsChannel returns the Redis PubSub channel for a learner's course session events
func (r *CacheKeyStruct) LearnerEventsChannel(learnerID, courseID int) string {
	return fmt.Sprintf("learner:%d:course:%d:events", learnerID, courseID)
}

var CacheKey = NewCacheKeyStruct()
