// Package redis holds the Redis-backed caches and session store used when a
// Redis address is configured. Everything here degrades to a backing-store
// call on miss or on Redis failure.
package redis

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"learnquest-service/internal/domain"
)

// KeyLoader fetches answer keys from the backing store on cache miss.
type KeyLoader interface {
	AnswerKey(ctx context.Context, quizID int64) (domain.AnswerKey, error)
}

// AnswerKeyCache caches quiz answer keys in Redis, one hash pair per quiz:
//
//	HSET quiz:{quizID}:answers    {questionID} {letter}
//	HSET quiz:{quizID}:categories {questionID} {category}
type AnswerKeyCache struct {
	client *redis.Client
	loader KeyLoader
	ttl    time.Duration
	sf     singleflight.Group
}

func NewAnswerKeyCache(client *redis.Client, loader KeyLoader, ttl time.Duration) *AnswerKeyCache {
	return &AnswerKeyCache{
		client: client,
		loader: loader,
		ttl:    ttl,
	}
}

func (c *AnswerKeyCache) AnswerKey(ctx context.Context, quizID int64) (domain.AnswerKey, error) {
	answersKey := c.answersKey(quizID)
	categoriesKey := c.categoriesKey(quizID)

	answers, err := c.client.HGetAll(ctx, answersKey).Result()
	if err == nil && len(answers) > 0 {
		categories, _ := c.client.HGetAll(ctx, categoriesKey).Result()
		return buildKeyFromCache(quizID, answers, categories), nil
	}

	result, err, _ := c.sf.Do(strconv.FormatInt(quizID, 10), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		answers, err := c.client.HGetAll(ctx, answersKey).Result()
		if err == nil && len(answers) > 0 {
			categories, _ := c.client.HGetAll(ctx, categoriesKey).Result()
			return buildKeyFromCache(quizID, answers, categories), nil
		}

		key, err := c.loader.AnswerKey(ctx, quizID)
		if err != nil {
			return domain.AnswerKey{}, err
		}

		ttl := c.ttlWithJitter()
		pipe := c.client.Pipeline()
		for questionID, letter := range key.Correct {
			field := strconv.FormatInt(questionID, 10)
			pipe.HSet(ctx, answersKey, field, string(letter))
			if category := key.Categories[questionID]; category != "" {
				pipe.HSet(ctx, categoriesKey, field, category)
			}
		}
		if ttl > 0 {
			pipe.Expire(ctx, answersKey, ttl)
			pipe.Expire(ctx, categoriesKey, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return key, nil
	})
	if err != nil {
		return domain.AnswerKey{}, err
	}
	return result.(domain.AnswerKey), nil
}

func (c *AnswerKeyCache) answersKey(quizID int64) string {
	return "quiz:" + strconv.FormatInt(quizID, 10) + ":answers"
}

func (c *AnswerKeyCache) categoriesKey(quizID int64) string {
	return "quiz:" + strconv.FormatInt(quizID, 10) + ":categories"
}

func buildKeyFromCache(quizID int64, answers, categories map[string]string) domain.AnswerKey {
	key := domain.AnswerKey{
		QuizID:     quizID,
		Correct:    make(map[int64]domain.OptionLetter, len(answers)),
		Categories: make(map[int64]string, len(categories)),
	}
	for field, letter := range answers {
		questionID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		key.Correct[questionID] = domain.OptionLetter(letter)
		if category, ok := categories[field]; ok {
			key.Categories[questionID] = category
		}
	}
	return key
}

func (c *AnswerKeyCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
