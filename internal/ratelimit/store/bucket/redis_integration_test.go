//go:build integration

package bucket_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"coldchain/internal/ratelimit/store/bucket"
	"coldchain/pkg/testutil/containers"
)

type RedisBucketSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *bucket.Redis
}

func TestRedisBucketSuite(t *testing.T) {
	suite.Run(t, new(RedisBucketSuite))
}

func (s *RedisBucketSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = bucket.NewRedis(s.redis.Client)
}

func (s *RedisBucketSuite) SetupTest() {
	s.redis.Flush(s.T())
}

func (s *RedisBucketSuite) TestDeniesOnceLimitIsReached() {
	ctx := context.Background()
	for i := range 3 {
		res, err := s.store.Allow(ctx, "ip:10.0.0.1:auth", 3, time.Minute)
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(2-i, res.Remaining)
	}

	res, err := s.store.Allow(ctx, "ip:10.0.0.1:auth", 3, time.Minute)
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Positive(res.RetryAfter)
}

func (s *RedisBucketSuite) TestWindowExpires() {
	ctx := context.Background()
	res, err := s.store.Allow(ctx, "user:u1:write", 1, 200*time.Millisecond)
	s.Require().NoError(err)
	s.True(res.Allowed)

	res, err = s.store.Allow(ctx, "user:u1:write", 1, 200*time.Millisecond)
	s.Require().NoError(err)
	s.False(res.Allowed)

	time.Sleep(300 * time.Millisecond)
	res, err = s.store.Allow(ctx, "user:u1:write", 1, 200*time.Millisecond)
	s.Require().NoError(err)
	s.True(res.Allowed)
}
