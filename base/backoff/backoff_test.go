package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type BackoffTestSuite struct {
	suite.Suite
}

func TestBackoffTestSuite(t *testing.T) {
	suite.Run(t, new(BackoffTestSuite))
}

func (s *BackoffTestSuite) TestExponential() {
	b := NewExponential(time.Millisecond, 4*time.Millisecond)
	s.Equal(time.Millisecond, b.NextDuration)
	s.Require().NoError(b.Backoff(context.Background()))
	s.Equal(2*time.Millisecond, b.NextDuration)
	s.Require().NoError(b.Backoff(context.Background()))
	s.Equal(4*time.Millisecond, b.NextDuration)
	s.Require().NoError(b.Backoff(context.Background()))
	s.Equal(4*time.Millisecond, b.NextDuration, "capped at limit")
	s.Equal(3, b.Count())

	b.Reset()
	s.Equal(time.Millisecond, b.NextDuration)
	s.Equal(0, b.Count())
}

func (s *BackoffTestSuite) TestLinear() {
	b := NewLinear(time.Millisecond, 0)
	s.Equal(time.Millisecond, b.NextDuration)
	s.Require().NoError(b.Backoff(context.Background()))
	s.Equal(2*time.Millisecond, b.NextDuration)
}

func (s *BackoffTestSuite) TestBackoffCancelled() {
	b := NewExponential(time.Second, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.ErrorIs(b.Backoff(ctx), context.Canceled)
	s.Equal(0, b.Count())
}

func (s *BackoffTestSuite) TestRetry() {
	errTemp := errors.New("temporary")
	errFatal := errors.New("fatal")
	retryable := func(err error) bool { return errors.Is(err, errTemp) }

	tests := []struct {
		desc     string
		results  []error
		attempts int
		expCalls int
		expErr   error
	}{
		{
			desc:     "success first try",
			results:  []error{nil},
			attempts: 3,
			expCalls: 1,
		},
		{
			desc:     "success after retries",
			results:  []error{errTemp, errTemp, nil},
			attempts: 3,
			expCalls: 3,
		},
		{
			desc:     "gives up after attempts",
			results:  []error{errTemp, errTemp, errTemp, errTemp},
			attempts: 2,
			expCalls: 2,
			expErr:   errTemp,
		},
		{
			desc:     "not retryable",
			results:  []error{errFatal, nil},
			attempts: 3,
			expCalls: 1,
			expErr:   errFatal,
		},
	}
	for _, t := range tests {
		calls := 0
		err := Retry(context.Background(), NewExponential(time.Millisecond, 0), t.attempts, retryable, func() error {
			err := t.results[calls]
			calls++
			return err
		})
		s.Equal(t.expCalls, calls, t.desc)
		if t.expErr == nil {
			s.NoError(err, t.desc)
		} else {
			s.ErrorIs(err, t.expErr, t.desc)
		}
	}
}
