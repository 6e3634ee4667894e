package ctx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/ensapi/base/log"
)

type testsuite struct {
	suite.Suite
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestWithValue() {
	bg := Background()
	ctx := WithValue(bg, "foo", "bar")
	ts.Equal("bar", ctx.Value("foo"))
}

func (ts *testsuite) TestWithValues() {
	bg := Background()
	ctx := WithValues(bg, map[string]interface{}{
		"a": "b",
		"c": "d",
	})
	ts.Equal("b", ctx.Value("a"))
	ts.Equal("d", ctx.Value("c"))
}

func (ts *testsuite) TestWithFieldsKeepsValues() {
	bg := WithValue(Background(), "name", "vitalik.eth")
	ctx := WithFields(bg, log.Fields{"mode": "onchain"})
	ts.Equal("vitalik.eth", ctx.Value("name"))
	ts.Nil(ctx.Value("mode"))
}

func (ts *testsuite) TestFrom() {
	bg := WithValue(Background(), "k", "v")
	ts.Equal(bg, From(bg))

	plain := context.WithValue(context.Background(), "k", "v")
	ts.Equal("v", From(plain).Value("k"))
}

func (ts *testsuite) TestWithCancel() {
	bg := Background()
	ctx, cancel := WithCancel(bg)
	defer cancel()
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		ts.Fail("context was not cancelled")
	}
	ts.Equal(context.Canceled, ctx.Err())
}

func (ts *testsuite) TestTimeout() {
	bg := Background()
	ctx, cancel := WithTimeout(bg, 10*time.Millisecond)
	defer cancel()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		ts.Fail("context did not time out")
	}
	ts.Equal("context deadline exceeded", ctx.Err().Error())
}

func (ts *testsuite) TestZeroTimeoutHasNoDeadline() {
	ctx, cancel := WithTimeout(Background(), 0)
	defer cancel()
	_, ok := ctx.Deadline()
	ts.False(ok)
	ts.NoError(ctx.Err())
}
