/*Package metrics wraps datadog-go to faciliate metric recording
Following are naming convention of metric:
- Internal process time: *.time
- External latency: *.latency
- Error: *.err
- Warning: *.warn
*/
package metrics

import (
	"strings"

	"github.com/spf13/viper"
	"github.com/x-xyz/ensapi/base/env"
)

const (
	// TagValueNA is used for tags whose values are not available.
	TagValueNA = "n/a"

	sampleRate = 1.0
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

// Option is functional parameter for metrics option
type Option func(*opt)

type opt struct {
	// default: true
	withPodName bool
}

// WithoutPodName drops the pod tag, it produces a custom metric per pod
func WithoutPodName() Option {
	return func(o *opt) {
		o.withPodName = false
	}
}

// New creates a metric client with package name as prefix
func New(pkgName string, options ...Option) Service {
	o := opt{
		withPodName: true,
	}
	for _, option := range options {
		option(&o)
	}

	// "host:" removes the host tag datadog attaches by default
	ddTags := []string{"host:"}
	if o.withPodName {
		ddTags = append(ddTags, "pod:"+env.PodName())
	}
	ddTags = append(ddTags,
		"env:"+orEnv(viper.GetString("env_name"), env.EnvName),
		"app:"+orEnv(viper.GetString("app_name"), env.AppName),
	)

	return &Metrics{
		pkgName: pkgName,
		datadog: DDMetrics{
			ddTags: ddTags,
		},
	}
}

// orEnv falls back to the pod environment when the config leaves a tag empty
func orEnv(val string, fallback func() string) string {
	if val != "" {
		return val
	}
	return fallback()
}

// Metrics prefixes every key with the package name. A panic while bumping
// is counted and swallowed.
type Metrics struct {
	pkgName string
	datadog DDMetrics
}

func (mt *Metrics) key(key string) string {
	return mt.pkgName + `.` + key
}

func (mt *Metrics) bumpSumPanic(key string, tags []string) {
	mt.datadog.BumpSum(key, 1, 1, "tag", mt.key("")+"#"+strings.Join(tags, "#"))
}

// BumpAvg bumps the average for the given key.
func (mt *Metrics) BumpAvg(key string, val float64, tags ...string) {
	defer func() {
		if err := recover(); err != nil {
			mt.bumpSumPanic("bumpavg.panic", tags)
		}
	}()
	mt.datadog.BumpAvg(mt.key(key), val, sampleRate, tags...)
}

// BumpSum bumps the sum for the given key.
func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	defer func() {
		if err := recover(); err != nil {
			mt.bumpSumPanic("bumpsum.panic", tags)
		}
	}()
	mt.datadog.BumpSum(mt.key(key), val, sampleRate, tags...)
}

// BumpHistogram bumps the histogram for the given key.
func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	defer func() {
		if err := recover(); err != nil {
			mt.bumpSumPanic("bumphistogram.panic", tags)
		}
	}()
	mt.datadog.BumpHistogram(mt.key(key), val, sampleRate, tags...)
}

// BumpTime is a special version of BumpHistogram which is specialized for
// timers. A convenient way of recording the duration of a function is:
//
//     defer s.BumpTime("my.function").End()
func (mt *Metrics) BumpTime(key string, tags ...string) Ender {
	return &timeTracker{
		ddEnd: mt.datadog.BumpTime(mt.key(key), sampleRate, tags...),
		panicHandler: func() {
			mt.bumpSumPanic("bumptime.panic", tags)
		},
	}
}

type timeTracker struct {
	ddEnd        Ender
	panicHandler func()
}

func (t *timeTracker) End() {
	defer func() {
		if err := recover(); err != nil {
			t.panicHandler()
		}
	}()
	t.ddEnd.End()
}

type nop struct{}

type nopEnder struct{}

func (nopEnder) End() {}

// NewNop returns a Service that records nothing
func NewNop() Service {
	return nop{}
}

func (nop) BumpAvg(key string, val float64, tags ...string)       {}
func (nop) BumpSum(key string, val float64, tags ...string)       {}
func (nop) BumpHistogram(key string, val float64, tags ...string) {}
func (nop) BumpTime(key string, tags ...string) Ender             { return nopEnder{} }
