package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type fakeIndex struct {
	exists bool
	err    error
	name   string
}

func (f *fakeIndex) IndexExists(_ context.Context, name string) (bool, error) {
	f.name = name
	return f.exists, f.err
}

type embedCheck func(ctx context.Context) error

func (f embedCheck) HealthCheck(ctx context.Context) error { return f(ctx) }

func up(context.Context) error { return nil }

func TestCheck_AllHealthy(t *testing.T) {
	idx := &fakeIndex{exists: true}
	r := New(pingFunc(up), embedCheck(up)).WithIndex(idx, "products").Check(context.Background())

	assert.Equal(t, Healthy, r.Status)
	assert.Equal(t, map[string]CheckResult{
		CheckDatabase: CheckOK, CheckIndex: CheckOK, CheckEmbedding: CheckOK,
	}, r.Checks)
	assert.Equal(t, "products", idx.name)
}

func TestCheck_DatabaseDownSkipsOtherProbes(t *testing.T) {
	idx := &fakeIndex{exists: true}
	down := pingFunc(func(context.Context) error { return errors.New("conn refused") })
	r := New(down, embedCheck(up)).WithIndex(idx, "products").Check(context.Background())

	assert.Equal(t, Unhealthy, r.Status)
	assert.Equal(t, map[string]CheckResult{CheckDatabase: CheckError}, r.Checks)
	assert.Empty(t, idx.name, "index must not be probed")
}

func TestCheck_Degraded(t *testing.T) {
	tests := []struct {
		name      string
		idx       *fakeIndex
		embedding embedCheck
		check     string
		want      CheckResult
	}{
		{"index missing", &fakeIndex{}, embedCheck(up), CheckIndex, CheckMissing},
		{"index error", &fakeIndex{err: errors.New("ft.info failed")}, embedCheck(up), CheckIndex, CheckError},
		{
			"embedding down", &fakeIndex{exists: true},
			embedCheck(func(context.Context) error { return errors.New("401") }), CheckEmbedding, CheckError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(pingFunc(up), tt.embedding).WithIndex(tt.idx, "products").Check(context.Background())
			assert.Equal(t, Degraded, r.Status)
			assert.Equal(t, tt.want, r.Checks[tt.check])
		})
	}
}

func TestCheck_SlowProbeTimesOut(t *testing.T) {
	slow := embedCheck(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	r := New(pingFunc(up), slow).WithTimeout(20 * time.Millisecond).Check(context.Background())

	assert.Equal(t, Degraded, r.Status)
	assert.Equal(t, CheckTimeout, r.Checks[CheckEmbedding])
}

func TestCheck_OnlyDatabase(t *testing.T) {
	r := New(pingFunc(up), nil).Check(context.Background())
	assert.Equal(t, Healthy, r.Status)
	assert.Len(t, r.Checks, 1)
}
