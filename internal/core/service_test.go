package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/JonMunkholm/ordercheck/internal/config"
	"github.com/JonMunkholm/ordercheck/internal/reference"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const scenarioUpload = "A1,1,111,AR,OK\nA2,2,999,IR,Not found\nA3,3,222,XX,Some error\n"

func newTestService(t *testing.T, codes ...string) *Service {
	t.Helper()

	holder := reference.NewHolder()
	require.True(t, holder.Set(testIndex(codes...), "test"))

	cfg := &config.Config{
		Upload:  config.UploadConfig{MaxConcurrent: 2, MaxWaitTime: time.Second},
		Session: config.SessionConfig{TTL: time.Hour},
	}
	return NewService(holder, cfg)
}

func TestService_UploadAndView(t *testing.T) {
	svc := newTestService(t, "111", "222")
	sess := svc.Sessions().Create()

	summary, err := svc.Upload(context.Background(), sess, "orders.ppr", strings.NewReader(scenarioUpload))
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 3, Accepted: 1, Rejected: 1, OtherErrors: 1}, summary)

	view := svc.CurrentView(sess)
	assert.True(t, view.HasResults)
	assert.Equal(t, ModeAll, view.Mode)
	assert.Equal(t, "orders.ppr", view.FileName)
	assert.Len(t, view.Rows, 3)

	view = svc.View(sess, ModeNotAvailableOnly)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "A2", view.Rows[0].OrderRef)
	assert.Equal(t, 1, view.Rows[0].Index)
	assert.Equal(t, ModeNotAvailableOnly, svc.CurrentView(sess).Mode)
}

func TestService_UploadReplacesBatch(t *testing.T) {
	svc := newTestService(t, "111")
	sess := svc.Sessions().Create()
	ctx := context.Background()

	_, err := svc.Upload(ctx, sess, "first.ppr", strings.NewReader(scenarioUpload))
	require.NoError(t, err)
	svc.View(sess, ModeOtherErrorsOnly)

	summary, err := svc.Upload(ctx, sess, "second.ppr", strings.NewReader("B1,1,111,AR,OK\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)

	view := svc.CurrentView(sess)
	assert.Equal(t, "second.ppr", view.FileName)
	assert.Equal(t, ModeOtherErrorsOnly, view.Mode)
	assert.Empty(t, view.Rows)
}

func TestService_UploadEmptyFile(t *testing.T) {
	svc := newTestService(t, "111")
	sess := svc.Sessions().Create()

	summary, err := svc.Upload(context.Background(), sess, "blank.ppr", strings.NewReader("\r\n\n  \n"))
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
	assert.False(t, svc.CurrentView(sess).HasResults)
}

func TestService_UploadWithoutReferenceData(t *testing.T) {
	holder := reference.NewHolder()
	holder.Fail("data.json", reference.ErrDataUnavailable)
	svc := NewService(holder, &config.Config{Session: config.SessionConfig{TTL: time.Hour}})
	sess := svc.Sessions().Create()

	summary, err := svc.Upload(context.Background(), sess, "orders.ppr", strings.NewReader(scenarioUpload))
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 3, Rejected: 3}, summary)
	assert.Equal(t, reference.StateFailed, svc.ReferenceStatus().State)
}

func TestService_UploadRejectsConcurrentUploadOnSession(t *testing.T) {
	svc := newTestService(t, "111")
	sess := svc.Sessions().Create()
	require.NoError(t, sess.beginUpload())
	defer sess.endUpload()

	_, err := svc.Upload(context.Background(), sess, "orders.ppr", strings.NewReader(scenarioUpload))
	assert.ErrorIs(t, err, ErrUploadInProgress)
}

func TestService_UploadCancelled(t *testing.T) {
	svc := newTestService(t, "111")
	sess := svc.Sessions().Create()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Upload(ctx, sess, "orders.ppr", strings.NewReader(scenarioUpload))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, svc.CurrentView(sess).HasResults)
	assert.Equal(t, 0, svc.UploadLimiterStatus().Active)
}

func TestService_Export(t *testing.T) {
	svc := newTestService(t, "111", "222")
	sess := svc.Sessions().Create()

	_, err := svc.Export(sess, false)
	assert.ErrorIs(t, err, ErrNoResults)

	_, err = svc.Upload(context.Background(), sess, "orders.ppr", strings.NewReader(scenarioUpload))
	require.NoError(t, err)

	file, err := svc.Export(sess, false)
	require.NoError(t, err)
	assert.Equal(t, "orders.ppr", file.Name)
	assert.Equal(t, 3, file.Lines)
	assert.Equal(t, "A1,1,111,AR,OK\nA2,2,999,IR,Item Template not found\nA3,3,222,XX,Some error", file.Content)

	file, err = svc.Export(sess, true)
	require.NoError(t, err)
	assert.Equal(t, "orders_filtered.ppr", file.Name)
	assert.Equal(t, 2, file.Lines)
}

func TestService_CopyAndClear(t *testing.T) {
	svc := newTestService(t, "111", "222")
	sess := svc.Sessions().Create()

	_, err := svc.Copy(sess, []int{0})
	assert.ErrorIs(t, err, ErrNothingSelected)

	_, err = svc.Upload(context.Background(), sess, "orders.ppr", strings.NewReader(scenarioUpload))
	require.NoError(t, err)

	rows, err := svc.Copy(sess, []int{2, 0})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A1", rows[0].OrderRef)
	assert.Equal(t, LabelOtherError, rows[1].Status)

	svc.View(sess, ModeAvailableOnly)
	svc.Clear(sess)
	view := svc.CurrentView(sess)
	assert.False(t, view.HasResults)
	assert.Equal(t, ModeAll, view.Mode)
}

func TestService_WaitForUploads(t *testing.T) {
	svc := newTestService(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, svc.WaitForUploads(ctx))
}

func TestClientContext(t *testing.T) {
	ctx := ContextWithClient(context.Background(), "10.0.0.1", "curl/8")
	ip, ua := ClientFromContext(ctx)
	assert.Equal(t, "10.0.0.1", ip)
	assert.Equal(t, "curl/8", ua)

	ip, ua = ClientFromContext(context.Background())
	assert.Empty(t, ip)
	assert.Empty(t, ua)
}
