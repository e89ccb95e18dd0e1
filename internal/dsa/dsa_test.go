package dsa

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_ReusesIntermediateElements(t *testing.T) {
	req := NewRequest("GetSemesterEntryScore")
	Add(req, "Condition/StudentIDList/ID", "1")
	Add(req, "Condition/StudentIDList/ID", "2")
	Add(req, "Condition/EntryGroup", "學習")

	assert.Len(t, req.FindElements("Condition"), 1)
	assert.Len(t, req.FindElements("Condition/StudentIDList"), 1)
	ids := req.FindElements("Condition/StudentIDList/ID")
	require.Len(t, ids, 2)
	assert.Equal(t, "1", ids[0].Text())
	assert.Equal(t, "2", ids[1].Text())
	assert.Equal(t, "學習", Text(req, "Condition/EntryGroup"))
}

func TestExecuteCount(t *testing.T) {
	resp, err := Parse(`<Response><ExecuteCount>12</ExecuteCount></Response>`)
	require.NoError(t, err)
	n, err := ExecuteCount(resp)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	bad, _ := Parse(`<Response><ExecuteCount>x</ExecuteCount></Response>`)
	_, err = ExecuteCount(bad)
	assert.Error(t, err)

	_, err = ExecuteCount(nil)
	assert.Error(t, err)
}

func TestTextAttrElements_NilSafe(t *testing.T) {
	assert.Equal(t, "", Text(nil, "a"))
	assert.Equal(t, "", Attr(nil, "a"))
	assert.Nil(t, Elements(nil, "a"))
}

func newEnvelopeServer(t *testing.T, status int, body string, seen *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		if seen != nil {
			*seen = string(b)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPCaller_Success(t *testing.T) {
	var seen string
	srv := newEnvelopeServer(t, http.StatusOK,
		`<Envelope><Header><Status><Code>0</Code><Message/></Status></Header><Body><Response><ExecuteCount>3</ExecuteCount></Response></Body></Envelope>`,
		&seen)

	c := NewHTTPCaller(srv.URL, "sess-1", time.Second, nil)
	req := NewRequest("DeleteRequest")
	Add(req, "SemesterEntryScore/ID", "9")

	resp, err := c.Call(context.Background(), "SmartSchool.Score.DeleteSemesterEntryScore", req)
	require.NoError(t, err)
	n, err := ExecuteCount(resp)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Contains(t, seen, "<TargetService>SmartSchool.Score.DeleteSemesterEntryScore</TargetService>")
	assert.Contains(t, seen, "<SessionID>sess-1</SessionID>")
	assert.Contains(t, seen, "<DeleteRequest><SemesterEntryScore><ID>9</ID></SemesterEntryScore></DeleteRequest>")
}

func TestHTTPCaller_ServiceError(t *testing.T) {
	srv := newEnvelopeServer(t, http.StatusOK,
		`<Envelope><Header><Status><Code>501</Code><Message>denied</Message></Status></Header><Body/></Envelope>`, nil)

	_, err := NewHTTPCaller(srv.URL, "", time.Second, nil).Call(context.Background(), "S", nil)
	var se *ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "501", se.Code)
	assert.Equal(t, "denied", se.Message)
	assert.False(t, IsTransient(err))
}

func TestHTTPCaller_5xxIsTransient(t *testing.T) {
	srv := newEnvelopeServer(t, http.StatusBadGateway, "", nil)

	_, err := NewHTTPCaller(srv.URL, "", time.Second, nil).Call(context.Background(), "S", nil)
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestHTTPCaller_4xxIsNotTransient(t *testing.T) {
	srv := newEnvelopeServer(t, http.StatusBadRequest, "", nil)

	_, err := NewHTTPCaller(srv.URL, "", time.Second, nil).Call(context.Background(), "S", nil)
	require.Error(t, err)
	assert.False(t, IsTransient(err))
}

func TestHTTPCaller_EmptyBody_ReturnsEmptyResponse(t *testing.T) {
	srv := newEnvelopeServer(t, http.StatusOK, `<Envelope><Header/><Body/></Envelope>`, nil)

	resp, err := NewHTTPCaller(srv.URL, "", time.Second, nil).Call(context.Background(), "S", nil)
	require.NoError(t, err)
	assert.Equal(t, "Response", resp.Tag)
	assert.Empty(t, resp.ChildElements())
}

func TestHTTPCaller_GarbageBody(t *testing.T) {
	srv := newEnvelopeServer(t, http.StatusOK, `not xml`, nil)

	_, err := NewHTTPCaller(srv.URL, "", time.Second, nil).Call(context.Background(), "S", nil)
	assert.Error(t, err)
}

func TestRetrying_RetriesTransientOnly(t *testing.T) {
	var calls int32
	flaky := CallerFunc(func(ctx context.Context, service string, req *etree.Element) (*etree.Element, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return nil, Transient(errors.New("connection reset"))
		}
		return etree.NewElement("Response"), nil
	})

	resp, err := WithRetry(flaky, 3, 0, nil).Call(context.Background(), "S", nil)
	require.NoError(t, err)
	assert.Equal(t, "Response", resp.Tag)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRetrying_GivesUpAfterAttempts(t *testing.T) {
	var calls int32
	down := CallerFunc(func(ctx context.Context, service string, req *etree.Element) (*etree.Element, error) {
		atomic.AddInt32(&calls, 1)
		return nil, Transient(errors.New("timeout"))
	})

	_, err := WithRetry(down, 2, 0, nil).Call(context.Background(), "S", nil)
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRetrying_DoesNotRetryServiceErrors(t *testing.T) {
	var calls int32
	c := CallerFunc(func(ctx context.Context, service string, req *etree.Element) (*etree.Element, error) {
		atomic.AddInt32(&calls, 1)
		return nil, &ServiceError{Service: service, Code: "1", Message: "bad request"}
	})

	_, err := WithRetry(c, 5, 0, nil).Call(context.Background(), "S", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRetrying_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := CallerFunc(func(ctx context.Context, service string, req *etree.Element) (*etree.Element, error) {
		cancel()
		return nil, Transient(errors.New("reset"))
	})

	_, err := WithRetry(c, 5, time.Hour, nil).Call(ctx, "S", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStubCaller_RecordsAndRoutes(t *testing.T) {
	s := NewStubCaller().Respond("A", `<Response><X>1</X></Response>`)

	resp, err := s.Call(context.Background(), "A", NewRequest("Req"))
	require.NoError(t, err)
	assert.Equal(t, "1", Text(resp, "X"))

	_, err = s.Call(context.Background(), "B", nil)
	var se *ServiceError
	assert.True(t, errors.As(err, &se))

	assert.Len(t, s.Calls(), 2)
	require.Len(t, s.CallsTo("A"), 1)
	assert.True(t, strings.HasPrefix(String(s.CallsTo("A")[0]), "<Req"))
}
