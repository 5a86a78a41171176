package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ec429/hbuilder/internal/bomber"
	"github.com/ec429/hbuilder/internal/catalog"
	"github.com/ec429/hbuilder/internal/catalog/catalogtest"
	"github.com/ec429/hbuilder/internal/record"
	"github.com/ec429/hbuilder/internal/tech"
)

type fixture struct {
	cat  *catalog.Catalog
	srv  *Server
	http *httptest.Server
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cat := catalogtest.New(t)
	srv := New(cat, Options{Logger: zaptest.NewLogger(t)})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return fixture{cat: cat, srv: srv, http: ts}
}

func (f fixture) records(t *testing.T) (fresh, mark string) {
	t.Helper()
	av, _ := f.cat.Manufacturer("AV")
	merl, _ := f.cat.Engine("MERL")
	b := bomber.Init(av, merl)
	m, err := bomber.NewRefit(b, tech.Mark)
	require.NoError(t, err)
	m.Tanks.HLB = 20
	var fb, mb bytes.Buffer
	require.NoError(t, record.Save(&fb, b))
	require.NoError(t, record.Save(&mb, m))
	return fb.String(), mb.String()
}

func (f fixture) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, f.http.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func TestCalcEndpoint(t *testing.T) {
	f := newFixture(t)
	fresh, mark := f.records(t)

	code, body := f.do(t, http.MethodPost, "/calc", fresh)
	require.Equal(t, http.StatusOK, code, string(body))
	var res Result
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "Fresh", res.Refit)
	assert.False(t, res.HasError, res.Diagnostics)
	assert.Greater(t, res.Gross, res.Tare)
	assert.Len(t, res.Turrets.Coverage, int(catalog.CoverCount))

	code, _ = f.do(t, http.MethodPost, "/calc", "MAN=AV\n")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = f.do(t, http.MethodPost, "/calc", mark)
	assert.Equal(t, http.StatusUnprocessableEntity, code, string(body))

	code, _ = f.do(t, http.MethodPost, "/calc?parent=Nobody", mark)
	assert.Equal(t, http.StatusNotFound, code)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.srv.metrics.Calculations.WithLabelValues("ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(f.srv.metrics.Calculations.WithLabelValues("failed")))
}

func TestDesignsAndLineage(t *testing.T) {
	f := newFixture(t)
	fresh, mark := f.records(t)

	code, body := f.do(t, http.MethodPut, "/designs/Manchester", fresh)
	require.Equal(t, http.StatusNoContent, code, string(body))
	code, _ = f.do(t, http.MethodPut, "/designs/Lancaster?parent=Manchester", mark)
	require.Equal(t, http.StatusNoContent, code)
	code, _ = f.do(t, http.MethodPut, "/designs/Orphan?parent=Nobody", mark)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = f.do(t, http.MethodPut, "/designs/Junk", "garbage")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = f.do(t, http.MethodGet, "/designs", "")
	require.Equal(t, http.StatusOK, code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Lancaster", list[0]["name"])
	assert.Equal(t, "Manchester", list[0]["parent"])

	code, body = f.do(t, http.MethodPost, "/calc?parent=Manchester", mark)
	require.Equal(t, http.StatusOK, code, string(body))
	var res Result
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "Mark", res.Refit)

	code, _ = f.do(t, http.MethodDelete, "/designs/Manchester", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	code, _ = f.do(t, http.MethodDelete, "/designs/Lancaster", "")
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = f.do(t, http.MethodGet, "/designs/Lancaster", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestEvaluateInheritsStoredParentSnapshot(t *testing.T) {
	cat := catalogtest.New(t)
	srv := New(cat, Options{
		Logger:   zaptest.NewLogger(t),
		Unlocked: map[string]bool{"BAS": true, "MRL": true},
	})
	ctx := context.Background()
	save := func(b *bomber.Bomber) string {
		var buf bytes.Buffer
		require.NoError(t, record.Save(&buf, b))
		return buf.String()
	}

	av, _ := cat.Manufacturer("AV")
	merl, _ := cat.Engine("MERL")
	parent, err := srv.Evaluate(ctx, save(bomber.Init(av, merl)), "")
	require.NoError(t, err)
	require.NoError(t, srv.PutDesign(ctx, "Manchester", "", save(parent)))

	// Research moves on: a core and a mark coefficient both change.
	for _, id := range []string{"BMD", "FUL"} {
		_, err := srv.Toggle(id)
		require.NoError(t, err)
	}

	mod, err := bomber.NewRefit(parent, tech.Mod)
	require.NoError(t, err)
	child, err := srv.Evaluate(ctx, save(mod), "Manchester")
	require.NoError(t, err)

	assert.Equal(t, parent.MTOW, child.Parent.MTOW)
	assert.Equal(t, parent.MTOW, child.MTOW)
	assert.Equal(t, parent.Tech.Core, child.Tech.Core)
	assert.Equal(t, parent.Tech.Mark, child.Tech.Mark)
	assert.Zero(t, child.Tech.Core.BT[tech.GirthMedium])
	assert.EqualValues(t, 80, child.Tech.Mark.FUT)
}

func TestTechToggle(t *testing.T) {
	f := newFixture(t)

	code, body := f.do(t, http.MethodGet, "/techs", "")
	require.Equal(t, http.StatusOK, code)
	var before techsResp
	require.NoError(t, json.Unmarshal(body, &before))
	require.Len(t, before.Techs, len(f.cat.Techs))
	byIdent := map[string]techResp{}
	for _, tr := range before.Techs {
		byIdent[tr.Ident] = tr
	}
	assert.True(t, byIdent["MRL"].Unlocked)
	assert.False(t, byIdent["MR2"].Unlocked)
	assert.True(t, byIdent["MR2"].Available)
	assert.False(t, byIdent["HTS"].Available)

	code, body = f.do(t, http.MethodPost, "/techs/MR2/toggle", "")
	require.Equal(t, http.StatusOK, code, string(body))
	var after techsResp
	require.NoError(t, json.Unmarshal(body, &after))
	assert.Greater(t, after.Version, before.Version)
	assert.True(t, f.srv.State().EngineUnlocked("MER2"))

	code, _ = f.do(t, http.MethodPost, "/techs/HTS/toggle", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	code, _ = f.do(t, http.MethodPost, "/techs/ZZZ/toggle", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSetCatalogKeepsUnlocks(t *testing.T) {
	f := newFixture(t)
	_, err := f.srv.Toggle("MR2")
	require.NoError(t, err)
	v := f.srv.State().Version

	f.srv.SetCatalog(catalogtest.New(t))
	st := f.srv.State()
	assert.Greater(t, st.Version, v)
	assert.True(t, st.Techs["MR2"])
	assert.Equal(t, 1.0, testutil.ToFloat64(f.srv.metrics.Reloads))
}

func TestSetCatalogDropsRemovedTechs(t *testing.T) {
	f := newFixture(t)
	_, err := f.srv.Toggle("CLB")
	require.NoError(t, err)
	require.EqualValues(t, 50, f.srv.State().Numbers.Doctrine.CLT)

	full := catalogtest.New(t)
	var techs []*catalog.Tech
	for _, tc := range full.Techs {
		if tc.Ident != "CLB" {
			techs = append(techs, tc)
		}
	}
	trimmed, err := catalog.New(full.Engines, full.Turrets, full.Manufacturers, techs)
	require.NoError(t, err)

	f.srv.SetCatalog(trimmed)
	st := f.srv.State()
	assert.False(t, st.Techs["CLB"])
	assert.EqualValues(t, 40, st.Numbers.Doctrine.CLT)
	assert.True(t, st.Techs["BAS"])
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	fresh, _ := f.records(t)
	f.do(t, http.MethodPost, "/calc", fresh)

	code, body := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), `hbuilder_calculations_total{outcome="ok"} 1`)
	assert.Contains(t, string(body), "hbuilder_calculation_seconds_count 1")
}

func TestWebsocketSession(t *testing.T) {
	f := newFixture(t)
	fresh, _ := f.records(t)

	url := "ws" + strings.TrimPrefix(f.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(fresh)))
	var reply wsReply
	require.NoError(t, conn.ReadJSON(&reply))
	require.Empty(t, reply.Err)
	require.NotNil(t, reply.Result)
	first := reply.Result.Gross

	heavier := strings.Replace(fresh, "TAN=18:", "TAN=30:", 1)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(heavier)))
	reply = wsReply{}
	require.NoError(t, conn.ReadJSON(&reply))
	require.NotNil(t, reply.Result)
	assert.Greater(t, reply.Result.Gross, first)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("nonsense")))
	reply = wsReply{}
	require.NoError(t, conn.ReadJSON(&reply))
	assert.NotEmpty(t, reply.Err)
	assert.Nil(t, reply.Result)
}

func TestGRPCCalculate(t *testing.T) {
	f := newFixture(t)
	fresh, mark := f.records(t)

	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	f.srv.RegisterGRPC(gs)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	cc, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cc.Close() })
	client := NewCalculatorClient(cc)
	ctx := context.Background()

	in, err := structpb.NewStruct(map[string]any{"record": fresh})
	require.NoError(t, err)
	out, err := client.Calculate(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Fresh", out.GetFields()["refit"].GetStringValue())
	assert.False(t, out.GetFields()["has_error"].GetBoolValue())
	assert.Greater(t, out.GetFields()["gross"].GetNumberValue(), 0.0)

	_, err = client.Calculate(ctx, &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	in, _ = structpb.NewStruct(map[string]any{"record": mark})
	_, err = client.Calculate(ctx, in)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	in, _ = structpb.NewStruct(map[string]any{"record": mark, "parent": "Nobody"})
	_, err = client.Calculate(ctx, in)
	assert.Equal(t, codes.NotFound, status.Code(err))
}
