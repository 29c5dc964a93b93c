package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"frontdesk/ai"
	"frontdesk/configs"
	"frontdesk/events"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type server struct {
	t      *testing.T
	router *gin.Engine
	events *events.Recorder
	token  string
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Token string          `json:"token"`
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &configs.Config{
		JWTSecret:     "route-secret",
		JWTTTL:        time.Hour,
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin-pass",
		CORSOrigins:   []string{"*"},
	}
	require.NoError(t, configs.SetupDatabase(db))
	require.NoError(t, configs.SeedCounters(db))
	require.NoError(t, configs.SeedAdmin(db, cfg))

	rec := &events.Recorder{}
	r := gin.New()
	RegisterRoutes(r, NewApp(db, cfg, rec, ai.New(nil), nil))
	s := &server{t: t, router: r, events: rec}

	res := s.do(http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"admin-pass"}`, http.StatusOK)
	require.NotEmpty(t, res.Token)
	s.token = res.Token
	return s
}

func (s *server) request(req *http.Request, want int) envelope {
	s.t.Helper()
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(s.t, want, w.Code, w.Body.String())

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return env
}

func (s *server) do(method, path, body string, want int) envelope {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return s.request(req, want)
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

type tableView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func TestHealthAndAuth(t *testing.T) {
	s := newServer(t)
	s.do(http.MethodGet, "/health", "", http.StatusOK)

	me := decode[map[string]any](t, s.do(http.MethodGet, "/auth/me", "", http.StatusOK))
	assert.Equal(t, "admin", me["role"])

	s.do(http.MethodPost, "/auth/register", `{"email":"staff@example.com","password":"staff-pass","firstName":"Sam"}`, http.StatusCreated)
	s.do(http.MethodPost, "/auth/register", `{"email":"staff@example.com","password":"staff-pass","firstName":"Sam"}`, http.StatusConflict)
	s.do(http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"wrong"}`, http.StatusUnauthorized)

	staff := s.do(http.MethodPost, "/auth/login", `{"email":"staff@example.com","password":"staff-pass"}`, http.StatusOK)
	s.token = staff.Token
	s.do(http.MethodPost, "/tables/seed", `{"from":1,"to":3}`, http.StatusForbidden)
	s.do(http.MethodGet, "/tables", "", http.StatusOK)

	s.token = ""
	s.do(http.MethodGet, "/tables", "", http.StatusUnauthorized)
}

func TestTableClickFlowOverHTTP(t *testing.T) {
	s := newServer(t)
	tbl := decode[tableView](t, s.do(http.MethodPost, "/tables", `{"name":"Table 1","capacity":4}`, http.StatusCreated))
	s.do(http.MethodPost, "/tables", `{"name":"Table 1","capacity":2}`, http.StatusConflict)
	s.do(http.MethodPost, "/tables", `{"name":"Table 2","capacity":2,"status":"broken"}`, http.StatusBadRequest)

	click := decode[map[string]any](t, s.do(http.MethodPost, "/tables/"+tbl.ID+"/click", "", http.StatusOK))
	assert.Equal(t, "seat", click["outcome"])
	assert.NotNil(t, click["draft"])

	click = decode[map[string]any](t, s.do(http.MethodPost, "/tables/"+tbl.ID+"/click", "", http.StatusOK))
	assert.Equal(t, "confirm_clear", click["outcome"])

	cleared := decode[tableView](t, s.do(http.MethodPost, "/tables/"+tbl.ID+"/clear", "", http.StatusOK))
	assert.Equal(t, "available", cleared.Status)
	s.do(http.MethodPost, "/tables/"+tbl.ID+"/clear", "", http.StatusConflict)
	s.do(http.MethodPost, "/tables/nope/click", "", http.StatusNotFound)

	guest := decode[map[string]any](t, s.do(http.MethodPost, "/tables/"+tbl.ID+"/seat", `{"name":"Walk In","numberOfGuests":3}`, http.StatusCreated))
	assert.Equal(t, "Table 1", guest["tables"])
	list := decode[[]tableView](t, s.do(http.MethodGet, "/tables?status=occupied", "", http.StatusOK))
	require.Len(t, list, 1)

	s.do(http.MethodDelete, "/tables/"+tbl.ID, "", http.StatusNoContent)
	assert.Contains(t, s.events.Types(), events.TableDeleted)
}

func TestTableSeedAndImport(t *testing.T) {
	s := newServer(t)
	seeded := decode[[]tableView](t, s.do(http.MethodPost, "/tables/seed", `{"from":1,"to":5}`, http.StatusCreated))
	assert.Len(t, seeded, 5)

	req := httptest.NewRequest(http.MethodPost, "/tables/import", strings.NewReader("name,capacity\nPatio A,2\nPatio B,6\n"))
	req.Header.Set("Content-Type", "text/csv")
	out := decode[map[string]any](t, s.request(req, http.StatusCreated))
	assert.Equal(t, float64(2), out["imported"])

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "tables.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("Name,Capacity\nBar 1,2\nPatio A,4\n"))
	require.NoError(t, mw.Close())
	req = httptest.NewRequest(http.MethodPost, "/tables/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	s.request(req, http.StatusConflict)

	all := decode[[]tableView](t, s.do(http.MethodGet, "/tables", "", http.StatusOK))
	assert.Len(t, all, 7)
}

func TestWaitlistOverHTTP(t *testing.T) {
	s := newServer(t)
	type entry struct {
		ID          string `json:"id"`
		TokenNumber int    `json:"tokenNumber"`
		Status      string `json:"status"`
	}
	a := decode[entry](t, s.do(http.MethodPost, "/waitlist", `{"name":"Ali","numberOfGuests":4}`, http.StatusCreated))
	b := decode[entry](t, s.do(http.MethodPost, "/waitlist", `{"name":"Sara","numberOfGuests":2}`, http.StatusCreated))
	assert.Equal(t, 1, a.TokenNumber)
	assert.Equal(t, 2, b.TokenNumber)
	s.do(http.MethodPost, "/waitlist", `{"name":"Zero","numberOfGuests":0}`, http.StatusBadRequest)

	called := decode[entry](t, s.do(http.MethodPatch, "/waitlist/"+a.ID, `{"status":"called"}`, http.StatusOK))
	assert.Equal(t, "called", called.Status)
	s.do(http.MethodPatch, "/waitlist/"+a.ID, `{"status":"gone"}`, http.StatusBadRequest)

	slip := decode[map[string]any](t, s.do(http.MethodGet, "/waitlist/"+b.ID+"/slip", "", http.StatusOK))
	assert.Equal(t, float64(2), slip["tokenNumber"])

	tbl := decode[tableView](t, s.do(http.MethodPost, "/tables", `{"name":"Table 9","capacity":4}`, http.StatusCreated))
	seated := decode[entry](t, s.do(http.MethodPost, "/waitlist/"+b.ID+"/assign", `{"tableId":"`+tbl.ID+`"}`, http.StatusOK))
	assert.Equal(t, "seated", seated.Status)
	s.do(http.MethodPost, "/waitlist/"+a.ID+"/assign", `{"tableId":"`+tbl.ID+`"}`, http.StatusConflict)

	s.do(http.MethodDelete, "/waitlist/"+a.ID, "", http.StatusNoContent)
	s.do(http.MethodGet, "/waitlist/"+a.ID, "", http.StatusNotFound)
}

func TestGuestOrderOverHTTP(t *testing.T) {
	s := newServer(t)
	item := decode[map[string]any](t, s.do(http.MethodPost, "/menu", `{"name":"Chai","price":250,"category":"Drinks"}`, http.StatusCreated))

	type guestView struct {
		ID       string `json:"id"`
		Subtotal int64  `json:"subtotal"`
		Tax      int64  `json:"tax"`
		Total    int64  `json:"total"`
	}
	g := decode[guestView](t, s.do(http.MethodPost, "/guests", `{"name":"Omar","paymentMethod":"card","orderItems":[{"name":"Karahi","price":2000,"quantity":1}]}`, http.StatusCreated))
	assert.Equal(t, int64(2000), g.Subtotal)
	assert.Equal(t, int64(160), g.Tax)

	g = decode[guestView](t, s.do(http.MethodPost, "/guests/"+g.ID+"/items", `{"menuItemId":"`+item["id"].(string)+`"}`, http.StatusOK))
	assert.Equal(t, int64(2250), g.Subtotal)

	g = decode[guestView](t, s.do(http.MethodPatch, "/guests/"+g.ID+"/payment", `{"paymentMethod":"cash"}`, http.StatusOK))
	assert.Equal(t, int64(338), g.Tax)
	assert.Equal(t, int64(2588), g.Total)
	s.do(http.MethodPatch, "/guests/"+g.ID+"/payment", `{"paymentMethod":"bitcoin"}`, http.StatusBadRequest)

	g = decode[guestView](t, s.do(http.MethodPatch, "/guests/"+g.ID+"/items", `{"name":"Karahi","quantity":0}`, http.StatusOK))
	assert.Equal(t, int64(250), g.Subtotal)

	s.do(http.MethodGet, "/guests?from=2020-01-01&to=2999-01-01", "", http.StatusOK)
	s.do(http.MethodGet, "/guests?from=yesterday", "", http.StatusBadRequest)
}

func TestReservationsReportsAndAI(t *testing.T) {
	s := newServer(t)
	r := decode[map[string]any](t, s.do(http.MethodPost, "/reservations", `{"name":"Hina","numberOfGuests":2,"reservationDate":"2026-03-20T19:00:00Z"}`, http.StatusCreated))
	id := r["id"].(string)
	s.do(http.MethodPatch, "/reservations/"+id+"/status", `{"status":"canceled"}`, http.StatusOK)

	tbl := decode[tableView](t, s.do(http.MethodPost, "/tables", `{"name":"Table 5","capacity":2}`, http.StatusCreated))
	s.do(http.MethodPost, "/reservations/"+id+"/seat", `{"tableId":"`+tbl.ID+`"}`, http.StatusConflict)

	dash := decode[map[string]any](t, s.do(http.MethodGet, "/dashboard", "", http.StatusOK))
	assert.Contains(t, dash, "guestsToday")
	s.do(http.MethodGet, "/dashboard/anniversaries", "", http.StatusOK)
	s.do(http.MethodGet, "/reports/guests", "", http.StatusOK)
	s.do(http.MethodGet, "/broadcast/targets", "", http.StatusOK)

	sum := decode[map[string]any](t, s.do(http.MethodPost, "/ai/summary", `{"feedback":["cold food"]}`, http.StatusOK))
	assert.Equal(t, ai.InsightsUnavailable, sum["summary"])
	assert.Equal(t, true, sum["degraded"])

	voice := decode[map[string]any](t, s.do(http.MethodPost, "/ai/voice?execute=true", `{"text":"seat table five"}`, http.StatusOK))
	cmd := voice["command"].(map[string]any)
	assert.Equal(t, "unknown", cmd["command"])
	s.do(http.MethodPost, "/ai/voice", `{}`, http.StatusBadRequest)
}
