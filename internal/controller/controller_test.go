package controller_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"peermall/internal/controller"
	"peermall/internal/middleware"
	"peermall/internal/model"
	"peermall/internal/repository"
	"peermall/internal/router"
	"peermall/internal/service"
	"peermall/pkg/kvstore"
)

// ==================== 测试辅助 ====================

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	device string
}

func setupCtlTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Inquiry{}, &model.Reply{}, &model.CommunityPost{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func setupTestServer(t *testing.T, quota int64) *testServer {
	gin.SetMode(gin.TestMode)

	db := setupCtlTestDB(t)
	store := kvstore.NewMemoryStore(quota)

	shopRepo := repository.NewShopRepository(store)
	authSvc := service.NewAuthService(
		repository.NewSessionRepository(store),
		repository.NewLoginAttemptRepository(),
		&service.SimulatedCodeSender{},
		service.AuthConfig{ExposeCode: true, AdminEmails: []string{"admin@peermall.io"}},
	).WithCodeGenerator(func() (string, error) { return "123456", nil })
	shopSvc := service.NewShopService(shopRepo)

	ctl := &router.Controllers{
		Auth:      controller.NewAuthController(authSvc, nil),
		Shop:      controller.NewShopController(shopSvc, service.NewAdService(shopSvc)),
		QRCode:    controller.NewQRCodeController(service.NewQRCodeService(repository.NewQRCodeRepository(store), service.NewPNGRenderer())),
		Inquiry:   controller.NewInquiryController(service.NewInquiryService(repository.NewInquiryRepository(db))),
		Community: controller.NewCommunityController(service.NewCommunityService(repository.NewPostRepository(db))),
		Storage:   controller.NewStorageController(service.NewStorageService(store, shopRepo)),
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Device("peermall_device"))
	router.InitRoutes(r, ctl, router.Options{Sessions: authSvc})

	return &testServer{t: t, engine: r, device: uuid.NewString()}
}

func (s *testServer) do(method, path string, body interface{}) (int, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderDeviceID, s.device)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (s *testServer) login(email string) {
	s.t.Helper()
	code, _ := s.do(http.MethodPost, "/api/auth/send-code", gin.H{"email": email})
	require.Equal(s.t, http.StatusOK, code)
	code, env := s.do(http.MethodPost, "/api/auth/verify", gin.H{"code": "123456"})
	require.Equal(s.t, http.StatusOK, code, env.Message)
}

// ==================== 测试用例 ====================

func TestHealth(t *testing.T) {
	s := setupTestServer(t, 0)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestSwaggerUI(t *testing.T) {
	s := setupTestServer(t, 0)
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger-ui")
}

func TestDeviceCookieIssued(t *testing.T) {
	s := setupTestServer(t, 0)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "peermall_device", cookies[0].Name)
	_, err := uuid.Parse(cookies[0].Value)
	assert.NoError(t, err)
}

func TestAuthFlow(t *testing.T) {
	s := setupTestServer(t, 0)

	code, env := s.do(http.MethodPost, "/api/auth/send-code", gin.H{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, 400, env.Code)

	code, _ = s.do(http.MethodPost, "/api/auth/verify", gin.H{"code": "123456"})
	assert.Equal(t, http.StatusConflict, code, "没有待验证码")

	code, env = s.do(http.MethodPost, "/api/auth/send-code", gin.H{"email": "a@b.com"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, env.Code)
	assert.Contains(t, string(env.Data), `"demo_code":"123456"`)

	code, _ = s.do(http.MethodPost, "/api/auth/enter-code", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodPost, "/api/auth/verify", gin.H{"code": "12345"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.do(http.MethodPost, "/api/auth/verify", gin.H{"code": "654321"})
	assert.Equal(t, http.StatusBadRequest, code)

	_, env = s.do(http.MethodGet, "/api/auth/session", nil)
	assert.Contains(t, string(env.Data), `"authenticated":false`)

	code, env = s.do(http.MethodPost, "/api/auth/verify", gin.H{"code": "123456"})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"nickname":"a"`)

	_, env = s.do(http.MethodGet, "/api/auth/session", nil)
	assert.Contains(t, string(env.Data), `"authenticated":true`)
	assert.Contains(t, string(env.Data), `"is_admin":false`)

	code, _ = s.do(http.MethodPut, "/api/auth/profile", gin.H{"nickname": "alice"})
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, code)
	_, env = s.do(http.MethodGet, "/api/auth/session", nil)
	assert.Contains(t, string(env.Data), `"authenticated":false`)

	code, _ = s.do(http.MethodPut, "/api/auth/profile", gin.H{"nickname": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestShopEndpoints(t *testing.T) {
	s := setupTestServer(t, 0)

	code, _ := s.do(http.MethodPost, "/api/shops", gin.H{"shopUrl": "acme", "name": "Acme"})
	assert.Equal(t, http.StatusUnauthorized, code, "创建需要登录")

	s.login("bob@example.com")

	code, env := s.do(http.MethodPost, "/api/shops", gin.H{
		"shopUrl": "acme",
		"name":    "Acme",
		"adSettings": []gin.H{
			{"title": "sale", "position": "hero", "targetPages": []string{"home"}, "isActive": true,
				"startDate": "2000-01-01", "endDate": "2999-12-31"},
		},
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, _ = s.do(http.MethodPost, "/api/shops", gin.H{"shopUrl": "acme", "name": "Again"})
	assert.Equal(t, http.StatusConflict, code)
	code, _ = s.do(http.MethodPost, "/api/shops", gin.H{"shopUrl": "bad url", "name": "x"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(http.MethodGet, "/api/shops/mine", nil)
	require.Equal(t, http.StatusOK, code)
	var mine []model.ShopRecord
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "acme", mine[0].ShopURL)

	_, env = s.do(http.MethodGet, "/api/shops/owner/alice", nil)
	assert.JSONEq(t, `[]`, string(env.Data))

	_, env = s.do(http.MethodGet, "/api/shops/acme/ads?page=home", nil)
	assert.Contains(t, string(env.Data), `"title":"sale"`)
	_, env = s.do(http.MethodGet, "/api/shops/acme/ads?page=checkout", nil)
	assert.NotContains(t, string(env.Data), `"title":"sale"`)

	code, env = s.do(http.MethodPost, "/api/shops/acme/products", gin.H{"name": "Hammer", "price": 1200})
	require.Equal(t, http.StatusOK, code)
	var product model.Product
	require.NoError(t, json.Unmarshal(env.Data, &product))

	code, _ = s.do(http.MethodPut, "/api/shops/acme/products/"+product.ID, gin.H{"name": "Hammer 2", "price": 1300})
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodDelete, "/api/shops/acme/products/"+product.ID, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodDelete, "/api/shops/acme/products/"+product.ID, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodPut, "/api/shops/ghost", gin.H{"name": "x"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodDelete, "/api/shops/acme", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodDelete, "/api/shops/acme", nil)
	assert.Equal(t, http.StatusOK, code, "删除幂等")
	code, _ = s.do(http.MethodGet, "/api/shops/acme", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestShopQuotaReturns503(t *testing.T) {
	s := setupTestServer(t, 200)
	s.login("bob@example.com")

	code, env := s.do(http.MethodPost, "/api/shops", gin.H{
		"shopUrl":     "acme",
		"name":        "Acme",
		"description": string(bytes.Repeat([]byte("x"), 500)),
	})
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, 503, env.Code)
}

func TestBoardEndpoints(t *testing.T) {
	s := setupTestServer(t, 0)
	s.login("bob@example.com")

	code, env := s.do(http.MethodPost, "/api/inquiries", gin.H{"title": "배송", "content": "언제?"})
	require.Equal(t, http.StatusOK, code)
	var inq model.Inquiry
	require.NoError(t, json.Unmarshal(env.Data, &inq))

	code, env = s.do(http.MethodPost, "/api/inquiries/"+itoa(inq.ID)+"/replies", gin.H{"content": "빨리요"})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"status":"답변중"`)

	code, _ = s.do(http.MethodPut, "/api/inquiries/"+itoa(inq.ID)+"/status", gin.H{"status": "답변완료"})
	assert.Equal(t, http.StatusForbidden, code, "非管理员")

	code, _ = s.do(http.MethodGet, "/api/inquiries/abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.do(http.MethodGet, "/api/inquiries/999", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(http.MethodPost, "/api/community/posts", gin.H{"title": "hi", "content": "first"})
	require.Equal(t, http.StatusOK, code)
	var post model.CommunityPost
	require.NoError(t, json.Unmarshal(env.Data, &post))
	assert.Equal(t, "bob", post.Author)

	code, _ = s.do(http.MethodPost, "/api/community/posts/"+itoa(post.ID)+"/like", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodPost, "/api/community/posts/"+itoa(post.ID)+"/like", nil)
	assert.Equal(t, http.StatusTooManyRequests, code, "冷却期内重复点赞")
}

func TestAdminSetsStatus(t *testing.T) {
	s := setupTestServer(t, 0)
	s.login("admin@peermall.io")

	_, env := s.do(http.MethodPost, "/api/inquiries", gin.H{"title": "q", "content": "c"})
	var inq model.Inquiry
	require.NoError(t, json.Unmarshal(env.Data, &inq))

	code, env := s.do(http.MethodPut, "/api/inquiries/"+itoa(inq.ID)+"/status", gin.H{"status": "답변완료"})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Contains(t, string(env.Data), `"status":"답변완료"`)

	code, _ = s.do(http.MethodPut, "/api/inquiries/"+itoa(inq.ID)+"/status", gin.H{"status": "closed"})
	assert.Equal(t, http.StatusBadRequest, code)

	// 답변완료 之后不能回退
	code, _ = s.do(http.MethodPut, "/api/inquiries/"+itoa(inq.ID)+"/status", gin.H{"status": "접수됨"})
	assert.Equal(t, http.StatusConflict, code)
}

func TestQRCodeAndStorageEndpoints(t *testing.T) {
	s := setupTestServer(t, 0)

	code, env := s.do(http.MethodPost, "/api/qrcodes", gin.H{"name": "home", "content": "https://peermall.io"})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `data:image/png;base64,`)

	code, _ = s.do(http.MethodDelete, "/api/qrcodes/7", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(http.MethodPost, "/api/storage/import", gin.H{"entries": gin.H{
		"peermalls": `[{"shopUrl":"legacy","name":"Legacy","ownerName":"bob"}]`,
	}})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"legacy_imported":1`)

	code, env = s.do(http.MethodGet, "/api/storage/export", nil)
	require.Equal(t, http.StatusOK, code)
	var snap map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Contains(t, snap, "peermall_legacy")
	assert.Contains(t, snap, model.QRCodeListKey)
	assert.NotContains(t, snap, "peermalls")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
