package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"klarpakke/internal/ai"
	"klarpakke/internal/handlers"
	"klarpakke/internal/logger"
	"klarpakke/internal/middleware"
	"klarpakke/internal/models"
	"klarpakke/internal/services"
	"klarpakke/internal/validator"
	"klarpakke/internal/webflow"
)

const (
	testJWTSecret   = "integration-test-secret"
	testPipelineKey = "integration-pipeline-key"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB         *gorm.DB
	Router     *gin.Engine
	Collection *collectionStub
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// collectionStub is an in-memory stand-in for the CMS collection API.
type collectionStub struct {
	mu    sync.Mutex
	items []webflow.Item
}

func (s *collectionStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"items": s.items})
	case http.MethodPost:
		var req struct {
			FieldData webflow.ItemFields `json:"fieldData"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.items = append(s.items, webflow.Item{ID: req.FieldData.Slug, FieldData: req.FieldData})
		w.WriteHeader(http.StatusAccepted)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *collectionStub) Items() []webflow.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]webflow.Item(nil), s.items...)
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Signal{},
		&models.DailyRiskMeter{},
		&models.Position{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates the full HTTP stack with stubbed AI and collection
// upstreams. aiContent is the completion text the AI stub returns.
func setupApp(t *testing.T, aiContent string) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	aiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": aiContent}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(aiServer.Close)

	collection := &collectionStub{}
	collectionServer := httptest.NewServer(collection)
	t.Cleanup(collectionServer.Close)

	httpClient := aiServer.Client()

	userService := services.NewUserService(db)
	signalService := services.NewSignalService(db, 0)
	riskService := services.NewRiskService(db, 4000)

	aiClient := ai.NewClient(aiServer.URL, "test-key", "sonar-pro", httpClient)
	generatorService := services.NewGeneratorService(signalService, riskService, aiClient, nil, 50)

	collectionClient := webflow.NewClient(collectionServer.URL, "token", "col-1", httpClient)
	syncService := services.NewSyncService(signalService, collectionClient, 10, 0)

	authHandler := handlers.NewAuthHandler(userService, testJWTSecret, time.Hour)
	signalHandler := handlers.NewSignalHandler(signalService, nil)
	pipelineHandler := handlers.NewPipelineHandler(generatorService, syncService, signalService, nil)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	v1.POST("/signals/decide", middleware.PipelineAuthMiddleware(testPipelineKey), signalHandler.Decide)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(testJWTSecret))
	protected.GET("/profile", authHandler.GetProfile)
	protected.GET("/signals", signalHandler.ListSignals)
	protected.GET("/signals/:id", signalHandler.GetSignal)

	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(testPipelineKey))
	pipeline.POST("/generate", pipelineHandler.Generate)
	pipeline.POST("/sync", pipelineHandler.Sync)
	pipeline.POST("/cleanup", pipelineHandler.Cleanup)

	return &testApp{DB: db, Router: router, Collection: collection}
}

// --- request helpers ---

func (app *testApp) request(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) pipelineRequest(path string) *httptest.ResponseRecorder {
	return app.request(http.MethodPost, path, "", pipelineHeaders())
}

func pipelineHeaders() map[string]string {
	return map[string]string{"X-API-Key": testPipelineKey}
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}
