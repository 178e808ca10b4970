package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/table-ordering/config"
	"github.com/yeremiapane/table-ordering/database"
	"github.com/yeremiapane/table-ordering/models"
	"github.com/yeremiapane/table-ordering/router"
	"github.com/yeremiapane/table-ordering/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	tokens *utils.TokenManager
	router *gin.Engine
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	r := router.SetupRouter(router.Dependencies{
		DB:     db,
		Tokens: tokens,
		Config: config.Config{CORSOrigin: "*", PublicBaseURL: "https://order.test"},
	})
	return &testEnv{t: t, db: db, tokens: tokens, router: r}
}

func (e *testEnv) seedAdmin(username, password string, requireLogin bool) *models.Account {
	e.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(e.t, err)
	account := models.Account{
		Username:      username,
		Email:         username + "@example.com",
		Password:      string(hash),
		Role:          models.RoleAdmin,
		AccountActive: true,
	}
	require.NoError(e.t, e.db.Create(&account).Error)
	require.NoError(e.t, e.db.Create(&models.Profile{RestaurantID: username, Name: username, RequireCustomerLogin: requireLogin}).Error)
	return &account
}

func (e *testEnv) token(id uint, role, restaurant string) string {
	e.t.Helper()
	token, err := e.tokens.GenerateToken(id, role, restaurant)
	require.NoError(e.t, err)
	return token
}

func (e *testEnv) seedTable(restaurant, username string, active bool) *models.Table {
	e.t.Helper()
	table := models.Table{RestaurantID: restaurant, Name: "Table " + username, Username: username, IsActive: active}
	require.NoError(e.t, e.db.Create(&table).Error)
	return &table
}

func (e *testEnv) seedMenu(restaurant, name string, price float64) *models.Menu {
	e.t.Helper()
	menu := models.Menu{RestaurantID: restaurant, Name: name, Price: price}
	require.NoError(e.t, e.db.Create(&menu).Error)
	return &menu
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *testEnv) do(method, path, token string, body interface{}) (int, apiResponse) {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(e.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Header().Get("Content-Type") != "image/png" {
		require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w.Code, resp
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type jsonBody map[string]interface{}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
