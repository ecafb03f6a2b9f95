package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"shortlink-service/internal/cache"
	"shortlink-service/internal/model"
	"shortlink-service/internal/repository"
	"shortlink-service/internal/shortcode"
	"shortlink-service/pkg/database"
	auth "shortlink-service/pkg/jwt"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testOrigin = "http://localhost:8080"

type fixture struct {
	db    *gorm.DB
	users *repository.UserRepository
	links *repository.LinkRepository
	auth  *AuthService
	svc   *LinkService
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.InitSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name))
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newFixture(t *testing.T, codes CodeGenerator) *fixture {
	t.Helper()
	db := setupDB(t)
	logger := zap.NewNop().Sugar()
	users := repository.NewUserRepository(db)
	links := repository.NewLinkRepository(db)
	if codes == nil {
		codes = shortcode.NewGenerator(5)
	}
	return &fixture{
		db:    db,
		users: users,
		links: links,
		auth:  NewAuthService(users, auth.NewManager("test-secret", "shortlink-service", 744), logger),
		svc: NewLinkService(links, codes, cache.NewLinkCache(nil, time.Hour, logger), LinkOptions{
			Origin:          testOrigin,
			CustomPrefix:    "c",
			MaxCustomLength: 15,
			MaxAttempts:     5,
		}, logger),
	}
}

// mustUser 直接写库创建用户，绕开 bcrypt 以加快测试
func (f *fixture) mustUser(t *testing.T, email string) *Principal {
	t.Helper()
	u := &model.User{Name: "tester", Email: email, PasswordHash: "x"}
	require.NoError(t, f.users.Create(context.Background(), u))
	return &Principal{UserID: u.ID, Email: u.Email}
}

// sequenceGenerator 按顺序返回预设短码
type sequenceGenerator struct {
	codes []string
	calls int
}

func (g *sequenceGenerator) Generate() (string, error) {
	code := g.codes[g.calls%len(g.codes)]
	g.calls++
	return code, nil
}

func strPtr(s string) *string { return &s }
