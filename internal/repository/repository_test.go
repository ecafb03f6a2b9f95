package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"shortlink-service/internal/model"
	"shortlink-service/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupDB 每个测试使用独立的内存库
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.InitSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func createUser(t *testing.T, repo *UserRepository, email string) *model.User {
	t.Helper()
	u := &model.User{Name: "tester", Email: email, PasswordHash: "x"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	createUser(t, users, "a@x.com")
	err := users.Create(ctx, &model.User{Name: "b", Email: "a@x.com", PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrDuplicate)

	exists, err := users.EmailExists(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = users.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLinkRepository_UniqueShortened(t *testing.T) {
	db := setupDB(t)
	owner := createUser(t, NewUserRepository(db), "a@x.com")
	links := NewLinkRepository(db)
	ctx := context.Background()

	first := &model.ShortLink{UserID: owner.ID, Name: "one", OriginalURL: "https://a.com", Shortened: "http://localhost:8080/abcde"}
	require.NoError(t, links.Create(ctx, first))

	dup := &model.ShortLink{UserID: owner.ID, Name: "two", OriginalURL: "https://b.com", Shortened: "http://localhost:8080/abcde"}
	assert.ErrorIs(t, links.Create(ctx, dup), ErrDuplicate)

	exists, err := links.ShortenedExists(ctx, "http://localhost:8080/abcde")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLinkRepository_ScopedLookup(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db)
	alice := createUser(t, users, "alice@x.com")
	bob := createUser(t, users, "bob@x.com")
	links := NewLinkRepository(db)
	ctx := context.Background()

	link := &model.ShortLink{UserID: alice.ID, Name: "docs", OriginalURL: "https://a.com", Shortened: "http://h/x1"}
	require.NoError(t, links.Create(ctx, link))

	got, err := links.FindOwned(ctx, link.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "docs", got.Name)

	_, err = links.FindOwned(ctx, link.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound, "非所有者应当查不到")

	assert.ErrorIs(t, links.DeleteOwned(ctx, link.ID, bob.ID), ErrNotFound)
	require.NoError(t, links.DeleteOwned(ctx, link.ID, alice.ID))
	_, err = links.FindOwned(ctx, link.ID, alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLinkRepository_RecordClickAndStats(t *testing.T) {
	db := setupDB(t)
	owner := createUser(t, NewUserRepository(db), "a@x.com")
	links := NewLinkRepository(db)
	ctx := context.Background()

	link := &model.ShortLink{UserID: owner.ID, Name: "n", OriginalURL: "https://a.com", Shortened: "http://h/x2"}
	require.NoError(t, links.Create(ctx, link))

	for i := 0; i < 3; i++ {
		require.NoError(t, links.RecordClick(ctx, &model.ClickRecord{ShortLinkID: link.ID, IPAddress: "127.0.0.1"}))
	}
	assert.ErrorIs(t, links.RecordClick(ctx, &model.ClickRecord{ShortLinkID: 9999}), ErrNotFound)

	got, err := links.FindOwned(ctx, link.ID, owner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.ClickedTimes)

	clicks, err := links.RecentClicks(ctx, link.ID, 2)
	require.NoError(t, err)
	assert.Len(t, clicks, 2)

	stats, err := links.StatsByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalLinks)
	assert.EqualValues(t, 3, stats.TotalClicks)

	require.NoError(t, links.DeleteOwned(ctx, link.ID, owner.ID))
	clicks, err = links.RecentClicks(ctx, link.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, clicks, "删除短链接时应一并删除点击记录")
}

func TestLinkRepository_SearchAndList(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db)
	alice := createUser(t, users, "alice@x.com")
	bob := createUser(t, users, "bob@x.com")
	links := NewLinkRepository(db)
	ctx := context.Background()

	for i, name := range []string{"golang docs", "gin docs", "news"} {
		require.NoError(t, links.Create(ctx, &model.ShortLink{
			UserID: alice.ID, Name: name, OriginalURL: "https://a.com", Shortened: fmt.Sprintf("http://h/a%d", i),
		}))
	}
	require.NoError(t, links.Create(ctx, &model.ShortLink{
		UserID: bob.ID, Name: "bob docs", OriginalURL: "https://b.com", Shortened: "http://h/b0",
	}))

	result, count, err := links.SearchByName(ctx, alice.ID, "docs")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Len(t, result, 2)

	result, count, err = links.SearchByName(ctx, alice.ID, "missing")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, result)

	all, err := links.ListByOwner(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	none, err := links.ListByOwner(ctx, 12345)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestLinkRepository_SearchTreatsWildcardsLiterally(t *testing.T) {
	db := setupDB(t)
	owner := createUser(t, NewUserRepository(db), "a@x.com")
	links := NewLinkRepository(db)
	ctx := context.Background()

	for i, name := range []string{"abc", "50% off", "a_c!"} {
		require.NoError(t, links.Create(ctx, &model.ShortLink{
			UserID: owner.ID, Name: name, OriginalURL: "https://a.com", Shortened: fmt.Sprintf("http://h/w%d", i),
		}))
	}

	cases := []struct {
		pattern string
		want    []string
	}{
		{"%", []string{"50% off"}},
		{"_", []string{"a_c!"}},
		{"a_c", []string{"a_c!"}},
		{"c!", []string{"a_c!"}},
		{"b", []string{"abc"}},
	}
	for _, tc := range cases {
		result, count, err := links.SearchByName(ctx, owner.ID, tc.pattern)
		require.NoError(t, err, tc.pattern)
		assert.EqualValues(t, len(tc.want), count, tc.pattern)
		names := make([]string, 0, len(result))
		for _, l := range result {
			names = append(names, l.Name)
		}
		assert.ElementsMatch(t, tc.want, names, tc.pattern)
	}
}
