package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"shortlink-service/internal/apperr"
	"shortlink-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_RandomCodeRedirectsAndCounts(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.mustUser(t, "a@x.com")

	link, err := f.svc.Create(ctx, p, CreateLinkInput{OriginalURL: "https://example.com", Name: "ex"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link.Shortened, testOrigin+"/"))
	code := strings.TrimPrefix(link.Shortened, testOrigin+"/")
	assert.Len(t, code, 5)
	assert.Zero(t, link.ClickedTimes)
	assert.Equal(t, p.UserID, link.UserID)

	target, err := f.svc.Redirect(ctx, code, false, Visit{IPAddress: "10.0.0.1", UserAgent: "test"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", target)

	got, err := f.svc.Get(ctx, p, link.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.ClickedTimes)

	clicks, err := f.svc.Clicks(ctx, p, link.ID, 0)
	require.NoError(t, err)
	require.Len(t, clicks, 1)
	assert.Equal(t, "10.0.0.1", clicks[0].IPAddress)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.mustUser(t, "a@x.com")

	cases := []CreateLinkInput{
		{OriginalURL: "", Name: "n"},
		{OriginalURL: "https://a.com", Name: "  "},
		{OriginalURL: "ftp://a.com", Name: "n"},
		{OriginalURL: "example.com", Name: "n"},
		{OriginalURL: "https://a.com", Name: strings.Repeat("n", 51)},
		{OriginalURL: "https://a.com", Name: "n", CustomCode: strPtr("   ")},
		{OriginalURL: "https://a.com", Name: "n", CustomCode: strPtr("abcdefghijklmnop")},
		{OriginalURL: "https://a.com", Name: "n", CustomCode: strPtr("a/b")},
	}
	for _, in := range cases {
		_, err := f.svc.Create(ctx, p, in)
		assert.ErrorIs(t, err, apperr.ErrValidation, "%+v", in)
	}
}

func TestCreate_CustomCodeConflict(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := f.mustUser(t, "alice@x.com")
	bob := f.mustUser(t, "bob@x.com")

	link, err := f.svc.Create(ctx, alice, CreateLinkInput{OriginalURL: "https://a.com", Name: "promo", CustomCode: strPtr(" promo ")})
	require.NoError(t, err)
	assert.Equal(t, testOrigin+"/c/promo", link.Shortened)

	_, err = f.svc.Create(ctx, bob, CreateLinkInput{OriginalURL: "https://b.com", Name: "mine", CustomCode: strPtr("promo")})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	all, err := f.svc.ListAll(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, all, "冲突时不应插入新记录")

	target, err := f.svc.Redirect(ctx, "promo", true, Visit{})
	require.NoError(t, err)
	assert.Equal(t, "https://a.com", target)

	_, err = f.svc.Redirect(ctx, "promo", false, Visit{})
	assert.ErrorIs(t, err, apperr.ErrNotFound, "随机短码路径不应命中自定义短码")
}

func TestCreate_RegeneratesOnCollision(t *testing.T) {
	gen := &sequenceGenerator{codes: []string{"aaaaa", "aaaaa", "bbbbb"}}
	f := newFixture(t, gen)
	ctx := context.Background()
	p := f.mustUser(t, "a@x.com")

	first, err := f.svc.Create(ctx, p, CreateLinkInput{OriginalURL: "https://a.com", Name: "one"})
	require.NoError(t, err)
	assert.Equal(t, testOrigin+"/aaaaa", first.Shortened)

	second, err := f.svc.Create(ctx, p, CreateLinkInput{OriginalURL: "https://a.com", Name: "two"})
	require.NoError(t, err)
	assert.Equal(t, testOrigin+"/bbbbb", second.Shortened)
	assert.Equal(t, 3, gen.calls)
}

func TestCreate_SkipsReservedRootSegments(t *testing.T) {
	gen := &sequenceGenerator{codes: []string{"short", "c", "abcde"}}
	f := newFixture(t, gen)
	ctx := context.Background()
	p := f.mustUser(t, "a@x.com")

	link, err := f.svc.Create(ctx, p, CreateLinkInput{OriginalURL: "https://a.com", Name: "one"})
	require.NoError(t, err)
	assert.Equal(t, testOrigin+"/abcde", link.Shortened)
	assert.Equal(t, 3, gen.calls)

	target, err := f.svc.Redirect(ctx, "abcde", false, Visit{})
	require.NoError(t, err)
	assert.Equal(t, "https://a.com", target)
}

func TestCreate_NameLengthCountsCharacters(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.mustUser(t, "a@x.com")

	link, err := f.svc.Create(ctx, p, CreateLinkInput{OriginalURL: "https://a.com", Name: strings.Repeat("链", 50)})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, p, CreateLinkInput{OriginalURL: "https://a.com", Name: strings.Repeat("链", 51)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.Update(ctx, p, link.ID, UpdateLinkInput{Name: strPtr(strings.Repeat("新", 50))})
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, p, link.ID, UpdateLinkInput{Name: strPtr(strings.Repeat("新", 51))})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

// racyStore 模拟检查通过后被并发请求抢先插入
type racyStore struct {
	*repository.LinkRepository
}

func (racyStore) ShortenedExists(context.Context, string) (bool, error) { return false, nil }

func TestCreate_RetriesWhenInsertLosesRace(t *testing.T) {
	gen := &sequenceGenerator{codes: []string{"aaaaa", "aaaaa", "ccccc"}}
	f := newFixture(t, gen)
	f.svc.links = racyStore{f.links}
	ctx := context.Background()
	p := f.mustUser(t, "a@x.com")

	_, err := f.svc.Create(ctx, p, CreateLinkInput{OriginalURL: "https://a.com", Name: "one"})
	require.NoError(t, err)

	second, err := f.svc.Create(ctx, p, CreateLinkInput{OriginalURL: "https://a.com", Name: "two"})
	require.NoError(t, err)
	assert.Equal(t, testOrigin+"/ccccc", second.Shortened)
}

func TestCreate_GivesUpAfterMaxAttempts(t *testing.T) {
	gen := &sequenceGenerator{codes: []string{"zzzzz"}}
	f := newFixture(t, gen)
	ctx := context.Background()
	p := f.mustUser(t, "a@x.com")

	_, err := f.svc.Create(ctx, p, CreateLinkInput{OriginalURL: "https://a.com", Name: "one"})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, p, CreateLinkInput{OriginalURL: "https://a.com", Name: "two"})
	assert.ErrorIs(t, err, apperr.ErrInternal)
	assert.Equal(t, 6, gen.calls)
}

func TestOwnershipIsolation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := f.mustUser(t, "alice@x.com")
	bob := f.mustUser(t, "bob@x.com")

	link, err := f.svc.Create(ctx, alice, CreateLinkInput{OriginalURL: "https://a.com", Name: "secret"})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, bob, link.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.svc.Update(ctx, bob, link.ID, UpdateLinkInput{Name: strPtr("stolen")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, bob, link.ID), apperr.ErrNotFound)
	_, _, err = f.svc.RenderQRCode(ctx, bob, link.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.svc.Clicks(ctx, bob, link.ID, 10)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, _, err = f.svc.Search(ctx, bob, "secret")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// 不存在的 id 与他人的 id 返回相同的错误
	_, errMissing := f.svc.Get(ctx, bob, 9999)
	_, errOther := f.svc.Get(ctx, bob, link.ID)
	assert.Equal(t, apperr.From(errMissing).Message, apperr.From(errOther).Message)

	got, err := f.svc.Get(ctx, alice, link.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Name)
}

func TestUpdate_PartialSemantics(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.mustUser(t, "a@x.com")

	link, err := f.svc.Create(ctx, p, CreateLinkInput{OriginalURL: "https://a.com", Name: "n", Description: "d"})
	require.NoError(t, err)

	same, err := f.svc.Update(ctx, p, link.ID, UpdateLinkInput{})
	require.NoError(t, err)
	assert.Equal(t, "n", same.Name)
	assert.Equal(t, "d", same.Description)
	assert.Equal(t, "https://a.com", same.OriginalURL)

	updated, err := f.svc.Update(ctx, p, link.ID, UpdateLinkInput{
		Name:        strPtr(""),
		Description: strPtr("new description"),
		OriginalURL: strPtr("https://b.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "n", updated.Name, "空字符串视为未提供")
	assert.Equal(t, "new description", updated.Description)
	assert.Equal(t, "https://b.com", updated.OriginalURL)
	assert.Equal(t, link.Shortened, updated.Shortened)

	reloaded, err := f.svc.Get(ctx, p, link.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://b.com", reloaded.OriginalURL)

	_, err = f.svc.Update(ctx, p, link.ID, UpdateLinkInput{OriginalURL: strPtr("nope")})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDelete_ThenRedirectNotFound(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.mustUser(t, "a@x.com")

	link, err := f.svc.Create(ctx, p, CreateLinkInput{OriginalURL: "https://a.com", Name: "n", CustomCode: strPtr("gone")})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, p, link.ID))

	_, err = f.svc.Get(ctx, p, link.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.svc.Redirect(ctx, "gone", true, Visit{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// 删除后自定义短码可以被重新使用
	_, err = f.svc.Create(ctx, p, CreateLinkInput{OriginalURL: "https://b.com", Name: "again", CustomCode: strPtr("gone")})
	assert.NoError(t, err)
}

func TestSearchAndList(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.mustUser(t, "a@x.com")

	empty, err := f.svc.ListAll(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, name := range []string{"work docs", "home docs", "music"} {
		_, err := f.svc.Create(ctx, p, CreateLinkInput{OriginalURL: "https://a.com", Name: name})
		require.NoError(t, err)
	}

	result, count, err := f.svc.Search(ctx, p, "docs")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Len(t, result, 2)

	_, _, err = f.svc.Search(ctx, p, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, _, err = f.svc.Search(ctx, p, "video")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	all, err := f.svc.ListAll(ctx, p)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	stats, err := f.svc.Stats(ctx, p)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalLinks)
	assert.Zero(t, stats.TotalClicks)
}

func TestRedirect_UnknownCode(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Redirect(context.Background(), "nope1", false, Visit{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.svc.Redirect(context.Background(), "", false, Visit{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRenderQRCode(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.mustUser(t, "a@x.com")

	link, err := f.svc.Create(ctx, p, CreateLinkInput{OriginalURL: "https://a.com", Name: "My Link!"})
	require.NoError(t, err)

	png, filename, err := f.svc.RenderQRCode(ctx, p, link.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")), "应为 PNG 数据")
	assert.Equal(t, "My_Link.png", filename)
}

func TestQRFilename(t *testing.T) {
	assert.Equal(t, "qrcode.png", qrFilename("链接"))
	assert.Equal(t, "a-b_c.png", qrFilename("a-b_c"))
}
