package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"shortlink-service/internal/apperr"
	"shortlink-service/internal/cache"
	"shortlink-service/internal/model"
	"shortlink-service/internal/repository"
	"shortlink-service/internal/shortcode"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	maxNameLength     = 50
	maxURLLength      = 2048
	defaultClickLimit = 50
	maxClickLimit     = 200
	qrCodeSize        = 256
)

// 与根路径下固定路由同名的短码无法被跳转路由匹配
var reservedRootSegments = []string{"short", "user", "health", "swagger"}

// LinkStore 短链接服务依赖的存储
type LinkStore interface {
	Create(ctx context.Context, link *model.ShortLink) error
	ShortenedExists(ctx context.Context, shortened string) (bool, error)
	FindByShortened(ctx context.Context, shortened string) (*model.ShortLink, error)
	FindOwned(ctx context.Context, id, userID uint) (*model.ShortLink, error)
	ListByOwner(ctx context.Context, userID uint) ([]model.ShortLink, error)
	SearchByName(ctx context.Context, userID uint, pattern string) ([]model.ShortLink, int64, error)
	Save(ctx context.Context, link *model.ShortLink) error
	DeleteOwned(ctx context.Context, id, userID uint) error
	RecordClick(ctx context.Context, click *model.ClickRecord) error
	RecentClicks(ctx context.Context, linkID uint, limit int) ([]model.ClickRecord, error)
	StatsByOwner(ctx context.Context, userID uint) (*repository.LinkStats, error)
}

// CodeGenerator 随机短码来源
type CodeGenerator interface {
	Generate() (string, error)
}

// LinkOptions 与部署相关的短链接参数
type LinkOptions struct {
	Origin          string
	CustomPrefix    string
	MaxCustomLength int
	MaxAttempts     int
}

// CreateLinkInput 创建请求。CustomCode 为 nil 表示未指定自定义短码。
type CreateLinkInput struct {
	OriginalURL string
	Name        string
	Description string
	CustomCode  *string
}

// UpdateLinkInput 部分更新，nil 或空字符串的字段保持原值
type UpdateLinkInput struct {
	Name        *string
	Description *string
	OriginalURL *string
}

// Visit 跳转请求的来访信息
type Visit struct {
	IPAddress string
	UserAgent string
	Referer   string
}

// LinkService 短码分配、短链接增删改查、跳转计数和二维码
type LinkService struct {
	links    LinkStore
	codes    CodeGenerator
	cache    *cache.LinkCache
	opts     LinkOptions
	reserved map[string]struct{}
	logger   *zap.SugaredLogger
}

func NewLinkService(links LinkStore, codes CodeGenerator, linkCache *cache.LinkCache, opts LinkOptions, logger *zap.SugaredLogger) *LinkService {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.MaxCustomLength <= 0 {
		opts.MaxCustomLength = 15
	}
	if opts.CustomPrefix == "" {
		opts.CustomPrefix = "c"
	}
	reserved := make(map[string]struct{}, len(reservedRootSegments)+1)
	for _, seg := range reservedRootSegments {
		reserved[seg] = struct{}{}
	}
	reserved[opts.CustomPrefix] = struct{}{}
	return &LinkService{
		links:    links,
		codes:    codes,
		cache:    linkCache,
		opts:     opts,
		reserved: reserved,
		logger:   logger.Named("link"),
	}
}

// Create 校验输入并分配短码。
// 随机短码在冲突时重新生成，最多尝试 MaxAttempts 次；唯一索引是最终裁决。
// 自定义短码冲突直接返回 Conflict。
func (s *LinkService) Create(ctx context.Context, p *Principal, in CreateLinkInput) (*model.ShortLink, error) {
	in.OriginalURL = strings.TrimSpace(in.OriginalURL)
	in.Name = strings.TrimSpace(in.Name)
	if in.OriginalURL == "" || in.Name == "" {
		return nil, apperr.Validation("原始链接和名称为必填项")
	}
	if err := checkURL(in.OriginalURL); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(in.Name) > maxNameLength {
		return nil, apperr.Validation("名称不能超过 50 个字符")
	}

	link := &model.ShortLink{
		UserID:      p.UserID,
		Name:        in.Name,
		Description: in.Description,
		OriginalURL: in.OriginalURL,
	}

	if in.CustomCode != nil {
		code, err := shortcode.SanitizeCustom(*in.CustomCode, s.opts.MaxCustomLength)
		if err != nil {
			return nil, customCodeError(err, s.opts.MaxCustomLength)
		}
		if err := s.createCustom(ctx, link, code); err != nil {
			return nil, err
		}
		return link, nil
	}
	if err := s.createRandom(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *LinkService) createCustom(ctx context.Context, link *model.ShortLink, code string) error {
	link.Shortened = shortcode.ShortURL(s.opts.Origin, s.opts.CustomPrefix, code)

	exists, err := s.links.ShortenedExists(ctx, link.Shortened)
	if err != nil {
		return apperr.Internal("创建短链接失败", err)
	}
	if exists {
		return apperr.Conflict("自定义短链接已存在")
	}
	if err := s.links.Create(ctx, link); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.Conflict("自定义短链接已存在")
		}
		return insertError(err)
	}
	return nil
}

func (s *LinkService) createRandom(ctx context.Context, link *model.ShortLink) error {
	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return apperr.Internal("生成短码失败", err)
		}
		if _, ok := s.reserved[code]; ok {
			s.logger.Debugw("短码与固定路由重名，重新生成", "attempt", attempt)
			continue
		}
		link.Shortened = shortcode.ShortURL(s.opts.Origin, "", code)

		exists, err := s.links.ShortenedExists(ctx, link.Shortened)
		if err != nil {
			return apperr.Internal("创建短链接失败", err)
		}
		if exists {
			s.logger.Debugw("短码已被占用，重新生成", "attempt", attempt)
			continue
		}

		err = s.links.Create(ctx, link)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return insertError(err)
		}
		// 检查与插入之间被并发请求抢占
		s.logger.Infow("插入时短码冲突，重新生成", "attempt", attempt)
	}
	s.logger.Errorw("短码多次冲突，放弃分配", "attempts", s.opts.MaxAttempts)
	return apperr.Internal("短码分配失败，请稍后重试", nil)
}

func insertError(err error) error {
	switch {
	case errors.Is(err, repository.ErrForeignKey):
		return apperr.Validation("用户不存在，请重新登录")
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Conflict("短链接已存在")
	default:
		return apperr.Internal("创建短链接失败", err)
	}
}

func customCodeError(err error, maxLength int) error {
	switch {
	case errors.Is(err, shortcode.ErrCustomEmpty):
		return apperr.Validation("自定义短码不能为空")
	case errors.Is(err, shortcode.ErrCustomTooLong):
		return apperr.Validation(fmt.Sprintf("自定义短码不能超过 %d 个字符", maxLength))
	default:
		return apperr.Validation("自定义短码只能包含字母、数字、下划线和连字符")
	}
}

func checkURL(raw string) error {
	if len(raw) > maxURLLength {
		return apperr.Validation("原始链接过长")
	}
	if !isValidURL(raw) {
		return apperr.Validation("链接格式无效，请输入以 http:// 或 https:// 开头的网址")
	}
	return nil
}

// Get 只返回调用者自己的短链接
func (s *LinkService) Get(ctx context.Context, p *Principal, id uint) (*model.ShortLink, error) {
	link, err := s.links.FindOwned(ctx, id, p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("短链接不存在")
		}
		return nil, apperr.Internal("获取短链接失败", err)
	}
	return link, nil
}

// Update 部分更新名称、描述和原始链接
func (s *LinkService) Update(ctx context.Context, p *Principal, id uint, in UpdateLinkInput) (*model.ShortLink, error) {
	link, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if v := present(in.Name); v != "" {
		if utf8.RuneCountInString(v) > maxNameLength {
			return nil, apperr.Validation("名称不能超过 50 个字符")
		}
		link.Name = v
		changed = true
	}
	if in.Description != nil && *in.Description != "" {
		link.Description = *in.Description
		changed = true
	}
	if v := present(in.OriginalURL); v != "" {
		if err := checkURL(v); err != nil {
			return nil, err
		}
		link.OriginalURL = v
		changed = true
	}
	if !changed {
		return link, nil
	}

	if err := s.links.Save(ctx, link); err != nil {
		return nil, apperr.Internal("更新短链接失败", err)
	}
	s.cache.Delete(ctx, link.Shortened)
	return link, nil
}

func present(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

// Delete 删除调用者自己的短链接
func (s *LinkService) Delete(ctx context.Context, p *Principal, id uint) error {
	link, err := s.Get(ctx, p, id)
	if err != nil {
		return err
	}
	if err := s.links.DeleteOwned(ctx, link.ID, p.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("短链接不存在")
		}
		return apperr.Internal("删除短链接失败", err)
	}
	s.cache.Delete(ctx, link.Shortened)
	return nil
}

// Search 按名称子串搜索调用者的短链接，没有结果时返回 NotFound
func (s *LinkService) Search(ctx context.Context, p *Principal, name string) ([]model.ShortLink, int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, 0, apperr.Validation("请输入要搜索的短链接名称")
	}
	links, count, err := s.links.SearchByName(ctx, p.UserID, name)
	if err != nil {
		return nil, 0, apperr.Internal("搜索短链接失败", err)
	}
	if count == 0 {
		return nil, 0, apperr.NotFound("没有找到匹配该名称的短链接")
	}
	return links, count, nil
}

// ListAll 返回调用者的全部短链接，可以为空
func (s *LinkService) ListAll(ctx context.Context, p *Principal) ([]model.ShortLink, error) {
	links, err := s.links.ListByOwner(ctx, p.UserID)
	if err != nil {
		return nil, apperr.Internal("获取短链接列表失败", err)
	}
	return links, nil
}

// Redirect 解析短码并返回原始链接，同时点击数加一。无需登录。
func (s *LinkService) Redirect(ctx context.Context, code string, custom bool, visit Visit) (string, error) {
	if code == "" {
		return "", apperr.NotFound("链接不存在")
	}
	prefix := ""
	if custom {
		prefix = s.opts.CustomPrefix
	}
	shortened := shortcode.ShortURL(s.opts.Origin, prefix, code)

	entry, hit := s.cache.Get(ctx, shortened)
	if !hit {
		link, err := s.links.FindByShortened(ctx, shortened)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", apperr.NotFound("链接不存在")
			}
			return "", apperr.Internal("跳转失败", err)
		}
		entry = cache.Entry{LinkID: link.ID, OriginalURL: link.OriginalURL}
		s.cache.Set(ctx, shortened, entry)
	}

	click := &model.ClickRecord{
		ShortLinkID: entry.LinkID,
		IPAddress:   visit.IPAddress,
		UserAgent:   visit.UserAgent,
		Referer:     visit.Referer,
	}
	if err := s.links.RecordClick(ctx, click); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// 缓存里的链接已被删除
			s.cache.Delete(ctx, shortened)
			return "", apperr.NotFound("链接不存在")
		}
		return "", apperr.Internal("跳转失败", err)
	}
	return entry.OriginalURL, nil
}

// RenderQRCode 把短链接地址编码成 PNG，文件名取自短链接名称
func (s *LinkService) RenderQRCode(ctx context.Context, p *Principal, id uint) ([]byte, string, error) {
	link, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, "", err
	}
	png, err := qrcode.Encode(link.Shortened, qrcode.Medium, qrCodeSize)
	if err != nil {
		return nil, "", apperr.Internal("生成二维码失败", err)
	}
	return png, qrFilename(link.Name), nil
}

// qrFilename 只保留 ASCII 字母数字、下划线和连字符
func qrFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	base := strings.Trim(b.String(), "_")
	if base == "" {
		base = "qrcode"
	}
	return base + ".png"
}

// Stats 调用者的短链接总数和总点击数
func (s *LinkService) Stats(ctx context.Context, p *Principal) (*repository.LinkStats, error) {
	stats, err := s.links.StatsByOwner(ctx, p.UserID)
	if err != nil {
		return nil, apperr.Internal("获取统计数据失败", err)
	}
	return stats, nil
}

// Clicks 某个短链接最近的点击记录
func (s *LinkService) Clicks(ctx context.Context, p *Principal, id uint, limit int) ([]model.ClickRecord, error) {
	if _, err := s.Get(ctx, p, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultClickLimit
	}
	if limit > maxClickLimit {
		limit = maxClickLimit
	}
	clicks, err := s.links.RecentClicks(ctx, id, limit)
	if err != nil {
		return nil, apperr.Internal("获取点击记录失败", err)
	}
	return clicks, nil
}
