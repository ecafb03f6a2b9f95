package repository

import (
	"context"
	"strings"

	"shortlink-service/internal/model"

	"gorm.io/gorm"
)

// LinkStats 用户维度的汇总数据
type LinkStats struct {
	TotalLinks  int64 `json:"total_links"`
	TotalClicks int64 `json:"total_clicks"`
}

// LinkRepository 短链接表访问。
// 所有按 id 的读写都带上 user_id 条件，非本人的记录与不存在的记录表现一致。
type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Create 插入短链接，短链接地址重复时返回 ErrDuplicate
func (r *LinkRepository) Create(ctx context.Context, link *model.ShortLink) error {
	return translate(r.db.WithContext(ctx).Create(link).Error)
}

// ShortenedExists 短链接地址是否已被占用
func (r *LinkRepository) ShortenedExists(ctx context.Context, shortened string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ShortLink{}).Where("shortened = ?", shortened).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByShortened 按完整短链接地址查找，用于跳转
func (r *LinkRepository) FindByShortened(ctx context.Context, shortened string) (*model.ShortLink, error) {
	var link model.ShortLink
	if err := r.db.WithContext(ctx).Where("shortened = ?", shortened).First(&link).Error; err != nil {
		return nil, translate(err)
	}
	return &link, nil
}

// FindOwned 限定所有者的单条查询
func (r *LinkRepository) FindOwned(ctx context.Context, id, userID uint) (*model.ShortLink, error) {
	var link model.ShortLink
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&link).Error; err != nil {
		return nil, translate(err)
	}
	return &link, nil
}

// ListByOwner 返回用户全部短链接，新建的在前
func (r *LinkRepository) ListByOwner(ctx context.Context, userID uint) ([]model.ShortLink, error) {
	links := make([]model.ShortLink, 0)
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&links).Error
	return links, err
}

// likeEscaper 让关键字中的 % 和 _ 按字面匹配，转义符为 !
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// SearchByName 在用户自己的短链接中按名称做子串匹配
func (r *LinkRepository) SearchByName(ctx context.Context, userID uint, pattern string) ([]model.ShortLink, int64, error) {
	links := make([]model.ShortLink, 0)
	scoped := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.ShortLink{}).
			Where("user_id = ? AND name LIKE ? ESCAPE '!'", userID, "%"+likeEscaper.Replace(pattern)+"%")
	}

	var count int64
	if err := scoped().Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if count == 0 {
		return links, 0, nil
	}
	if err := scoped().Order("created_at DESC, id DESC").Find(&links).Error; err != nil {
		return nil, 0, err
	}
	return links, count, nil
}

// Save 保存可编辑字段
func (r *LinkRepository) Save(ctx context.Context, link *model.ShortLink) error {
	err := r.db.WithContext(ctx).Model(link).
		Where("user_id = ?", link.UserID).
		Updates(map[string]any{
			"name":         link.Name,
			"description":  link.Description,
			"original_url": link.OriginalURL,
		}).Error
	return translate(err)
}

// DeleteOwned 删除短链接及其点击记录
func (r *LinkRepository) DeleteOwned(ctx context.Context, id, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.ShortLink{})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("short_link_id = ?", id).Delete(&model.ClickRecord{}).Error
	})
}

// RecordClick 点击数加一并写入点击记录，两者在同一事务内
func (r *LinkRepository) RecordClick(ctx context.Context, click *model.ClickRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ShortLink{}).
			Where("id = ?", click.ShortLinkID).
			UpdateColumn("clicked_times", gorm.Expr("clicked_times + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Create(click).Error
	})
}

// RecentClicks 最近的点击记录
func (r *LinkRepository) RecentClicks(ctx context.Context, linkID uint, limit int) ([]model.ClickRecord, error) {
	clicks := make([]model.ClickRecord, 0)
	err := r.db.WithContext(ctx).Where("short_link_id = ?", linkID).
		Order("created_at DESC, id DESC").Limit(limit).Find(&clicks).Error
	return clicks, err
}

// StatsByOwner 统计用户的短链接数和总点击数
func (r *LinkRepository) StatsByOwner(ctx context.Context, userID uint) (*LinkStats, error) {
	var stats LinkStats
	err := r.db.WithContext(ctx).Model(&model.ShortLink{}).
		Select("COUNT(*) AS total_links, COALESCE(SUM(clicked_times), 0) AS total_clicks").
		Where("user_id = ?", userID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
