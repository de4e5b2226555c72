package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// BookCache 图书详情缓存
// 设计说明：
// 1. Cache-Aside模式：读时先查缓存,未命中查库回填;写时删除缓存
// 2. Key设计：book:detail:{isbn}
// 3. 缓存未命中(redis.Nil)返回(nil, nil),由调用方回源数据库
// 4. 缓存故障不阻断主流程,调用方按降级处理
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBookCache 创建图书缓存
func NewBookCache(client *redis.Client) *BookCache {
	return &BookCache{
		client: client,
		ttl:    10 * time.Minute, // 图书详情变更不频繁,10分钟足够
	}
}

func (c *BookCache) key(isbn string) string {
	return fmt.Sprintf("book:detail:%s", isbn)
}

// GetBookDetail 读取图书详情缓存
// 返回(nil, nil)表示缓存未命中
func (c *BookCache) GetBookDetail(ctx context.Context, isbn string) (*book.Book, error) {
	data, err := c.client.Get(ctx, c.key(isbn)).Bytes()
	if err == redis.Nil {
		// 未命中不是错误
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "读取图书缓存失败")
	}

	var b book.Book
	if err := json.Unmarshal(data, &b); err != nil {
		// 脏数据当作未命中处理,删除后回源
		c.client.Del(ctx, c.key(isbn))
		return nil, nil
	}

	return &b, nil
}

// SetBookDetail 回填图书详情缓存
func (c *BookCache) SetBookDetail(ctx context.Context, b *book.Book) error {
	data, err := json.Marshal(b)
	if err != nil {
		return apperrors.Wrap(err, "序列化图书缓存失败")
	}

	if err := c.client.Set(ctx, c.key(b.ISBN), data, c.ttl).Err(); err != nil {
		return apperrors.Wrap(err, "写入图书缓存失败")
	}

	return nil
}

// DeleteBookDetail 删除图书详情缓存
// 学习要点：
// 1. 先更新数据库再删缓存(Cache-Aside写路径)
// 2. 借出/归还翻转流通状态后也要删,避免读到过期状态
func (c *BookCache) DeleteBookDetail(ctx context.Context, isbn string) error {
	if err := c.client.Del(ctx, c.key(isbn)).Err(); err != nil {
		return apperrors.Wrap(err, "删除图书缓存失败")
	}

	return nil
}
