// 包 store：地块与用户的持久化层；提供 PostgreSQL 与内存两种实现
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"lotes-map/internal/parcel"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("correo ya registrado")
	ErrInvalid        = errors.New("invalid")
)

// Repository：地块仓库
// 约束：List 按创建顺序返回；Update 对单个地块做读改写，不存在时返回 ErrNotFound
type Repository interface {
	List(ctx context.Context) ([]parcel.Parcel, error)
	Insert(ctx context.Context, p parcel.Parcel) error
	Update(ctx context.Context, id string, ch Change) (parcel.Parcel, error)
	Delete(ctx context.Context, ids []string) (int, error)
	Reset(ctx context.Context) (int, error)
}

// User：账户记录，PasswordHash 为 bcrypt 摘要
type User struct {
	Email        string
	Name         string
	PasswordHash []byte
}

// Users：账户仓库；邮箱已规范化（小写、去空白）
type Users interface {
	CreateUser(ctx context.Context, u User) error
	UserByEmail(ctx context.Context, email string) (User, error)
}

// Change：一次更新请求解析后的修改集
type Change struct {
	// Name 为空表示不改名
	Name   string
	Status parcel.Status
	Height *float64
	// ReservedBy 在 Status 为 reservado 时写入
	ReservedBy *string
	At         time.Time
}

// 文档注释：把修改集应用到地块
// 约束：只有状态变更会触碰预约字段；reservado 写入预约人与毫秒时间戳，其它状态清空两者
func ApplyChange(p *parcel.Parcel, ch Change) {
	if n := strings.TrimSpace(ch.Name); n != "" {
		p.Name = n
	}
	if ch.Height != nil {
		h := *ch.Height
		p.Height = &h
	}
	if ch.Status == "" {
		return
	}
	p.Status = ch.Status
	if ch.Status == parcel.Reserved {
		at := ch.At.UnixMilli()
		p.ReservedAt = &at
		p.ReservedBy = nil
		if ch.ReservedBy != nil {
			by := *ch.ReservedBy
			p.ReservedBy = &by
		}
		return
	}
	p.ReservedBy = nil
	p.ReservedAt = nil
}

// NewID：地块 id，lot- 前缀加 ULID
func NewID() string { return "lot-" + ulid.Make().String() }

// 文档注释：按创建请求构造新地块
// 约束：名称去空白后为空则为 Lote；状态为空时为 disponible，非枚举值与少于 3 个顶点的环返回 ErrInvalid
func NewParcel(id, name, status string, coords []parcel.Coord, height *float64) (parcel.Parcel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = parcel.DefaultName
	}
	st := parcel.Available
	if s := strings.ToLower(strings.TrimSpace(status)); s != "" {
		st = parcel.Status(s)
		if !st.Valid() {
			return parcel.Parcel{}, fmt.Errorf("%w: estado %q", ErrInvalid, status)
		}
	}
	if len(coords) < 3 {
		return parcel.Parcel{}, fmt.Errorf("%w: se requieren al menos 3 vértices", ErrInvalid)
	}
	return parcel.Parcel{
		ID:     id,
		Name:   name,
		Status: st,
		Coords: append([]parcel.Coord(nil), coords...),
		Height: height,
	}, nil
}

// NormalizeEmail：小写并去除首尾空白
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// DefaultName：注册未给名称时取邮箱 @ 前部分
func DefaultName(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return "Usuario"
}
