package domain

import (
	"time"

	"gorm.io/gorm"

	"github.com/MStartsev/postcard/pkg/database"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           string         `gorm:"type:varchar(36);primaryKey"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	Login        string         `gorm:"type:varchar(100)"`
	Avatar       *string        `gorm:"type:varchar(512)"`
	PasswordHash string         `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string { return "users" }

// ToDomain converts UserModel to a domain User.
func (m *UserModel) ToDomain() *User {
	return &User{
		ID:           m.ID,
		Email:        m.Email,
		Login:        m.Login,
		Avatar:       m.Avatar,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// UserToModel converts a domain User to its GORM model.
func UserToModel(u *User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Email:        u.Email,
		Login:        u.Login,
		Avatar:       u.Avatar,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// PostModel is the GORM model for the posts table. The like set lives in a
// single JSON column because it is always read and written whole.
type PostModel struct {
	ID            string             `gorm:"type:varchar(32);primaryKey"`
	UserID        string             `gorm:"type:varchar(36);index;not null"`
	UserName      string             `gorm:"type:varchar(100)"`
	UserAvatar    *string            `gorm:"type:varchar(512)"`
	Image         string             `gorm:"type:varchar(512);not null"`
	Title         string             `gorm:"type:varchar(255);not null"`
	Location      string             `gorm:"type:varchar(255)"`
	Likes         database.StringSet `gorm:"type:text"`
	CommentsCount int64              `gorm:"not null;default:0"`
	CreatedAt     time.Time          `gorm:"autoCreateTime;index"`
}

func (PostModel) TableName() string { return "posts" }

// ToDomain converts PostModel to a domain Post.
func (m *PostModel) ToDomain() *Post {
	return &Post{
		ID:            m.ID,
		UserID:        m.UserID,
		UserName:      m.UserName,
		UserAvatar:    m.UserAvatar,
		Image:         m.Image,
		Title:         m.Title,
		Location:      m.Location,
		Likes:         []string(m.Likes),
		CommentsCount: m.CommentsCount,
		CreatedAt:     m.CreatedAt,
	}
}

// PostToModel converts a domain Post to its GORM model.
func PostToModel(p *Post) *PostModel {
	return &PostModel{
		ID:            p.ID,
		UserID:        p.UserID,
		UserName:      p.UserName,
		UserAvatar:    p.UserAvatar,
		Image:         p.Image,
		Title:         p.Title,
		Location:      p.Location,
		Likes:         database.StringSet(p.Likes),
		CommentsCount: p.CommentsCount,
		CreatedAt:     p.CreatedAt,
	}
}

// CommentModel is the GORM model for the comments table.
type CommentModel struct {
	ID         string    `gorm:"type:varchar(32);primaryKey"`
	PostID     string    `gorm:"type:varchar(32);index;not null"`
	UserID     string    `gorm:"type:varchar(36);not null"`
	UserName   string    `gorm:"type:varchar(100)"`
	UserAvatar *string   `gorm:"type:varchar(512)"`
	Text       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (CommentModel) TableName() string { return "comments" }

// ToDomain converts CommentModel to a domain Comment.
func (m *CommentModel) ToDomain() *Comment {
	return &Comment{
		ID:         m.ID,
		PostID:     m.PostID,
		UserID:     m.UserID,
		UserName:   m.UserName,
		UserAvatar: m.UserAvatar,
		Text:       m.Text,
		CreatedAt:  m.CreatedAt,
	}
}

// CommentToModel converts a domain Comment to its GORM model.
func CommentToModel(c *Comment) *CommentModel {
	return &CommentModel{
		ID:         c.ID,
		PostID:     c.PostID,
		UserID:     c.UserID,
		UserName:   c.UserName,
		UserAvatar: c.UserAvatar,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
	}
}
