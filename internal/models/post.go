package models

import (
	"time"
)

// PostOrdering is the default listing order: newest first.
const PostOrdering = "pub_date DESC, id DESC"

type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"autoCreateTime;index;<-:create" json:"pub_date"`
	AuthorID *uint     `gorm:"index" json:"author_id"`
	Author   *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author"`
	GroupID  *uint     `gorm:"index" json:"group_id"`
	Group    *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"group"`
	Image    string    `gorm:"size:255" json:"image"` // 相对路径，如 posts/xxx.png
}

func (p Post) String() string {
	runes := []rune(p.Text)
	if len(runes) > 15 {
		return string(runes[:15])
	}
	return p.Text
}

// IsAuthor reports whether u wrote the post. Orphaned posts have no author.
func (p *Post) IsAuthor(u *User) bool {
	return u != nil && p.AuthorID != nil && *p.AuthorID == u.ID
}
