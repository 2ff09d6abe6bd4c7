package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"yatube/internal/db"
	"yatube/internal/models"
	"yatube/internal/utils"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken    = errors.New("a user with that username already exists")
	ErrInvalidUsername  = errors.New("enter a valid username: letters, digits and @/./+/-/_ only")
	ErrPasswordTooShort = errors.New("this password is too short, it must contain at least 8 characters")
	ErrSlugTaken        = errors.New("group with this slug already exists")
	ErrInvalidSlug      = errors.New("enter a valid slug consisting of letters, numbers, underscores or hyphens")
	ErrEmptyTitle       = errors.New("group title is required")
)

const MinPasswordLength = 8

var (
	usernameRe = regexp.MustCompile(`^[\w.@+-]{1,150}$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]{1,50}$`)
)

// Slugify 把标题转换成 URL 安全的 slug（去除变音符号，非字母数字转为 -）
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range norm.NFKD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'):
			b.WriteRune(unicode.ToLower(r))
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if len(slug) > 50 {
		slug = strings.TrimSuffix(slug[:50], "-")
	}
	return slug
}

// ValidateUsername 校验用户名格式
func ValidateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// CreateUser 创建用户，密码以 bcrypt 哈希存储
func CreateUser(username, password string) (*models.User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	var count int64
	if err := db.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Username: username, Password: hash}
	if err := db.DB.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Authenticate 校验用户名和密码
func Authenticate(username, password string) (*models.User, bool) {
	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, false
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, false
	}
	return &user, true
}

// DeleteUser 删除用户：帖子保留但作者置空，评论和关注关系一并删除
func DeleteUser(username string) error {
	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return err
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("author_id = ?", user.ID).
			Update("author_id", nil).Error; err != nil {
			return fmt.Errorf("detach posts: %w", err)
		}
		if err := tx.Where("author_id = ?", user.ID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := tx.Where("user_id = ? OR author_id = ?", user.ID, user.ID).Delete(&models.Follow{}).Error; err != nil {
			return fmt.Errorf("delete follows: %w", err)
		}
		return tx.Delete(&user).Error
	})
}

// CreateGroup 创建分组，slug 为空时由标题生成
func CreateGroup(title, slug, description string) (*models.Group, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if slug == "" {
		slug = Slugify(title)
	}
	if !slugRe.MatchString(slug) {
		return nil, ErrInvalidSlug
	}

	var count int64
	if err := db.DB.Model(&models.Group{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	group := models.Group{Title: title, Slug: slug, Description: description}
	if err := db.DB.Create(&group).Error; err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return &group, nil
}

// ListGroups 按标题排序返回全部分组
func ListGroups() ([]models.Group, error) {
	var groups []models.Group
	err := db.DB.Order("title ASC").Find(&groups).Error
	return groups, err
}

// DeleteGroup 删除分组及其下所有帖子，这些帖子的评论保留但 post 置空
func DeleteGroup(slug string) error {
	var group models.Group
	if err := db.DB.Where("slug = ?", slug).First(&group).Error; err != nil {
		return err
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		posts := tx.Model(&models.Post{}).Select("id").Where("group_id = ?", group.ID)
		if err := tx.Model(&models.Comment{}).Where("post_id IN (?)", posts).
			Update("post_id", nil).Error; err != nil {
			return fmt.Errorf("detach comments: %w", err)
		}
		if err := tx.Where("group_id = ?", group.ID).Delete(&models.Post{}).Error; err != nil {
			return fmt.Errorf("delete posts: %w", err)
		}
		return tx.Delete(&group).Error
	})
}
