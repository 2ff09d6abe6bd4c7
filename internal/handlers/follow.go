package handlers

import (
	"fmt"
	"net/http"
	"yatube/internal/db"
	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/gin-gonic/gin"
)

// FollowIndex 当前用户关注作者的帖子流
func (h *PostHandler) FollowIndex(c *gin.Context) {
	user := middleware.CurrentUser(c)

	page, err := h.paginate(c, followedBy(user.ID))
	if err != nil {
		RenderError(c, err)
		return
	}

	Render(c, http.StatusOK, "posts/follow.html", gin.H{
		"Title": "Posts of authors you follow",
		"Page":  page,
	})
}

func findAuthor(c *gin.Context) (*models.User, error) {
	var author models.User
	if err := db.DB.Where("username = ?", c.Param("username")).First(&author).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

// ProfileFollow 关注作者；关注自己时跳回首页且不写入
func (h *PostHandler) ProfileFollow(c *gin.Context) {
	author, err := findAuthor(c)
	if err != nil {
		RenderError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	if author.ID == user.ID {
		c.Redirect(http.StatusFound, "/")
		return
	}

	follow := models.Follow{UserID: user.ID, AuthorID: author.ID}
	if err := db.DB.Where(&follow).FirstOrCreate(&follow).Error; err != nil {
		RenderError(c, fmt.Errorf("follow %s: %w", author.Username, err))
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+author.Username+"/")
}

func (h *PostHandler) ProfileUnfollow(c *gin.Context) {
	author, err := findAuthor(c)
	if err != nil {
		RenderError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	if err := db.DB.Where("user_id = ? AND author_id = ?", user.ID, author.ID).
		Delete(&models.Follow{}).Error; err != nil {
		RenderError(c, fmt.Errorf("unfollow %s: %w", author.Username, err))
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+author.Username+"/")
}
