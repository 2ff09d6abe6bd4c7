package handlers

import (
	"fmt"
	"log"
	"net/http"
	"yatube/internal/config"
	"yatube/internal/db"
	"yatube/internal/forms"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PostHandler struct {
	cfg     *config.Config
	storage services.Storage
	cache   *utils.GlobalCache
}

func NewPostHandler(cfg *config.Config, storage services.Storage, cache *utils.GlobalCache) *PostHandler {
	return &PostHandler{cfg: cfg, storage: storage, cache: cache}
}

// paginate 统计总数并取出当前页，排序统一为最新发布在前
func (h *PostHandler) paginate(c *gin.Context, scope func(*gorm.DB) *gorm.DB) (*utils.Page[models.Post], error) {
	var total int64
	if err := db.DB.Model(&models.Post{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	paginator := utils.NewPaginator(total, h.cfg.PerPageCount)
	number := paginator.Number(c.Query("page"))

	var posts []models.Post
	err := db.DB.Scopes(scope).
		Preload("Author").Preload("Group").
		Order(models.PostOrdering).
		Limit(paginator.PerPage).
		Offset(paginator.Offset(number)).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return &utils.Page[models.Post]{Items: posts, Number: number, Paginator: paginator}, nil
}

func allPosts(tx *gorm.DB) *gorm.DB {
	return tx
}

func byGroup(groupID uint) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("group_id = ?", groupID)
	}
}

func byAuthor(authorID uint) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("author_id = ?", authorID)
	}
}

func followedBy(userID uint) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		authors := db.DB.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", userID)
		return tx.Where("author_id IN (?)", authors)
	}
}

func indexCacheKey(c *gin.Context) string {
	var viewer uint
	if user := middleware.CurrentUser(c); user != nil {
		viewer = user.ID
	}
	return fmt.Sprintf("posts:index:%s:viewer:%d", c.Request.URL.RequestURI(), viewer)
}

// Index 首页，全部帖子，结果缓存 INDEX_CACHE_TTL
func (h *PostHandler) Index(c *gin.Context) {
	cacheKey := indexCacheKey(c)
	if cachedData := h.cache.Get(cacheKey); cachedData != nil {
		if hData, ok := cachedData.(gin.H); ok {
			Render(c, http.StatusOK, "posts/index.html", hData)
			return
		}
	}

	page, err := h.paginate(c, allPosts)
	if err != nil {
		RenderError(c, err)
		return
	}

	renderData := gin.H{
		"Title": "Latest posts",
		"Page":  page,
	}
	h.cache.Set(cacheKey, renderData, h.cfg.IndexCacheTTL)

	Render(c, http.StatusOK, "posts/index.html", renderData)
}

func (h *PostHandler) GroupPosts(c *gin.Context) {
	var group models.Group
	if err := db.DB.Where("slug = ?", c.Param("slug")).First(&group).Error; err != nil {
		RenderError(c, err)
		return
	}

	page, err := h.paginate(c, byGroup(group.ID))
	if err != nil {
		RenderError(c, err)
		return
	}

	Render(c, http.StatusOK, "posts/group_list.html", gin.H{
		"Title": group.Title,
		"Group": group,
		"Page":  page,
	})
}

// Profile 用户主页
func (h *PostHandler) Profile(c *gin.Context) {
	var author models.User
	if err := db.DB.Where("username = ?", c.Param("username")).First(&author).Error; err != nil {
		RenderError(c, err)
		return
	}

	page, err := h.paginate(c, byAuthor(author.ID))
	if err != nil {
		RenderError(c, err)
		return
	}

	following := false
	nonAuthor := false
	if viewer := middleware.CurrentUser(c); viewer != nil {
		var count int64
		if err := db.DB.Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", viewer.ID, author.ID).
			Count(&count).Error; err != nil {
			RenderError(c, err)
			return
		}
		following = count > 0
		nonAuthor = viewer.ID != author.ID
	}

	Render(c, http.StatusOK, "posts/profile.html", gin.H{
		"Title":      "Profile of " + author.DisplayName(),
		"Author":     &author,
		"PostsCount": page.Paginator.Count,
		"Page":       page,
		"Following":  following,
		"NonAuthor":  nonAuthor,
	})
}

func loadPost(c *gin.Context) (*models.Post, error) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	var post models.Post
	if err := db.DB.Preload("Author").Preload("Group").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (h *PostHandler) PostDetail(c *gin.Context) {
	post, err := loadPost(c)
	if err != nil {
		RenderError(c, err)
		return
	}

	var postsCount int64
	if post.AuthorID != nil {
		if err := db.DB.Model(&models.Post{}).Where("author_id = ?", *post.AuthorID).Count(&postsCount).Error; err != nil {
			RenderError(c, err)
			return
		}
	}

	var comments []models.Comment
	if err := db.DB.Preload("Author").
		Where("post_id = ?", post.ID).
		Order("created ASC, id ASC").
		Find(&comments).Error; err != nil {
		RenderError(c, err)
		return
	}

	Render(c, http.StatusOK, "posts/post_detail.html", gin.H{
		"Title":      post.String(),
		"Post":       post,
		"PostsCount": postsCount,
		"Comments":   comments,
		"Form":       &forms.CommentForm{},
		"CanEdit":    post.IsAuthor(middleware.CurrentUser(c)),
	})
}

func (h *PostHandler) renderPostForm(c *gin.Context, form *forms.PostForm, errs forms.Errors, post *models.Post) {
	groups, err := services.ListGroups()
	if err != nil {
		RenderError(c, err)
		return
	}
	title := "New post"
	if post != nil {
		title = "Edit post"
	}
	Render(c, http.StatusOK, "posts/create_post.html", gin.H{
		"Title":  title,
		"Form":   form,
		"Errors": errs,
		"Groups": groups,
		"IsEdit": post != nil,
		"Post":   post,
	})
}

// saveImage 保存上传的图片，返回存储路径；没有上传时返回空串
func (h *PostHandler) saveImage(c *gin.Context, form *forms.PostForm) (string, error) {
	if form.Image == nil {
		return "", nil
	}
	file, err := form.Image.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	return h.storage.Save(c.Request.Context(), form.Image.Filename, file, form.Image.Size, form.ImageType)
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	h.renderPostForm(c, &forms.PostForm{}, forms.Errors{}, nil)
}

func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	form, errs := forms.BindPost(c, db.DB, h.cfg.Media.MaxUploadSize)
	if errs.Any() {
		h.renderPostForm(c, form, errs, nil)
		return
	}

	image, err := h.saveImage(c, form)
	if err != nil {
		RenderError(c, err)
		return
	}

	post := models.Post{
		Text:     form.Text,
		AuthorID: &user.ID,
		GroupID:  form.GroupRef(),
		Image:    image,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		if image != "" {
			if err := h.storage.Delete(c.Request.Context(), image); err != nil {
				log.Printf("[WARN] remove orphaned image %s: %v", image, err)
			}
		}
		RenderError(c, fmt.Errorf("create post: %w", err))
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+user.Username+"/")
}

// Edit 编辑帖子，GET 和 POST 共用；非作者直接跳回详情页
func (h *PostHandler) Edit(c *gin.Context) {
	post, err := loadPost(c)
	if err != nil {
		RenderError(c, err)
		return
	}

	detailURL := fmt.Sprintf("/posts/%d/", post.ID)
	if !post.IsAuthor(middleware.CurrentUser(c)) {
		c.Redirect(http.StatusFound, detailURL)
		return
	}

	if c.Request.Method != http.MethodPost {
		h.renderPostForm(c, forms.PostFormFrom(post), forms.Errors{}, post)
		return
	}

	form, errs := forms.BindPost(c, db.DB, h.cfg.Media.MaxUploadSize)
	if errs.Any() {
		h.renderPostForm(c, form, errs, post)
		return
	}

	oldImage := post.Image
	image := oldImage
	if form.Image != nil {
		if image, err = h.saveImage(c, form); err != nil {
			RenderError(c, err)
			return
		}
	}

	// post 预加载了 Group，直接用它做 Model 会把旧的 group_id 写回去
	if err := db.DB.Model(&models.Post{ID: post.ID}).Updates(map[string]interface{}{
		"text":     form.Text,
		"group_id": form.GroupRef(),
		"image":    image,
	}).Error; err != nil {
		RenderError(c, fmt.Errorf("update post: %w", err))
		return
	}

	if image != oldImage && oldImage != "" {
		if err := h.storage.Delete(c.Request.Context(), oldImage); err != nil {
			log.Printf("[WARN] remove replaced image %s: %v", oldImage, err)
		}
	}

	c.Redirect(http.StatusFound, detailURL)
}

// AddComment 无效的评论直接丢弃，总是跳回详情页
func (h *PostHandler) AddComment(c *gin.Context) {
	post, err := loadPost(c)
	if err != nil {
		RenderError(c, err)
		return
	}

	form, errs := forms.BindComment(c)
	if !errs.Any() {
		comment := models.Comment{
			PostID:   &post.ID,
			AuthorID: middleware.CurrentUser(c).ID,
			Text:     form.Text,
		}
		if err := db.DB.Create(&comment).Error; err != nil {
			RenderError(c, fmt.Errorf("create comment: %w", err))
			return
		}
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
}
