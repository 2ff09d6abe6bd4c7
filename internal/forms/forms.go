package forms

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"yatube/internal/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PostForm binds text, group and image of a post.
type PostForm struct {
	Text    string `form:"text" binding:"notblank"`
	GroupID string `form:"group"`

	Group     *models.Group         `form:"-"`
	Image     *multipart.FileHeader `form:"-"`
	ImageType string                `form:"-"`
}

// CommentForm binds the text of a comment.
type CommentForm struct {
	Text string `form:"text" binding:"notblank"`
}

// PostFormFrom prefills the form with an existing post.
func PostFormFrom(post *models.Post) *PostForm {
	f := &PostForm{Text: post.Text, Group: post.Group}
	if post.GroupID != nil {
		f.GroupID = strconv.FormatUint(uint64(*post.GroupID), 10)
	}
	return f
}

// SelectedGroup reports whether id is the group currently chosen in the form.
func (f *PostForm) SelectedGroup(id uint) bool {
	return f.GroupID == strconv.FormatUint(uint64(id), 10)
}

// GroupRef returns the chosen group id, nil when the post has no group.
func (f *PostForm) GroupRef() *uint {
	if f.Group == nil {
		return nil
	}
	id := f.Group.ID
	return &id
}

// BindPost binds and cleans a submitted post form.
func BindPost(c *gin.Context, conn *gorm.DB, maxUpload int64) (*PostForm, Errors) {
	form := &PostForm{}
	errs := FromBinding(c.ShouldBind(form))
	form.Text = strings.TrimSpace(form.Text)

	if err := form.cleanGroup(conn); err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			errs.Add(NonFieldErrors, err.Error())
		} else {
			errs.Add("group", verr.Message)
		}
	}

	header, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		// Not a multipart request: nothing was uploaded.
		if !errors.Is(err, http.ErrNotMultipart) {
			errs.Add("image", MsgInvalidImage)
		}
	default:
		contentType, err := CleanImage(header, maxUpload)
		if err != nil {
			errs.Add("image", err.Error())
		} else {
			form.Image = header
			form.ImageType = contentType
		}
	}

	return form, errs
}

func (f *PostForm) cleanGroup(conn *gorm.DB) error {
	f.GroupID = strings.TrimSpace(f.GroupID)
	if f.GroupID == "" {
		f.Group = nil
		return nil
	}

	id, err := strconv.ParseUint(f.GroupID, 10, 64)
	if err != nil {
		return &ValidationError{Message: MsgInvalidGroup}
	}

	var group models.Group
	if err := conn.First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationError{Message: MsgInvalidGroup}
		}
		return fmt.Errorf("load group: %w", err)
	}
	f.Group = &group
	return nil
}

// CleanImage checks the upload size and sniffs that the content is an image.
func CleanImage(header *multipart.FileHeader, maxSize int64) (string, error) {
	if maxSize > 0 && header.Size > maxSize {
		return "", &ValidationError{Message: MsgImageTooBig}
	}

	file, err := header.Open()
	if err != nil {
		return "", &ValidationError{Message: MsgInvalidImage}
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil || !strings.HasPrefix(mtype.String(), "image/") {
		return "", &ValidationError{Message: MsgInvalidImage}
	}
	return mtype.String(), nil
}

// BindComment binds a comment form.
func BindComment(c *gin.Context) (*CommentForm, Errors) {
	form := &CommentForm{}
	errs := FromBinding(c.ShouldBind(form))
	form.Text = strings.TrimSpace(form.Text)
	return form, errs
}
