package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"quill/internal/db"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/utils"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	listCacheKey    = "post:index"
	listCacheTTL    = 1 * time.Minute
	detailCacheTTL  = 5 * time.Minute
	commentAvatarPx = 100
)

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

func detailCacheKey(id uint) string {
	return fmt.Sprintf("post:detail:%d", id)
}

// fillCommentCounts batch-loads comment counts for a page of posts.
func fillCommentCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type CountResult struct {
		PostID uint
		Count  int
	}
	var results []CountResult
	db.DB.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results)

	countMap := make(map[uint]int)
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}

	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
}

// Index lists every post, newest first.
func (h *PostHandler) Index(c *gin.Context) {
	if cachedData := utils.GetCache().Get(listCacheKey); cachedData != nil {
		if hData, ok := cachedData.(gin.H); ok {
			Render(c, http.StatusOK, "post/index.html", hData)
			return
		}
	}

	var posts []models.Post
	db.DB.Preload("Author").
		Order("created_at DESC").
		Find(&posts)

	fillCommentCounts(posts)

	renderData := gin.H{
		"Posts": posts,
		"Title": "All Posts",
	}
	utils.GetCache().Set(listCacheKey, renderData, listCacheTTL)

	Render(c, http.StatusOK, "post/index.html", renderData)
}

// CommentView pairs a comment with its rendered text and avatar for the
// detail template.
type CommentView struct {
	models.Comment
	TextHTML  template.HTML
	AvatarURL string
}

func loadPost(c *gin.Context) (models.Post, bool) {
	id := utils.StringToInt(c.Param("id"))

	var post models.Post
	err := db.DB.Preload("Author").First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		RenderError(c, http.StatusNotFound, "Post not found")
		return post, false
	}
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to load post")
		return post, false
	}
	return post, true
}

func buildDetailData(post models.Post) gin.H {
	var comments []models.Comment
	db.DB.Preload("Author").
		Where("post_id = ?", post.ID).
		Order("created_at ASC").
		Find(&comments)

	views := make([]CommentView, len(comments))
	for i, com := range comments {
		views[i] = CommentView{
			Comment:   com,
			TextHTML:  utils.RenderMarkdown(com.Text),
			AvatarURL: utils.GravatarURL(com.Author.Email, commentAvatarPx),
		}
	}

	return gin.H{
		"Post":     post,
		"BodyHTML": utils.RenderMarkdown(post.Body),
		"Comments": views,
		"Title":    post.Title,
	}
}

// Show renders a post with its comments and an empty comment form.
func (h *PostHandler) Show(c *gin.Context) {
	id := utils.StringToInt(c.Param("id"))

	if cachedData := utils.GetCache().Get(detailCacheKey(uint(id))); cachedData != nil {
		if hData, ok := cachedData.(gin.H); ok {
			Render(c, http.StatusOK, "post/show.html", hData)
			return
		}
	}

	post, ok := loadPost(c)
	if !ok {
		return
	}

	renderData := buildDetailData(post)
	utils.GetCache().Set(detailCacheKey(post.ID), renderData, detailCacheTTL)

	Render(c, http.StatusOK, "post/show.html", renderData)
}

// CreateComment inserts one comment by the logged-in user and re-renders
// the detail page. There is no redirect, so refreshing resubmits the form;
// a known quirk we keep rather than paper over.
func (h *PostHandler) CreateComment(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	post, ok := loadPost(c)
	if !ok {
		return
	}

	text := strings.TrimSpace(c.PostForm("text"))
	if text == "" {
		renderData := buildDetailData(post)
		renderData["CommentError"] = "Comment text is required"
		Render(c, http.StatusBadRequest, "post/show.html", renderData)
		return
	}

	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: user.ID,
		Text:     text,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		renderData := buildDetailData(post)
		renderData["CommentError"] = "Failed to save comment"
		Render(c, http.StatusInternalServerError, "post/show.html", renderData)
		return
	}

	utils.GetCache().Delete(detailCacheKey(post.ID))
	utils.GetCache().Delete(listCacheKey)

	Render(c, http.StatusOK, "post/show.html", buildDetailData(post))
}

// validatePostForm returns field -> message for anything wrong with a post
// creation or edit form, empty when the form is valid.
func validatePostForm(title, subtitle, body, imgURL string) map[string]string {
	errs := make(map[string]string)
	if title == "" {
		errs["Title"] = "Title is required"
	}
	if subtitle == "" {
		errs["Subtitle"] = "Subtitle is required"
	}
	if body == "" {
		errs["Body"] = "Body is required"
	}
	if imgURL == "" {
		errs["ImgURL"] = "Image URL is required"
	}
	return errs
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	Render(c, http.StatusOK, "post/form.html", gin.H{
		"Title":       "New Post",
		"FieldErrors": map[string]string{},
		"Post":        models.Post{},
	})
}

// Create inserts a post authored by the current user, dated today.
func (h *PostHandler) Create(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	title := strings.TrimSpace(c.PostForm("title"))
	subtitle := strings.TrimSpace(c.PostForm("subtitle"))
	body := c.PostForm("body")
	imgURL := strings.TrimSpace(c.PostForm("img_url"))

	if errs := validatePostForm(title, subtitle, body, imgURL); len(errs) > 0 {
		Render(c, http.StatusBadRequest, "post/form.html", gin.H{
			"Title":       "New Post",
			"FieldErrors": errs,
			"Post":        models.Post{Title: title, Subtitle: subtitle, Body: body, ImgURL: imgURL},
		})
		return
	}

	post := models.Post{
		AuthorID: user.ID,
		Title:    title,
		Subtitle: subtitle,
		Date:     time.Now().Format(models.DateFormat),
		Body:     body,
		ImgURL:   imgURL,
	}

	// Titles are unique; checked up front so duplicates get an inline form
	// error while anything else surfaces as a real failure.
	var existing models.Post
	err := db.DB.Where("title = ?", title).First(&existing).Error
	if err == nil {
		Render(c, http.StatusBadRequest, "post/form.html", gin.H{
			"Title":       "New Post",
			"FieldErrors": map[string]string{"Title": "A post with this title already exists"},
			"Post":        post,
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		RenderError(c, http.StatusInternalServerError, "Failed to save post")
		return
	}

	if err := db.DB.Create(&post).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to save post")
		return
	}

	utils.GetCache().Delete(listCacheKey)

	c.Redirect(http.StatusFound, "/")
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	post, ok := loadPost(c)
	if !ok {
		return
	}

	Render(c, http.StatusOK, "post/form.html", gin.H{
		"Title":       "Edit Post",
		"IsEdit":      true,
		"FieldErrors": map[string]string{},
		"Post":        post,
	})
}

// Update overwrites every mutable field of an existing post, including the
// author, which becomes the editing admin. The display date is kept.
func (h *PostHandler) Update(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	post, ok := loadPost(c)
	if !ok {
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	subtitle := strings.TrimSpace(c.PostForm("subtitle"))
	body := c.PostForm("body")
	imgURL := strings.TrimSpace(c.PostForm("img_url"))

	if errs := validatePostForm(title, subtitle, body, imgURL); len(errs) > 0 {
		post.Title = title
		post.Subtitle = subtitle
		post.Body = body
		post.ImgURL = imgURL
		Render(c, http.StatusBadRequest, "post/form.html", gin.H{
			"Title":       "Edit Post",
			"IsEdit":      true,
			"FieldErrors": errs,
			"Post":        post,
		})
		return
	}

	post.Title = title
	post.Subtitle = subtitle
	post.Body = body
	post.ImgURL = imgURL
	post.AuthorID = user.ID

	// Some other post already holding the new title is an inline form
	// error; anything else is a real failure.
	var existing models.Post
	err := db.DB.Where("title = ? AND id <> ?", title, post.ID).First(&existing).Error
	if err == nil {
		Render(c, http.StatusBadRequest, "post/form.html", gin.H{
			"Title":       "Edit Post",
			"IsEdit":      true,
			"FieldErrors": map[string]string{"Title": "A post with this title already exists"},
			"Post":        post,
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		RenderError(c, http.StatusInternalServerError, "Failed to save post")
		return
	}

	// Omit the preloaded Author so its old primary key does not override
	// the reassigned AuthorID on save.
	if err := db.DB.Omit("Author").Save(&post).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to save post")
		return
	}

	utils.GetCache().Delete(detailCacheKey(post.ID))
	utils.GetCache().Delete(listCacheKey)

	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", post.ID))
}

// Delete removes a post and its comments in one transaction. Comments go
// first so no row ever dangles, whatever the driver does with the FK.
func (h *PostHandler) Delete(c *gin.Context) {
	post, ok := loadPost(c)
	if !ok {
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	utils.GetCache().Delete(detailCacheKey(post.ID))
	utils.GetCache().Delete(listCacheKey)

	c.Redirect(http.StatusFound, "/")
}
