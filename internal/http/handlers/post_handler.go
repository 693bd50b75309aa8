package handlers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rachnit/blog-backend/internal/service"
)

// PostHandler is the HTTP layer for the post lifecycle. Media arrives
// as multipart form data and is stored before the service call; the
// file is cleaned up if the post itself is rejected.
type PostHandler struct {
	posts *service.PostService
	media service.MediaStore
}

func NewPostHandler(posts *service.PostService, media service.MediaStore) *PostHandler {
	return &PostHandler{posts: posts, media: media}
}

// Create handles POST /posts. Accepts JSON for text-only posts and
// multipart/form-data when a media file is attached.
func (h *PostHandler) Create(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var title, content string
	var mediaURL, mediaType *string

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		title = c.PostForm("title")
		content = c.PostForm("content")

		file, err := c.FormFile("media")
		if err == nil {
			mediaURL, mediaType, err = h.saveUpload(c, principal.ID, file)
			if err != nil {
				fail(c, err)
				return
			}
		} else if err != http.ErrMissingFile {
			badRequest(c, "invalid media field")
			return
		}
	} else {
		var req struct {
			Title   string `json:"title" binding:"required"`
			Content string `json:"content" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		title, content = req.Title, req.Content
	}

	view, err := h.posts.Create(c.Request.Context(), principal, title, content, mediaURL, mediaType)
	if err != nil {
		h.discardUpload(c, mediaURL)
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// Get handles GET /posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	view, err := h.posts.Get(c.Request.Context(), principal, uuidParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Update handles PUT /posts/:id. Absent fields stay unchanged;
// attaching a new media file replaces the old one.
func (h *PostHandler) Update(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var title, content, mediaURL, mediaType *string

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if v, exists := c.GetPostForm("title"); exists {
			title = &v
		}
		if v, exists := c.GetPostForm("content"); exists {
			content = &v
		}

		file, err := c.FormFile("media")
		if err == nil {
			mediaURL, mediaType, err = h.saveUpload(c, principal.ID, file)
			if err != nil {
				fail(c, err)
				return
			}
		} else if err != http.ErrMissingFile {
			badRequest(c, "invalid media field")
			return
		}
	} else {
		var req struct {
			Title   *string `json:"title"`
			Content *string `json:"content"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		title, content = req.Title, req.Content
	}

	view, err := h.posts.Update(c.Request.Context(), principal, uuidParam(c, "id"), title, content, mediaURL, mediaType)
	if err != nil {
		h.discardUpload(c, mediaURL)
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Delete handles DELETE /posts/:id.
func (h *PostHandler) Delete(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	if err := h.posts.Delete(c.Request.Context(), principal, uuidParam(c, "id")); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MyPosts handles GET /posts/my.
func (h *PostHandler) MyPosts(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	views, err := h.posts.MyPosts(c.Request.Context(), principal)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// UserPosts handles GET /users/:id/posts.
func (h *PostHandler) UserPosts(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	views, err := h.posts.UserPosts(c.Request.Context(), principal, uuidParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *PostHandler) saveUpload(c *gin.Context, ownerID uuid.UUID, file *multipart.FileHeader) (*string, *string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	url, mediaType, err := h.media.Save(c.Request.Context(), ownerID, file.Filename, src)
	if err != nil {
		return nil, nil, err
	}
	return &url, &mediaType, nil
}

// discardUpload removes a stored file whose post never materialized.
func (h *PostHandler) discardUpload(c *gin.Context, mediaURL *string) {
	if mediaURL != nil {
		_ = h.media.Delete(c.Request.Context(), *mediaURL)
	}
}
