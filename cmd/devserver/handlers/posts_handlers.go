package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"inkwell/cmd/devserver/middleware"
	"inkwell/cmd/devserver/services"
	"inkwell/dto"
	"inkwell/models"
)

// ListPostsHandler godoc
// @Summary      List posts
// @Description  Published posts, newest first, with search/category filters and offset pagination
// @Tags         posts
// @Param        search    query  string  false  "Free text search in title and content"
// @Param        category  query  string  false  "Category (All for no filter)"
// @Param        offset    query  int     false  "Offset"
// @Param        limit     query  int     false  "Page size (<=100)"
// @Produce      json
// @Success      200  {object}  dto.PostPage
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /posts [get]
func ListPostsHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.ListPostsInput
		in.Search = c.Query("search")
		in.Category = c.Query("category")
		in.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
		in.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultLimit)))

		page, err := svc.List(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// ListMyPostsHandler godoc
// @Summary      List my posts
// @Description  Every post of the caller, drafts included
// @Tags         posts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   models.Post
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Router       /posts/my_posts [get]
func ListMyPostsHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.ListMine(c.Request.Context(), authorID(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// GetPostHandler godoc
// @Summary      Get post by id
// @Tags         posts
// @Param        id   path   string  true  "Post id"
// @Produce      json
// @Success      200  {object}  models.Post
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [get]
func GetPostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// CreatePostHandler godoc
// @Summary      Create post
// @Tags         posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      models.CreatePostInput  true  "post"
// @Success      201   {object}  models.Post
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      401   {object}  dto.ErrorResponseDTO
// @Router       /posts [post]
func CreatePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.CreatePostInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request"})
			return
		}
		author, _ := middleware.AuthorFrom(c)
		p, err := svc.Create(c.Request.Context(), author, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// UpdatePostHandler godoc
// @Summary      Update post
// @Description  Partial update; omitted fields are kept
// @Tags         posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "Post id"
// @Param        body  body      models.UpdatePostInput  true  "fields"
// @Success      200   {object}  models.Post
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      403   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [put]
func UpdatePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.UpdatePostInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request"})
			return
		}
		in.ID = c.Param("id")
		p, err := svc.Update(c.Request.Context(), authorID(c), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// DeletePostHandler godoc
// @Summary      Delete post
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path  string  true  "Post id"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [delete]
func DeletePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), authorID(c), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// TogglePublishHandler godoc
// @Summary      Toggle published flag
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path  string  true  "Post id"
// @Produce      json
// @Success      200  {object}  models.Post
// @Failure      403  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id}/publish [patch]
func TogglePublishHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.TogglePublish(c.Request.Context(), authorID(c), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// LikePostHandler godoc
// @Summary      Like post
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path  string  true  "Post id"
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id}/like [post]
func LikePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Like(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "post liked"})
	}
}
