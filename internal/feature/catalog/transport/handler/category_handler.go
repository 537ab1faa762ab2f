package handler

import (
	"context"
	"net/http"

	"cartify_backend/internal/feature/catalog/domain/entity"
	"cartify_backend/internal/feature/catalog/transport/http/dto"
	"cartify_backend/internal/feature/catalog/usecase"
	"cartify_backend/internal/platform/http/response"
	jwtmw "cartify_backend/internal/platform/jwt"
	"cartify_backend/internal/shared/model"

	"github.com/gin-gonic/gin"
)

// CategoryUsecase はカテゴリ操作のユースケースを定義します。
type CategoryUsecase interface {
	List(ctx context.Context, q usecase.PageQuery) (*usecase.PagedList[*entity.Category], error)
	Get(ctx context.Context, id int) (*entity.Category, error)
	Create(ctx context.Context, actor model.Actor, in usecase.CategoryInput) (*entity.Category, error)
	Update(ctx context.Context, actor model.Actor, id int, in usecase.CategoryInput) (*entity.Category, error)
	Delete(ctx context.Context, actor model.Actor, id int) error
}

// CategoryHandler はカテゴリのHTTPリクエストを処理します。
type CategoryHandler struct {
	uc CategoryUsecase
}

func NewCategoryHandler(uc CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}
	page, err := h.uc.List(c.Request.Context(), q.ToQuery())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPagedRes(page, dto.NewCategoryRes))
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cat, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCategoryRes(cat))
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	cat, err := h.uc.Create(c.Request.Context(), jwtmw.ActorFromContext(c), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewCategoryRes(cat))
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.CategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	cat, err := h.uc.Update(c.Request.Context(), jwtmw.ActorFromContext(c), id, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCategoryRes(cat))
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), jwtmw.ActorFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
