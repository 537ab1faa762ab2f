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

// BrandUsecase はブランド操作のユースケースを定義します。
type BrandUsecase interface {
	List(ctx context.Context, q usecase.PageQuery) (*usecase.PagedList[*entity.Brand], error)
	Get(ctx context.Context, id int) (*entity.Brand, error)
	Create(ctx context.Context, actor model.Actor, in usecase.BrandInput) (*entity.Brand, error)
	Update(ctx context.Context, actor model.Actor, id int, in usecase.BrandInput) (*entity.Brand, error)
	Delete(ctx context.Context, actor model.Actor, id int) error
}

// BrandHandler はブランドのHTTPリクエストを処理します。
type BrandHandler struct {
	uc BrandUsecase
}

func NewBrandHandler(uc BrandUsecase) *BrandHandler {
	return &BrandHandler{uc: uc}
}

func (h *BrandHandler) List(c *gin.Context) {
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
	c.JSON(http.StatusOK, dto.NewPagedRes(page, dto.NewBrandRes))
}

func (h *BrandHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBrandRes(b))
}

func (h *BrandHandler) Create(c *gin.Context) {
	var req dto.BrandReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	b, err := h.uc.Create(c.Request.Context(), jwtmw.ActorFromContext(c), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewBrandRes(b))
}

func (h *BrandHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.BrandReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	b, err := h.uc.Update(c.Request.Context(), jwtmw.ActorFromContext(c), id, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBrandRes(b))
}

func (h *BrandHandler) Delete(c *gin.Context) {
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
