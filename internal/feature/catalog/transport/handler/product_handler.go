// Package handler はcatalogフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"cartify_backend/internal/feature/catalog/domain/entity"
	"cartify_backend/internal/feature/catalog/transport/http/dto"
	"cartify_backend/internal/feature/catalog/usecase"
	"cartify_backend/internal/platform/http/response"
	jwtmw "cartify_backend/internal/platform/jwt"
	"cartify_backend/internal/shared/model"

	"github.com/gin-gonic/gin"
)

// ProductUsecase は商品操作のユースケースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ProductUsecase interface {
	List(ctx context.Context, q usecase.ProductQuery) (*usecase.PagedList[*entity.Product], error)
	Get(ctx context.Context, id int) (*entity.Product, error)
	Create(ctx context.Context, actor model.Actor, in usecase.ProductInput) (*entity.Product, error)
	Update(ctx context.Context, actor model.Actor, id int, in usecase.ProductInput) (*entity.Product, error)
	Delete(ctx context.Context, actor model.Actor, id int) error
}

// ProductHandler は商品のHTTPリクエストを処理します。
type ProductHandler struct {
	uc ProductUsecase
}

// NewProductHandler はProductHandlerの新しいインスタンスを生成します。
func NewProductHandler(uc ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List は商品一覧をページ単位で返します。
//
// エンドポイント例:
// GET /products?keyword=air&brand=1&orderBy=price&page=2&limit=10
func (h *ProductHandler) List(c *gin.Context) {
	var q dto.ProductListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}

	page, err := h.uc.List(c.Request.Context(), q.ToQuery())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPagedRes(page, dto.NewProductRes))
}

// Get は商品1件をブランド・カテゴリ付きで返します。
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductRes(p))
}

// Create は商品を登録します（管理者のみ）。
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	p, err := h.uc.Create(c.Request.Context(), jwtmw.ActorFromContext(c), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	slog.Info("product created", "id", p.ID, "actor", jwtmw.ActorFromContext(c).Identity())
	c.JSON(http.StatusCreated, dto.NewProductRes(p))
}

// Update は商品を更新します（管理者のみ）。
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	p, err := h.uc.Update(c.Request.Context(), jwtmw.ActorFromContext(c), id, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductRes(p))
}

// Delete は商品を論理削除します（管理者のみ）。
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), jwtmw.ActorFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	slog.Info("product deleted", "id", id, "actor", jwtmw.ActorFromContext(c).Identity())
	c.Status(http.StatusNoContent)
}

var errInvalidID = errors.New("id must be a positive integer")

// pathID parses the :id parameter and writes a 400 when it is not a positive integer.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, errInvalidID)
		return 0, false
	}
	return id, true
}
