// Package handler はcartフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"cartify_backend/internal/feature/cart/domain/entity"
	"cartify_backend/internal/feature/cart/transport/http/dto"
	"cartify_backend/internal/feature/cart/usecase"
	"cartify_backend/internal/platform/http/response"
	jwtmw "cartify_backend/internal/platform/jwt"
	"cartify_backend/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// CartUsecase はカート操作のユースケースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CartUsecase interface {
	Get(ctx context.Context, userID string) (*usecase.CartView, error)
	AddItem(ctx context.Context, userID string, productID int) (*entity.Cart, error)
	UpdateItemCount(ctx context.Context, userID, itemID string, count int) (*entity.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*entity.Cart, error)
	Clear(ctx context.Context, userID string) error
}

// CartHandler はカートのHTTPリクエストを処理します。
// すべてのエンドポイントはAuthRequiredの後段で動作します。
type CartHandler struct {
	uc CartUsecase
}

// NewCartHandler はCartHandlerの新しいインスタンスを生成します。
func NewCartHandler(uc CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

var errInvalidProductID = errors.New("productId must be a positive integer")

// Get はログインユーザーのカートを返します。
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.uc.Get(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCartRes(view))
}

// AddItem は商品をカートに1つ追加します。
//
// エンドポイント例:
// PUT /cart/12
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil || productID <= 0 {
		response.BadRequest(c, errInvalidProductID)
		return
	}
	if _, err := h.uc.AddItem(c.Request.Context(), userID, productID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateItem は明細の数量を変更します。
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpdateItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	if _, err := h.uc.UpdateItemCount(c.Request.Context(), userID, req.ItemID, *req.NewCount); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if _, err := h.uc.RemoveItem(c.Request.Context(), userID, c.Param("itemId")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.uc.Clear(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// currentUser returns the cart owner and writes a 401 when the request is anonymous.
func currentUser(c *gin.Context) (string, bool) {
	id, ok := jwtmw.UserIDFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return "", false
	}
	return strconv.FormatUint(uint64(id), 10), true
}
