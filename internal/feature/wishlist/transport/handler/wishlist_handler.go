// Package handler はwishlistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	catalog "cartify_backend/internal/feature/catalog/domain/entity"
	"cartify_backend/internal/feature/wishlist/transport/http/dto"
	"cartify_backend/internal/platform/http/response"
	jwtmw "cartify_backend/internal/platform/jwt"
	"cartify_backend/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// WishlistUsecase はウィッシュリスト操作のユースケースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type WishlistUsecase interface {
	List(ctx context.Context, userID uint) ([]*catalog.Product, error)
	Add(ctx context.Context, userID uint, productID int) (bool, error)
	Remove(ctx context.Context, userID uint, productID int) error
}

// WishlistHandler はウィッシュリストのHTTPリクエストを処理します。
type WishlistHandler struct {
	uc WishlistUsecase
}

// NewWishlistHandler はWishlistHandlerの新しいインスタンスを生成します。
func NewWishlistHandler(uc WishlistUsecase) *WishlistHandler {
	return &WishlistHandler{uc: uc}
}

var errInvalidProductID = errors.New("product id must be a positive integer")

func (h *WishlistHandler) List(c *gin.Context) {
	userID, ok := jwtmw.UserIDFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}
	products, err := h.uc.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewWishlistRes(products))
}

// Add は商品をウィッシュリストに追加します。
// 新規追加は201、登録済みの場合は200を返します。
func (h *WishlistHandler) Add(c *gin.Context) {
	userID, productID, ok := h.params(c)
	if !ok {
		return
	}
	added, err := h.uc.Add(c.Request.Context(), userID, productID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !added {
		c.JSON(http.StatusOK, response.MessageResponse{Message: "already on the wishlist"})
		return
	}
	c.JSON(http.StatusCreated, response.MessageResponse{Message: "added to the wishlist"})
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	userID, productID, ok := h.params(c)
	if !ok {
		return
	}
	if err := h.uc.Remove(c.Request.Context(), userID, productID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// params returns the authenticated user and the :id product parameter, writing the error response when either is missing.
func (h *WishlistHandler) params(c *gin.Context) (uint, int, bool) {
	userID, ok := jwtmw.UserIDFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return 0, 0, false
	}
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil || productID <= 0 {
		response.BadRequest(c, errInvalidProductID)
		return 0, 0, false
	}
	return userID, productID, true
}
