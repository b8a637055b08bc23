package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appstock "github.com/Profect-4th-IRUM/product-service-sub000/internal/application/stock"
	domainstock "github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/stock"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/interface/http/dto"
	apperrors "github.com/Profect-4th-IRUM/product-service-sub000/pkg/errors"
	"github.com/Profect-4th-IRUM/product-service-sub000/pkg/response"
)

// StockHandler 库存HTTP处理器
type StockHandler struct {
	orchestrator    *appstock.DecrementStockOrchestrator
	rollbackUseCase *appstock.RollbackStockUseCase
	getStockUseCase *appstock.GetStockUseCase
}

// NewStockHandler 创建库存处理器
func NewStockHandler(
	orchestrator *appstock.DecrementStockOrchestrator,
	rollbackUseCase *appstock.RollbackStockUseCase,
	getStockUseCase *appstock.GetStockUseCase,
) *StockHandler {
	return &StockHandler{
		orchestrator:    orchestrator,
		rollbackUseCase: rollbackUseCase,
		getStockUseCase: getStockUseCase,
	}
}

// DecreaseStock 扣减库存
// @Summary      扣减库存
// @Description  订单创建时按店铺扣减多个选项值的库存,防超卖
// @Tags         库存
// @Accept       json
// @Produce      json
// @Param        request body dto.DecreaseStockRequest true "扣减项列表"
// @Success      200 {object} response.Response{data=dto.StockUpdateResponse}
// @Failure      200 {object} response.Response "40001库存不足/40002商品不属于该店铺/40004锁等待超时/40005重试耗尽"
// @Router       /api/v1/stocks/decrease [post]
func (h *StockHandler) DecreaseStock(c *gin.Context) {
	var req dto.DecreaseStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithCause(err))
		return
	}

	result, err := h.orchestrator.Execute(c.Request.Context(), appstock.DecrementRequest{
		StoreID: req.StoreID,
		Items:   toStockItems(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toStockUpdateResponse(result))
}

// RollbackStock 回滚库存(补偿)
// @Summary      回滚库存
// @Description  订单失败/取消时恢复库存;携带幂等键防止重复恢复
// @Tags         库存
// @Accept       json
// @Produce      json
// @Param        request body dto.RollbackStockRequest true "回滚项列表"
// @Success      200 {object} response.Response
// @Failure      200 {object} response.Response "40006重复回滚"
// @Router       /api/v1/stocks/rollback [post]
func (h *StockHandler) RollbackStock(c *gin.Context) {
	var req dto.RollbackStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithCause(err))
		return
	}

	err := h.rollbackUseCase.Execute(c.Request.Context(), appstock.RollbackRequest{
		IdempotencyKey: req.IdempotencyKey,
		Items:          toStockItems(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// GetStock 查询库存快照
// @Summary      查询库存
// @Description  只读查询单个选项值的当前库存(瞬间快照,不可用于扣减决策)
// @Tags         库存
// @Produce      json
// @Param        optionValueID path int true "选项值ID"
// @Success      200 {object} response.Response{data=dto.StockResponse}
// @Failure      200 {object} response.Response "40402选项值不存在"
// @Router       /api/v1/stocks/{optionValueID} [get]
func (h *StockHandler) GetStock(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("optionValueID"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperrors.ErrInvalidParams)
		return
	}

	value, err := h.getStockUseCase.Execute(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.StockResponse{
		OptionValueID: value.ID,
		OptionName:    value.Name,
		ProductID:     value.Product.ID,
		ProductName:   value.Product.Name,
		StockQuantity: value.StockQuantity,
	})
}

// toStockItems DTO → 应用层请求项
func toStockItems(items []dto.StockItemRequest) []domainstock.Item {
	result := make([]domainstock.Item, 0, len(items))
	for _, it := range items {
		result = append(result, domainstock.Item{
			OptionValueID: it.OptionValueID,
			Quantity:      it.Quantity,
		})
	}
	return result
}

// toStockUpdateResponse 领域响应 → HTTP DTO
func toStockUpdateResponse(r *domainstock.UpdateResponse) *dto.StockUpdateResponse {
	items := make([]dto.StockUpdatedItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.StockUpdatedItem{
			ProductID:      it.ProductID,
			OptionValueID:  it.OptionValueID,
			Price:          it.Price,
			ExtraPrice:     it.ExtraPrice,
			DiscountAmount: it.DiscountAmount,
			OptionName:     it.OptionName,
			ProductName:    it.ProductName,
		})
	}
	return &dto.StockUpdateResponse{
		DefaultDeliveryFee: r.DefaultDeliveryFee,
		MinOrderAmount:     r.MinOrderAmount,
		MinOrderQuantity:   r.MinOrderQuantity,
		StoreID:            r.StoreID,
		Items:              items,
	}
}
