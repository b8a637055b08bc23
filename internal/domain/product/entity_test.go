package product

import (
	"errors"
	"testing"
)

func newValue(stock int) *OptionValue {
	return &OptionValue{
		ID:            101,
		Name:          "红色",
		StockQuantity: stock,
		ExtraPrice:    500,
		Version:       7,
		Product:       ProductRef{ID: 10, StoreID: 1, Name: "保温杯", Price: 5900},
	}
}

// TestOptionValue_Decrease 正常扣减:库存减少,并发戳+1
func TestOptionValue_Decrease(t *testing.T) {
	v := newValue(20)

	if err := v.Decrease(3); err != nil {
		t.Fatalf("期望扣减成功,实际失败: %v", err)
	}
	if v.StockQuantity != 17 {
		t.Errorf("期望库存17,实际%d", v.StockQuantity)
	}
	if v.Version != 8 {
		t.Errorf("期望并发戳8,实际%d", v.Version)
	}

	// 扣到0合法
	if err := v.Decrease(17); err != nil {
		t.Fatalf("扣减到0应该成功: %v", err)
	}
	if v.StockQuantity != 0 {
		t.Errorf("期望库存0,实际%d", v.StockQuantity)
	}
}

// TestOptionValue_Decrease_OutOfStock 库存不足时拒绝且不变更
func TestOptionValue_Decrease_OutOfStock(t *testing.T) {
	v := newValue(5)

	err := v.Decrease(6)
	if !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("期望ErrOutOfStock,实际%v", err)
	}
	if v.StockQuantity != 5 || v.Version != 7 {
		t.Errorf("失败时不能变更状态: stock=%d version=%d", v.StockQuantity, v.Version)
	}
}

// TestOptionValue_Decrease_InvalidQuantity 非正数量拒绝
func TestOptionValue_Decrease_InvalidQuantity(t *testing.T) {
	v := newValue(5)

	for _, q := range []int{0, -1} {
		if err := v.Decrease(q); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("数量%d期望ErrInvalidQuantity,实际%v", q, err)
		}
	}
}

// TestOptionValue_Restore 恢复库存:数量增加,并发戳+1
func TestOptionValue_Restore(t *testing.T) {
	v := newValue(2)

	if err := v.Restore(3); err != nil {
		t.Fatalf("期望恢复成功: %v", err)
	}
	if v.StockQuantity != 5 {
		t.Errorf("期望库存5,实际%d", v.StockQuantity)
	}
	if v.Version != 8 {
		t.Errorf("期望并发戳8,实际%d", v.Version)
	}

	if err := v.Restore(0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("数量0期望ErrInvalidQuantity,实际%v", err)
	}
}

// TestOptionValue_CanDecrease 扣减前校验
func TestOptionValue_CanDecrease(t *testing.T) {
	v := newValue(5)

	cases := []struct {
		quantity int
		want     bool
	}{
		{1, true},
		{5, true},
		{6, false},
		{0, false},
		{-1, false},
	}
	for _, c := range cases {
		if got := v.CanDecrease(c.quantity); got != c.want {
			t.Errorf("CanDecrease(%d)期望%v,实际%v", c.quantity, c.want, got)
		}
	}
}

// TestOptionValue_BelongsToStore 店铺归属校验
func TestOptionValue_BelongsToStore(t *testing.T) {
	v := newValue(5)

	if !v.BelongsToStore(1) {
		t.Error("选项值应归属店铺1")
	}
	if v.BelongsToStore(2) {
		t.Error("选项值不应归属店铺2")
	}
}

// TestOptionValue_SellingPrice 售价 = 基础价 + 选项加价
func TestOptionValue_SellingPrice(t *testing.T) {
	v := newValue(5)

	if got := v.SellingPrice(); got != 6400 {
		t.Errorf("期望售价6400,实际%d", got)
	}
}
