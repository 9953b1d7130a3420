package mapping

// AliasTable maps a target field name to the source column names historically
// seen for it. It is an immutable configuration value handed to the mapper at
// construction: an alias hit short-circuits similarity scoring entirely.
type AliasTable map[string][]string

// DefaultAliasTable covers the synonyms accumulated from past merchant
// exports, including the usual Chinese marketplace column names.
func DefaultAliasTable() AliasTable {
	return AliasTable{
		"order_id":     {"order_no", "order_number", "ordernum", "tid", "trade_id", "订单号"},
		"product_id":   {"product_no", "goods_id", "item_id", "sku_id", "商品编号"},
		"amount":       {"total_amount", "pay_amount", "order_amount", "money", "金额", "总价"},
		"price":        {"unit_price", "sale_price", "goods_price", "单价"},
		"quantity":     {"num", "count", "qty", "数量", "件数"},
		"sku":          {"sku_code", "skucode", "goods_sn", "商品编码"},
		"product_name": {"goods_name", "title", "商品名称", "名称"},
		"status":       {"order_status", "state", "状态", "订单状态"},
		"order_date":   {"date", "created_at", "下单日期", "交易时间"},
		"buyer_name":   {"buyer", "customer_name", "买家", "买家昵称"},
		"stock":        {"inventory", "库存"},
	}
}

// lookup returns the first of the candidate targets the source column is a
// known alias of. Candidates are checked in order so the result does not
// depend on map iteration. Matching is done on normalized names.
func (t AliasTable) lookup(sourceField string, targets []string) (string, bool) {
	normalized := normalizeFieldName(sourceField)
	for _, target := range targets {
		for _, alias := range t[target] {
			if normalizeFieldName(alias) == normalized {
				return target, true
			}
		}
	}
	return "", false
}
