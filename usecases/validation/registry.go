package validation

import (
	"github.com/ecomdata/import-backend/models"
)

// DataType describes one importable entity: the canonical target fields a
// source file is mapped onto, and the validator its rows must pass.
type DataType struct {
	Name         string
	TargetFields []string
	Validator    *Validator
}

// Registry holds the known data types. Lookups by unknown name return
// models.ErrUnknownDataType so callers can surface it as a bad parameter.
type Registry struct {
	types map[string]DataType
}

func NewRegistry(types ...DataType) *Registry {
	registry := &Registry{types: make(map[string]DataType, len(types))}
	for _, dataType := range types {
		registry.Register(dataType)
	}
	return registry
}

func (r *Registry) Register(dataType DataType) {
	r.types[dataType.Name] = dataType
}

func (r *Registry) Get(name string) (DataType, error) {
	dataType, ok := r.types[name]
	if !ok {
		return DataType{}, models.ErrUnknownDataType
	}
	return dataType, nil
}

// DefaultRegistry returns the built-in order and product data types.
func DefaultRegistry() *Registry {
	return NewRegistry(OrderDataType(), ProductDataType())
}

func OrderDataType() DataType {
	return DataType{
		Name: "order",
		TargetFields: []string{
			"order_id", "product_id", "product_name", "quantity", "amount",
			"order_date", "ship_date", "status", "buyer_name",
		},
		Validator: NewValidator(
			[]Rule{
				{Name: "order_id_required", Field: "order_id", Severity: models.SeverityError, Check: Required()},
				{Name: "order_id_max_length", Field: "order_id", Severity: models.SeverityError, Check: MaxLength(64)},
				{Name: "amount_required", Field: "amount", Severity: models.SeverityError, Check: Required()},
				{Name: "amount_non_negative", Field: "amount", Severity: models.SeverityError, Check: NumberMin(0)},
				{Name: "amount_plausible", Field: "amount", Severity: models.SeverityWarning, Check: NumberRange(0, 1_000_000)},
				{Name: "quantity_non_negative", Field: "quantity", Severity: models.SeverityError, Check: NumberMin(0)},
				{Name: "order_date_required", Field: "order_date", Severity: models.SeverityError, Check: Required()},
				{Name: "order_date_format", Field: "order_date", Severity: models.SeverityError, Check: DateFormat()},
				{Name: "ship_date_format", Field: "ship_date", Severity: models.SeverityError, Check: DateFormat()},
				{Name: "status_known", Field: "status", Severity: models.SeverityWarning, Check: OneOf("pending", "paid", "shipped", "completed", "cancelled", "refunded")},
				{Name: "buyer_name_max_length", Field: "buyer_name", Severity: models.SeverityWarning, Check: MaxLength(128)},
			},
			[]RowRule{
				{Name: "ship_after_order", Field: "ship_date", Severity: models.SeverityError, Check: DateOrder("order_date", "ship_date")},
			},
		),
	}
}

func ProductDataType() DataType {
	return DataType{
		Name: "product",
		TargetFields: []string{
			"sku", "product_name", "price", "stock", "status",
		},
		Validator: NewValidator(
			[]Rule{
				{Name: "sku_required", Field: "sku", Severity: models.SeverityError, Check: Required()},
				{Name: "sku_max_length", Field: "sku", Severity: models.SeverityError, Check: MaxLength(64)},
				{Name: "product_name_required", Field: "product_name", Severity: models.SeverityError, Check: Required()},
				{Name: "product_name_max_length", Field: "product_name", Severity: models.SeverityWarning, Check: MaxLength(255)},
				{Name: "price_required", Field: "price", Severity: models.SeverityError, Check: Required()},
				{Name: "price_non_negative", Field: "price", Severity: models.SeverityError, Check: NumberMin(0)},
				{Name: "stock_non_negative", Field: "stock", Severity: models.SeverityError, Check: NumberMin(0)},
				{Name: "status_known", Field: "status", Severity: models.SeverityWarning, Check: OneOf("active", "inactive", "draft")},
			},
			nil,
		),
	}
}
