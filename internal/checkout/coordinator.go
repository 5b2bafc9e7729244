package checkout

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/simpleshop/storefront-core/internal/cart"
	"github.com/simpleshop/storefront-core/internal/orders"
	"github.com/simpleshop/storefront-core/internal/pricing"
	pkgerrors "github.com/simpleshop/storefront-core/pkg/errors"
	"github.com/simpleshop/storefront-core/pkg/logger"
)

// State is the submission lifecycle of the coordinator.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// CustomerInfo is the form data required to place an order. Every field is
// required at submission time; the email must be a deliverable-looking
// address.
type CustomerInfo struct {
	Name    string `json:"customer_name" validate:"required"`
	Email   string `json:"customer_email" validate:"required,email"`
	Phone   string `json:"customer_phone" validate:"required"`
	Address string `json:"customer_address" validate:"required"`
}

// CartAccess is the handle the coordinator holds on the cart. It only ever
// reads snapshots and clears after a confirmed success.
type CartAccess interface {
	Snapshot() []cart.LineItem
	Clear(ctx context.Context) error
}

// OrderCreator issues the order-creation call against the order service.
type OrderCreator interface {
	Create(ctx context.Context, input orders.CreateOrderInput) (*orders.Order, error)
}

// Coordinator validates customer input, builds an order submission from the
// live cart and manages the submit lifecycle. Its state machine is the single
// source of truth for in-flight status: at most one submission is ever
// outstanding.
type Coordinator struct {
	mu    sync.Mutex
	state State

	cart     CartAccess
	orders   OrderCreator
	calc     pricing.Calculator
	validate *validator.Validate
	logg     *logger.Logger
}

// NewCoordinator wires the coordinator to its collaborators.
func NewCoordinator(cartStore CartAccess, orderCreator OrderCreator, calc pricing.Calculator, logg *logger.Logger) (*Coordinator, error) {
	if cartStore == nil {
		return nil, fmt.Errorf("cart access required")
	}
	if orderCreator == nil {
		return nil, fmt.Errorf("order creator required")
	}
	return &Coordinator{
		state:    StateIdle,
		cart:     cartStore,
		orders:   orderCreator,
		calc:     calc,
		validate: newValidator(),
		logg:     logg,
	}, nil
}

// State reports the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit runs one checkout attempt. The order request is rebuilt from the
// live cart on every call, never reused from a previous attempt. While a
// submission is in flight further calls are rejected without touching the
// network, which rules out duplicate orders from repeated user action. The
// cart is cleared only after the service confirms the order.
//
// This gives at-most-one submission per user action, not exactly-once
// delivery: a client failure mid-flight can still duplicate an order on the
// service side.
func (c *Coordinator) Submit(ctx context.Context, info CustomerInfo) (string, error) {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "a submission is already in progress")
	}

	items := c.cart.Snapshot()
	if len(items) == 0 {
		c.mu.Unlock()
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart is empty").
			WithDetails(map[string]string{"cart": "must contain at least one item"})
	}
	if err := c.validateInfo(info); err != nil {
		c.mu.Unlock()
		return "", err
	}

	c.state = StateSubmitting
	c.mu.Unlock()

	input := buildOrderInput(info, items, c.calc)

	order, err := c.orders.Create(ctx, input)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		// Cart and form state stay untouched so the user can resubmit.
		c.state = StateFailed
		if typed := pkgerrors.As(err); typed != nil {
			return "", typed
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order submission failed")
	}

	if clearErr := c.cart.Clear(ctx); clearErr != nil && c.logg != nil {
		// The order exists; a failed snapshot write must not fail the checkout.
		c.logg.Error(c.logg.WithOrderID(ctx, order.ID), "clearing cart after checkout", clearErr)
	}

	c.state = StateSucceeded
	if c.logg != nil {
		c.logg.Info(c.logg.WithOrderID(ctx, order.ID), "checkout succeeded")
	}
	return order.ID, nil
}

// buildOrderInput snapshots the cart and form values into an immutable
// submission payload.
func buildOrderInput(info CustomerInfo, items []cart.LineItem, calc pricing.Calculator) orders.CreateOrderInput {
	orderItems := make([]orders.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = orders.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			Price:       item.UnitPrice.InexactFloat64(),
		}
	}

	totals := calc.Totals(items)
	return orders.CreateOrderInput{
		CustomerName:    info.Name,
		CustomerEmail:   info.Email,
		CustomerPhone:   info.Phone,
		CustomerAddress: info.Address,
		Items:           orderItems,
		Total:           totals.Total.InexactFloat64(),
	}
}

func (c *Coordinator) validateInfo(info CustomerInfo) error {
	err := c.validate.Struct(info)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = fieldMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "customer information is incomplete").
			WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "customer information is invalid")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}
