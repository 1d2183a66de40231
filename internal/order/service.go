package order

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"orderdesk/internal/apperror"
	"orderdesk/internal/cart"
	"orderdesk/internal/dataapi"
	"orderdesk/internal/logger"
	"orderdesk/internal/pricing"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// RemoteAPI is the slice of the data API the coordinator writes through.
type RemoteAPI interface {
	CreateCustomer(ctx context.Context, input dataapi.CreateCustomerInput) (*dataapi.Customer, error)
	CreateOrder(ctx context.Context, input dataapi.CreateOrderInput) (*dataapi.CreatedOrder, error)
}

// Service validates carts and hands them to the data API. It keeps no per-cart state; see
// Checkout for the submission lifecycle.
type Service interface {
	Validate(snap cart.Snapshot, cfg pricing.Config) error
	SubmitOrder(ctx context.Context, snap cart.Snapshot, cfg pricing.Config) (*Result, error)
	CreateCustomer(ctx context.Context, draft CustomerDraft) (*cart.Customer, error)
}

type service struct {
	api      RemoteAPI
	validate *validator.Validate
}

func NewService(api RemoteAPI) Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &service{api: api, validate: v}
}

// Validate is the local pre-flight check. It never touches the network.
func (s *service) Validate(snap cart.Snapshot, cfg pricing.Config) error {
	if !snap.Customer.Persisted() {
		return ErrNoCustomer
	}
	if snap.IsEmpty() {
		return ErrEmptyCart
	}
	return cfg.Validate()
}

// SubmitOrder issues exactly one createOrder call for a cart that passes Validate.
func (s *service) SubmitOrder(ctx context.Context, snap cart.Snapshot, cfg pricing.Config) (*Result, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SubmitOrder"),
		zap.Int("item_count", len(snap.Items)),
	)

	if err := s.Validate(snap, cfg); err != nil {
		log.Warn("order rejected before submission", zap.Error(err))
		return nil, err
	}

	input, err := ToCreateOrderInput(snap, cfg)
	if err != nil {
		log.Warn("order payload could not be assembled", zap.Error(err))
		return nil, err
	}

	breakdown := pricing.ComputeBreakdown(snap.Items, cfg)
	log = log.With(
		zap.String("customer_id", snap.Customer.ID),
		zap.String("local_total", breakdown.Total.String()),
	)
	log.Info("submitting order")

	created, err := s.api.CreateOrder(ctx, input)
	if err != nil {
		log.Error("order submission failed", zap.Error(err))
		return nil, apperror.Submission(opCreateOrder, err)
	}

	if !created.Total.Equal(breakdown.Total.Round(2)) {
		log.Warn("remote total differs from local breakdown",
			zap.String("remote_total", created.Total.String()),
			zap.String("local_total", breakdown.Total.Round(2).String()),
		)
	}
	log.Info("order created", zap.String("order_id", created.ID.String()))

	return &Result{
		OrderID:   created.ID.String(),
		Total:     created.Total,
		Breakdown: breakdown,
	}, nil
}

// CreateCustomer saves a new customer remotely. It does not attach it to any cart.
func (s *service) CreateCustomer(ctx context.Context, draft CustomerDraft) (*cart.Customer, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateCustomer"),
	)

	if err := s.validateDraft(draft); err != nil {
		log.Warn("customer draft rejected", zap.Error(err))
		return nil, err
	}

	created, err := s.api.CreateCustomer(ctx, toCreateCustomerInput(draft))
	if err != nil {
		log.Error("customer creation failed", zap.Error(err))
		return nil, apperror.Submission(opCreateCustomer, err)
	}

	c := ToCartCustomer(created)
	log.Info("customer created", zap.String("customer_id", c.ID))
	return &c, nil
}

func (s *service) validateDraft(d CustomerDraft) error {
	d = CustomerDraft(toCreateCustomerInput(d))
	err := s.validate.Struct(d)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperror.InvalidField(fe.Field(), "failed "+fe.Tag()+" check")
	}
	return apperror.Validation(err.Error())
}
