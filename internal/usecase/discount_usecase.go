package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cookieshop/internal/domain/model"
	repo "cookieshop/internal/repository"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type DiscountUsecase struct {
	codes repo.DiscountCodeRepository
	clock Clock
}

func NewDiscountUsecase(codes repo.DiscountCodeRepository, clock Clock) *DiscountUsecase {
	if clock == nil {
		clock = SystemClock{}
	}
	return &DiscountUsecase{codes: codes, clock: clock}
}

type DiscountInput struct {
	Code           string
	Type           string
	Value          decimal.Decimal
	ExpirationDate time.Time
}

type DiscountOutput struct {
	ID             int64           `json:"id"`
	Code           string          `json:"code"`
	Type           string          `json:"type"`
	Value          decimal.Decimal `json:"value"`
	ExpirationDate string          `json:"expiration_date"`
}

var hundred = decimal.NewFromInt(100)

func (u *DiscountUsecase) Create(ctx context.Context, in DiscountInput) (DiscountOutput, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return DiscountOutput{}, validation("code is required")
	}

	if _, err := u.codes.FindByCode(ctx, code); err == nil {
		return DiscountOutput{}, alreadyExists(fmt.Sprintf("discount code '%s' already exists", code))
	} else if err != repo.ErrNotFound {
		return DiscountOutput{}, dbError()
	}

	typ, err := u.checkInput(in)
	if err != nil {
		return DiscountOutput{}, err
	}

	d, err := u.codes.Create(ctx, model.DiscountCode{
		Code:           code,
		Type:           typ,
		Value:          in.Value,
		ExpirationDate: dateOnly(in.ExpirationDate),
	})
	if err != nil {
		return DiscountOutput{}, fromRepo(err, "discount code not found")
	}
	return toDiscountOutput(d), nil
}

func (u *DiscountUsecase) Get(ctx context.Context, id int64) (DiscountOutput, error) {
	d, err := u.codes.FindByID(ctx, id)
	if err != nil {
		return DiscountOutput{}, fromRepo(err, fmt.Sprintf("discount code not found with ID: %d", id))
	}
	return toDiscountOutput(d), nil
}

func (u *DiscountUsecase) List(ctx context.Context) ([]DiscountOutput, error) {
	ds, err := u.codes.List(ctx)
	if err != nil {
		return []DiscountOutput{}, dbError()
	}
	outs := make([]DiscountOutput, 0, len(ds))
	for _, d := range ds {
		outs = append(outs, toDiscountOutput(d))
	}
	return outs, nil
}

// 期限切れはInvalidArgument
func (u *DiscountUsecase) GetByCode(ctx context.Context, code string) (DiscountOutput, error) {
	d, err := u.codes.FindByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return DiscountOutput{}, fromRepo(err, "discount code not found: "+code)
	}
	if d.ExpiredAt(u.clock.Now()) {
		return DiscountOutput{}, invalidArgument("discount code expired")
	}
	return toDiscountOutput(d), nil
}

// コードが変わるときだけ重複を見る
func (u *DiscountUsecase) Update(ctx context.Context, id int64, in DiscountInput) (DiscountOutput, error) {
	existing, err := u.codes.FindByID(ctx, id)
	if err != nil {
		return DiscountOutput{}, fromRepo(err, fmt.Sprintf("discount code not found with ID: %d", id))
	}

	code := strings.TrimSpace(in.Code)
	if code == "" {
		return DiscountOutput{}, validation("code is required")
	}
	if code != existing.Code {
		other, err := u.codes.FindByCode(ctx, code)
		if err == nil && other.ID != id {
			return DiscountOutput{}, alreadyExists(fmt.Sprintf("discount code '%s' already exists", code))
		}
		if err != nil && err != repo.ErrNotFound {
			return DiscountOutput{}, dbError()
		}
	}

	typ, err := u.checkInput(in)
	if err != nil {
		return DiscountOutput{}, err
	}

	existing.Code = code
	existing.Type = typ
	existing.Value = in.Value
	existing.ExpirationDate = dateOnly(in.ExpirationDate)

	if err := u.codes.Update(ctx, existing); err != nil {
		return DiscountOutput{}, fromRepo(err, fmt.Sprintf("discount code not found with ID: %d", id))
	}
	return toDiscountOutput(existing), nil
}

func (u *DiscountUsecase) Delete(ctx context.Context, id int64) error {
	if err := u.codes.Delete(ctx, id); err != nil {
		return fromRepo(err, fmt.Sprintf("discount code not found with ID: %d", id))
	}
	return nil
}

func (u *DiscountUsecase) checkInput(in DiscountInput) (model.DiscountType, error) {
	typ, ok := model.ParseDiscountType(in.Type)
	if !ok {
		return "", invalidArgument("invalid discount type: " + in.Type)
	}
	if !in.Value.IsPositive() {
		return "", validation("discount value must be positive")
	}
	if typ == model.DiscountTypePercentage && in.Value.GreaterThan(hundred) {
		return "", validation("percentage discount cannot exceed 100%")
	}
	if in.ExpirationDate.IsZero() {
		return "", validation("expiration date is required")
	}
	if !dateOnly(in.ExpirationDate).After(dateOnly(u.clock.Now())) {
		return "", validation("expiration date must be in the future")
	}
	return typ, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func toDiscountOutput(d model.DiscountCode) DiscountOutput {
	return DiscountOutput{
		ID:             d.ID,
		Code:           d.Code,
		Type:           string(d.Type),
		Value:          d.Value,
		ExpirationDate: d.ExpirationDate.Format(dateLayout),
	}
}
