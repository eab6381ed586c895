package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"cookieshop/internal/domain/model"
	"cookieshop/internal/repository"
	"cookieshop/internal/usecase"
	"cookieshop/internal/validator"
)

// 会員登録の入力
type RegisterUserInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// 会員登録の出力
type RegisterUserOutput struct {
	User usecase.UserOutput
}

// 競合
var ErrEmailAlreadyExists = errors.New("email already exists")

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// 会員登録実行（ロールは常にUSER）
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput
	email := strings.TrimSpace(in.Email)

	// 形式チェック（validatorのエラーをそのまま返す）
	if err := validator.ValidateEmail(email); err != nil {
		return out, err
	}
	if err := validator.ValidatePassword(in.Password); err != nil {
		return out, err
	}
	if err := validator.ValidatePhone(in.PhoneNumber); err != nil {
		return out, err
	}

	// email重複チェック
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return out, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return out, err
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashed,         // ハッシュを保存（平文は保存しない）
		Role:         model.RoleUser, // 登録は常にUSER
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Address:      in.Address,
		PhoneNumber:  in.PhoneNumber,
	}

	// DBへ保存（同時登録はunique制約で弾く）
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return out, ErrEmailAlreadyExists
		}
		return out, err
	}

	out.User = usecase.ToUserOutput(user)
	return out, nil
}
