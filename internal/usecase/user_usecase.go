package usecase

import (
	"context"
	"fmt"
	"strings"

	"cookieshop/internal/domain/model"
	repo "cookieshop/internal/repository"
	"cookieshop/internal/validator"
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type UserUsecase struct {
	users  repo.UserRepository
	hasher PasswordHasher
}

func NewUserUsecase(users repo.UserRepository, hasher PasswordHasher) *UserUsecase {
	return &UserUsecase{users: users, hasher: hasher}
}

type UserOutput struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

type CreateUserInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

// nilの項目は変更しない
type UpdateUserInput struct {
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number"`
	Role        *string `json:"role"`
}

// 管理者によるユーザー作成（ロール未指定はUSER）
func (u *UserUsecase) Create(ctx context.Context, in CreateUserInput) (UserOutput, error) {
	email := strings.TrimSpace(in.Email)
	if err := validateUserFields(email, in.Password, in.PhoneNumber); err != nil {
		return UserOutput{}, err
	}

	role := model.RoleUser
	if strings.TrimSpace(in.Role) != "" {
		r, ok := model.ParseRole(strings.ToUpper(strings.TrimSpace(in.Role)))
		if !ok {
			return UserOutput{}, invalidArgument("invalid role: " + in.Role)
		}
		role = r
	}

	if err := u.ensureEmailFree(ctx, email); err != nil {
		return UserOutput{}, err
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return UserOutput{}, NewError(KindInternal, "internal error")
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Address:      in.Address,
		PhoneNumber:  in.PhoneNumber,
	}
	if err := u.users.Create(ctx, user); err != nil {
		if err == repo.ErrDuplicate {
			return UserOutput{}, alreadyExists("email already exists: " + email)
		}
		return UserOutput{}, dbError()
	}
	return ToUserOutput(user), nil
}

// 管理者か本人だけ
func (u *UserUsecase) Get(ctx context.Context, p model.Principal, id int64) (UserOutput, error) {
	if !p.IsAdmin() && p.UserID != id {
		return UserOutput{}, forbidden("access denied")
	}
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return UserOutput{}, fromRepo(err, fmt.Sprintf("user not found with ID: %d", id))
	}
	return ToUserOutput(user), nil
}

func (u *UserUsecase) List(ctx context.Context) ([]UserOutput, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return []UserOutput{}, dbError()
	}
	outs := make([]UserOutput, 0, len(users))
	for i := range users {
		outs = append(outs, ToUserOutput(&users[i]))
	}
	return outs, nil
}

// トークンのemailから自分を取得
func (u *UserUsecase) Me(ctx context.Context, p model.Principal) (UserOutput, error) {
	user, err := u.users.FindByEmail(ctx, p.Email)
	if err != nil {
		return UserOutput{}, fromRepo(err, "user not found with email: "+p.Email)
	}
	return ToUserOutput(user), nil
}

// 部分更新。パスワード・ロールが変わったらtoken_versionを+1
func (u *UserUsecase) Update(ctx context.Context, p model.Principal, id int64, in UpdateUserInput) (UserOutput, error) {
	if !p.IsAdmin() && p.UserID != id {
		return UserOutput{}, forbidden("access denied")
	}

	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return UserOutput{}, fromRepo(err, fmt.Sprintf("user not found with ID: %d", id))
	}

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != user.Email {
			if err := validator.ValidateEmail(email); err != nil {
				return UserOutput{}, validation(err.Error())
			}
			if err := u.ensureEmailFree(ctx, email); err != nil {
				return UserOutput{}, err
			}
			user.Email = email
		}
	}

	bump := false
	if in.Password != nil && *in.Password != "" {
		if err := validator.ValidatePassword(*in.Password); err != nil {
			return UserOutput{}, validation(err.Error())
		}
		hash, err := u.hasher.Hash(*in.Password)
		if err != nil {
			return UserOutput{}, NewError(KindInternal, "internal error")
		}
		user.PasswordHash = hash
		bump = true
	}
	if in.Role != nil && strings.TrimSpace(*in.Role) != "" {
		if !p.IsAdmin() {
			return UserOutput{}, forbidden("only admin can change role")
		}
		role, ok := model.ParseRole(strings.ToUpper(strings.TrimSpace(*in.Role)))
		if !ok {
			return UserOutput{}, invalidArgument("invalid role: " + *in.Role)
		}
		if role != user.Role {
			user.Role = role
			bump = true
		}
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	if in.PhoneNumber != nil {
		if err := validator.ValidatePhone(*in.PhoneNumber); err != nil {
			return UserOutput{}, validation(err.Error())
		}
		user.PhoneNumber = *in.PhoneNumber
	}
	if bump {
		user.TokenVersion++
	}

	if err := u.users.Update(ctx, user); err != nil {
		if err == repo.ErrDuplicate {
			return UserOutput{}, alreadyExists("email already exists: " + user.Email)
		}
		return UserOutput{}, fromRepo(err, fmt.Sprintf("user not found with ID: %d", id))
	}
	return ToUserOutput(user), nil
}

// カート・注文・通知もまとめて消える
func (u *UserUsecase) Delete(ctx context.Context, id int64) error {
	if err := u.users.Delete(ctx, id); err != nil {
		return fromRepo(err, fmt.Sprintf("user not found with ID: %d", id))
	}
	return nil
}

func (u *UserUsecase) ensureEmailFree(ctx context.Context, email string) error {
	existing, err := u.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return alreadyExists("email already exists: " + email)
	}
	if err != nil && err != repo.ErrNotFound {
		return dbError()
	}
	return nil
}

func validateUserFields(email string, password string, phone string) error {
	if err := validator.ValidateEmail(email); err != nil {
		return validation(err.Error())
	}
	if err := validator.ValidatePassword(password); err != nil {
		return validation(err.Error())
	}
	if err := validator.ValidatePhone(phone); err != nil {
		return validation(err.Error())
	}
	return nil
}

// model.UserをAPI返却用DTOに変換。
func ToUserOutput(u *model.User) UserOutput {
	return UserOutput{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Address:     u.Address,
		PhoneNumber: u.PhoneNumber,
		Role:        string(u.Role),
	}
}
