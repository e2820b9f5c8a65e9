package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/shopit/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	if u.ID == "" {
		u.ID = newID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	if err := r.emailFree(ctx, u.Email, ""); err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, translateGormErr(err, "email")
	}
	return u, nil
}

func (r *GormRepo) GetUser(ctx context.Context, id string, opts ...ReadOption) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return r.findUser(ctx, collectReadOptions(opts), "id = ?", id)
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string, opts ...ReadOption) (*models.User, error) {
	return r.findUser(ctx, collectReadOptions(opts), "email = ?", email)
}

func (r *GormRepo) FindUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	return r.findUser(ctx, readOptions{},
		"reset_password_token = ? AND reset_password_expire > ?", tokenHash, now.UTC())
}

func (r *GormRepo) findUser(ctx context.Context, o readOptions, query string, args ...any) (*models.User, error) {
	q := r.DB.WithContext(ctx)
	if !o.withPassword {
		q = q.Omit("password")
	}

	var user models.User
	if err := q.Where(query, args...).First(&user).Error; err != nil {
		return nil, translateGormErr(err, "")
	}
	return &user, nil
}

func (r *GormRepo) SetResetToken(ctx context.Context, id string, tokenHash *string, expiresAt *time.Time) error {
	if err := checkID(id); err != nil {
		return err
	}
	var tok, exp any
	if tokenHash != nil {
		tok = *tokenHash
	}
	if expiresAt != nil {
		exp = expiresAt.UTC()
	}

	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]any{
		"reset_password_token":  tok,
		"reset_password_expire": exp,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if params.Name != nil {
		updates["name"] = *params.Name
	}
	if params.Email != nil {
		if err := r.emailFree(ctx, *params.Email, id); err != nil {
			return nil, err
		}
		updates["email"] = *params.Email
	}
	if params.Role != nil {
		updates["role"] = *params.Role
	}
	if params.PasswordHash != nil {
		updates["password"] = *params.PasswordHash
	}
	if params.ClearReset {
		updates["reset_password_token"] = nil
		updates["reset_password_expire"] = nil
	}

	if len(updates) > 0 {
		res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, translateGormErr(res.Error, "email")
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.GetUser(ctx, id)
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Omit("password").Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepo) DeleteUser(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := r.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) emailFree(ctx context.Context, email, exceptID string) error {
	q := r.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return &DuplicateError{Field: "email"}
	}
	return nil
}
