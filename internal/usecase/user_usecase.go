package usecase

import (
	"context"
	"log"
	"net/http"
	"time"

	"pixstore/internal/cpf"
	"pixstore/internal/domain/model"
	repo "pixstore/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// TokenIssuer signs access tokens; the JWT implementation lives in main.
type TokenIssuer interface {
	Issue(userID int64, role model.Role, telefone string, now time.Time) (string, time.Time, error)
}

type UserUsecase struct {
	tx     repo.TransactionManager
	issuer TokenIssuer
	now    func() time.Time
}

func NewUserUsecase(tx repo.TransactionManager, issuer TokenIssuer) *UserUsecase {
	return &UserUsecase{tx: tx, issuer: issuer, now: time.Now}
}

type CreatePinInput struct {
	Telefone string
	Pin      string
	Nome     string
	CPF      string
	Endereco model.Address
}

type UserOutput struct {
	ID       int64  `json:"id"`
	Telefone string `json:"telefone"`
	Nome     string `json:"nome"`
	Role     string `json:"role"`
}

type LoginOutput struct {
	User      UserOutput `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
}

func pinValid(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CreatePin creates the account on first use or replaces the PIN of an
// existing one, then backfills ownership of past orders for the phone.
func (u *UserUsecase) CreatePin(ctx context.Context, in CreatePinInput) (UserOutput, error) {
	telefone := cpf.Strip(in.Telefone)
	if len(telefone) < 10 || len(telefone) > 13 {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "telefone inválido")
	}
	if !pinValid(in.Pin) {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "PIN deve ter 4 dígitos")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Pin), bcryptCost)
	if err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "erro interno")
	}

	var out UserOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, found, err := r.Users().FindByTelefone(ctx, telefone)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if found {
			user.PinHash = string(hash)
			if in.Nome != "" {
				user.Nome = in.Nome
			}
			if in.CPF != "" {
				user.CPF = cpf.Strip(in.CPF)
			}
			if err := r.Users().Update(ctx, &user); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		} else {
			user = model.User{
				Telefone: telefone,
				PinHash:  string(hash),
				Nome:     in.Nome,
				CPF:      cpf.Strip(in.CPF),
				Endereco: in.Endereco,
				Role:     model.RoleUser,
			}
			if err := r.Users().Create(ctx, &user); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := r.Orders().LinkUser(ctx, telefone, user.ID); err != nil {
			// Backfill is best-effort; the account itself is created.
			log.Printf("[usuarios] vincular pedidos de %s: %v", telefone, err)
		}

		out = toUserOutput(user)
		return nil
	})

	if err != nil {
		return UserOutput{}, err
	}
	return out, nil
}

func (u *UserUsecase) Login(ctx context.Context, telefone, pin string) (LoginOutput, error) {
	telefone = cpf.Strip(telefone)
	if telefone == "" || !pinValid(pin) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "telefone ou PIN inválido")
	}

	var out LoginOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, found, err := r.Users().FindByTelefone(ctx, telefone)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !found {
			return NewHTTPError(http.StatusUnauthorized, "telefone ou PIN inválido")
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PinHash), []byte(pin)) != nil {
			return NewHTTPError(http.StatusUnauthorized, "telefone ou PIN inválido")
		}

		token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, user.Telefone, u.now())
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "erro interno")
		}

		if err := r.Orders().LinkUser(ctx, telefone, user.ID); err != nil {
			log.Printf("[usuarios] vincular pedidos de %s: %v", telefone, err)
		}

		out = LoginOutput{User: toUserOutput(user), Token: token, ExpiresAt: expiresAt}
		return nil
	})

	if err != nil {
		return LoginOutput{}, err
	}
	return out, nil
}

func (u *UserUsecase) VerifyPin(ctx context.Context, telefone, pin string) (bool, error) {
	telefone = cpf.Strip(telefone)
	if telefone == "" || !pinValid(pin) {
		return false, nil
	}

	var ok bool
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, found, err := r.Users().FindByTelefone(ctx, telefone)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !found {
			return nil
		}
		ok = bcrypt.CompareHashAndPassword([]byte(user.PinHash), []byte(pin)) == nil
		return nil
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

type VerifyOutput struct {
	Exists bool `json:"exists"`
	TemPin bool `json:"temPin"`
}

func (u *UserUsecase) Verify(ctx context.Context, telefone string) (VerifyOutput, error) {
	telefone = cpf.Strip(telefone)
	if telefone == "" {
		return VerifyOutput{}, NewHTTPError(http.StatusBadRequest, "telefone inválido")
	}

	var out VerifyOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, found, err := r.Users().FindByTelefone(ctx, telefone)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = VerifyOutput{Exists: found, TemPin: found && user.PinHash != ""}
		return nil
	})
	if err != nil {
		return VerifyOutput{}, err
	}
	return out, nil
}

func toUserOutput(u model.User) UserOutput {
	return UserOutput{
		ID:       u.ID,
		Telefone: u.Telefone,
		Nome:     u.Nome,
		Role:     string(u.Role),
	}
}
