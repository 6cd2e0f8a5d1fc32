package domain

import "strings"

// Role описывает роль аккаунта на площадке. Набор открытый: неизвестные значения
// сохраняются и читаются как есть.
type Role string

const (
	// RoleBuyer — покупатель, роль по умолчанию при регистрации.
	RoleBuyer Role = "buyer"
	// RoleSeller — продавец, владеет объявлениями.
	RoleSeller Role = "seller"
)

// Known сообщает, относится ли роль к штатным значениям.
func (r Role) Known() bool {
	switch r {
	case RoleBuyer, RoleSeller:
		return true
	default:
		return false
	}
}

// Account — учётная запись площадки.
type Account struct {
	ID   int
	Name string
	// Email — ключ входа, сравнивается без учёта регистра.
	Email string
	// Password хранится в открытом виде, как в исходном формате файлов.
	Password string
	Role     Role
}

// NormalizeEmail отбрасывает пробелы вокруг ключа входа. Регистр сохраняется.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// SameEmail сравнивает ключ входа без учёта регистра.
func (a Account) SameEmail(email string) bool {
	return strings.EqualFold(NormalizeEmail(a.Email), NormalizeEmail(email))
}

// Validate проверяет поля кандидата перед регистрацией.
func (a Account) Validate() []error {
	var errs []error

	if strings.TrimSpace(a.Name) == "" {
		errs = append(errs, ErrNameRequired)
	}
	if strings.TrimSpace(a.Email) == "" {
		errs = append(errs, ErrEmailRequired)
	}
	if a.Password == "" {
		errs = append(errs, ErrPasswordRequired)
	}
	for _, v := range []string{a.Name, a.Email, a.Password, string(a.Role)} {
		if !Storable(v) {
			errs = append(errs, ErrValueNotStorable)
			break
		}
	}

	return errs
}

// Purchaser — покупатель заказа, разрешённый по AccountID в момент чтения.
// Known=false означает, что аккаунт с таким идентификатором не найден.
type Purchaser struct {
	Account Account
	Known   bool
}

// UnknownAccountName подставляется в имя покупателя, если аккаунт не найден.
const UnknownAccountName = "unknown account"

// KnownPurchaser оборачивает найденный аккаунт.
func KnownPurchaser(a Account) Purchaser {
	return Purchaser{Account: a, Known: true}
}

// UnknownPurchaser возвращает явный маркер неизвестного аккаунта.
func UnknownPurchaser(id int) Purchaser {
	return Purchaser{Account: Account{ID: id, Name: UnknownAccountName}}
}

// Storable сообщает, можно ли записать значение в плоский файл без экранирования.
func Storable(v string) bool {
	return !strings.ContainsAny(v, ",\r\n")
}
