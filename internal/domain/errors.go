package domain

import "errors"

var (
	// Ошибка пустого имени аккаунта или объявления.
	ErrNameRequired = errors.New("name is required")
	// Ошибка пустого email при регистрации.
	ErrEmailRequired = errors.New("email is required")
	// Ошибка пустого пароля при регистрации.
	ErrPasswordRequired = errors.New("password is required")
	// Ошибка значения, которое нельзя записать в плоский файл (запятая или перевод строки).
	ErrValueNotStorable = errors.New("value must not contain commas or line breaks")
	// Ошибка отрицательной цены объявления.
	ErrPriceNegative = errors.New("price must be non-negative")
	// Ошибка отсутствующего покупателя в заказе.
	ErrAccountRequired = errors.New("order account is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrLinesRequired = errors.New("order must contain at least one line")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrLineQtyInvalid = errors.New("line quantity must be greater than zero")
	// Ошибка отсутствующей ссылки на объявление в позиции.
	ErrListingRequired = errors.New("line listing is required")

	// ErrEmailTaken возвращается, если email уже занят (без учёта регистра).
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials возвращается при неудачной аутентификации.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountNotFound возвращается, если аккаунт не найден.
	ErrAccountNotFound = errors.New("account not found")
	// ErrListingNotFound возвращается, если объявление не найдено.
	ErrListingNotFound = errors.New("listing not found")
	// ErrSellerNotFound возвращается при включённой проверке владельца объявления.
	ErrSellerNotFound = errors.New("listing seller not found")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
)

// IsNotFound проверяет, относится ли ошибка к отсутствующим сущностям.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrListingNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}

// IsRejected проверяет, отклонена ли операция по бизнес-причине, а не из-за хранилища.
func IsRejected(err error) bool {
	return errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrSellerNotFound)
}

// IsInvalid проверяет, отклонён ли ввод валидацией.
func IsInvalid(err error) bool {
	for _, target := range []error{
		ErrNameRequired, ErrEmailRequired, ErrPasswordRequired, ErrValueNotStorable, ErrPriceNegative,
		ErrAccountRequired, ErrLinesRequired, ErrLineQtyInvalid, ErrListingRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
