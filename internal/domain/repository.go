package domain

// AccountRepository описывает требования к хранилищу аккаунтов.
type AccountRepository interface {
	// Register добавляет аккаунт. Возвращает ErrEmailTaken, если email уже занят.
	Register(candidate Account) (Account, error)
	// Authenticate ищет аккаунт по email (без учёта регистра) и точному паролю.
	Authenticate(email, password string) (Account, error)
	// Get возвращает аккаунт по идентификатору или ErrAccountNotFound.
	Get(id int) (Account, error)
	// All возвращает снимок всех аккаунтов.
	All() []Account
}

// ListingRepository описывает требования к хранилищу объявлений.
type ListingRepository interface {
	Add(listing Listing) (Listing, error)
	Remove(id int) error
	Get(id int) (Listing, error)
	All() []Listing
	ListBySeller(sellerID int) []Listing
	// Search ищет по подстроке в названии; пустой запрос даёт пустой результат.
	Search(query string) []Listing
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// SaveOrder присваивает заказу новый идентификатор и дописывает его в хранилище.
	SaveOrder(order Order) (Order, error)
	// All восстанавливает все заказы в порядке следования строк.
	All() ([]Order, error)
	// Get возвращает заказ по идентификатору или ErrOrderNotFound.
	Get(id int) (Order, error)
	// ListByAccount возвращает заказы покупателя.
	ListByAccount(accountID int) ([]Order, error)
}
