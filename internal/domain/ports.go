package domain

// AccountLookup разрешает ссылку на аккаунт по идентификатору.
type AccountLookup interface {
	Get(id int) (Account, error)
}

// ListingLookup разрешает ссылку на объявление по идентификатору.
type ListingLookup interface {
	Get(id int) (Listing, error)
}
