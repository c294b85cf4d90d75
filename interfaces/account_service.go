package interfaces

import "github.com/salbajnr-iv/bitpandaproapp.com-sub000/models"

// AccountService is the boundary to the account/balance backend. The order
// form engine only ever asks for balances and hands over committed orders;
// auth, storage and CRUD live on the other side of this interface.
type AccountService interface {
	GetAvailableBalance(asset string) (float64, error)
	GetTotalBalance(asset string) (float64, error)
	PersistOrder(record models.OrderRecord) error
}
