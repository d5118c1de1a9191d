package store

import (
	"fmt"

	"github.com/ipfs/go-datastore"
)

// Table prefixes for height-keyed chain data.
var (
	HeaderPrefix  = datastore.NewKey("headers")
	TxPrefix      = datastore.NewKey("transactions")
	ReceiptPrefix = datastore.NewKey("receipts")
)

// HeightKey returns the key for the given table prefix and block height.
// Heights are zero-padded so lexicographic key order matches height order.
func HeightKey(prefix datastore.Key, height uint64) datastore.Key {
	return prefix.ChildString(fmt.Sprintf("%020d", height))
}
