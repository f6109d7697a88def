package redis

import (
	"fmt"

	"github.com/mcoot/classgold/internal/model"
)

// Key prefix for all shop data
const keyPrefix = "classgold"

// catalogKey returns the Redis key for an owner's catalog
func catalogKey(owner model.OwnerRef) string {
	return fmt.Sprintf("%s:catalog:%s", keyPrefix, owner)
}

// accountKey returns the Redis key for an Account
func accountKey(id model.AccountID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// credentialsKey returns the Redis key for an account's Credentials
func credentialsKey(id model.AccountID) string {
	return fmt.Sprintf("%s:credentials:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> account_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// rosterIndexKey returns the Redis key for the ZSET of account ids scored by registration order
func rosterIndexKey() string {
	return fmt.Sprintf("%s:idx:roster", keyPrefix)
}

// rosterSeqKey returns the Redis key for the registration sequence counter
func rosterSeqKey() string {
	return fmt.Sprintf("%s:seq:roster", keyPrefix)
}
