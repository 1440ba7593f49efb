// Package common contains shared constants and sentinel errors used across
// the files manager components.
package common

// TokenHeaderName is the HTTP header that carries the session token on
// authenticated requests.
const TokenHeaderName = "X-Token"

// RootParentID is the parent id of top-level entries.
const RootParentID = "0"

// SessionKeyPrefix prefixes every token key in the session store.
const SessionKeyPrefix = "auth_"

// DefaultPageSize is the number of entries returned per listing page.
const DefaultPageSize = 20

// MaxPageSize caps the page size a caller may request.
const MaxPageSize = 1000
