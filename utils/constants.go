// File: utils/constants.go
package utils

import "time"

// SessionPrefix is the prefix used for Redis session keys.
const SessionPrefix = "session:"

// QuotePrefix is the prefix used for Redis quote session keys.
const QuotePrefix = "quote:"

// CartPrefix is the prefix used for Redis cart keys.
const CartPrefix = "cart:"

// QuoteTTL is how long an abandoned quote session is kept.
const QuoteTTL = 30 * time.Minute

// CartTTL is how long an untouched cart is kept.
const CartTTL = 7 * 24 * time.Hour

// SessionCookie names the browser cookie carrying the session id.
const SessionCookie = "choreify_session"

// CartCookie names the browser cookie keying an anonymous cart.
const CartCookie = "choreify_cart"
