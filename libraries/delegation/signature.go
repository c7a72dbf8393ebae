package delegation

import (
	"nostrtrust/libraries/keys"
)

const payloadPrefix = "nostr:delegation:"

// SigningPayload is the exact message a delegator signs:
// "nostr:delegation:<delegatee hex>:<conditions>".
func SigningPayload(delegateeHex string, c Conditions) []byte {
	return []byte(payloadPrefix + delegateeHex + ":" + c.String())
}

// Generate signs a grant for delegatee with the delegator's secret key.
func Generate(b keys.Backend, c Conditions, delegatee keys.PublicKey, delegator keys.PrivateKey) (keys.Signature, error) {
	return b.Sign(delegator, SigningPayload(delegatee.Hex(), c))
}

// Verify checks that sig is the delegator's signature over a grant naming delegatee.
// Failures wrap keys.ErrSignature.
func Verify(b keys.Backend, c Conditions, delegator, delegatee keys.PublicKey, sig keys.Signature) error {
	return b.Verify(delegator, SigningPayload(delegatee.Hex(), c), sig)
}
