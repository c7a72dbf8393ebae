package library

type Wallet struct {
	PrivateKey string
	SeedWords  string
	Account    Account
}

// Account is a lowercase hex x-only public key.
type Account = string

type Sha256 = string

type Relay = string
