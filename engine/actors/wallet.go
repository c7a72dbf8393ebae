package actors

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nbd-wtf/go-nostr/nip06"
	"github.com/sasha-s/go-deadlock"
	"nostrtrust/engine/library"
	"nostrtrust/libraries/keys"
)

var currentWallet library.Wallet
var currentWalletMutex = &deadlock.Mutex{}

// MyWallet returns the current Wallet or creates a new one if there isn't one already
func MyWallet() library.Wallet {
	currentWalletMutex.Lock()
	defer currentWalletMutex.Unlock()
	if len(currentWallet.PrivateKey) == 0 {
		//try to restore wallet from disk
		if w, ok := getWalletFromDisk(); ok {
			currentWallet = w
		} else {
			library.LogCLI("Generating a new wallet, write down the seed words if you want to keep it", 4)
			currentWallet = makeNewWallet()
			fmt.Printf("\n\n~NEW WALLET~\nPublic Key: %s\nSeed Words: %s\n\n", currentWallet.Account, currentWallet.SeedWords)
			if err := persistCurrentWallet(); err != nil {
				library.LogCLI(err.Error(), 0)
			}
		}
	}
	return currentWallet
}

// MyKeys parses the current wallet into a key pair.
func MyKeys() (keys.PrivateKey, keys.PublicKey, error) {
	w := MyWallet()
	sk, err := keys.ParsePrivateKeyHex(keys.Default, w.PrivateKey)
	if err != nil {
		return keys.PrivateKey{}, keys.PublicKey{}, err
	}
	pk, err := keys.Default.PublicKeyOf(sk)
	return sk, pk, err
}

func makeNewWallet() library.Wallet {
	seedWords, err := nip06.GenerateSeedWords()
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
	seed := nip06.SeedFromWords(seedWords)
	skHex, err := nip06.PrivateKeyFromSeed(seed)
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
	return walletFromSecret(skHex, seedWords)
}

func walletFromSecret(skHex, seedWords string) library.Wallet {
	sk, err := keys.ParsePrivateKeyHex(keys.Default, skHex)
	if err != nil {
		library.LogCLI(fmt.Sprintf("Error decoding key: %s", err.Error()), 0)
	}
	pk, err := keys.Default.PublicKeyOf(sk)
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
	return library.Wallet{
		PrivateKey: skHex,
		SeedWords:  seedWords,
		Account:    pk.Hex(),
	}
}

func walletFile() string {
	return filepath.Join(MakeOrGetConfig().GetString("rootDir"), "wallet.dat")
}

func persistCurrentWallet() error {
	bytes, err := json.Marshal(currentWallet)
	if err != nil {
		return err
	}
	return os.WriteFile(walletFile(), bytes, 0600)
}

func getWalletFromDisk() (w library.Wallet, ok bool) {
	file, err := os.ReadFile(walletFile())
	if err != nil {
		library.LogCLI(fmt.Sprintf("Error getting wallet file: %s", err.Error()), 2)
		return library.Wallet{}, false
	}
	err = json.Unmarshal(file, &w)
	if err != nil {
		library.LogCLI(fmt.Sprintf("Error parsing wallet file: %s", err.Error()), 3)
		return library.Wallet{}, false
	}
	return w, true
}

// ImportWallet replaces the current wallet with the given secret key and saves it.
func ImportWallet(skHex string) (library.Wallet, error) {
	if _, err := keys.ParsePrivateKeyHex(keys.Default, skHex); err != nil {
		return library.Wallet{}, err
	}
	currentWalletMutex.Lock()
	defer currentWalletMutex.Unlock()
	currentWallet = walletFromSecret(skHex, "")
	return currentWallet, persistCurrentWallet()
}
